package scheduler

import (
	"errors"

	"github.com/ohsu-comp-bio/accelfit/logger"
	"github.com/ohsu-comp-bio/accelfit/placement"
)

// evaluation carries the diagnostics of one scoring call. log is nil
// unless tracing is enabled.
type evaluation struct {
	stats *Stats
	log   *logger.Logger
}

func newEvaluation() *evaluation {
	return &evaluation{stats: &Stats{}}
}

func (e *evaluation) trace(msg string, args ...interface{}) {
	if e.log != nil {
		e.log.Debug(msg, args...)
	}
}

// TotalFree returns the free units of rc summed over every non-root
// provider which has inventory of rc and, when required is non-empty, all
// of the required traits. It is zero when no provider qualifies and
// never negative.
func TotalFree(tree *placement.Tree, rc string, required placement.Traits) float64 {
	return newEvaluation().totalFree(tree, rc, required)
}

func (e *evaluation) totalFree(tree *placement.Tree, rc string, required placement.Traits) float64 {
	total := 0.0
	for _, p := range tree.Providers() {
		e.stats.ProvidersIterated++

		if err := MatchProvider(p, rc, required, DefaultProviderPredicates); err != nil {
			switch {
			case errors.Is(err, ErrNoInventory):
				e.stats.SkippedNoInventory++
			case errors.Is(err, ErrMissingTraits):
				e.stats.SkippedTraits++
			}
			e.trace("Skipping provider", "provider", p.ID, "rc", rc, "reason", err.Error())
			continue
		}

		free := p.FreeUnits(rc)
		if free > 0 {
			e.stats.FreeContribs++
		}
		total += free
		e.trace("Provider free capacity", "provider", p.ID, "rc", rc, "free", free, "total", total)
	}
	return total
}
