// Package scheduler scores compute hosts by how well their accelerator
// inventory fits a workload's demand.
package scheduler

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/ohsu-comp-bio/accelfit/config"
	"github.com/ohsu-comp-bio/accelfit/logger"
	"github.com/ohsu-comp-bio/accelfit/placement"
)

// Weigher scores provider trees against demand groups. It is immutable
// and safe for concurrent use.
type Weigher struct {
	policy     Policy
	epsilon    float64
	multiplier float64
	matcher    *RCMatcher
	trace      bool
	log        *logger.Logger
}

// NewWeigher validates conf and returns a weigher using it. log may be nil.
func NewWeigher(conf config.Weigher, log *logger.Logger) (*Weigher, error) {
	if err := config.ValidateWeigher(conf); err != nil {
		return nil, fmt.Errorf("invalid weigher config: %v", err)
	}
	policy, err := ParsePolicy(conf.Policy)
	if err != nil {
		return nil, err
	}
	matcher, err := NewRCMatcher(conf.RCPattern)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.New("weigher")
		log.Discard()
	}
	return &Weigher{
		policy:     policy,
		epsilon:    conf.Epsilon,
		multiplier: conf.Multiplier,
		matcher:    matcher,
		trace:      conf.Trace,
		log:        log,
	}, nil
}

// Policy returns the scoring policy.
func (w *Weigher) Policy() Policy {
	return w.policy
}

// Multiplier returns the factor applied to final scores.
func (w *Weigher) Multiplier() float64 {
	return w.multiplier
}

// Extract selects the accelerator demand of raw request groups using the
// weigher's resource class pattern.
func (w *Weigher) Extract(raw []RawGroup) ([]DemandGroup, ExtractStats) {
	return Extract(raw, w.matcher)
}

// Score returns how well tree fits groups.
func (w *Weigher) Score(tree *placement.Tree, groups []DemandGroup) Score {
	s, _ := w.ScoreWithStats(tree, groups)
	return s
}

// ScoreWithStats is Score, also returning diagnostics of the call.
func (w *Weigher) ScoreWithStats(tree *placement.Tree, groups []DemandGroup) (Score, *Stats) {
	e := newEvaluation()
	e.stats.Policy = w.policy.String()
	e.stats.Multiplier = w.multiplier
	if w.trace {
		e.log = w.log
	}
	s := w.score(e, tree, groups)
	e.stats.Score = s
	return s, e.stats
}

// ScoreRequest extracts the demand of req and scores tree against it.
func (w *Weigher) ScoreRequest(tree *placement.Tree, req *Request) (Score, *Stats) {
	groups, es := w.Extract(req.Groups)
	s, st := w.ScoreWithStats(tree, groups)
	st.AddExtract(es)
	return s, st
}

func (w *Weigher) score(e *evaluation, tree *placement.Tree, groups []DemandGroup) Score {
	if tree.Root() == nil {
		e.trace("No root provider, neutral score")
		return 0
	}

	var demand []DemandGroup
	for _, g := range groups {
		if !g.Empty() {
			demand = append(demand, g)
		}
	}
	if len(demand) == 0 {
		e.trace("No accelerator demand, neutral score")
		return 0
	}

	unmet := false
	fits := make([]GroupFit, 0, len(demand))
	for i, g := range demand {
		fit := e.group(tree, g, w.epsilon)
		fits = append(fits, fit)
		e.stats.GroupSlacks = append(e.stats.GroupSlacks, float64(fit.Slack))
		e.stats.GroupProducts = append(e.stats.GroupProducts, fit.Product)
		if fit.Unmet {
			e.stats.ProductUnmetGroups++
		}
		e.trace("Group fit", "group", i, "slack", fit.Slack.String(), "product", fit.Product, "unmet", fit.Unmet)

		if fit.Slack.IsUnmet() || (w.policy == ProductFit && fit.Unmet) {
			unmet = true
		}
	}
	if unmet {
		return Unmet
	}

	parts := make([]float64, 0, len(fits))
	for _, fit := range fits {
		switch w.policy {
		case ProductFit:
			parts = append(parts, fit.Product)
		default:
			if fit.Slack > 0 {
				parts = append(parts, float64(fit.Slack))
			}
		}
	}
	return Score(floats.Sum(parts)).Weighted(w.multiplier)
}
