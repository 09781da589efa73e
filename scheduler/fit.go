package scheduler

import (
	"gonum.org/v1/gonum/floats"

	"github.com/ohsu-comp-bio/accelfit/config"
	"github.com/ohsu-comp-bio/accelfit/placement"
)

// GroupFit is how well a tree fits one demand group.
type GroupFit struct {
	// Slack is the sum of per-class slacks (free - requested), or Unmet
	// for a group without resource classes.
	Slack Score
	// Product is the product of (slack + epsilon) over all classes, and
	// exactly zero when Unmet is set.
	Product float64
	// Unmet is set when some class has negative slack.
	Unmet bool
}

// GroupSlack returns the sum over the group's classes of the free capacity
// minus the requested amount. A group without classes is Unmet.
func GroupSlack(tree *placement.Tree, g DemandGroup) Score {
	return newEvaluation().group(tree, g, config.DefaultEpsilon).Slack
}

// GroupProduct returns the product over the group's classes of
// (slack + epsilon), or 0 as soon as one class has negative slack.
func GroupProduct(tree *placement.Tree, g DemandGroup, epsilon float64) float64 {
	return newEvaluation().group(tree, g, epsilon).Product
}

// EvaluateGroup computes slack and product of a group in one pass.
func EvaluateGroup(tree *placement.Tree, g DemandGroup, epsilon float64) GroupFit {
	return newEvaluation().group(tree, g, epsilon)
}

func (e *evaluation) group(tree *placement.Tree, g DemandGroup, epsilon float64) GroupFit {
	if g.Empty() {
		return GroupFit{Slack: Unmet, Product: 1}
	}

	rcs := g.ResourceClasses()
	slacks := make([]float64, 0, len(rcs))
	terms := make([]float64, 0, len(rcs))
	unmet := false

	for _, rc := range rcs {
		free := e.totalFree(tree, rc, g.RequiredTraits)
		slack := free - float64(g.Resources[rc])
		slacks = append(slacks, slack)
		if slack < 0 {
			unmet = true
		}
		if !unmet {
			terms = append(terms, slack+epsilon)
		}
		e.trace("Resource class slack",
			"rc", rc,
			"requested", g.Resources[rc],
			"free", free,
			"slack", slack,
			"traits", g.RequiredTraits.Sorted(),
		)
	}

	fit := GroupFit{Slack: Score(floats.Sum(slacks)), Unmet: unmet}
	if !unmet {
		fit.Product = floats.Prod(terms)
	}
	return fit
}
