package scheduler

import (
	"fmt"

	"github.com/ohsu-comp-bio/accelfit/config"
)

// Policy selects how per-class slacks are combined into group and host scores.
type Policy int

const (
	// SumFit sums slacks. Spare capacity on one class can compensate for
	// tightness on another, and a tight group only stops contributing
	// instead of failing the host.
	SumFit Policy = iota
	// ProductFit multiplies (slack + epsilon). It prefers balanced headroom
	// and fails the host as soon as any requested class cannot be met.
	ProductFit
)

// ParsePolicy returns the policy with the given config name.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case config.SumFitPolicy:
		return SumFit, nil
	case config.ProductFitPolicy:
		return ProductFit, nil
	default:
		return SumFit, fmt.Errorf("unknown scoring policy: %q", name)
	}
}

func (p Policy) String() string {
	switch p {
	case SumFit:
		return config.SumFitPolicy
	case ProductFit:
		return config.ProductFitPolicy
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}
