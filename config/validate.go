package config

import (
	"fmt"
	"math"
	"regexp"

	"github.com/hashicorp/go-multierror"
)

// Validate checks the configuration and returns every problem found.
func Validate(c Config) error {
	var errs *multierror.Error

	if err := ValidateWeigher(c.Weigher); err != nil {
		errs = multierror.Append(errs, err)
	}

	if c.Placement.MaxRetries < 0 {
		errs = multierror.Append(errs, fmt.Errorf("Placement.MaxRetries must not be negative: %d", c.Placement.MaxRetries))
	}
	if c.Placement.RequestsPerSecond <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("Placement.RequestsPerSecond must be positive: %v", c.Placement.RequestsPerSecond))
	}
	if c.Placement.Timeout < 0 {
		errs = multierror.Append(errs, fmt.Errorf("Placement.Timeout must not be negative"))
	}
	if c.Ranker.Parallelism < 1 {
		errs = multierror.Append(errs, fmt.Errorf("Ranker.Parallelism must be at least 1: %d", c.Ranker.Parallelism))
	}
	if c.Ranker.Timeout < 0 {
		errs = multierror.Append(errs, fmt.Errorf("Ranker.Timeout must not be negative"))
	}

	return errs.ErrorOrNil()
}

// ValidateWeigher checks the scoring configuration.
func ValidateWeigher(w Weigher) error {
	var errs *multierror.Error

	if _, err := regexp.Compile(w.RCPattern); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("Weigher.RCPattern is invalid: %v", err))
	}
	switch w.Policy {
	case SumFitPolicy, ProductFitPolicy:
	default:
		errs = multierror.Append(errs, fmt.Errorf(
			"Weigher.Policy must be %q or %q, got %q", SumFitPolicy, ProductFitPolicy, w.Policy,
		))
	}
	if !(w.Epsilon > 0) || math.IsInf(w.Epsilon, 0) {
		errs = multierror.Append(errs, fmt.Errorf("Weigher.Epsilon must be a positive number: %v", w.Epsilon))
	}
	if math.IsNaN(w.Multiplier) || math.IsInf(w.Multiplier, 0) {
		errs = multierror.Append(errs, fmt.Errorf("Weigher.Multiplier must be finite: %v", w.Multiplier))
	}

	return errs.ErrorOrNil()
}
