package scheduler

import (
	"errors"
	"fmt"

	"github.com/ohsu-comp-bio/accelfit/placement"
)

// Reasons a provider is left out of a capacity sum.
var (
	ErrNoInventory   = errors.New("no inventory of resource class")
	ErrMissingTraits = errors.New("missing required traits")
)

// ProviderPredicate checks whether a provider may contribute capacity of
// resource class rc to a group requiring the given traits.
type ProviderPredicate func(p *placement.Provider, rc string, required placement.Traits) error

// HasInventory requires the provider to hold inventory of rc.
func HasInventory(p *placement.Provider, rc string, required placement.Traits) error {
	if !p.HasResourceClass(rc) {
		return fmt.Errorf("%w: %s", ErrNoInventory, rc)
	}
	return nil
}

// TraitsSatisfied requires the provider to have every required trait.
// Having only some of them counts the same as having none.
func TraitsSatisfied(p *placement.Provider, rc string, required placement.Traits) error {
	if len(required) == 0 || required.IsSubsetOf(p.Traits) {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrMissingTraits, required.Missing(p.Traits))
}

// DefaultProviderPredicates decide which providers count towards the free
// capacity of a resource class.
var DefaultProviderPredicates = []ProviderPredicate{
	HasInventory,
	TraitsSatisfied,
}

// MatchProvider returns the error of the first predicate the provider
// fails, or nil if it passes them all.
func MatchProvider(p *placement.Provider, rc string, required placement.Traits, predicates []ProviderPredicate) error {
	for _, pred := range predicates {
		if err := pred(p, rc, required); err != nil {
			return err
		}
	}
	return nil
}
