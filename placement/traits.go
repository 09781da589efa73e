package placement

import (
	"sort"
)

// Traits is a set of capability tags, e.g. "CUSTOM_FURIOSA_0000".
type Traits map[string]struct{}

// NewTraits returns a set holding the given traits.
func NewTraits(traits ...string) Traits {
	t := make(Traits, len(traits))
	for _, s := range traits {
		t[s] = struct{}{}
	}
	return t
}

// Has reports whether the set holds the trait.
func (t Traits) Has(trait string) bool {
	_, ok := t[trait]
	return ok
}

// IsSubsetOf reports whether every trait in t is also in other.
// The empty set is a subset of every set.
func (t Traits) IsSubsetOf(other Traits) bool {
	for s := range t {
		if !other.Has(s) {
			return false
		}
	}
	return true
}

// Missing returns the traits of t that other lacks, sorted.
func (t Traits) Missing(other Traits) []string {
	var out []string
	for s := range t {
		if !other.Has(s) {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// Sorted returns the traits as a sorted slice.
func (t Traits) Sorted() []string {
	out := make([]string, 0, len(t))
	for s := range t {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
