// Package placement models the resource provider hierarchy of a compute
// host and acquires snapshots of it from a placement service or from files.
package placement

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/hashicorp/go-multierror"
)

// ErrNotFound is returned when a provider id is absent from a tree.
var ErrNotFound = errors.New("resource provider not found")

// Inventory is the capacity of one resource class on one provider.
type Inventory struct {
	Total    float64 `json:"total"`
	Reserved float64 `json:"reserved"`
}

// Provider is one node of a resource provider hierarchy, e.g. an
// accelerator device or a NIC under a compute host.
type Provider struct {
	ID string
	// ParentID is empty for the root provider.
	ParentID    string
	Inventories map[string]Inventory
	Traits      Traits
	// Usages holds consumed units per resource class. Classes without
	// usage may be absent.
	Usages map[string]float64
}

// HasResourceClass reports whether the provider has inventory of rc.
func (p *Provider) HasResourceClass(rc string) bool {
	_, ok := p.Inventories[rc]
	return ok
}

// FreeUnits returns the unused, unreserved units of rc on this provider,
// using the provider's own usage record.
func (p *Provider) FreeUnits(rc string) float64 {
	return p.FreeUnitsWithUsage(rc, p.Usages)
}

// FreeUnitsWithUsage returns max(total - reserved - used, 0) for rc, where
// used comes from usage (nil means the provider's own record). A provider
// whose usage exceeds its capacity contributes zero, never a negative amount.
func (p *Provider) FreeUnitsWithUsage(rc string, usage map[string]float64) float64 {
	inv, ok := p.Inventories[rc]
	if !ok {
		return 0
	}
	if usage == nil {
		usage = p.Usages
	}
	free := inv.Total - inv.Reserved - usage[rc]
	if !(free > 0) {
		return 0
	}
	return free
}

// Tree is an immutable snapshot of a host's resource provider hierarchy.
// It is safe for concurrent use.
type Tree struct {
	root      *Provider
	providers map[string]*Provider
	// ordered holds the non-root providers, breadth-first from the root
	// with siblings ordered by id.
	ordered []*Provider
}

// NewTree validates the providers and builds a tree rooted at rootID.
// Every provider must descend from the root, parent references must stay
// inside the tree, and inventories must satisfy 0 <= reserved <= total.
// All problems found are returned together.
func NewTree(rootID string, providers []*Provider) (*Tree, error) {
	var errs *multierror.Error

	byID := make(map[string]*Provider, len(providers))
	for _, p := range providers {
		if p == nil {
			continue
		}
		if p.ID == "" {
			errs = multierror.Append(errs, errors.New("provider with empty id"))
			continue
		}
		if _, dup := byID[p.ID]; dup {
			errs = multierror.Append(errs, fmt.Errorf("duplicate provider id %s", p.ID))
			continue
		}
		byID[p.ID] = p
		errs = multierror.Append(errs, validateProvider(p)...)
	}

	root, ok := byID[rootID]
	switch {
	case rootID == "":
		errs = multierror.Append(errs, errors.New("missing root provider id"))
	case !ok:
		errs = multierror.Append(errs, fmt.Errorf("root provider %s: %w", rootID, ErrNotFound))
	case root.ParentID != "":
		errs = multierror.Append(errs, fmt.Errorf("root provider %s has parent %s", rootID, root.ParentID))
	}

	children := map[string][]*Provider{}
	for _, p := range byID {
		if p.ID == rootID {
			continue
		}
		if p.ParentID == "" {
			errs = multierror.Append(errs, fmt.Errorf("provider %s is a second root", p.ID))
			continue
		}
		if _, ok := byID[p.ParentID]; !ok {
			errs = multierror.Append(errs, fmt.Errorf("provider %s references parent %s outside the tree", p.ID, p.ParentID))
			continue
		}
		children[p.ParentID] = append(children[p.ParentID], p)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	ordered := make([]*Provider, 0, len(byID)-1)
	queue := []string{rootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		kids := children[id]
		sort.Slice(kids, func(i, j int) bool { return kids[i].ID < kids[j].ID })
		for _, k := range kids {
			ordered = append(ordered, k)
			queue = append(queue, k.ID)
		}
	}

	// Providers caught in a parent cycle are never reached from the root.
	if len(ordered) != len(byID)-1 {
		reached := map[string]bool{rootID: true}
		for _, p := range ordered {
			reached[p.ID] = true
		}
		var unreached []string
		for id := range byID {
			if !reached[id] {
				unreached = append(unreached, id)
			}
		}
		sort.Strings(unreached)
		return nil, fmt.Errorf("providers not descended from root %s: %v", rootID, unreached)
	}

	return &Tree{root: root, providers: byID, ordered: ordered}, nil
}

func validateProvider(p *Provider) []error {
	var errs []error
	rcs := make([]string, 0, len(p.Inventories))
	for rc := range p.Inventories {
		rcs = append(rcs, rc)
	}
	sort.Strings(rcs)
	for _, rc := range rcs {
		inv := p.Inventories[rc]
		switch {
		case !validAmount(inv.Total) || !validAmount(inv.Reserved):
			errs = append(errs, fmt.Errorf("provider %s: %s inventory must be non-negative, got total=%v reserved=%v", p.ID, rc, inv.Total, inv.Reserved))
		case inv.Reserved > inv.Total:
			errs = append(errs, fmt.Errorf("provider %s: %s reserved %v exceeds total %v", p.ID, rc, inv.Reserved, inv.Total))
		}
	}
	for rc, used := range p.Usages {
		if !validAmount(used) {
			errs = append(errs, fmt.Errorf("provider %s: %s usage must be non-negative, got %v", p.ID, rc, used))
		}
	}
	return errs
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

// Root returns the root (compute host) provider.
func (t *Tree) Root() *Provider {
	if t == nil {
		return nil
	}
	return t.root
}

// Providers returns every non-root provider in a deterministic order:
// breadth-first from the root, siblings ordered by id.
// The returned slice must not be modified.
func (t *Tree) Providers() []*Provider {
	if t == nil {
		return nil
	}
	return t.ordered
}

// Len returns the number of providers in the tree, including the root.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.providers)
}

// Lookup returns the provider with the given id.
func (t *Tree) Lookup(id string) (*Provider, error) {
	if t != nil {
		if p, ok := t.providers[id]; ok {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}
