package placement

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ghodss/yaml"
)

// ErrNoRootProvider is returned when a host has no root resource provider,
// i.e. there is no inventory data to evaluate the host with.
var ErrNoRootProvider = errors.New("no root resource provider for host")

// Snapshot is the serialized form of a Tree, as stored in YAML or JSON files.
type Snapshot struct {
	Root      string             `json:"root"`
	Providers []ProviderSnapshot `json:"providers"`
}

// ProviderSnapshot is the serialized form of a Provider.
type ProviderSnapshot struct {
	ID          string               `json:"id"`
	Parent      string               `json:"parent,omitempty"`
	Inventories map[string]Inventory `json:"inventories,omitempty"`
	Traits      []string             `json:"traits,omitempty"`
	Usages      map[string]float64   `json:"usages,omitempty"`
}

// ParseSnapshot parses a YAML or JSON snapshot document.
func ParseSnapshot(raw []byte) (*Snapshot, error) {
	s := &Snapshot{}
	if err := yaml.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %v", err)
	}
	return s, nil
}

// Tree validates the snapshot and builds a Tree from it.
func (s *Snapshot) Tree() (*Tree, error) {
	providers := make([]*Provider, 0, len(s.Providers))
	for _, ps := range s.Providers {
		providers = append(providers, &Provider{
			ID:          ps.ID,
			ParentID:    ps.Parent,
			Inventories: ps.Inventories,
			Traits:      NewTraits(ps.Traits...),
			Usages:      ps.Usages,
		})
	}
	return NewTree(s.Root, providers)
}

// NewSnapshot serializes a tree, root first, then in Providers() order.
func NewSnapshot(t *Tree) *Snapshot {
	s := &Snapshot{}
	if t == nil || t.Root() == nil {
		return s
	}
	s.Root = t.Root().ID
	all := append([]*Provider{t.Root()}, t.Providers()...)
	for _, p := range all {
		s.Providers = append(s.Providers, ProviderSnapshot{
			ID:          p.ID,
			Parent:      p.ParentID,
			Inventories: p.Inventories,
			Traits:      p.Traits.Sorted(),
			Usages:      p.Usages,
		})
	}
	return s
}

// ToYaml formats the snapshot as YAML.
func (s *Snapshot) ToYaml() ([]byte, error) {
	return yaml.Marshal(s)
}

// LoadSnapshotFile reads a snapshot file and builds a Tree from it.
func LoadSnapshotFile(path string) (*Tree, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := ParseSnapshot(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	tree, err := s.Tree()
	if err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	return tree, nil
}

// FileSource reads host snapshots from a directory holding one file per
// host, named <host>.yaml, <host>.yml, or <host>.json.
type FileSource struct {
	Dir string
}

var snapshotExts = []string{".yaml", ".yml", ".json"}

// Snapshot loads the snapshot of the given host. A host without a file
// has no root provider.
func (f *FileSource) Snapshot(ctx context.Context, host string) (*Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if host == "" || host != filepath.Base(host) {
		return nil, fmt.Errorf("invalid host name %q", host)
	}
	for _, ext := range snapshotExts {
		p := filepath.Join(f.Dir, host+ext)
		if _, err := os.Stat(p); err == nil {
			return LoadSnapshotFile(p)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoRootProvider, host)
}
