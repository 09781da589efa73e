package scheduler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/ohsu-comp-bio/accelfit/placement"
)

// RawGroup is one request group as a workload describes it. Resource
// amounts are untyped; they are validated by Extract.
type RawGroup struct {
	Resources      map[string]interface{} `json:"resources"`
	RequiredTraits []string               `json:"required_traits,omitempty"`
}

// Request is the resource demand of a workload.
type Request struct {
	Groups []RawGroup `json:"groups"`
}

// ParseRequest decodes a YAML or JSON request document. Numbers are kept
// as json.Number so that amounts keep their original form until Extract
// validates them.
func ParseRequest(raw []byte) (*Request, error) {
	js, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing request: %v", err)
	}
	dec := json.NewDecoder(bytes.NewReader(js))
	dec.UseNumber()
	req := &Request{}
	if err := dec.Decode(req); err != nil {
		return nil, fmt.Errorf("parsing request: %v", err)
	}
	return req, nil
}

// LoadRequestFile reads and decodes a request document from path.
func LoadRequestFile(path string) (*Request, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading request file: %v", err)
	}
	return ParseRequest(raw)
}

// DemandGroup is the accelerator demand of one request group: positive
// integral amounts per resource class, all of which must be placed on
// providers having every required trait.
type DemandGroup struct {
	Resources      map[string]int
	RequiredTraits placement.Traits
}

// NewDemandGroup returns a group demanding resources under the given traits.
func NewDemandGroup(resources map[string]int, traits ...string) DemandGroup {
	return DemandGroup{
		Resources:      resources,
		RequiredTraits: placement.NewTraits(traits...),
	}
}

// ResourceClasses returns the group's resource classes in sorted order.
func (g DemandGroup) ResourceClasses() []string {
	out := make([]string, 0, len(g.Resources))
	for rc := range g.Resources {
		out = append(out, rc)
	}
	sort.Strings(out)
	return out
}

// Empty reports whether the group demands nothing.
func (g DemandGroup) Empty() bool {
	return len(g.Resources) == 0
}

// RCMatcher selects the resource classes treated as accelerator demand.
// Matching ignores case.
type RCMatcher struct {
	re *regexp.Regexp
}

// NewRCMatcher compiles pattern into a case-insensitive matcher.
func NewRCMatcher(pattern string) (*RCMatcher, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling resource class pattern: %v", err)
	}
	return &RCMatcher{re: re}, nil
}

// Match reports whether rc is an accelerator resource class.
func (m *RCMatcher) Match(rc string) bool {
	return m.re.MatchString(rc)
}

func (m *RCMatcher) String() string {
	return m.re.String()
}

// ExtractStats counts what Extract kept and dropped.
type ExtractStats struct {
	GroupsSeen int
	// GroupsKept counts groups with at least one accelerator entry.
	GroupsKept int
	// GroupsSkipped counts groups with no accelerator entry left.
	GroupsSkipped int
	// InvalidAmounts counts accelerator entries dropped for a
	// non-positive or non-integral amount.
	InvalidAmounts int
}

// Extract turns raw request groups into accelerator demand groups,
// preserving their order. Entries whose class m doesn't match are ignored,
// entries with a malformed amount are dropped, and groups left empty are
// skipped. It never fails.
func Extract(raw []RawGroup, m *RCMatcher) ([]DemandGroup, ExtractStats) {
	var stats ExtractStats
	var out []DemandGroup

	for _, rg := range raw {
		stats.GroupsSeen++
		res := map[string]int{}
		for rc, v := range rg.Resources {
			if !m.Match(rc) {
				continue
			}
			amount, ok := parseAmount(v)
			if !ok {
				stats.InvalidAmounts++
				continue
			}
			res[rc] = amount
		}
		if len(res) == 0 {
			stats.GroupsSkipped++
			continue
		}
		stats.GroupsKept++

		traits := placement.Traits{}
		for _, t := range rg.RequiredTraits {
			if t = strings.TrimSpace(t); t != "" {
				traits[t] = struct{}{}
			}
		}
		out = append(out, DemandGroup{Resources: res, RequiredTraits: traits})
	}
	return out, stats
}

// Integral floats above maxExactInt are rejected before conversion.
const maxExactInt = 1 << 53

// parseAmount converts a requested amount to a positive int. Amounts
// beyond math.MaxInt32 are treated as malformed.
func parseAmount(v interface{}) (int, bool) {
	switch x := v.(type) {
	case int:
		return positive(int64(x))
	case int8:
		return positive(int64(x))
	case int16:
		return positive(int64(x))
	case int32:
		return positive(int64(x))
	case int64:
		return positive(x)
	case uint:
		return positiveUint(uint64(x))
	case uint8:
		return positiveUint(uint64(x))
	case uint16:
		return positiveUint(uint64(x))
	case uint32:
		return positiveUint(uint64(x))
	case uint64:
		return positiveUint(x)
	case float32:
		return integral(float64(x))
	case float64:
		return integral(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return positive(i)
		}
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return integral(f)
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, false
		}
		return positive(i)
	default:
		return 0, false
	}
}

func positive(i int64) (int, bool) {
	if i <= 0 || i > math.MaxInt32 {
		return 0, false
	}
	return int(i), true
}

func positiveUint(u uint64) (int, bool) {
	if u > math.MaxInt32 {
		return 0, false
	}
	return positive(int64(u))
}

func integral(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f > maxExactInt {
		return 0, false
	}
	return positive(int64(f))
}
