package scheduler

import (
	"math/rand"

	"github.com/getlantern/deepcopy"
	"github.com/leanovate/gopter"

	"github.com/ohsu-comp-bio/accelfit/placement"
)

var (
	genClasses = []string{"AICHIP", "FPGA", "VGPU"}
	genTraits  = []string{"CUSTOM_FURIOSA_0000", "CUSTOM_FURIOSA_0001", "HW_GPU_API_CUDA"}
)

// fitCase is a random host and a random demand group.
type fitCase struct {
	Providers []*placement.Provider
	Group     DemandGroup
}

func (c *fitCase) tree() *placement.Tree {
	tree, err := placement.NewTree("host", cloneProviders(c.Providers))
	if err != nil {
		panic(err)
	}
	return tree
}

func cloneProviders(ps []*placement.Provider) []*placement.Provider {
	var out []*placement.Provider
	if err := deepcopy.Copy(&out, ps); err != nil {
		panic(err)
	}
	return out
}

func randomSubset(rng *rand.Rand, from []string) []string {
	var out []string
	for _, s := range from {
		if rng.Intn(2) == 0 {
			out = append(out, s)
		}
	}
	return out
}

func genRandomProviders(rng *rand.Rand) []*placement.Provider {
	ps := []*placement.Provider{{ID: "host"}}
	n := 1 + rng.Intn(6)
	for i := 0; i < n; i++ {
		p := &placement.Provider{
			ID:          string(rune('a' + i)),
			ParentID:    ps[rng.Intn(len(ps))].ID,
			Inventories: map[string]placement.Inventory{},
			Traits:      placement.NewTraits(randomSubset(rng, genTraits)...),
			Usages:      map[string]float64{},
		}
		for _, rc := range randomSubset(rng, genClasses) {
			total := float64(rng.Intn(11))
			reserved := float64(rng.Intn(int(total) + 1))
			p.Inventories[rc] = placement.Inventory{Total: total, Reserved: reserved}
			// Usage may exceed capacity.
			p.Usages[rc] = float64(rng.Intn(16))
		}
		ps = append(ps, p)
	}
	return ps
}

func genRandomGroup(rng *rand.Rand) DemandGroup {
	res := map[string]int{}
	for len(res) == 0 {
		for _, rc := range randomSubset(rng, genClasses) {
			res[rc] = 1 + rng.Intn(10)
		}
	}
	return NewDemandGroup(res, randomSubset(rng, genTraits)...)
}

// GopterGenFitCase generates a random provider tree and demand group.
func GopterGenFitCase() gopter.Gen {
	return func(genParams *gopter.GenParameters) *gopter.GenResult {
		c := &fitCase{
			Providers: genRandomProviders(genParams.Rng),
			Group:     genRandomGroup(genParams.Rng),
		}
		return gopter.NewGenResult(c, gopter.NoShrinker)
	}
}

// GopterGenGroups generates zero to three demand groups.
func GopterGenGroups() gopter.Gen {
	return func(genParams *gopter.GenParameters) *gopter.GenResult {
		n := genParams.Rng.Intn(4)
		groups := make([]DemandGroup, 0, n)
		for i := 0; i < n; i++ {
			groups = append(groups, genRandomGroup(genParams.Rng))
		}
		return gopter.NewGenResult(groups, gopter.NoShrinker)
	}
}
