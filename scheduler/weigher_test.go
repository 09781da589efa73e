package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohsu-comp-bio/accelfit/config"
	"github.com/ohsu-comp-bio/accelfit/placement"
)

func testWeigher(t *testing.T, policy string) *Weigher {
	conf := config.DefaultConfig().Weigher
	conf.Policy = policy
	w, err := NewWeigher(conf, nil)
	require.NoError(t, err)
	return w
}

// hostTree returns a tree with the given providers under a "host" root.
func hostTree(t *testing.T, providers ...*placement.Provider) *placement.Tree {
	ps := []*placement.Provider{{ID: "host"}}
	for _, p := range providers {
		if p.ParentID == "" {
			p.ParentID = "host"
		}
		ps = append(ps, p)
	}
	tree, err := placement.NewTree("host", ps)
	require.NoError(t, err)
	return tree
}

func furiosa(t *testing.T) *placement.Tree {
	return hostTree(t, &placement.Provider{
		ID:          "npu0",
		Inventories: map[string]placement.Inventory{"AICHIP": {Total: 4}},
		Usages:      map[string]float64{"AICHIP": 1},
		Traits:      placement.NewTraits("CUSTOM_FURIOSA_0000"),
	})
}

func TestScoreSatisfiedGroup(t *testing.T) {
	tree := furiosa(t)
	g := NewDemandGroup(map[string]int{"AICHIP": 2}, "CUSTOM_FURIOSA_0000")

	assert.Equal(t, 3.0, TotalFree(tree, "AICHIP", g.RequiredTraits))
	assert.Equal(t, Score(1), GroupSlack(tree, g))

	assert.Equal(t, Score(1.0), testWeigher(t, config.SumFitPolicy).Score(tree, []DemandGroup{g}))
	eps := config.DefaultEpsilon
	assert.Equal(t, Score(1.0+eps), testWeigher(t, config.ProductFitPolicy).Score(tree, []DemandGroup{g}))
}

func TestScoreMissingTrait(t *testing.T) {
	tree := furiosa(t)
	g := NewDemandGroup(map[string]int{"AICHIP": 2}, "CUSTOM_FURIOSA_0001")

	assert.Equal(t, 0.0, TotalFree(tree, "AICHIP", g.RequiredTraits))
	assert.Equal(t, Score(-2), GroupSlack(tree, g))
	assert.Equal(t, 0.0, GroupProduct(tree, g, config.DefaultEpsilon))

	assert.Equal(t, Score(0), testWeigher(t, config.SumFitPolicy).Score(tree, []DemandGroup{g}))
	assert.True(t, testWeigher(t, config.ProductFitPolicy).Score(tree, []DemandGroup{g}).IsUnmet())
}

func TestScoreExcludesNonMatchingProvider(t *testing.T) {
	tree := hostTree(t,
		&placement.Provider{
			ID:          "npu0",
			Inventories: map[string]placement.Inventory{"AICHIP": {Total: 1}},
			Traits:      placement.NewTraits("CUSTOM_FURIOSA_0000"),
		},
		&placement.Provider{
			ID:          "npu1",
			Inventories: map[string]placement.Inventory{"AICHIP": {Total: 100}},
			Traits:      placement.NewTraits("CUSTOM_OTHER"),
		},
	)
	g := NewDemandGroup(map[string]int{"AICHIP": 2}, "CUSTOM_FURIOSA_0000")

	assert.Equal(t, 1.0, TotalFree(tree, "AICHIP", g.RequiredTraits))
	assert.Equal(t, Score(-1), GroupSlack(tree, g))
}

func TestScoreProductFitAnyUnmetGroup(t *testing.T) {
	tree := hostTree(t,
		&placement.Provider{
			ID:          "fpga0",
			Inventories: map[string]placement.Inventory{"FPGA": {Total: 6}},
		},
		&placement.Provider{
			ID:          "gpu0",
			Inventories: map[string]placement.Inventory{"VGPU": {Total: 1}},
		},
	)
	groups := []DemandGroup{
		NewDemandGroup(map[string]int{"FPGA": 1}),
		NewDemandGroup(map[string]int{"VGPU": 4}),
	}
	assert.Equal(t, Score(5), GroupSlack(tree, groups[0]))
	assert.Equal(t, Score(-3), GroupSlack(tree, groups[1]))

	assert.True(t, testWeigher(t, config.ProductFitPolicy).Score(tree, groups).IsUnmet())
	assert.Equal(t, Score(5), testWeigher(t, config.SumFitPolicy).Score(tree, groups))
}

func TestScoreNoDemand(t *testing.T) {
	tree := furiosa(t)
	for _, policy := range []string{config.SumFitPolicy, config.ProductFitPolicy} {
		w := testWeigher(t, policy)
		assert.Equal(t, Score(0), w.Score(tree, nil), policy)
		assert.Equal(t, Score(0), w.Score(tree, []DemandGroup{}), policy)
	}
}

func TestScoreNoRootProvider(t *testing.T) {
	g := NewDemandGroup(map[string]int{"AICHIP": 2})
	for _, policy := range []string{config.SumFitPolicy, config.ProductFitPolicy} {
		assert.Equal(t, Score(0), testWeigher(t, policy).Score(nil, []DemandGroup{g}), policy)
	}
}

func TestGroupSlackEmptyGroupIsUnmet(t *testing.T) {
	assert.True(t, GroupSlack(furiosa(t), NewDemandGroup(nil)).IsUnmet())
}

func TestScoreMultiplier(t *testing.T) {
	tree := furiosa(t)
	g := NewDemandGroup(map[string]int{"AICHIP": 1})

	conf := config.DefaultConfig().Weigher
	conf.Multiplier = 2.5
	w, err := NewWeigher(conf, nil)
	require.NoError(t, err)
	assert.Equal(t, Score(5), w.Score(tree, []DemandGroup{g}))

	conf.Policy = config.ProductFitPolicy
	conf.Multiplier = -1
	w, err = NewWeigher(conf, nil)
	require.NoError(t, err)
	unmet := NewDemandGroup(map[string]int{"AICHIP": 9})
	assert.True(t, w.Score(tree, []DemandGroup{unmet}).IsUnmet())
}

func TestScoreSumsGroupsAcrossClasses(t *testing.T) {
	tree := hostTree(t,
		&placement.Provider{
			ID:          "numa0",
			Inventories: map[string]placement.Inventory{"VCPU": {Total: 32}},
		},
		&placement.Provider{
			ID:          "npu0",
			ParentID:    "numa0",
			Inventories: map[string]placement.Inventory{"AICHIP": {Total: 8, Reserved: 2}},
		},
		&placement.Provider{
			ID:          "nic0",
			ParentID:    "numa0",
			Inventories: map[string]placement.Inventory{"NIC": {Total: 2}},
			Usages:      map[string]float64{"NIC": 1},
		},
	)
	groups := []DemandGroup{
		NewDemandGroup(map[string]int{"AICHIP": 4, "NIC": 1}),
		NewDemandGroup(map[string]int{"NIC": 3}),
	}

	sum, stats := testWeigher(t, config.SumFitPolicy).ScoreWithStats(tree, groups)
	// (6-4) + (1-1) for the first group; the second is negative and ignored.
	assert.Equal(t, Score(2), sum)
	assert.Equal(t, []float64{2, -2}, stats.GroupSlacks)
	assert.Equal(t, 1, stats.ProductUnmetGroups)
	assert.Equal(t, config.SumFitPolicy, stats.Policy)
	assert.Equal(t, Score(2), stats.Score)

	product := testWeigher(t, config.ProductFitPolicy)
	assert.True(t, product.Score(tree, groups).IsUnmet())
	eps := config.DefaultEpsilon
	assert.Equal(t, Score((2+eps)*(0+eps)), product.Score(tree, groups[:1]))
}

func TestScoreStatsCountsSkippedProviders(t *testing.T) {
	tree := hostTree(t,
		&placement.Provider{
			ID:          "npu0",
			Inventories: map[string]placement.Inventory{"AICHIP": {Total: 4}},
			Traits:      placement.NewTraits("CUSTOM_FURIOSA_0000"),
		},
		&placement.Provider{
			ID:          "npu1",
			Inventories: map[string]placement.Inventory{"AICHIP": {Total: 4}},
		},
		&placement.Provider{
			ID:          "numa0",
			Inventories: map[string]placement.Inventory{"VCPU": {Total: 4}},
		},
	)
	g := NewDemandGroup(map[string]int{"AICHIP": 1}, "CUSTOM_FURIOSA_0000")

	_, stats := testWeigher(t, config.SumFitPolicy).ScoreWithStats(tree, []DemandGroup{g})
	assert.Equal(t, 3, stats.ProvidersIterated)
	assert.Equal(t, 1, stats.SkippedNoInventory)
	assert.Equal(t, 1, stats.SkippedTraits)
	assert.Equal(t, 1, stats.FreeContribs)
}

func TestScoreRequest(t *testing.T) {
	req := &Request{Groups: []RawGroup{
		{Resources: map[string]interface{}{"VCPU": 4, "aichip": 2, "NIC": -1}},
		{Resources: map[string]interface{}{"MEMORY_MB": 1024}},
	}}
	tree := hostTree(t, &placement.Provider{
		ID:          "npu0",
		Inventories: map[string]placement.Inventory{"aichip": {Total: 4}},
	})

	s, stats := testWeigher(t, config.SumFitPolicy).ScoreRequest(tree, req)
	assert.Equal(t, Score(2), s)
	assert.Equal(t, 2, stats.GroupsSeen)
	assert.Equal(t, 1, stats.GroupsAccel)
	assert.Equal(t, 1, stats.GroupsSkipped)
	assert.Equal(t, 1, stats.InvalidAmounts)
}

func TestNewWeigherRejectsInvalidConfig(t *testing.T) {
	conf := config.DefaultConfig().Weigher
	conf.Policy = "best-fit"
	_, err := NewWeigher(conf, nil)
	assert.Error(t, err)

	conf = config.DefaultConfig().Weigher
	conf.RCPattern = "(AICHIP"
	_, err = NewWeigher(conf, nil)
	assert.Error(t, err)
}

func TestScoreString(t *testing.T) {
	assert.Equal(t, "UNMET", Unmet.String())
	assert.Equal(t, "1.5", Score(1.5).String())
	assert.True(t, Unmet.Weighted(0).IsUnmet())
	assert.Equal(t, Score(3), Score(1.5).Weighted(2))
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("product-fit")
	require.NoError(t, err)
	assert.Equal(t, ProductFit, p)
	assert.Equal(t, "product-fit", p.String())

	_, err = ParsePolicy("PRODUCT")
	assert.Error(t, err)
}
