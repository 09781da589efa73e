package scheduler

// Stats describes one scoring call: what was extracted, which providers
// were considered, and how every group fared.
type Stats struct {
	Policy     string
	Multiplier float64

	GroupsSeen     int
	GroupsAccel    int
	GroupsSkipped  int
	InvalidAmounts int

	ProvidersIterated  int
	SkippedNoInventory int
	SkippedTraits      int
	// FreeContribs counts providers which added a positive amount of
	// free capacity.
	FreeContribs int
	// ProductUnmetGroups counts groups with a negative-slack class.
	ProductUnmetGroups int

	GroupSlacks   []float64
	GroupProducts []float64

	Score Score
}

// AddExtract records the outcome of request extraction.
func (s *Stats) AddExtract(es ExtractStats) {
	s.GroupsSeen += es.GroupsSeen
	s.GroupsAccel += es.GroupsKept
	s.GroupsSkipped += es.GroupsSkipped
	s.InvalidAmounts += es.InvalidAmounts
}

// LogFields returns the stats as logger key-value pairs.
func (s *Stats) LogFields() []interface{} {
	return []interface{}{
		"policy", s.Policy,
		"multiplier", s.Multiplier,
		"groups_seen", s.GroupsSeen,
		"groups_accel", s.GroupsAccel,
		"groups_skipped", s.GroupsSkipped,
		"invalid_amounts", s.InvalidAmounts,
		"providers_iterated", s.ProvidersIterated,
		"skipped_no_inventory", s.SkippedNoInventory,
		"skipped_traits", s.SkippedTraits,
		"free_contribs", s.FreeContribs,
		"product_unmet_groups", s.ProductUnmetGroups,
		"group_slacks", s.GroupSlacks,
		"group_products", s.GroupProducts,
		"score", s.Score.String(),
	}
}
