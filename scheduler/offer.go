package scheduler

import (
	"sort"
)

// Offer describes how well one host fits a request.
type Offer struct {
	Host  string
	Score Score
	// Neutral is set when the host has no provider tree and was given a
	// neutral score without evaluation.
	Neutral bool
	Stats   *Stats
}

// NewOffer returns a new Offer instance.
func NewOffer(host string, s Score, stats *Stats) *Offer {
	return &Offer{
		Host:  host,
		Score: s,
		Stats: stats,
	}
}

// SortByScore sorts offers by descending score, Unmet hosts last. Offers
// with equal scores keep their relative order. This modifies the offers
// list in place.
func SortByScore(offers []*Offer) {
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Score > offers[j].Score
	})
}

// Best returns the offer with the highest score, or nil if there are no
// offers or every host is Unmet. Ties go to the earliest offer.
func Best(offers []*Offer) *Offer {
	var best *Offer
	for _, o := range offers {
		if o.Score.IsUnmet() {
			continue
		}
		if best == nil || o.Score > best.Score {
			best = o
		}
	}
	return best
}
