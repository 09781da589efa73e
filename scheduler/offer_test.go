package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func hosts(offers []*Offer) []string {
	var out []string
	for _, o := range offers {
		out = append(out, o.Host)
	}
	return out
}

func TestSortByScore(t *testing.T) {
	offers := []*Offer{
		NewOffer("a", Unmet, nil),
		NewOffer("b", 1, nil),
		NewOffer("c", 0, nil),
		NewOffer("d", 5, nil),
		NewOffer("e", 1, nil),
		NewOffer("f", -2, nil),
	}
	SortByScore(offers)
	assert.Equal(t, []string{"d", "b", "e", "c", "f", "a"}, hosts(offers))
}

func TestBest(t *testing.T) {
	assert.Nil(t, Best(nil))
	assert.Nil(t, Best([]*Offer{NewOffer("a", Unmet, nil), NewOffer("b", Unmet, nil)}))

	best := Best([]*Offer{
		NewOffer("a", Unmet, nil),
		NewOffer("b", -1, nil),
		NewOffer("c", 3, nil),
		NewOffer("d", 3, nil),
	})
	assert.Equal(t, "c", best.Host)

	best = Best([]*Offer{NewOffer("a", Unmet, nil), NewOffer("b", -4, nil)})
	assert.Equal(t, "b", best.Host)
}
