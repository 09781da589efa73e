package scheduler

import (
	"math"
	"strconv"
)

// Score describes how well a host fits a request. Higher is better.
type Score float64

// Unmet means the host cannot satisfy the request at all. It compares
// lower than every finite score.
var Unmet = Score(math.Inf(-1))

// IsUnmet reports whether s is the Unmet sentinel.
func (s Score) IsUnmet() bool {
	return math.IsInf(float64(s), -1)
}

// Weighted returns the score multiplied by m. Unmet stays Unmet whatever
// the multiplier, including zero and negative ones.
func (s Score) Weighted(m float64) Score {
	if s.IsUnmet() {
		return Unmet
	}
	return s * Score(m)
}

func (s Score) String() string {
	if s.IsUnmet() {
		return "UNMET"
	}
	return strconv.FormatFloat(float64(s), 'g', -1, 64)
}
