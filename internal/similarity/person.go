package similarity

import (
	"github.com/ciadlab/publication-service/internal/domain"
)

// DefaultNameThreshold is the default acceptance threshold for deciding that
// two person names denote the same individual. It is set high to avoid false
// positives on short names; tune it through configuration rather than here.
const DefaultNameThreshold = 0.8

// PersonComparator decides whether two person references denote the same
// individual. It is usable standalone: person-identity resolution is a
// reusable concern, not something private to publication comparison.
//
// The comparator is stateless after construction and safe for concurrent use.
type PersonComparator struct {
	threshold float64
}

// NewPersonComparator creates a comparator with the given acceptance
// threshold. Thresholds outside (0, 1] fall back to DefaultNameThreshold.
func NewPersonComparator(threshold float64) *PersonComparator {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultNameThreshold
	}
	return &PersonComparator{threshold: threshold}
}

// Threshold returns the configured acceptance threshold.
func (c *PersonComparator) Threshold() float64 {
	return c.threshold
}

// Similarity returns the raw similarity score of two person references.
// Two references to the same stored person score 1.0 regardless of how the
// name is spelled; this models the common case where one person is cited
// with slightly different name forms. Otherwise the score is the Dice
// similarity of the name-normalized display names.
func (c *PersonComparator) Similarity(a, b domain.Person) float64 {
	if a.HasIdentity() && a.ID == b.ID {
		return 1.0
	}
	return Score(NormalizeName(a.Name), NormalizeName(b.Name))
}

// Match reports whether the two person references denote the same individual
// under the comparator's threshold.
func (c *PersonComparator) Match(a, b domain.Person) bool {
	return c.Similarity(a, b) >= c.threshold
}
