package similarity

import (
	"github.com/ciadlab/publication-service/internal/domain"
)

// DefaultTitleThreshold is the default acceptance threshold for deciding
// that two publication titles are similar enough to denote the same work.
// It is lower than the person-name threshold: titles are longer and more
// distinguishing per character.
const DefaultTitleThreshold = 0.7

// Comparator decides whether two whole publication records denote the same
// work, composing title scoring, venue identity, and author-list comparison.
// It is stateless after construction and safe for concurrent use.
type Comparator struct {
	titleThreshold float64
	persons        *PersonComparator
}

// Config holds the tunable thresholds of the comparison engine. Exact
// numeric thresholds are configuration, not algorithm.
type Config struct {
	// TitleThreshold is the minimum Dice score for two titles to be
	// considered similar (e.g. 0.7).
	TitleThreshold float64

	// NameThreshold is the minimum Dice score for two person names to be
	// considered the same individual (e.g. 0.8).
	NameThreshold float64
}

// DefaultConfig returns the default comparison thresholds.
func DefaultConfig() Config {
	return Config{
		TitleThreshold: DefaultTitleThreshold,
		NameThreshold:  DefaultNameThreshold,
	}
}

// NewComparator creates a publication comparator with the given thresholds.
// Thresholds outside (0, 1] fall back to the defaults.
func NewComparator(cfg Config) *Comparator {
	tt := cfg.TitleThreshold
	if tt <= 0 || tt > 1 {
		tt = DefaultTitleThreshold
	}
	return &Comparator{
		titleThreshold: tt,
		persons:        NewPersonComparator(cfg.NameThreshold),
	}
}

// Persons returns the person-name comparator used for author matching.
func (c *Comparator) Persons() *PersonComparator {
	return c.persons
}

// TitleSimilarity returns the raw Dice score of two titles, exposed for UI
// hints and diagnostics (e.g. showing a percentage match to a reviewer).
func (c *Comparator) TitleSimilarity(a, b string) float64 {
	return Score(a, b)
}

// TitlesSimilar reports whether two titles are similar enough to denote the
// same work. The database-side candidate query uses a coarser trigram
// definition of similarity; this is the precise in-memory check used to
// re-verify its results.
func (c *Comparator) TitlesSimilar(a, b string) bool {
	return Score(a, b) >= c.titleThreshold
}

// AuthorsEquivalent reports whether two author lists denote the same people.
func (c *Comparator) AuthorsEquivalent(a, b []domain.Person) bool {
	return AuthorListsEquivalent(c.persons, a, b)
}
