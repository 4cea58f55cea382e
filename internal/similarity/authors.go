package similarity

import (
	"github.com/ciadlab/publication-service/internal/domain"
)

// AuthorListsEquivalent reports whether two author lists denote the same set
// of people. Author rank is ignored: a reordered list of the same people is
// still equivalent. Matching is greedy and deterministic: iterating listA in
// order, each author claims the first unclaimed author of listB that matches
// under the person comparator, and a claimed author cannot be matched again.
//
// Lists of different lengths are never equivalent. Two empty lists are
// equivalent vacuously; callers that require non-empty author lists must
// check that separately.
func AuthorListsEquivalent(c *PersonComparator, listA, listB []domain.Person) bool {
	if len(listA) != len(listB) {
		return false
	}

	used := make([]bool, len(listB))
	for _, a := range listA {
		matched := false
		for j, b := range listB {
			if used[j] {
				continue
			}
			if c.Match(a, b) {
				used[j] = true
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	// Equal lengths and injective claiming imply every listB author was
	// claimed, so the reverse direction holds as well.
	return true
}
