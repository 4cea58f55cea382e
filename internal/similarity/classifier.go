package similarity

import (
	"github.com/google/uuid"

	"github.com/ciadlab/publication-service/internal/domain"
)

// Classification is the outcome of classifying a candidate publication
// against the existing corpus.
type Classification struct {
	// Status is the single creation status for the candidate.
	Status domain.CreationStatus

	// MatchedWith is the ID of the existing publication that determined a
	// SameTitle* status. Zero for NoConflict and MissingAbstract. When
	// several existing publications carry the same signal, the first one in
	// candidate-set order is reported; the status itself never depends on
	// that order.
	MatchedWith uuid.UUID

	// CandidatesChecked is the number of candidates that survived in-memory
	// title re-verification.
	CandidatesChecked int
}

// Classifier computes the creation status of a candidate publication given
// the pre-filtered set of existing publications with plausibly similar
// titles. It performs a single synchronous evaluation over in-memory data:
// no I/O, no stored state, no mutation of its inputs.
type Classifier struct {
	comparator *Comparator
}

// NewClassifier creates a classifier on top of the given comparator.
func NewClassifier(comparator *Comparator) *Classifier {
	return &Classifier{comparator: comparator}
}

// Comparator returns the underlying publication comparator.
func (c *Classifier) Comparator() *Comparator {
	return c.comparator
}

// ComputeCreationStatus classifies the candidate against the existing
// publications whose titles the upstream pre-filter judged similar.
//
// The pre-filter is coarse and may return false positives; every candidate
// is first re-verified with the precise title scorer, and title-dissimilar
// entries are discarded. If nothing survives, the result is NoConflict, or
// MissingAbstract when abstractPresent is false (a content-completeness
// signal, only reported when there is no title conflict).
//
// Among surviving candidates, an exact duplicate (same venue and equivalent
// author list) wins immediately: a single exact match is conclusive no
// matter how many weaker matches exist. Failing that, a same-venue match
// with differing authors wins over a title-only match. Absent venues and
// empty author lists degrade to non-matching rather than erroring.
//
// The candidate must be non-nil; passing nil is a caller bug and panics.
func (c *Classifier) ComputeCreationStatus(candidate *domain.Publication, abstractPresent bool, existing []*domain.Publication) Classification {
	if candidate == nil {
		panic("similarity: nil candidate publication")
	}

	var (
		checked            int
		firstTitleMatch    uuid.UUID
		sameVenueDiffFound bool
		sameVenueDiffWith  uuid.UUID
	)

	for _, ex := range existing {
		if ex == nil {
			continue
		}
		if !c.comparator.TitlesSimilar(candidate.Title, ex.Title) {
			continue
		}
		checked++
		if firstTitleMatch == uuid.Nil {
			firstTitleMatch = ex.ID
		}

		if !VenuesEquivalent(candidate.Venue, ex.Venue) {
			continue
		}
		if c.comparator.AuthorsEquivalent(candidate.Authors, ex.Authors) {
			// Strongest signal; no further comparison can change the outcome.
			return Classification{
				Status:            domain.CreationStatusSameTitleSameVenueSameAuthors,
				MatchedWith:       ex.ID,
				CandidatesChecked: checked,
			}
		}
		if !sameVenueDiffFound {
			sameVenueDiffFound = true
			sameVenueDiffWith = ex.ID
		}
	}

	if checked == 0 {
		if !abstractPresent {
			return Classification{Status: domain.CreationStatusMissingAbstract}
		}
		return Classification{Status: domain.CreationStatusNoConflict}
	}

	if sameVenueDiffFound {
		return Classification{
			Status:            domain.CreationStatusSameTitleSameVenueDifferentAuthors,
			MatchedWith:       sameVenueDiffWith,
			CandidatesChecked: checked,
		}
	}

	return Classification{
		Status:            domain.CreationStatusSameTitleDifferentVenue,
		MatchedWith:       firstTitleMatch,
		CandidatesChecked: checked,
	}
}
