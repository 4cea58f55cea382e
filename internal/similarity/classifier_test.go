package similarity

import (
	"testing"

	"github.com/google/uuid"

	"github.com/ciadlab/publication-service/internal/domain"
)

func newTestClassifier() *Classifier {
	return NewClassifier(NewComparator(DefaultConfig()))
}

func testCandidate() *domain.Publication {
	return &domain.Publication{
		ID:       uuid.New(),
		Title:    "Holonic Multiagent Simulation of Pedestrian Crowds",
		Abstract: "We propose a holonic organization for crowd simulation.",
		Authors: []domain.Person{
			{Name: "John Smith"},
			{Name: "Jane Doe"},
		},
		Venue: &domain.Venue{ID: uuid.New(), Name: "Journal of Simulation"},
	}
}

// existingLike clones the candidate as a stored publication, letting each
// test vary exactly the dimension under test.
func existingLike(c *domain.Publication) *domain.Publication {
	authors := make([]domain.Person, len(c.Authors))
	copy(authors, c.Authors)
	var venue *domain.Venue
	if c.Venue != nil {
		v := *c.Venue
		venue = &v
	}
	return &domain.Publication{
		ID:      uuid.New(),
		Title:   c.Title,
		Authors: authors,
		Venue:   venue,
	}
}

func TestComputeCreationStatus_EmptyCandidateSet(t *testing.T) {
	t.Parallel()

	cl := newTestClassifier()
	candidate := testCandidate()

	got := cl.ComputeCreationStatus(candidate, true, nil)
	if got.Status != domain.CreationStatusNoConflict {
		t.Errorf("status = %s, want %s", got.Status, domain.CreationStatusNoConflict)
	}
	if got.MatchedWith != uuid.Nil {
		t.Errorf("MatchedWith = %s, want zero", got.MatchedWith)
	}
}

func TestComputeCreationStatus_MissingAbstract(t *testing.T) {
	t.Parallel()

	cl := newTestClassifier()
	candidate := testCandidate()
	candidate.Abstract = ""

	got := cl.ComputeCreationStatus(candidate, false, nil)
	if got.Status != domain.CreationStatusMissingAbstract {
		t.Errorf("status = %s, want %s", got.Status, domain.CreationStatusMissingAbstract)
	}
}

func TestComputeCreationStatus_DuplicationOutranksMissingAbstract(t *testing.T) {
	t.Parallel()

	cl := newTestClassifier()
	candidate := testCandidate()
	candidate.Abstract = ""
	existing := existingLike(candidate)

	// The abstract is absent, but a title conflict exists; the conflict wins.
	got := cl.ComputeCreationStatus(candidate, false, []*domain.Publication{existing})
	if got.Status != domain.CreationStatusSameTitleSameVenueSameAuthors {
		t.Errorf("status = %s, want %s", got.Status, domain.CreationStatusSameTitleSameVenueSameAuthors)
	}
}

func TestComputeCreationStatus_ExactDuplicate(t *testing.T) {
	t.Parallel()

	cl := newTestClassifier()
	candidate := testCandidate()
	existing := existingLike(candidate)

	got := cl.ComputeCreationStatus(candidate, true, []*domain.Publication{existing})
	if got.Status != domain.CreationStatusSameTitleSameVenueSameAuthors {
		t.Errorf("status = %s, want %s", got.Status, domain.CreationStatusSameTitleSameVenueSameAuthors)
	}
	if got.MatchedWith != existing.ID {
		t.Errorf("MatchedWith = %s, want %s", got.MatchedWith, existing.ID)
	}
}

func TestComputeCreationStatus_DifferentVenue(t *testing.T) {
	t.Parallel()

	cl := newTestClassifier()
	candidate := testCandidate()
	existing := existingLike(candidate)
	existing.Venue = &domain.Venue{ID: uuid.New(), Name: "Another Journal"}

	got := cl.ComputeCreationStatus(candidate, true, []*domain.Publication{existing})
	if got.Status != domain.CreationStatusSameTitleDifferentVenue {
		t.Errorf("status = %s, want %s", got.Status, domain.CreationStatusSameTitleDifferentVenue)
	}
	if got.MatchedWith != existing.ID {
		t.Errorf("MatchedWith = %s, want %s", got.MatchedWith, existing.ID)
	}
}

func TestComputeCreationStatus_SameVenueDifferentAuthors(t *testing.T) {
	t.Parallel()

	cl := newTestClassifier()
	candidate := testCandidate()
	existing := existingLike(candidate)
	existing.Authors = []domain.Person{
		{Name: "Alice Johnson"},
		{Name: "Bob Williams"},
	}

	got := cl.ComputeCreationStatus(candidate, true, []*domain.Publication{existing})
	if got.Status != domain.CreationStatusSameTitleSameVenueDifferentAuthors {
		t.Errorf("status = %s, want %s", got.Status, domain.CreationStatusSameTitleSameVenueDifferentAuthors)
	}
}

func TestComputeCreationStatus_ExactDuplicatePrecedence(t *testing.T) {
	t.Parallel()

	cl := newTestClassifier()
	candidate := testCandidate()

	duplicate := existingLike(candidate)
	sameVenueDiffAuthors := existingLike(candidate)
	sameVenueDiffAuthors.Authors = []domain.Person{
		{Name: "Alice Johnson"},
		{Name: "Bob Williams"},
	}
	diffVenue := existingLike(candidate)
	diffVenue.Venue = &domain.Venue{ID: uuid.New(), Name: "Elsewhere"}

	// The exact duplicate must win regardless of candidate-set order.
	orders := [][]*domain.Publication{
		{duplicate, sameVenueDiffAuthors, diffVenue},
		{sameVenueDiffAuthors, duplicate, diffVenue},
		{diffVenue, sameVenueDiffAuthors, duplicate},
	}

	for i, existing := range orders {
		got := cl.ComputeCreationStatus(candidate, true, existing)
		if got.Status != domain.CreationStatusSameTitleSameVenueSameAuthors {
			t.Errorf("order %d: status = %s, want %s", i, got.Status,
				domain.CreationStatusSameTitleSameVenueSameAuthors)
		}
		if got.MatchedWith != duplicate.ID {
			t.Errorf("order %d: MatchedWith = %s, want %s", i, got.MatchedWith, duplicate.ID)
		}
	}
}

func TestComputeCreationStatus_SameVenuePrecedenceOverTitleOnly(t *testing.T) {
	t.Parallel()

	cl := newTestClassifier()
	candidate := testCandidate()

	sameVenueDiffAuthors := existingLike(candidate)
	sameVenueDiffAuthors.Authors = []domain.Person{{Name: "Alice Johnson"}, {Name: "Bob Williams"}}
	diffVenue := existingLike(candidate)
	diffVenue.Venue = &domain.Venue{ID: uuid.New(), Name: "Elsewhere"}

	orders := [][]*domain.Publication{
		{sameVenueDiffAuthors, diffVenue},
		{diffVenue, sameVenueDiffAuthors},
	}

	for i, existing := range orders {
		got := cl.ComputeCreationStatus(candidate, true, existing)
		if got.Status != domain.CreationStatusSameTitleSameVenueDifferentAuthors {
			t.Errorf("order %d: status = %s, want %s", i, got.Status,
				domain.CreationStatusSameTitleSameVenueDifferentAuthors)
		}
	}
}

func TestComputeCreationStatus_PreFilterFalsePositivesDiscarded(t *testing.T) {
	t.Parallel()

	cl := newTestClassifier()
	candidate := testCandidate()

	// A coarse trigram pre-filter may return records whose titles the precise
	// scorer rejects; those must not produce a SameTitle* status.
	unrelated := existingLike(candidate)
	unrelated.Title = "Deep Reinforcement Learning for Protein Folding"

	got := cl.ComputeCreationStatus(candidate, true, []*domain.Publication{unrelated})
	if got.Status != domain.CreationStatusNoConflict {
		t.Errorf("status = %s, want %s", got.Status, domain.CreationStatusNoConflict)
	}
	if got.CandidatesChecked != 0 {
		t.Errorf("CandidatesChecked = %d, want 0", got.CandidatesChecked)
	}
}

func TestComputeCreationStatus_AbsentVenuesMatch(t *testing.T) {
	t.Parallel()

	cl := newTestClassifier()
	candidate := testCandidate()
	candidate.Venue = nil
	existing := existingLike(candidate)
	existing.Venue = nil

	got := cl.ComputeCreationStatus(candidate, true, []*domain.Publication{existing})
	if got.Status != domain.CreationStatusSameTitleSameVenueSameAuthors {
		t.Errorf("status = %s, want %s", got.Status, domain.CreationStatusSameTitleSameVenueSameAuthors)
	}
}

func TestComputeCreationStatus_DegenerateInputsNeverError(t *testing.T) {
	t.Parallel()

	cl := newTestClassifier()

	// Empty title, no authors, no venue: still a valid classification call.
	candidate := &domain.Publication{}
	existing := []*domain.Publication{
		nil,
		{Title: "Some Title", Authors: nil, Venue: nil},
	}

	got := cl.ComputeCreationStatus(candidate, false, existing)
	if got.Status != domain.CreationStatusMissingAbstract {
		t.Errorf("status = %s, want %s", got.Status, domain.CreationStatusMissingAbstract)
	}
}

func TestComputeCreationStatus_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	cl := newTestClassifier()
	candidate := testCandidate()
	existing := existingLike(candidate)
	existing.Authors = []domain.Person{{Name: "Jane Doe"}, {Name: "John Smith"}}

	wantTitle := candidate.Title
	wantAuthors := append([]domain.Person(nil), existing.Authors...)

	_ = cl.ComputeCreationStatus(candidate, true, []*domain.Publication{existing})

	if candidate.Title != wantTitle {
		t.Error("candidate title was mutated")
	}
	for i := range wantAuthors {
		if existing.Authors[i] != wantAuthors[i] {
			t.Fatal("existing author list was mutated")
		}
	}
}

func TestComputeCreationStatus_NilCandidatePanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil candidate")
		}
	}()

	cl := newTestClassifier()
	cl.ComputeCreationStatus(nil, true, nil)
}
