package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ciadlab/publication-service/internal/domain"
)

// PublicationRepository handles publication persistence and candidate retrieval
// for duplicate detection. The coarse trigram pre-filter narrows the stored
// corpus to plausible title matches; precise scoring happens in memory.
type PublicationRepository interface {
	// Create inserts a new publication. When the publication references a
	// venue without a stored identity, the venue is upserted by name first.
	// Returns the created publication with its assigned ID and timestamps.
	// Returns domain.ErrAlreadyExists if the DOI is already stored.
	// Returns domain.ErrInvalidInput if required fields are missing.
	Create(ctx context.Context, pub *domain.Publication) (*domain.Publication, error)

	// GetByID retrieves a publication by its internal UUID.
	// Returns domain.ErrNotFound if no matching publication exists.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Publication, error)

	// List retrieves publications matching the filter criteria.
	// Returns the matching publications and total count for pagination.
	// The total count reflects all matching records regardless of limit/offset.
	List(ctx context.Context, filter PublicationFilter) ([]*domain.Publication, int64, error)

	// FindBySimilarTitle returns stored publications whose titles are
	// plausibly similar to the given title, ordered by descending trigram
	// similarity. The result is a coarse over-approximation: callers must
	// re-verify each candidate with the precise title scorer.
	FindBySimilarTitle(ctx context.Context, title string, limit int) ([]*domain.Publication, error)
}

// PublicationFilter specifies criteria for listing publications.
type PublicationFilter struct {
	// Type filters to publications of a specific type (optional).
	Type *domain.PublicationType

	// Year filters to publications from a specific year (optional).
	Year *int

	// VenueID filters to publications published in a specific venue (optional).
	VenueID *uuid.UUID

	// Limit specifies maximum number of results (default: 100, max: 1000).
	Limit int

	// Offset specifies the starting position for pagination.
	Offset int
}

// Validate checks if the filter has valid values and sets defaults.
func (f *PublicationFilter) Validate() error {
	if f.Type != nil && !f.Type.Valid() {
		return domain.NewValidationError("type", "unknown publication type")
	}
	applyPaginationDefaults(&f.Limit, &f.Offset)
	return nil
}
