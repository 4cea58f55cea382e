package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ciadlab/publication-service/internal/domain"
)

// trigramSimilarityFloor is the minimum pg_trgm similarity for a stored title
// to be returned as a candidate. It is deliberately lower than the precise
// title threshold: the pre-filter must over-approximate, never miss.
const trigramSimilarityFloor = 0.30

// Compile-time interface verification.
var _ PublicationRepository = (*PgPublicationRepository)(nil)

// PgPublicationRepository is a PostgreSQL implementation of PublicationRepository.
type PgPublicationRepository struct {
	db DBTX
}

// NewPgPublicationRepository creates a new PostgreSQL publication repository.
func NewPgPublicationRepository(db DBTX) *PgPublicationRepository {
	return &PgPublicationRepository{db: db}
}

// Create inserts a new publication, upserting its venue by name when the
// venue carries no stored identity.
func (r *PgPublicationRepository) Create(ctx context.Context, pub *domain.Publication) (*domain.Publication, error) {
	if pub == nil {
		return nil, domain.NewValidationError("publication", "publication cannot be nil")
	}
	if strings.TrimSpace(pub.Title) == "" {
		return nil, domain.NewValidationError("title", "title is required")
	}
	if !pub.Type.Valid() {
		return nil, domain.NewValidationError("type", "unknown publication type")
	}

	authorsJSON, err := json.Marshal(pub.Authors)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal authors: %w", err)
	}

	var venueID *uuid.UUID
	if pub.Venue != nil {
		id, err := r.ensureVenue(ctx, pub.Venue)
		if err != nil {
			return nil, err
		}
		pub.Venue.ID = id
		venueID = &id
	}

	now := time.Now().UTC()
	if pub.ID == uuid.Nil {
		pub.ID = uuid.New()
	}

	query := `
		INSERT INTO publications (
			id, title, abstract, authors, venue_id,
			type, year, doi, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $9
		)
		RETURNING id, created_at, updated_at`

	err = r.db.QueryRow(ctx, query,
		pub.ID,
		pub.Title,
		pub.Abstract,
		authorsJSON,
		venueID,
		pub.Type,
		pub.Year,
		pub.DOI,
		now,
	).Scan(&pub.ID, &pub.CreatedAt, &pub.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.NewAlreadyExistsError("publication", pub.DOI)
		}
		return nil, fmt.Errorf("failed to insert publication: %w", err)
	}

	return pub, nil
}

// ensureVenue resolves the venue to a stored identity, creating it if needed.
// Venues without a stored ID are matched by name.
func (r *PgPublicationRepository) ensureVenue(ctx context.Context, venue *domain.Venue) (uuid.UUID, error) {
	if strings.TrimSpace(venue.Name) == "" && !venue.HasIdentity() {
		return uuid.Nil, domain.NewValidationError("venue", "venue name is required")
	}

	now := time.Now().UTC()

	if venue.HasIdentity() {
		query := `
			INSERT INTO venues (id, name, created_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`
		var id uuid.UUID
		if err := r.db.QueryRow(ctx, query, venue.ID, venue.Name, now).Scan(&id); err != nil {
			return uuid.Nil, fmt.Errorf("failed to upsert venue: %w", err)
		}
		return id, nil
	}

	query := `
		INSERT INTO venues (id, name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`
	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, uuid.New(), venue.Name, now).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert venue: %w", err)
	}
	return id, nil
}

// GetByID retrieves a publication by its UUID.
func (r *PgPublicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Publication, error) {
	query := `
		SELECT p.id, p.title, p.abstract, p.authors, p.type, p.year, p.doi,
			p.created_at, p.updated_at, v.id, v.name
		FROM publications p
		LEFT JOIN venues v ON p.venue_id = v.id
		WHERE p.id = $1`

	row := r.db.QueryRow(ctx, query, id)
	pub, err := scanPublication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("publication", id.String())
		}
		return nil, fmt.Errorf("failed to get publication by ID: %w", err)
	}

	return pub, nil
}

// List retrieves publications matching the filter criteria.
func (r *PgPublicationRepository) List(ctx context.Context, filter PublicationFilter) ([]*domain.Publication, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	// Build dynamic WHERE clause
	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("p.type = $%d", argIndex))
		args = append(args, *filter.Type)
		argIndex++
	}

	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("p.year = $%d", argIndex))
		args = append(args, *filter.Year)
		argIndex++
	}

	if filter.VenueID != nil {
		conditions = append(conditions, fmt.Sprintf("p.venue_id = $%d", argIndex))
		args = append(args, *filter.VenueID)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Count total matching records
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM publications p %s", whereClause)
	var totalCount int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count publications: %w", err)
	}

	// Query with pagination
	selectQuery := fmt.Sprintf(`
		SELECT p.id, p.title, p.abstract, p.authors, p.type, p.year, p.doi,
			p.created_at, p.updated_at, v.id, v.name
		FROM publications p
		LEFT JOIN venues v ON p.venue_id = v.id
		%s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list publications: %w", err)
	}
	defer rows.Close()

	pubs := make([]*domain.Publication, 0, filter.Limit)
	for rows.Next() {
		pub, err := scanPublicationFromRows(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan publication: %w", err)
		}
		pubs = append(pubs, pub)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating publications: %w", err)
	}

	return pubs, totalCount, nil
}

// FindBySimilarTitle returns stored publications whose titles pass the coarse
// trigram floor, ordered by descending similarity.
func (r *PgPublicationRepository) FindBySimilarTitle(ctx context.Context, title string, limit int) ([]*domain.Publication, error) {
	if strings.TrimSpace(title) == "" {
		return nil, domain.NewValidationError("title", "title is required")
	}
	if limit <= 0 {
		limit = defaultFilterLimit
	}
	if limit > maxFilterLimit {
		limit = maxFilterLimit
	}

	query := `
		SELECT p.id, p.title, p.abstract, p.authors, p.type, p.year, p.doi,
			p.created_at, p.updated_at, v.id, v.name
		FROM publications p
		LEFT JOIN venues v ON p.venue_id = v.id
		WHERE similarity(lower(p.title), lower($1)) >= $2
		ORDER BY similarity(lower(p.title), lower($1)) DESC
		LIMIT $3`

	rows, err := r.db.Query(ctx, query, title, trigramSimilarityFloor, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find publications by similar title: %w", err)
	}
	defer rows.Close()

	pubs := make([]*domain.Publication, 0, limit)
	for rows.Next() {
		pub, err := scanPublicationFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan publication: %w", err)
		}
		pubs = append(pubs, pub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating publications: %w", err)
	}

	return pubs, nil
}

// publicationScanDest holds the destination pointers for scanning a Publication row.
type publicationScanDest struct {
	pub         domain.Publication
	authorsJSON []byte
	venueID     *uuid.UUID
	venueName   *string
}

// destinations returns the slice of pointers for Scan operations.
func (d *publicationScanDest) destinations() []interface{} {
	return []interface{}{
		&d.pub.ID, &d.pub.Title, &d.pub.Abstract, &d.authorsJSON,
		&d.pub.Type, &d.pub.Year, &d.pub.DOI,
		&d.pub.CreatedAt, &d.pub.UpdatedAt,
		&d.venueID, &d.venueName,
	}
}

// finalize performs post-scan processing: unmarshals the author list and
// reattaches the venue when the join produced one.
func (d *publicationScanDest) finalize() (*domain.Publication, error) {
	if len(d.authorsJSON) > 0 {
		if err := json.Unmarshal(d.authorsJSON, &d.pub.Authors); err != nil {
			return nil, fmt.Errorf("failed to unmarshal authors: %w", err)
		}
	}

	if d.venueID != nil {
		venue := &domain.Venue{ID: *d.venueID}
		if d.venueName != nil {
			venue.Name = *d.venueName
		}
		d.pub.Venue = venue
	}

	return &d.pub, nil
}

// scanPublication scans a single row into a Publication.
func scanPublication(row pgx.Row) (*domain.Publication, error) {
	var dest publicationScanDest
	if err := row.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return dest.finalize()
}

// scanPublicationFromRows scans the current row from pgx.Rows into a Publication.
func scanPublicationFromRows(rows pgx.Rows) (*domain.Publication, error) {
	var dest publicationScanDest
	if err := rows.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return dest.finalize()
}
