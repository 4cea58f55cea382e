package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ciadlab/publication-service/internal/domain"
)

// Helper to create a valid publication for testing.
func newTestPublication() *domain.Publication {
	now := time.Now().UTC()
	return &domain.Publication{
		ID:       uuid.New(),
		Title:    "Holonic Multiagent Simulation of Pedestrian Crowds",
		Abstract: "We present a holonic approach to crowd simulation.",
		Authors: []domain.Person{
			{ID: uuid.New(), Name: "Stéphane Galland"},
			{Name: "Nicolas Gaud"},
		},
		Venue: &domain.Venue{
			ID:   uuid.New(),
			Name: "International Conference on Autonomous Agents",
		},
		Type:      domain.TypeInternationalConferencePaper,
		Year:      2024,
		DOI:       "10.1234/crowd.2024",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func publicationRows(pubs ...*domain.Publication) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{
		"id", "title", "abstract", "authors", "type", "year", "doi",
		"created_at", "updated_at", "venue_id", "venue_name",
	})
	for _, pub := range pubs {
		authorsJSON, _ := json.Marshal(pub.Authors)
		var venueID *uuid.UUID
		var venueName *string
		if pub.Venue != nil {
			venueID = &pub.Venue.ID
			venueName = &pub.Venue.Name
		}
		rows.AddRow(
			pub.ID, pub.Title, pub.Abstract, authorsJSON, pub.Type, pub.Year, pub.DOI,
			pub.CreatedAt, pub.UpdatedAt, venueID, venueName,
		)
	}
	return rows
}

func TestNewPgPublicationRepository(t *testing.T) {
	t.Run("creates repository with nil db", func(t *testing.T) {
		repo := NewPgPublicationRepository(nil)
		assert.NotNil(t, repo)
		assert.Nil(t, repo.db)
	})

	t.Run("creates repository with mock db", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPublicationRepository(mock)
		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestPgPublicationRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates publication with stored venue", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPublicationRepository(mock)
		pub := newTestPublication()

		mock.ExpectQuery("INSERT INTO venues").
			WithArgs(pub.Venue.ID, pub.Venue.Name, pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(pub.Venue.ID))

		mock.ExpectQuery("INSERT INTO publications").
			WithArgs(
				pub.ID, pub.Title, pub.Abstract, pgxmock.AnyArg(), pgxmock.AnyArg(),
				pub.Type, pub.Year, pub.DOI, pgxmock.AnyArg(),
			).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(pub.ID, pub.CreatedAt, pub.UpdatedAt))

		result, err := repo.Create(ctx, pub)
		require.NoError(t, err)
		assert.Equal(t, pub.ID, result.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("upserts venue by name when venue has no identity", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPublicationRepository(mock)
		pub := newTestPublication()
		pub.Venue = &domain.Venue{Name: "Journal of Crowd Dynamics"}

		storedVenueID := uuid.New()
		mock.ExpectQuery("INSERT INTO venues").
			WithArgs(pgxmock.AnyArg(), pub.Venue.Name, pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(storedVenueID))

		mock.ExpectQuery("INSERT INTO publications").
			WithArgs(
				pub.ID, pub.Title, pub.Abstract, pgxmock.AnyArg(), pgxmock.AnyArg(),
				pub.Type, pub.Year, pub.DOI, pgxmock.AnyArg(),
			).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(pub.ID, pub.CreatedAt, pub.UpdatedAt))

		result, err := repo.Create(ctx, pub)
		require.NoError(t, err)
		assert.Equal(t, storedVenueID, result.Venue.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("creates publication without venue", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPublicationRepository(mock)
		pub := newTestPublication()
		pub.Venue = nil

		mock.ExpectQuery("INSERT INTO publications").
			WithArgs(
				pub.ID, pub.Title, pub.Abstract, pgxmock.AnyArg(), pgxmock.AnyArg(),
				pub.Type, pub.Year, pub.DOI, pgxmock.AnyArg(),
			).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(pub.ID, pub.CreatedAt, pub.UpdatedAt))

		result, err := repo.Create(ctx, pub)
		require.NoError(t, err)
		assert.Nil(t, result.Venue)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns validation error for nil publication", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPublicationRepository(mock)
		result, err := repo.Create(ctx, nil)

		assert.Nil(t, result)
		var validationErr *domain.ValidationError
		assert.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "publication", validationErr.Field)
	})

	t.Run("returns validation error for blank title", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPublicationRepository(mock)
		pub := newTestPublication()
		pub.Title = "   "

		result, err := repo.Create(ctx, pub)

		assert.Nil(t, result)
		var validationErr *domain.ValidationError
		assert.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "title", validationErr.Field)
	})

	t.Run("returns validation error for unknown type", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPublicationRepository(mock)
		pub := newTestPublication()
		pub.Type = domain.PublicationType("mixtape")

		result, err := repo.Create(ctx, pub)

		assert.Nil(t, result)
		var validationErr *domain.ValidationError
		assert.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "type", validationErr.Field)
	})

	t.Run("maps unique violation to already exists", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPublicationRepository(mock)
		pub := newTestPublication()
		pub.Venue = nil

		mock.ExpectQuery("INSERT INTO publications").
			WithArgs(
				pub.ID, pub.Title, pub.Abstract, pgxmock.AnyArg(), pgxmock.AnyArg(),
				pub.Type, pub.Year, pub.DOI, pgxmock.AnyArg(),
			).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "publications_doi_key"})

		result, err := repo.Create(ctx, pub)

		assert.Nil(t, result)
		assert.True(t, errors.Is(err, domain.ErrAlreadyExists))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPgPublicationRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns publication when found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPublicationRepository(mock)
		pub := newTestPublication()

		mock.ExpectQuery("SELECT .* FROM publications p").
			WithArgs(pub.ID).
			WillReturnRows(publicationRows(pub))

		result, err := repo.GetByID(ctx, pub.ID)
		require.NoError(t, err)
		assert.Equal(t, pub.ID, result.ID)
		assert.Equal(t, pub.Title, result.Title)
		require.Len(t, result.Authors, 2)
		assert.Equal(t, "Stéphane Galland", result.Authors[0].Name)
		require.NotNil(t, result.Venue)
		assert.Equal(t, pub.Venue.ID, result.Venue.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("scans publication without venue", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPublicationRepository(mock)
		pub := newTestPublication()
		pub.Venue = nil

		mock.ExpectQuery("SELECT .* FROM publications p").
			WithArgs(pub.ID).
			WillReturnRows(publicationRows(pub))

		result, err := repo.GetByID(ctx, pub.ID)
		require.NoError(t, err)
		assert.Nil(t, result.Venue)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing publication", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPublicationRepository(mock)
		id := uuid.New()

		mock.ExpectQuery("SELECT .* FROM publications p").
			WithArgs(id).
			WillReturnError(pgx.ErrNoRows)

		result, err := repo.GetByID(ctx, id)

		assert.Nil(t, result)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPgPublicationRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("lists publications with default pagination", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPublicationRepository(mock)
		pub := newTestPublication()

		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM publications p").
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))

		mock.ExpectQuery("SELECT .* FROM publications p").
			WithArgs(defaultFilterLimit, 0).
			WillReturnRows(publicationRows(pub))

		pubs, total, err := repo.List(ctx, PublicationFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, pubs, 1)
		assert.Equal(t, pub.ID, pubs[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filters by type and year", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPublicationRepository(mock)
		pubType := domain.TypeInternationalJournalPaper
		year := 2023

		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM publications p WHERE").
			WithArgs(pubType, year).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))

		mock.ExpectQuery("SELECT .* FROM publications p").
			WithArgs(pubType, year, defaultFilterLimit, 0).
			WillReturnRows(publicationRows())

		pubs, total, err := repo.List(ctx, PublicationFilter{Type: &pubType, Year: &year})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, pubs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects invalid filter type", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPublicationRepository(mock)
		badType := domain.PublicationType("mixtape")

		_, _, err = repo.List(ctx, PublicationFilter{Type: &badType})

		var validationErr *domain.ValidationError
		assert.True(t, errors.As(err, &validationErr))
	})
}

func TestPgPublicationRepository_FindBySimilarTitle(t *testing.T) {
	ctx := context.Background()

	t.Run("returns candidates above the trigram floor", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPublicationRepository(mock)
		pub := newTestPublication()

		mock.ExpectQuery("SELECT .* FROM publications p").
			WithArgs("Holonic Multiagent Simulation", trigramSimilarityFloor, 25).
			WillReturnRows(publicationRows(pub))

		pubs, err := repo.FindBySimilarTitle(ctx, "Holonic Multiagent Simulation", 25)
		require.NoError(t, err)
		require.Len(t, pubs, 1)
		assert.Equal(t, pub.ID, pubs[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies default limit when non-positive", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPublicationRepository(mock)

		mock.ExpectQuery("SELECT .* FROM publications p").
			WithArgs("some title", trigramSimilarityFloor, defaultFilterLimit).
			WillReturnRows(publicationRows())

		pubs, err := repo.FindBySimilarTitle(ctx, "some title", 0)
		require.NoError(t, err)
		assert.Empty(t, pubs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects blank title", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgPublicationRepository(mock)

		pubs, err := repo.FindBySimilarTitle(ctx, "   ", 10)

		assert.Nil(t, pubs)
		var validationErr *domain.ValidationError
		assert.True(t, errors.As(err, &validationErr))
	})
}
