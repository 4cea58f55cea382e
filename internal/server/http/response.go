package httpserver

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ciadlab/publication-service/internal/domain"
)

// Request payload types for JSON deserialization.

type personPayload struct {
	ID   string `json:"id,omitempty" validate:"omitempty,uuid"`
	Name string `json:"name" validate:"required,max=512"`
}

type venuePayload struct {
	ID   string `json:"id,omitempty" validate:"omitempty,uuid"`
	Name string `json:"name" validate:"required,max=512"`
}

// checkPublicationRequest is the JSON request body for a duplicate check.
type checkPublicationRequest struct {
	Title    string          `json:"title" validate:"required,max=2048"`
	Abstract string          `json:"abstract,omitempty"`
	Authors  []personPayload `json:"authors,omitempty" validate:"max=200,dive"`
	Venue    *venuePayload   `json:"venue,omitempty"`
}

// createPublicationRequest is the JSON request body for creating a publication.
type createPublicationRequest struct {
	Title    string          `json:"title" validate:"required,max=2048"`
	Abstract string          `json:"abstract,omitempty"`
	Authors  []personPayload `json:"authors,omitempty" validate:"max=200,dive"`
	Venue    *venuePayload   `json:"venue,omitempty"`
	Type     string          `json:"type" validate:"required"`
	Year     int             `json:"year,omitempty" validate:"omitempty,min=1000,max=2200"`
	DOI      string          `json:"doi,omitempty" validate:"max=256"`
}

// Response types for JSON serialization.

type checkResponse struct {
	Status            string `json:"status"`
	DuplicateOf       string `json:"duplicate_of,omitempty"`
	CandidatesChecked int    `json:"candidates_checked"`
	IsDuplicate       bool   `json:"is_duplicate"`
	IsConflict        bool   `json:"is_conflict"`
}

type similarityResponse struct {
	Score float64 `json:"score"`
}

type personResponse struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type venueResponse struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type publicationResponse struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Abstract  string           `json:"abstract,omitempty"`
	Authors   []personResponse `json:"authors,omitempty"`
	Venue     *venueResponse   `json:"venue,omitempty"`
	Type      string           `json:"type"`
	Year      int              `json:"year,omitempty"`
	DOI       string           `json:"doi,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type listPublicationsResponse struct {
	Publications  []publicationResponse `json:"publications"`
	NextPageToken string                `json:"next_page_token,omitempty"`
	TotalCount    int                   `json:"total_count"`
}

// Converter functions

// payloadToAuthors converts person payloads to domain persons, parsing
// optional stored identities.
func payloadToAuthors(payloads []personPayload) ([]domain.Person, error) {
	if len(payloads) == 0 {
		return nil, nil
	}
	authors := make([]domain.Person, len(payloads))
	for i, p := range payloads {
		author := domain.Person{Name: p.Name}
		if p.ID != "" {
			id, err := uuid.Parse(p.ID)
			if err != nil {
				return nil, domain.NewValidationError("authors", fmt.Sprintf("author %d has an invalid id", i))
			}
			author.ID = id
		}
		authors[i] = author
	}
	return authors, nil
}

// payloadToVenue converts an optional venue payload to a domain venue.
func payloadToVenue(payload *venuePayload) (*domain.Venue, error) {
	if payload == nil {
		return nil, nil
	}
	venue := &domain.Venue{Name: payload.Name}
	if payload.ID != "" {
		id, err := uuid.Parse(payload.ID)
		if err != nil {
			return nil, domain.NewValidationError("venue", "venue id must be a valid UUID")
		}
		venue.ID = id
	}
	return venue, nil
}

// toDomain builds the candidate publication a duplicate check classifies.
func (req *checkPublicationRequest) toDomain() (*domain.Publication, error) {
	authors, err := payloadToAuthors(req.Authors)
	if err != nil {
		return nil, err
	}
	venue, err := payloadToVenue(req.Venue)
	if err != nil {
		return nil, err
	}
	return &domain.Publication{
		Title:    req.Title,
		Abstract: req.Abstract,
		Authors:  authors,
		Venue:    venue,
	}, nil
}

// toDomain builds the publication to store, validating the type tag.
func (req *createPublicationRequest) toDomain() (*domain.Publication, error) {
	pubType := domain.PublicationType(req.Type)
	if !pubType.Valid() {
		return nil, domain.NewValidationError("type", fmt.Sprintf("unknown publication type: %s", req.Type))
	}
	authors, err := payloadToAuthors(req.Authors)
	if err != nil {
		return nil, err
	}
	venue, err := payloadToVenue(req.Venue)
	if err != nil {
		return nil, err
	}
	return &domain.Publication{
		Title:    req.Title,
		Abstract: req.Abstract,
		Authors:  authors,
		Venue:    venue,
		Type:     pubType,
		Year:     req.Year,
		DOI:      req.DOI,
	}, nil
}

func domainPublicationToResponse(p *domain.Publication) publicationResponse {
	authors := make([]personResponse, len(p.Authors))
	for i, a := range p.Authors {
		authors[i] = personResponse{Name: a.Name}
		if a.HasIdentity() {
			authors[i].ID = a.ID.String()
		}
	}

	resp := publicationResponse{
		ID:        p.ID.String(),
		Title:     p.Title,
		Abstract:  p.Abstract,
		Authors:   authors,
		Type:      string(p.Type),
		Year:      p.Year,
		DOI:       p.DOI,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}

	if p.Venue != nil {
		resp.Venue = &venueResponse{Name: p.Venue.Name}
		if p.Venue.HasIdentity() {
			resp.Venue.ID = p.Venue.ID.String()
		}
	}

	return resp
}

// classificationToResponse converts a classification outcome to its JSON shape.
func classificationToResponse(status domain.CreationStatus, matchedWith uuid.UUID, checked int) checkResponse {
	resp := checkResponse{
		Status:            string(status),
		CandidatesChecked: checked,
		IsDuplicate:       status.IsDuplicate(),
		IsConflict:        status.IsConflict(),
	}
	if matchedWith != uuid.Nil {
		resp.DuplicateOf = matchedWith.String()
	}
	return resp
}
