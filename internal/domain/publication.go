package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Person is the minimal projection of a person used by the comparison engine:
// a display name plus a stable identifier. A zero ID means the person is not
// a stored entity; identity short-circuiting only applies to non-zero IDs.
type Person struct {
	ID   uuid.UUID `json:"id,omitempty"`
	Name string    `json:"name"`
}

// HasIdentity returns true if the person refers to a stored entity.
func (p Person) HasIdentity() bool {
	return p.ID != uuid.Nil
}

// Venue is the identity handle for "where published": a journal, a conference,
// or another publishing target. Venues are deduplicated upstream, so two
// venues are compared by identity rather than by fuzzy name matching.
type Venue struct {
	ID   uuid.UUID `json:"id,omitempty"`
	Name string    `json:"name"`
}

// HasIdentity returns true if the venue refers to a stored entity.
func (v Venue) HasIdentity() bool {
	return v.ID != uuid.Nil
}

// Publication represents a bibliographic record held by the service.
// Authors are rank-ordered as they appear on the work.
type Publication struct {
	ID        uuid.UUID
	Title     string
	Abstract  string
	Authors   []Person
	Venue     *Venue
	Type      PublicationType
	Year      int
	DOI       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasAbstract returns true if the publication carries non-blank abstract text.
func (p *Publication) HasAbstract() bool {
	return strings.TrimSpace(p.Abstract) != ""
}

// AuthorNames returns the display names of the authors in rank order.
func (p *Publication) AuthorNames() []string {
	names := make([]string, len(p.Authors))
	for i, a := range p.Authors {
		names[i] = a.Name
	}
	return names
}
