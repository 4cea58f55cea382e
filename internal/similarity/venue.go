package similarity

import (
	"github.com/ciadlab/publication-service/internal/domain"
)

// VenuesEquivalent reports whether two venue references denote the same
// publishing target. Two absent venues are equivalent (two venue-less "misc"
// publications have matching, absent, venues); one absent and one present
// are not. Present venues compare by identity: venues are deduplicated
// upstream, so no fuzzy matching is performed here. A venue without a stored
// identity falls back to its normalized name as the identity key.
func VenuesEquivalent(a, b *domain.Venue) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return venueKey(a) == venueKey(b)
}

// venueKey returns the identity key of a venue: its stable ID when the venue
// is a stored entity, otherwise its normalized name. The prefixes keep the
// two key spaces from colliding.
func venueKey(v *domain.Venue) string {
	if v.HasIdentity() {
		return "id:" + v.ID.String()
	}
	return "name:" + Normalize(v.Name)
}
