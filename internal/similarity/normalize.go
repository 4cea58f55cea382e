// Package similarity implements the duplicate-publication detection engine:
// text normalization, Sorensen-Dice string scoring, person-name and
// author-list comparison, venue identity comparison, and the creation-status
// classification of a candidate publication against existing records.
package similarity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldMarks decomposes characters and strips combining marks, so that
// accented and unaccented spellings compare equal ("é" -> "e").
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize reduces free text to a canonical comparable form: diacritics
// folded, lower-cased, leading/trailing whitespace trimmed, and internal
// whitespace collapsed to single spaces. The empty string maps to itself and
// the operation is idempotent. No locale-specific collation is applied; text
// in any script is treated as a plain code-point sequence.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	folded, _, err := transform.String(foldMarks, text)
	if err != nil {
		// Malformed input is compared as-is rather than rejected.
		folded = text
	}

	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// NormalizeName normalizes a person name for comparison. On top of Normalize
// it reorders "Last, First" to "First Last" and drops punctuation (periods
// after initials, apostrophes, hyphens), so "SMITH, J." and "J Smith"
// normalize to the same string.
func NormalizeName(name string) string {
	name = Normalize(name)
	if name == "" {
		return ""
	}

	if idx := strings.Index(name, ","); idx >= 0 {
		last := strings.TrimSpace(name[:idx])
		first := strings.TrimSpace(name[idx+1:])
		if first != "" {
			name = first + " " + last
		} else {
			name = last
		}
	}

	var sb strings.Builder
	sb.Grow(len(name))
	prevSpace := false
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r):
			if !prevSpace && sb.Len() > 0 {
				sb.WriteRune(' ')
				prevSpace = true
			}
		}
		// Remaining punctuation is dropped.
	}

	return strings.TrimRight(sb.String(), " ")
}
