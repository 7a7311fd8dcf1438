package engine

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"legendarios/internal/models"
)

// stripAccents removes combining marks after NFD decomposition, so that
// "João Sá" normalizes to "joao sa".
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeName lowercases and strips diacritics from a name for matching.
func normalizeName(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	out, _, err := transform.String(stripAccents, lowered)
	if err != nil {
		return lowered
	}
	return out
}

// splitSeparationHint splits the free-text hint field on commas and semicolons.
func splitSeparationHint(hint string) []string {
	parts := strings.FieldsFunc(hint, func(r rune) bool {
		return r == ',' || r == ';'
	})
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}

// SeparationPairs derives the deduplicated set of must-be-separated pairs
// from every participant's separation hint. Each listed name is matched,
// case and diacritic insensitive, against the full names of all other
// participants.
//
// Duplicate normalized names are ambiguous: the lookup keeps the last-seen
// participant for a given name, so a hint naming a duplicated name only ever
// matches that one. The roster has no way to disambiguate, so neither do we.
func SeparationPairs(participants []models.Participant) [][2]string {
	byName := make(map[string]string, len(participants))
	for _, p := range participants {
		byName[normalizeName(p.Name)] = p.ID
	}

	seen := make(map[string]bool)
	var pairs [][2]string
	for _, p := range participants {
		for _, hinted := range splitSeparationHint(p.SeparateFrom) {
			otherID, ok := byName[normalizeName(hinted)]
			if !ok || otherID == p.ID {
				continue
			}
			a, b := p.ID, otherID
			if b < a {
				a, b = b, a
			}
			key := a + "|" + b
			if seen[key] {
				continue
			}
			seen[key] = true
			pairs = append(pairs, [2]string{p.ID, otherID})
		}
	}
	return pairs
}
