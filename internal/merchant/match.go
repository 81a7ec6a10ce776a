package merchant

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Similarity scores how close two normalized names are, 0..100.
// 100 means identical, 0 means nothing in common (or an empty input).
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	maxlen := len(a)
	if len(b) > maxlen {
		maxlen = len(b)
	}
	return (1 - float64(dist)/float64(maxlen)) * 100
}

// Match is the outcome of scoring one normalized merchant against a catalog
// entry's patterns and display name.
type Match struct {
	ServiceID string
	Score     float64
}

// CatalogEntry is the slice of the service catalog the matcher needs.
type CatalogEntry struct {
	ID       string
	Name     string
	Patterns []string
}

// BestMatch scores a normalized merchant name against the catalog. A pattern
// contained verbatim in the merchant name is an exact hit (100); otherwise the
// best levenshtein similarity against any pattern or the display name wins.
func BestMatch(normalized string, entries []CatalogEntry) Match {
	best := Match{}
	for _, e := range entries {
		for _, p := range e.Patterns {
			pat := Normalize(p)
			if pat == "" {
				continue
			}
			if strings.Contains(normalized, pat) {
				return Match{ServiceID: e.ID, Score: 100}
			}
			if s := Similarity(normalized, pat); s > best.Score {
				best = Match{ServiceID: e.ID, Score: s}
			}
		}
		if s := Similarity(normalized, Normalize(e.Name)); s > best.Score {
			best = Match{ServiceID: e.ID, Score: s}
		}
	}
	return best
}
