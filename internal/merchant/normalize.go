package merchant

import "strings"

// corporate suffix tokens stripped during normalization, matched on word
// boundaries after lowercasing.
var suffixTokens = map[string]struct{}{
	"inc":          {},
	"incorporated": {},
	"llc":          {},
	"ltd":          {},
	"limited":      {},
	"corp":         {},
	"corporation":  {},
	"co":           {},
	"company":      {},
	"plc":          {},
	"gmbh":         {},
}

// Normalize canonicalizes a raw merchant label so that billing descriptors
// like "Netflix, Inc." and "NETFLIX INC." group together as "netflix".
// Deterministic and side-effect free: lowercase, drop corporate suffix words,
// drop non-alphanumerics, collapse whitespace.
func Normalize(raw string) string {
	lower := strings.ToLower(raw)

	// non-alphanumerics become spaces so suffix words separate cleanly
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	words := strings.Fields(b.String())
	out := words[:0]
	for _, w := range words {
		if _, drop := suffixTokens[w]; drop {
			continue
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}
