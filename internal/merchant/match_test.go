package merchant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	assert.Equal(t, float64(100), Similarity("netflix", "netflix"))
	assert.Equal(t, float64(0), Similarity("", "netflix"))
	assert.Equal(t, float64(0), Similarity("netflix", ""))

	// one substitution over 7 chars
	s := Similarity("netflix", "netflex")
	assert.InDelta(t, (1-1.0/7.0)*100, s, 1e-9)

	// bounded 0..100 even for disjoint strings
	s = Similarity("abc", "xyz")
	assert.GreaterOrEqual(t, s, float64(0))
	assert.LessOrEqual(t, s, float64(100))
}

func TestBestMatch(t *testing.T) {
	entries := []CatalogEntry{
		{ID: "svc-netflix", Name: "Netflix", Patterns: []string{"netflix"}},
		{ID: "svc-spotify", Name: "Spotify", Patterns: []string{"spotify"}},
	}

	t.Run("substring pattern is exact hit", func(t *testing.T) {
		m := BestMatch("netflix com", entries)
		assert.Equal(t, "svc-netflix", m.ServiceID)
		assert.Equal(t, float64(100), m.Score)
	})

	t.Run("near miss falls back to similarity", func(t *testing.T) {
		m := BestMatch("netflx", entries)
		assert.Equal(t, "svc-netflix", m.ServiceID)
		assert.Greater(t, m.Score, float64(80))
		assert.Less(t, m.Score, float64(100))
	})

	t.Run("no entries", func(t *testing.T) {
		m := BestMatch("netflix", nil)
		assert.Empty(t, m.ServiceID)
		assert.Equal(t, float64(0), m.Score)
	})
}
