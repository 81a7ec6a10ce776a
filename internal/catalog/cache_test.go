package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeSource struct {
	entries []Entry
	err     error
	calls   int
}

func (f *fakeSource) All(ctx context.Context) ([]Entry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func TestCacheReloadsAfterTTL(t *testing.T) {
	src := &fakeSource{entries: []Entry{{ID: "svc-netflix", Name: "Netflix"}}}

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewCache(src, time.Hour, func() time.Time { return current })

	got, err := c.All(context.Background())
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, src.calls)

	// within TTL: served from memory
	current = current.Add(30 * time.Minute)
	_, err = c.All(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, src.calls)

	// past TTL: reloaded
	current = current.Add(31 * time.Minute)
	_, err = c.All(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestCacheFallsBackToStaleOnError(t *testing.T) {
	src := &fakeSource{entries: []Entry{{ID: "svc-hulu", Name: "Hulu"}}}

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewCache(src, time.Minute, func() time.Time { return current })

	_, err := c.All(context.Background())
	assert.NoError(t, err)

	src.err = errors.New("db down")
	current = current.Add(2 * time.Minute)

	got, err := c.All(context.Background())
	assert.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCacheErrorWithNothingLoaded(t *testing.T) {
	src := &fakeSource{err: errors.New("db down")}
	c := NewCache(src, time.Minute, nil)

	_, err := c.All(context.Background())
	assert.Error(t, err)
}
