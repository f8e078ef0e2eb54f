package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryOutputStore_SaveLoad(t *testing.T) {
	s := NewMemoryOutputStore(time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "run-1", "document"))

	doc, err := s.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "document", doc)

	_, err = s.Load(ctx, "run-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryOutputStore_Expiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := &memoryOutputStore{
		entries: make(map[string]memoryEntry),
		ttl:     time.Minute,
		now:     func() time.Time { return now },
	}
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "old", "a"))

	now = now.Add(2 * time.Minute)
	_, err := s.Load(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, "new", "b"))
	assert.NotContains(t, s.entries, "old")
	assert.Contains(t, s.entries, "new")
}

func TestMemoryOutputStore_NoTTL(t *testing.T) {
	s := NewMemoryOutputStore(0)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "id", "doc"))
	doc, err := s.Load(ctx, "id")
	require.NoError(t, err)
	assert.Equal(t, "doc", doc)
}
