package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "threads")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, "threads", []byte(`[]`), time.Minute))

	value, ok, err := store.Get(ctx, "threads")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte(`[]`), value)

	require.NoError(t, store.Delete(ctx, "threads"))
	_, ok, err = store.Get(ctx, "threads")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	current := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "threads", []byte(`[]`), 30*time.Second))

	current = current.Add(31 * time.Second)

	_, ok, err := store.Get(ctx, "threads")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreZeroTTLNeverExpires(t *testing.T) {
	store := NewMemoryStore()
	current := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "k", []byte("v"), 0))

	current = current.Add(24 * time.Hour)

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
}
