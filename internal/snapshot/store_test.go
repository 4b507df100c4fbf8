package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"StockWatch/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	return NewStore(path, zerolog.Nop()), path
}

func TestStoreLoadMissingFile(t *testing.T) {
	store, _ := testStore(t)

	snap := store.Load()

	assert.Equal(t, 0, snap.Len())
	assert.NotNil(t, snap.Variants)
}

func TestStoreLoadMalformedFile(t *testing.T) {
	store, path := testStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	snap := store.Load()

	assert.Equal(t, 0, snap.Len())
}

func TestStoreRoundTrip(t *testing.T) {
	store, _ := testStore(t)

	captured := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	snap := models.NewSnapshot(captured)
	key := models.VariantKey{Product: "beta-lt-jacket", Color: "Black Sapphire", Size: "M"}
	snap.Put(key, models.VariantState{
		Orderable:    true,
		LastSeen:     captured,
		ProductTitle: "Beta LT Jacket",
		ProductURL:   "https://enroute.run/products/beta-lt-jacket",
	})

	require.NoError(t, store.Save(snap))
	loaded := store.Load()

	assert.Equal(t, models.SnapshotVersion, loaded.Version)
	assert.True(t, loaded.CapturedAt.Equal(captured))
	require.Equal(t, 1, loaded.Len())
	state, ok := loaded.Get(key)
	require.True(t, ok)
	assert.True(t, state.Orderable)
	assert.True(t, state.LastSeen.Equal(captured))
	assert.Equal(t, "Beta LT Jacket", state.ProductTitle)
	assert.Equal(t, "https://enroute.run/products/beta-lt-jacket", state.ProductURL)
}

func TestStoreSaveOverwritesAtomically(t *testing.T) {
	store, path := testStore(t)

	first := models.NewSnapshot(time.Now().UTC())
	first.Put(models.VariantKey{Product: "atom", Color: "Green", Size: "S"}, models.VariantState{Orderable: true})
	require.NoError(t, store.Save(first))

	second := models.NewSnapshot(time.Now().UTC())
	second.Put(models.VariantKey{Product: "atom", Color: "Green", Size: "M"}, models.VariantState{Orderable: false})
	require.NoError(t, store.Save(second))

	loaded := store.Load()
	require.Equal(t, 1, loaded.Len())
	_, ok := loaded.Get(models.VariantKey{Product: "atom", Color: "Green", Size: "M"})
	assert.True(t, ok)

	// No temp files left behind next to the snapshot.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(path), entries[0].Name())
}

func TestStoreLoadDefaultsMissingFields(t *testing.T) {
	store, path := testStore(t)

	// Older file shape: no version, no captured_at, entries missing fields,
	// plus a field this build does not know about.
	raw := `{
	  "variants": {
	    "beta-lt|Black|M": {"product_title": "Beta LT", "discount": 20}
	  }
	}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	snap := store.Load()

	assert.Equal(t, models.SnapshotVersion, snap.Version)
	require.Equal(t, 1, snap.Len())
	state, ok := snap.Get(models.VariantKey{Product: "beta-lt", Color: "Black", Size: "M"})
	require.True(t, ok)
	assert.False(t, state.Orderable)
	assert.True(t, state.LastSeen.IsZero())
	assert.Equal(t, "Beta LT", state.ProductTitle)
}

func TestStoreSaveIntoMissingDirFails(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing", "snapshot.json"), zerolog.Nop())

	err := store.Save(models.NewSnapshot(time.Now()))

	assert.Error(t, err)
}
