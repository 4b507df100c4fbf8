package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockWatch/internal/models"
	"StockWatch/pkg/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	products []models.Product
	err      error
}

func (f *fakeSource) CrawlCatalog() ([]models.Product, error) { return f.products, f.err }

type fakeStore struct {
	loaded models.Snapshot
	saved  *models.Snapshot
	errSav error
}

func (f *fakeStore) Load() models.Snapshot { return f.loaded }
func (f *fakeStore) Save(s models.Snapshot) error {
	if f.errSav != nil {
		return f.errSav
	}
	f.saved = &s
	return nil
}

type fakeNotifier struct {
	calls   int
	changes []models.Change
	err     error
}

func (f *fakeNotifier) NotifyChanges(_ context.Context, _ string, changes []models.Change) error {
	f.calls++
	f.changes = changes
	return f.err
}

func catalog() []models.Product {
	return []models.Product{{
		URL:    "https://enroute.run/products/beta-lt-jacket",
		Handle: "beta-lt-jacket",
		Title:  "Beta LT Jacket",
		Variants: []models.Variant{
			{Color: "Black Sapphire", Size: "M", Available: true},
			{Color: "Black Sapphire", Size: "L", Available: false},
		},
	}}
}

func newTestApp(source *fakeSource, store *fakeStore, notifier *fakeNotifier) *App {
	cfg := config.Default()
	cfg.Notify.WebhookURL = "https://discord.example/webhook"
	a := New(cfg, zerolog.Nop(), source, store, notifier)
	a.now = func() time.Time { return time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC) }
	return a
}

func TestRunOnceFirstRun(t *testing.T) {
	store := &fakeStore{loaded: models.NewSnapshot(time.Time{})}
	notifier := &fakeNotifier{}
	a := newTestApp(&fakeSource{products: catalog()}, store, notifier)

	require.NoError(t, a.RunOnce(context.Background()))

	// Only the orderable variant is a new listing by default.
	require.Equal(t, 1, notifier.calls)
	require.Len(t, notifier.changes, 1)
	assert.Equal(t, models.ChangeNewListing, notifier.changes[0].Kind)

	require.NotNil(t, store.saved)
	assert.Equal(t, 2, store.saved.Len())
	state, ok := store.saved.Get(models.VariantKey{Product: "beta-lt-jacket", Color: "Black Sapphire", Size: "M"})
	require.True(t, ok)
	assert.True(t, state.Orderable)
	assert.Equal(t, "Beta LT Jacket", state.ProductTitle)
	assert.False(t, state.LastSeen.IsZero())
}

func TestRunOnceNoChangesSkipsNotifier(t *testing.T) {
	notifier := &fakeNotifier{}
	store := &fakeStore{}
	a := newTestApp(&fakeSource{products: catalog()}, store, notifier)

	// Seed the store with exactly what the crawl will produce.
	require.NoError(t, a.RunOnce(context.Background()))
	store.loaded = *store.saved
	notifier.calls = 0

	require.NoError(t, a.RunOnce(context.Background()))

	assert.Equal(t, 0, notifier.calls)
	assert.NotNil(t, store.saved)
}

func TestRunOnceCrawlFailureIsFatalAndNonDestructive(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	a := newTestApp(&fakeSource{err: errors.New("collection unreachable")}, store, notifier)

	err := a.RunOnce(context.Background())

	require.Error(t, err)
	assert.Equal(t, 0, notifier.calls)
	assert.Nil(t, store.saved)
}

func TestRunOnceNotifierFailureStillPersists(t *testing.T) {
	store := &fakeStore{loaded: models.NewSnapshot(time.Time{})}
	notifier := &fakeNotifier{err: errors.New("webhook down")}
	a := newTestApp(&fakeSource{products: catalog()}, store, notifier)

	require.NoError(t, a.RunOnce(context.Background()))

	assert.Equal(t, 1, notifier.calls)
	assert.NotNil(t, store.saved)
}

func TestRunOnceSaveFailure(t *testing.T) {
	store := &fakeStore{errSav: errors.New("disk full")}
	a := newTestApp(&fakeSource{products: catalog()}, store, &fakeNotifier{})

	err := a.RunOnce(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist snapshot")
}

func TestRunOnceRestockTransition(t *testing.T) {
	prev := models.NewSnapshot(time.Time{})
	prev.Put(models.VariantKey{Product: "beta-lt-jacket", Color: "Black Sapphire", Size: "M"},
		models.VariantState{Orderable: false})
	prev.Put(models.VariantKey{Product: "beta-lt-jacket", Color: "Black Sapphire", Size: "L"},
		models.VariantState{Orderable: false})

	store := &fakeStore{loaded: prev}
	notifier := &fakeNotifier{}
	a := newTestApp(&fakeSource{products: catalog()}, store, notifier)

	require.NoError(t, a.RunOnce(context.Background()))

	require.Len(t, notifier.changes, 1)
	assert.Equal(t, models.ChangeRestocked, notifier.changes[0].Kind)
	assert.Equal(t, "M", notifier.changes[0].Key.Size)
}
