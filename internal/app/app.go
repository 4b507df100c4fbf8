package app

import (
	"context"
	"fmt"
	"time"

	"StockWatch/internal/models"
	"StockWatch/internal/snapshot"
	"StockWatch/pkg/config"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CatalogSource produces the current variant availability of the whole
// watched collection.
type CatalogSource interface {
	CrawlCatalog() ([]models.Product, error)
}

// Notifier delivers classified changes somewhere humans will see them.
type Notifier interface {
	NotifyChanges(ctx context.Context, runID string, changes []models.Change) error
}

// SnapshotStore persists the availability baseline between runs.
type SnapshotStore interface {
	Load() models.Snapshot
	Save(models.Snapshot) error
}

// App wires one monitoring run together. All state lives in the snapshot
// file; the process itself is stateless between invocations.
type App struct {
	cfg      *config.Config
	logger   zerolog.Logger
	source   CatalogSource
	store    SnapshotStore
	notifier Notifier
	now      func() time.Time
}

// New creates an application instance with all dependencies supplied.
func New(cfg *config.Config, logger zerolog.Logger, source CatalogSource, store SnapshotStore, notifier Notifier) *App {
	return &App{
		cfg:      cfg,
		logger:   logger.With().Str("module", "App").Logger(),
		source:   source,
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

// RunOnce performs a single monitoring cycle: crawl, assemble the new
// snapshot, diff against the stored one, notify, persist. The snapshot is
// replaced only after notification dispatch was attempted, so a crash
// in between re-sends the same notifications next run rather than losing
// them. A crawl failure returns before any persistence change.
func (a *App) RunOnce(ctx context.Context) error {
	runID := uuid.NewString()
	logger := a.logger.With().Str("run_id", runID).Logger()
	start := a.now()

	products, err := a.source.CrawlCatalog()
	if err != nil {
		return fmt.Errorf("crawl failed, keeping previous snapshot: %w", err)
	}

	capturedAt := a.now().UTC()
	newSnap := a.assembleSnapshot(products, capturedAt)
	logger.Info().
		Int("products", len(products)).
		Int("variants", newSnap.Len()).
		Msg("Catalog crawled")

	oldSnap := a.store.Load()
	changes := snapshot.Diff(oldSnap, newSnap, snapshot.Options{
		IncludeUnorderableNew: a.cfg.Notify.IncludeUnorderableNew,
	})
	logger.Info().Int("changes", len(changes)).Msg("Snapshot diff computed")

	if len(changes) > 0 {
		if err := a.notifier.NotifyChanges(ctx, runID, changes); err != nil {
			// Delivery problems must not block persistence; the next run
			// retries nothing, by design.
			logger.Error().Err(err).Msg("Notification delivery failed")
		}
	}

	if err := a.store.Save(newSnap); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}

	logger.Info().Dur("elapsed", a.now().Sub(start)).Msg("Run complete")
	return nil
}

// assembleSnapshot flattens the crawled products into the variant map. Every
// entry gets the capture time as lastSeen: presence in the snapshot means
// presence in this crawl.
func (a *App) assembleSnapshot(products []models.Product, capturedAt time.Time) models.Snapshot {
	snap := models.NewSnapshot(capturedAt)
	for _, p := range products {
		for _, v := range p.Variants {
			key := models.VariantKey{Product: p.Handle, Color: v.Color, Size: v.Size}
			snap.Put(key, models.VariantState{
				Orderable:    v.Available,
				LastSeen:     capturedAt,
				ProductTitle: p.Title,
				ProductURL:   p.URL,
			})
		}
	}
	return snap
}
