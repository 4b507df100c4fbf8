package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"StockWatch/internal/models"

	"github.com/rs/zerolog"
)

// Store persists the inventory snapshot as a single JSON document. It is the
// only stateful component; everything else is rebuilt on every run.
type Store struct {
	path   string
	logger zerolog.Logger
}

// NewStore creates a store backed by the file at path.
func NewStore(path string, logger zerolog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger.With().Str("module", "SnapshotStore").Logger(),
	}
}

// Load reads the persisted snapshot. A missing or malformed file yields an
// empty snapshot so a first run (or a recovery run) never blocks; after a
// malformed file every currently orderable variant will be re-reported as a
// new listing once, which is the documented recovery cost.
func (s *Store) Load() models.Snapshot {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("Snapshot unreadable, starting from empty state")
		}
		return models.NewSnapshot(time.Time{})
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Snapshot malformed, starting from empty state")
		return models.NewSnapshot(time.Time{})
	}
	if snap.Version == 0 {
		// Files written before versioning carry no version field.
		snap.Version = models.SnapshotVersion
	}
	if snap.Variants == nil {
		snap.Variants = make(map[string]models.VariantState)
	}

	s.logger.Debug().Int("variants", snap.Len()).Time("captured_at", snap.CapturedAt).Msg("Snapshot loaded")
	return snap
}

// Save writes the snapshot durably, replacing the previous file as a single
// atomic unit. The write goes to a temp file in the same directory and is
// renamed into place, so a crash mid-write leaves the old snapshot intact.
func (s *Store) Save(snap models.Snapshot) error {
	snap.Version = models.SnapshotVersion

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}

	s.logger.Debug().Int("variants", snap.Len()).Str("path", s.path).Msg("Snapshot saved")
	return nil
}
