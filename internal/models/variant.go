package models

import (
	"fmt"
	"strings"
	"time"
)

// VariantKey identifies one purchasable unit: a color/size combination of a
// product. Product is the canonical handle from the /products/<handle> URL.
type VariantKey struct {
	Product string
	Color   string
	Size    string
}

// String returns the stable encoding used as the snapshot map key.
func (k VariantKey) String() string {
	return k.Product + "|" + k.Color + "|" + k.Size
}

// ParseVariantKey decodes a snapshot map key back into its parts.
func ParseVariantKey(s string) (VariantKey, error) {
	parts := strings.SplitN(s, "|", 3)
	if len(parts) != 3 {
		return VariantKey{}, fmt.Errorf("malformed variant key %q", s)
	}
	return VariantKey{Product: parts[0], Color: parts[1], Size: parts[2]}, nil
}

// VariantState is the last known availability of one variant.
type VariantState struct {
	Orderable    bool      `json:"orderable"`
	LastSeen     time.Time `json:"last_seen"`
	ProductTitle string    `json:"product_title"`
	ProductURL   string    `json:"product_url"`
}

// SnapshotVersion is the schema version written on every save. Readers treat
// an absent version as 1 so older files stay loadable.
const SnapshotVersion = 1

// Snapshot is the complete recorded availability state of all tracked
// variants at one point in time. Absence of a key means "not currently
// listed", which is distinct from "listed but not orderable".
type Snapshot struct {
	Version    int                     `json:"version"`
	CapturedAt time.Time               `json:"captured_at"`
	Variants   map[string]VariantState `json:"variants"`
}

// NewSnapshot returns an empty snapshot captured at t.
func NewSnapshot(t time.Time) Snapshot {
	return Snapshot{
		Version:    SnapshotVersion,
		CapturedAt: t,
		Variants:   make(map[string]VariantState),
	}
}

// Get looks up the state for a variant key.
func (s Snapshot) Get(k VariantKey) (VariantState, bool) {
	st, ok := s.Variants[k.String()]
	return st, ok
}

// Put records the state for a variant key.
func (s *Snapshot) Put(k VariantKey, st VariantState) {
	if s.Variants == nil {
		s.Variants = make(map[string]VariantState)
	}
	s.Variants[k.String()] = st
}

// Len reports the number of tracked variants.
func (s Snapshot) Len() int { return len(s.Variants) }

// ChangeKind classifies an availability transition between two snapshots.
type ChangeKind string

const (
	ChangeRestocked  ChangeKind = "RESTOCKED"
	ChangeNewListing ChangeKind = "NEW_LISTING"
	ChangeSoldOut    ChangeKind = "SOLD_OUT"
	ChangeDelisted   ChangeKind = "DELISTED"
)

// Change is one classified transition produced by the diff. From is nil for
// NEW_LISTING, To is nil for DELISTED. Changes are never persisted.
type Change struct {
	Key  VariantKey
	Kind ChangeKind
	From *VariantState
	To   *VariantState
}
