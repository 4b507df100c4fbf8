package snapshot

import (
	"sort"

	"StockWatch/internal/models"
)

// Options controls which classifications the diff emits.
type Options struct {
	// IncludeUnorderableNew emits NEW_LISTING for variants that appear
	// already sold out. Off by default: a listing nobody can buy is noise
	// when the point is catching restocks.
	IncludeUnorderableNew bool
}

// kindRank fixes the per-product emission order of transition kinds.
var kindRank = map[models.ChangeKind]int{
	models.ChangeRestocked:  0,
	models.ChangeNewListing: 1,
	models.ChangeSoldOut:    2,
	models.ChangeDelisted:   3,
}

// Diff compares two snapshots and returns the classified transitions in a
// deterministic order: by product, then kind, then color, then size. The
// function is pure; identical inputs always produce the identical list.
func Diff(oldSnap, newSnap models.Snapshot, opts Options) []models.Change {
	keys := make(map[string]bool, len(oldSnap.Variants)+len(newSnap.Variants))
	for k := range oldSnap.Variants {
		keys[k] = true
	}
	for k := range newSnap.Variants {
		keys[k] = true
	}

	var changes []models.Change
	for encoded := range keys {
		key, err := models.ParseVariantKey(encoded)
		if err != nil {
			// A key that cannot be decoded came from a hand-edited file;
			// it cannot be reported meaningfully, so it is skipped.
			continue
		}

		oldState, inOld := oldSnap.Variants[encoded]
		newState, inNew := newSnap.Variants[encoded]

		switch {
		case !inOld && inNew:
			if !newState.Orderable && !opts.IncludeUnorderableNew {
				continue
			}
			to := newState
			changes = append(changes, models.Change{Key: key, Kind: models.ChangeNewListing, To: &to})
		case inOld && !inNew:
			from := oldState
			changes = append(changes, models.Change{Key: key, Kind: models.ChangeDelisted, From: &from})
		case oldState.Orderable != newState.Orderable:
			kind := models.ChangeSoldOut
			if newState.Orderable {
				kind = models.ChangeRestocked
			}
			from, to := oldState, newState
			changes = append(changes, models.Change{Key: key, Kind: kind, From: &from, To: &to})
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		a, b := changes[i], changes[j]
		if a.Key.Product != b.Key.Product {
			return a.Key.Product < b.Key.Product
		}
		if kindRank[a.Kind] != kindRank[b.Kind] {
			return kindRank[a.Kind] < kindRank[b.Kind]
		}
		if a.Key.Color != b.Key.Color {
			return a.Key.Color < b.Key.Color
		}
		return a.Key.Size < b.Key.Size
	})

	return changes
}
