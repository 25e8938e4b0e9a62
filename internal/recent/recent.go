// Package recent tracks the products a shopper has looked at, most recent
// first.
package recent

import (
	"context"
	"slices"

	"github.com/roach88/xapparel/internal/catalog"
	"github.com/roach88/xapparel/internal/kv"
)

// StorageKey is the kv key holding the viewed product IDs.
const StorageKey = "recentlyViewed"

// MaxEntries bounds the stored list.
const MaxEntries = 5

// Tracker records product views. It keeps no state of its own; every call
// reads and writes the store.
type Tracker struct {
	store *kv.Adapter
}

// New returns a tracker backed by store.
func New(store *kv.Adapter) *Tracker {
	return &Tracker{store: store}
}

// RecordView moves productID to the front of the list, dropping any earlier
// occurrence and anything past MaxEntries.
func (t *Tracker) RecordView(ctx context.Context, productID string) []string {
	ids := t.IDs(ctx)
	ids = slices.DeleteFunc(ids, func(id string) bool { return id == productID })
	ids = append([]string{productID}, ids...)
	if len(ids) > MaxEntries {
		ids = ids[:MaxEntries]
	}
	t.store.Write(ctx, StorageKey, ids)
	return ids
}

// IDs returns the stored list as written.
func (t *Tracker) IDs(ctx context.Context) []string {
	return kv.Read(ctx, t.store, StorageKey, []string{})
}

// Resolve maps the stored IDs to catalog products. IDs the catalog no longer
// knows and repeated IDs are skipped; order is kept.
func (t *Tracker) Resolve(ctx context.Context, cat *catalog.Catalog) []catalog.Product {
	ids := t.IDs(ctx)
	seen := make(map[string]bool, len(ids))
	products := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := cat.Lookup(id); ok {
			products = append(products, p)
		}
	}
	return products
}

// Clear forgets every view.
func (t *Tracker) Clear(ctx context.Context) {
	t.store.Write(ctx, StorageKey, []string{})
}
