// Package store provides access to the document store backing the catalog.
// The store is treated as a black box: a capability probe, key and equality
// lookups, and single-item writes. No transactions, no joins.
package store

import "context"

// Item is one raw document as returned by the backing store. Values may be
// plain scalars or legacy wrapped attribute maps ({"N": "120"}, {"SS": [...]});
// unwrapping is the catalog normalizer's job, not the store's.
type Item map[string]any

// Store is the minimal document-store contract the gateway depends on.
// Implementations make at most one outbound call per method, never retry,
// and impose no timeout of their own; deadlines come from the caller's
// context.
type Store interface {
	// Probe performs a cheap, side-effect-free capability check. A nil error
	// means the store is reachable this request.
	Probe(ctx context.Context) error

	// VideosByStatus returns raw video items whose status equals the given
	// value. When mostRecentFirst is set, items are ordered by descending
	// creation timestamp; otherwise store order applies.
	VideosByStatus(ctx context.Context, status string, mostRecentFirst bool) ([]Item, error)

	// Partners returns all raw partner items, unfiltered.
	Partners(ctx context.Context) ([]Item, error)

	// PartnerByAPIKey looks up the partner record holding the given API key.
	// The boolean reports whether a record was found.
	PartnerByAPIKey(ctx context.Context, apiKey string) (Item, bool, error)

	// PutVideo writes one video item.
	PutVideo(ctx context.Context, item Item) error

	// Sample returns up to limit raw items from the named table, for
	// introspection endpoints.
	Sample(ctx context.Context, table string, limit int32) ([]Item, error)
}
