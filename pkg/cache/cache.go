// Package cache stores search reports and rendered artifacts.
//
// Entries are opaque bytes under string keys with an optional TTL. Three
// backends share the [Cache] interface:
//
//   - [FileCache]: one JSON file per key under a directory (CLI default)
//   - [RedisCache]: a Redis server, for several API instances sharing results
//   - [NullCache]: never stores anything (--no-cache)
//
// Keys come from a [Keyer] so the CLI and the HTTP API agree on them:
//
//	k := cache.NewDefaultKeyer()
//	key := k.SearchKey(cache.Hash(layout), cache.SearchKeyOpts{Heuristic: "manhattan"})
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with expiry. Get reports a miss as (nil, false, nil);
// an error means the backend itself failed.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default lifetimes per entry kind. A search result depends only on the
// layout, so it can live as long as the artifacts drawn from it.
const (
	TTLSearch   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// SearchKeyOpts are the inputs besides the layout that change a search result.
type SearchKeyOpts struct {
	Heuristic string `json:"heuristic"`
}

// ArtifactKeyOpts are the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format  string `json:"format"`
	CellPx  int    `json:"cell_px,omitempty"`
	Palette string `json:"palette,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// SearchKey addresses the report of a search over the layout with the
	// given hash.
	SearchKey(layoutHash string, opts SearchKeyOpts) string
	// ArtifactKey addresses one rendering of the report with the given hash.
	ArtifactKey(reportHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SearchKey implements Keyer.
func (DefaultKeyer) SearchKey(layoutHash string, opts SearchKeyOpts) string {
	return hashKey("search", layoutHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(reportHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", reportHash, opts)
}
