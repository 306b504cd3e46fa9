// Package cache provides the storage layer used to memoize layouts and
// rendered artifacts.
//
// A [Cache] is a byte-oriented key/value store with per-entry TTLs. Three
// backends are provided:
//   - [FileCache] for the CLI (entries under ~/.cache/rrgraph)
//   - [RedisCache] for the HTTP server when several instances share results
//   - [NullCache] when caching is disabled
//
// Keys are produced by a [Keyer] so that the same sector batch rendered with
// the same options maps to the same entry regardless of backend.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key/value store.
//
// Get reports a miss with ok=false and a nil error. Implementations must be
// safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys from content hashes and options.
type Keyer interface {
	// LayoutKey keys a computed layout by the hash of its sector batch.
	LayoutKey(sectorsHash string, opts LayoutKeyOpts) string
	// ArtifactKey keys a rendered artifact by the hash of its layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every option that changes a computed layout.
type LayoutKeyOpts struct {
	Width             float64 `json:"width"`
	Height            float64 `json:"height"`
	Radius            float64 `json:"radius"`
	Gap               float64 `json:"gap"`
	Rounds            int     `json:"rounds"`
	Padding           float64 `json:"padding"`
	MinRatioSpread    float64 `json:"min_ratio_spread"`
	MinMomentumSpread float64 `json:"min_momentum_spread"`
	RatioTicks        int     `json:"ratio_ticks"`
	MomentumTicks     int     `json:"momentum_ticks"`
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Style       string  `json:"style"`
	Interactive bool    `json:"interactive"`
	Legend      bool    `json:"legend"`
	Hover       string  `json:"hover,omitempty"`
	PointerX    float64 `json:"pointer_x,omitempty"`
	PointerY    float64 `json:"pointer_y,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes options into namespaced keys of the form
// "layout:<sha256>" and "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(sectorsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", sectorsHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
