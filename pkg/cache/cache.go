// Package cache stores serialized results keyed by input content and
// writer options.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP service
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// Keys are built by a [Keyer] so that callers never assemble key strings by
// hand. A key covers both the input hash and every writer option, because
// the same molecule gives different text under different options.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/molline/pkg/line"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired key is a miss
	// (ok == false), not an error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// LineKey is the key for the serialized text of the input with content
	// hash graphHash, written with opts.
	LineKey(graphHash string, opts line.Options) string
}

// DefaultKeyer builds keys of the form "line:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LineKey hashes the input hash together with the defaulted options, so two
// option sets that serialize identically share a key.
func (DefaultKeyer) LineKey(graphHash string, opts line.Options) string {
	opts.SetDefaults()
	return hashKey("line", graphHash, opts)
}
