// Package registry stores canonical molecules keyed by their canonical text.
//
// Registering the same structure twice, however its input was written,
// returns the record created the first time. Implementations:
//   - memory: in-process storage for tests and single-instance servers
//   - file: JSON files for CLI use
//   - mongo: MongoDB for shared deployments
//
// # Usage
//
//	store := registry.NewMemoryStore()
//	rec, created, err := store.Register(ctx, registry.Record{
//	    Canonical: "CCO",
//	    Source:    "OCC",
//	})
//
//	rec, err = store.Lookup(ctx, "CCO")
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // not registered
//	}
package registry

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/molline/pkg/errors"
)

// ErrNotFound is returned when no record matches.
var ErrNotFound = errors.New(errors.ErrCodeNotFound, "molecule not registered")

// Record is a registered molecule.
type Record struct {
	ID        string    `json:"id" bson:"_id"`
	Canonical string    `json:"canonical" bson:"canonical"`
	Source    string    `json:"source,omitempty" bson:"source,omitempty"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Atoms     int       `json:"atoms" bson:"atoms"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Store is the interface for registry backends.
type Store interface {
	// Register stores rec unless a record with the same canonical text
	// exists. It returns the stored record and whether it was created.
	Register(ctx context.Context, rec Record) (Record, bool, error)

	// Lookup returns the record for a canonical string, or ErrNotFound.
	Lookup(ctx context.Context, canonical string) (Record, error)

	// Get returns the record with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (Record, error)

	// Close releases backend resources.
	Close() error
}

// prepare validates rec and fills ID and CreatedAt when unset.
func prepare(rec Record) (Record, error) {
	if rec.Canonical == "" {
		return rec, errors.New(errors.ErrCodeInvalidInput, "canonical text cannot be empty")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	} else if _, err := uuid.Parse(rec.ID); err != nil {
		return rec, errors.Wrap(errors.ErrCodeInvalidInput, err, "record id %q", rec.ID)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return rec, nil
}
