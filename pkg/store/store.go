// Package store persists named diagram documents for the serve surface.
//
// A document is the specification plus naming metadata; compiled geometry is
// never stored here, it is recomputed (or cache-served) on demand. Backends:
// in-memory for tests and single-process runs, MongoDB for deployments.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mapweaver/mapweaver/pkg/errors"
	"github.com/mapweaver/mapweaver/pkg/spec"
)

// Diagram is one stored document.
type Diagram struct {
	ID        string     `json:"id" bson:"_id"`
	Name      string     `json:"name" bson:"name"`
	Spec      *spec.Spec `json:"spec" bson:"spec"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}

// Store is the persistence contract.
type Store interface {
	// Put upserts a diagram. An empty ID gets one assigned; timestamps
	// are maintained by the store.
	Put(ctx context.Context, d *Diagram) error

	// Get returns the diagram with the given ID, or a DIAGRAM_NOT_FOUND
	// error.
	Get(ctx context.Context, id string) (*Diagram, error)

	// List returns all diagrams, most recently updated first.
	List(ctx context.Context) ([]*Diagram, error)

	// Delete removes a diagram, or returns DIAGRAM_NOT_FOUND.
	Delete(ctx context.Context, id string) error

	Close(ctx context.Context) error
}

// notFound builds the shared not-found error.
func notFound(id string) error {
	return errors.New(errors.ErrCodeDiagramNotFound, "diagram %q not found", id)
}

// prepare fills in identity and timestamps before a write.
func prepare(d *Diagram) {
	now := time.Now().UTC()
	if d.ID == "" {
		d.ID = uuid.NewString()
		d.CreatedAt = now
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
}
