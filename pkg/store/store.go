// Package store persists named graphs.
//
// Two backends implement [Store]: [FileStore] keeps one JSON document per graph
// under a directory, and [MongoStore] keeps one MongoDB document per graph.
// Ids are validated with errors.ValidateGraphID; [Create] assigns a random
// UUID.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/tonegraph/pkg/graph"
)

// Store is a keyed collection of graphs.
type Store interface {
	// Put creates or replaces the graph stored under id.
	Put(ctx context.Context, id string, g *graph.Graph) error

	// Get returns the graph stored under id, or a NOT_FOUND error.
	Get(ctx context.Context, id string) (*graph.Graph, error)

	// Delete removes id, or returns a NOT_FOUND error.
	Delete(ctx context.Context, id string) error

	// List returns a summary of every stored graph ordered by id.
	List(ctx context.Context) ([]Entry, error)

	Close() error
}

// Entry summarizes one stored graph.
type Entry struct {
	ID        string    `json:"id"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewID returns a fresh graph id.
func NewID() string {
	return uuid.NewString()
}

// Create stores g under a new id and returns it.
func Create(ctx context.Context, s Store, g *graph.Graph) (string, error) {
	id := NewID()
	if err := s.Put(ctx, id, g); err != nil {
		return "", err
	}
	return id, nil
}
