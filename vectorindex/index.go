// Package vectorindex wraps an external ANN index. Collections are one per
// entity type id; the namespace for collection names is private to the
// adapter.
package vectorindex

import (
	"context"
	"fmt"
)

// Distance names the similarity metric a collection is built for. Cosine is
// the only metric the core currently synthesizes queries for.
type Distance string

const DistanceCosine Distance = "cosine"

// SearchResult is one match from Search, fanned out across every
// collection named in the query and merged by score.
type SearchResult struct {
	EntityID string
	Score    float64
	TypeID   string
}

// DimensionMismatchError is returned by EnsureCollection when an existing
// collection for typeID was built with a different dimension.
type DimensionMismatchError struct {
	TypeID   string
	Existing int
	Given    int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("collection %q has dimension %d, got %d", e.TypeID, e.Existing, e.Given)
}

// Index is the full vocabulary the core depends on from a vector search
// backend.
type Index interface {
	EnsureCollection(ctx context.Context, typeID string, dimension int, distance Distance) error
	Upsert(ctx context.Context, typeID, entityID string, vector []float32, payload map[string]any) error
	Delete(ctx context.Context, typeID, entityID string) error
	Search(ctx context.Context, typeIDs []string, queryVector []float32, limit int, minScore *float64) ([]SearchResult, error)
}
