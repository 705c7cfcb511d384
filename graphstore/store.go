// Package graphstore wraps an external graph/document store and exposes
// only the vocabulary the core needs. The adapter is the only
// component allowed to talk to that store; the Coordinator and the Hybrid
// Query Engine are written against the Store interface, never against a
// concrete adapter.
package graphstore

import (
	"context"

	"vectadb.dev/core/ontology"
)

// Direction constrains a neighbor/traversal query relative to an entity.
type Direction string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
	DirectionBoth     Direction = "both"
)

// Neighbor pairs a relation with the id it leads to, from the perspective
// of the entity a neighbors() call was made against.
type Neighbor struct {
	Relation   ontology.Relation
	NeighborID string
}

// Store is the full vocabulary the core depends on from a graph/document
// backing store.
type Store interface {
	StoreSchema(ctx context.Context, schema *ontology.Schema) error
	LoadSchema(ctx context.Context) (*ontology.Schema, error)

	CreateEntity(ctx context.Context, entity ontology.Entity) error
	GetEntity(ctx context.Context, id string) (*ontology.Entity, error)
	UpdateEntity(ctx context.Context, id string, entity ontology.Entity) error
	DeleteEntity(ctx context.Context, id string) error
	ListEntities(ctx context.Context, typeIDs []string) ([]ontology.Entity, error)

	CreateRelation(ctx context.Context, relation ontology.Relation) error
	DeleteRelation(ctx context.Context, id string) error
	Neighbors(ctx context.Context, entityID string, relationType string, direction Direction) ([]Neighbor, error)
	TraverseBFS(ctx context.Context, startID string, relationType string, direction Direction, maxDepth int) ([]ontology.Entity, error)
}
