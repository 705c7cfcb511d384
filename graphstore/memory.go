package graphstore

import (
	"context"
	"sort"
	"sync"

	"vectadb.dev/core/ontology"
)

var _ Store = (*MemoryAdapter)(nil)

// MemoryAdapter is an in-memory reference Store, suitable as the default/
// degraded-mode adapter and as the fixture every Coordinator/Engine test
// runs against.
type MemoryAdapter struct {
	mu        sync.RWMutex
	schema    *ontology.Schema
	entities  map[string]ontology.Entity
	relations map[string]ontology.Relation
	// outgoing/incoming index relation ids by entity id, for Neighbors/BFS.
	outgoing map[string][]string
	incoming map[string][]string
}

// NewMemoryAdapter returns an empty MemoryAdapter.
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		entities:  make(map[string]ontology.Entity),
		relations: make(map[string]ontology.Relation),
		outgoing:  make(map[string][]string),
		incoming:  make(map[string][]string),
	}
}

func (a *MemoryAdapter) StoreSchema(_ context.Context, schema *ontology.Schema) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.schema = schema
	return nil
}

func (a *MemoryAdapter) LoadSchema(_ context.Context) (*ontology.Schema, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.schema, nil
}

func (a *MemoryAdapter) CreateEntity(_ context.Context, entity ontology.Entity) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.entities[entity.ID]; exists {
		return &DuplicateIDError{ID: entity.ID}
	}
	a.entities[entity.ID] = entity.Clone()
	return nil
}

func (a *MemoryAdapter) GetEntity(_ context.Context, id string) (*ontology.Entity, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	e, ok := a.entities[id]
	if !ok {
		return nil, nil
	}
	clone := e.Clone()
	return &clone, nil
}

func (a *MemoryAdapter) UpdateEntity(_ context.Context, id string, entity ontology.Entity) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.entities[id]; !ok {
		return &NotFoundError{Kind: "entity", ID: id}
	}
	a.entities[id] = entity.Clone()
	return nil
}

func (a *MemoryAdapter) DeleteEntity(_ context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.entities[id]; !ok {
		return &NotFoundError{Kind: "entity", ID: id}
	}
	delete(a.entities, id)
	return nil
}

func (a *MemoryAdapter) ListEntities(_ context.Context, typeIDs []string) ([]ontology.Entity, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	want := make(map[string]bool, len(typeIDs))
	for _, t := range typeIDs {
		want[t] = true
	}

	var out []ontology.Entity
	for _, e := range a.entities {
		if len(want) == 0 || want[e.Type] {
			out = append(out, e.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (a *MemoryAdapter) CreateRelation(_ context.Context, relation ontology.Relation) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.relations[relation.ID]; exists {
		return &DuplicateIDError{ID: relation.ID}
	}
	if _, ok := a.entities[relation.SourceID]; !ok {
		return &EndpointMissingError{RelationID: relation.ID, EntityID: relation.SourceID}
	}
	if _, ok := a.entities[relation.TargetID]; !ok {
		return &EndpointMissingError{RelationID: relation.ID, EntityID: relation.TargetID}
	}

	a.relations[relation.ID] = relation
	a.outgoing[relation.SourceID] = append(a.outgoing[relation.SourceID], relation.ID)
	a.incoming[relation.TargetID] = append(a.incoming[relation.TargetID], relation.ID)
	return nil
}

func (a *MemoryAdapter) DeleteRelation(_ context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	rel, ok := a.relations[id]
	if !ok {
		return &NotFoundError{Kind: "relation", ID: id}
	}
	delete(a.relations, id)
	a.outgoing[rel.SourceID] = removeID(a.outgoing[rel.SourceID], id)
	a.incoming[rel.TargetID] = removeID(a.incoming[rel.TargetID], id)
	return nil
}

func removeID(ids []string, target string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

func (a *MemoryAdapter) Neighbors(_ context.Context, entityID string, relationType string, direction Direction) ([]Neighbor, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.neighborsLocked(entityID, relationType, direction), nil
}

// neighborsLocked assumes the caller already holds at least a read lock.
func (a *MemoryAdapter) neighborsLocked(entityID string, relationType string, direction Direction) []Neighbor {
	var out []Neighbor
	if direction == DirectionOutgoing || direction == DirectionBoth {
		for _, relID := range a.outgoing[entityID] {
			rel := a.relations[relID]
			if relationType != "" && rel.Type != relationType {
				continue
			}
			out = append(out, Neighbor{Relation: rel, NeighborID: rel.TargetID})
		}
	}
	if direction == DirectionIncoming || direction == DirectionBoth {
		for _, relID := range a.incoming[entityID] {
			rel := a.relations[relID]
			if relationType != "" && rel.Type != relationType {
				continue
			}
			out = append(out, Neighbor{Relation: rel, NeighborID: rel.SourceID})
		}
	}
	return out
}

// TraverseBFS enumerates entities level-order from startID, level-first
// then lexicographic by id within a level. max_depth = 0 returns only the
// start entity; an unknown start id returns an empty sequence, not an
// error.
func (a *MemoryAdapter) TraverseBFS(_ context.Context, startID string, relationType string, direction Direction, maxDepth int) ([]ontology.Entity, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if _, ok := a.entities[startID]; !ok {
		return nil, nil
	}

	visited := map[string]bool{startID: true}
	order := []string{startID}
	frontier := []string{startID}

	for depth := 0; depth < maxDepth; depth++ {
		var nextFrontier []string
		seenThisLevel := make(map[string]bool)
		for _, id := range frontier {
			for _, n := range a.neighborsLocked(id, relationType, direction) {
				if visited[n.NeighborID] || seenThisLevel[n.NeighborID] {
					continue
				}
				seenThisLevel[n.NeighborID] = true
				nextFrontier = append(nextFrontier, n.NeighborID)
			}
		}
		sort.Strings(nextFrontier)
		for _, id := range nextFrontier {
			visited[id] = true
			order = append(order, id)
		}
		if len(nextFrontier) == 0 {
			break
		}
		frontier = nextFrontier
	}

	out := make([]ontology.Entity, 0, len(order))
	for _, id := range order {
		ent, ok := a.entities[id]
		if !ok {
			// Relations aren't cascade-deleted with their endpoints, so the
			// adjacency index can still reference an id whose entity is
			// gone. Keep the id (as an ID-only stub) so callers can still
			// detect and report it as dangling instead of silently losing
			// it from the traversal order.
			out = append(out, ontology.Entity{ID: id})
			continue
		}
		out = append(out, ent.Clone())
	}
	return out, nil
}
