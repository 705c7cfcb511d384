// Package coordinator is the dual-store orchestrator: every entity
// lifecycle operation (create, update, delete) passes through here so the
// graph store and vector index are kept consistent, with compensating
// actions when one side of a write fails after the other has committed.
package coordinator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"vectadb.dev/core/embedding"
	"vectadb.dev/core/graphstore"
	"vectadb.dev/core/logging"
	"vectadb.dev/core/ontology"
	"vectadb.dev/core/validator"
	"vectadb.dev/core/vectorindex"
)

// Coordinator ties the Schema Model, an embedding provider, a graph store,
// and a vector index together behind the lifecycle operations below.
type Coordinator struct {
	registry *ontology.Registry
	graph    graphstore.Store
	vector   vectorindex.Index
	embedder embedding.Provider
	log      *slog.Logger

	locks *idLockTable
}

// New returns a Coordinator. log may be nil, in which case a discarding
// logger is used. shardCount configures the id lock table's concurrency
// fan-out; zero selects the default.
func New(registry *ontology.Registry, graph graphstore.Store, vector vectorindex.Index, embedder embedding.Provider, log *slog.Logger, shardCount int) *Coordinator {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Coordinator{
		registry: registry,
		graph:    graph,
		vector:   vector,
		embedder: embedder,
		log:      log.With(logging.Component("coordinator")),
		locks:    newIDLockTable(shardCount),
	}
}

func (c *Coordinator) currentSchema() (*ontology.Schema, error) {
	schema := c.registry.Current()
	if schema == nil {
		return nil, fmt.Errorf("coordinator: no schema loaded")
	}
	return schema, nil
}

// Create validates properties against typeID, synthesizes and embeds text
// when the entity has any string-typed property, writes the graph record,
// then the vector record, compensating the graph write if the vector side
// fails.
func (c *Coordinator) Create(ctx context.Context, typeID string, properties map[string]ontology.PropertyValue) (ontology.Entity, error) {
	schema, err := c.currentSchema()
	if err != nil {
		return ontology.Entity{}, err
	}

	result := validator.ValidateEntity(schema, typeID, properties, validator.Options{})
	if !result.Valid {
		return ontology.Entity{}, &ValidationError{Issues: issueMessages(result)}
	}

	id := uuid.New().String()
	unlock := c.locks.lockOne(id)
	defer unlock()

	text := embedding.SynthesizeText(typeID, properties)
	var vec []float32
	if text != "" {
		vec, err = c.embedder.Embed(ctx, text)
		if err != nil {
			return ontology.Entity{}, fmt.Errorf("coordinator: embed: %w", err)
		}
	}

	now := time.Now().UTC()
	entity := ontology.Entity{
		ID:         id,
		Type:       typeID,
		Properties: properties,
		Embedding:  vec,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := c.graph.CreateEntity(ctx, entity); err != nil {
		return ontology.Entity{}, fmt.Errorf("coordinator: graph create: %w", err)
	}

	if len(vec) == 0 {
		return entity, nil
	}

	if vecErr := c.vectorWriteErr(ctx, typeID, id, vec); vecErr != nil {
		if compErr := c.graph.DeleteEntity(ctx, id); compErr != nil {
			c.log.Error("compensating delete failed, entity orphaned on graph side",
				"entity_id", id, "vector_error", vecErr, "compensation_error", compErr)
			return ontology.Entity{}, &PartialWriteOrphan{EntityID: id, Side: SideGraph, Cause: compErr}
		}
		return ontology.Entity{}, fmt.Errorf("coordinator: vector write: %w", vecErr)
	}

	return entity, nil
}

// vectorWriteErr performs the ensure-collection + upsert pair and returns
// the first error encountered, isolated into its own method so Create can
// treat "ensure-collection failed" and "upsert failed" identically for
// compensation purposes.
func (c *Coordinator) vectorWriteErr(ctx context.Context, typeID, id string, vec []float32) error {
	if err := c.vector.EnsureCollection(ctx, typeID, c.embedder.Dimension(), vectorindex.DistanceCosine); err != nil {
		return fmt.Errorf("ensure_collection: %w", err)
	}
	if err := c.vector.Upsert(ctx, typeID, id, vec, nil); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}

// Update validates the new properties, fetches the existing entity for a
// compensation copy, writes the graph side, and regenerates the embedding
// only when the canonical text actually changed.
func (c *Coordinator) Update(ctx context.Context, id string, properties map[string]ontology.PropertyValue) (ontology.Entity, error) {
	schema, err := c.currentSchema()
	if err != nil {
		return ontology.Entity{}, err
	}

	unlock := c.locks.lockOne(id)
	defer unlock()

	existing, err := c.graph.GetEntity(ctx, id)
	if err != nil {
		return ontology.Entity{}, fmt.Errorf("coordinator: fetch existing: %w", err)
	}
	if existing == nil {
		return ontology.Entity{}, &graphstore.NotFoundError{Kind: "entity", ID: id}
	}

	result := validator.ValidateEntity(schema, existing.Type, properties, validator.Options{})
	if !result.Valid {
		return ontology.Entity{}, &ValidationError{Issues: issueMessages(result)}
	}

	previous := existing.Clone()
	updated := existing.Clone()
	updated.Properties = properties
	updated.UpdatedAt = time.Now().UTC()

	if err := c.graph.UpdateEntity(ctx, id, updated); err != nil {
		return ontology.Entity{}, fmt.Errorf("coordinator: graph update: %w", err)
	}

	prevText := embedding.SynthesizeText(previous.Type, previous.Properties)
	newText := embedding.SynthesizeText(updated.Type, updated.Properties)
	if prevText == newText {
		return updated, nil
	}

	vecErr := c.regenerateVector(ctx, &updated, newText)
	if vecErr == nil {
		return updated, nil
	}

	if restoreErr := c.graph.UpdateEntity(ctx, id, previous); restoreErr != nil {
		c.log.Error("restore to previous entity failed after vector regeneration failure",
			"entity_id", id, "vector_error", vecErr, "restore_error", restoreErr)
		return ontology.Entity{}, &PartialWriteDivergent{EntityID: id, Cause: restoreErr}
	}
	return ontology.Entity{}, fmt.Errorf("coordinator: vector regeneration: %w", vecErr)
}

func (c *Coordinator) regenerateVector(ctx context.Context, updated *ontology.Entity, newText string) error {
	if newText == "" {
		updated.Embedding = nil
		return c.vector.Delete(ctx, updated.Type, updated.ID)
	}
	vec, err := c.embedder.Embed(ctx, newText)
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}
	if err := c.vector.EnsureCollection(ctx, updated.Type, c.embedder.Dimension(), vectorindex.DistanceCosine); err != nil {
		return fmt.Errorf("ensure_collection: %w", err)
	}
	if err := c.vector.Upsert(ctx, updated.Type, updated.ID, vec, nil); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	updated.Embedding = vec
	return nil
}

// Delete removes an entity from both stores. The vector side is deleted
// first and is a no-op, not an error, when no vector record exists;
// relations incident to the entity are left in place, becoming dangling
// edges the query engine reports rather than cascading deletes.
func (c *Coordinator) Delete(ctx context.Context, id string) error {
	unlock := c.locks.lockOne(id)
	defer unlock()

	existing, err := c.graph.GetEntity(ctx, id)
	if err != nil {
		return fmt.Errorf("coordinator: fetch existing: %w", err)
	}
	if existing == nil {
		return &graphstore.NotFoundError{Kind: "entity", ID: id}
	}

	if err := c.vector.Delete(ctx, existing.Type, id); err != nil {
		return fmt.Errorf("coordinator: vector delete: %w", err)
	}
	if err := c.graph.DeleteEntity(ctx, id); err != nil {
		return fmt.Errorf("coordinator: graph delete: %w", err)
	}
	return nil
}

// CreateRelation locks both endpoint ids in lexicographic order, fetches
// both endpoints, validates their types against relationType's declared
// domain/range, and then writes the relation; the fixed lock order means
// concurrent relation creations that share an endpoint never deadlock
// against each other.
func (c *Coordinator) CreateRelation(ctx context.Context, relationTypeID, sourceID, targetID string) (ontology.Relation, error) {
	schema, err := c.currentSchema()
	if err != nil {
		return ontology.Relation{}, err
	}

	unlock := c.locks.lockTwo(sourceID, targetID)
	defer unlock()

	source, err := c.graph.GetEntity(ctx, sourceID)
	if err != nil {
		return ontology.Relation{}, fmt.Errorf("coordinator: fetch source: %w", err)
	}
	if source == nil {
		return ontology.Relation{}, &graphstore.EndpointMissingError{EntityID: sourceID}
	}
	target, err := c.graph.GetEntity(ctx, targetID)
	if err != nil {
		return ontology.Relation{}, fmt.Errorf("coordinator: fetch target: %w", err)
	}
	if target == nil {
		return ontology.Relation{}, &graphstore.EndpointMissingError{EntityID: targetID}
	}

	result := validator.ValidateRelation(schema, relationTypeID, source.Type, target.Type)
	if !result.Valid {
		return ontology.Relation{}, &ValidationError{Issues: issueMessages(result)}
	}

	relation := ontology.Relation{
		ID:        uuid.New().String(),
		Type:      relationTypeID,
		SourceID:  sourceID,
		TargetID:  targetID,
		CreatedAt: time.Now().UTC(),
	}
	if err := c.graph.CreateRelation(ctx, relation); err != nil {
		return ontology.Relation{}, fmt.Errorf("coordinator: graph create relation: %w", err)
	}
	return relation, nil
}

func issueMessages(result validator.Result) []string {
	msgs := make([]string, 0, len(result.Errors))
	for _, issue := range result.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s: %s", issue.Property, issue.Code, issue.Message))
	}
	return msgs
}
