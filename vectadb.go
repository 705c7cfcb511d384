// Package vectadb assembles the Schema Model, Validator, Reasoner,
// Coordinator, and Hybrid Query Engine into the single programmatic
// interface an outer HTTP layer (or the bundled CLI) calls.
package vectadb

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"vectadb.dev/core/config"
	"vectadb.dev/core/coordinator"
	"vectadb.dev/core/embedding"
	"vectadb.dev/core/graphstore"
	"vectadb.dev/core/logging"
	"vectadb.dev/core/ontology"
	"vectadb.dev/core/query"
	"vectadb.dev/core/reasoner"
	"vectadb.dev/core/validator"
	"vectadb.dev/core/vectorindex"
)

// StorageUnavailableError is returned by every entity/relation/query
// operation when the core is running in ontology-only mode because the
// graph adapter failed to initialize at startup.
type StorageUnavailableError struct {
	Reason string
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable: %s", e.Reason)
}

// Core is the assembled, ready-to-use VectaDB core.
type Core struct {
	registry *ontology.Registry

	ontologyOnly bool
	degradedWhy  string

	graph    graphstore.Store
	vector   vectorindex.Index
	embedder embedding.Provider

	coordinator *coordinator.Coordinator
	engine      *query.Engine

	log *slog.Logger
}

// New assembles a Core from cfg. embeddingRegistry supplies the name ->
// provider-constructor mapping; pass nil to use a registry carrying only
// the bundled deterministic provider. Registering real providers (OpenAI,
// Cohere, local models) against a caller-built *embedding.Registry and
// passing it in is how the outer layer satisfies "provider-registry
// mapping is out of scope" without this package needing to know about
// any concrete provider.
//
// If the graph adapter fails to initialize, New still succeeds but the
// Core runs in ontology-only mode: schema/validation/reasoning operations
// work, entity/relation/query operations return StorageUnavailableError.
// A vector or embedding initialization failure while the graph adapter
// succeeded is always a hard error ("mix-and-match... fails fast").
func New(cfg config.Config, embeddingRegistry *embedding.Registry, log *slog.Logger) (*Core, error) {
	if log == nil {
		var err error
		log, err = cfg.Logging.NewLogger(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("vectadb: logging config: %w", err)
		}
	}

	c := &Core{
		registry: ontology.NewRegistry(),
		log:      log.With(logging.Component("vectadb")),
	}

	if cfg.DefaultSchemaPath != "" {
		if err := c.loadDefaultSchema(cfg.DefaultSchemaPath); err != nil {
			return nil, fmt.Errorf("vectadb: default schema: %w", err)
		}
	}

	graph, graphErr := buildGraphStore(cfg.GraphStore, c.log)
	if graphErr != nil {
		c.ontologyOnly = true
		c.degradedWhy = graphErr.Error()
		c.log.Warn("graph adapter failed to initialize, running in ontology-only mode", "error", graphErr)
		return c, nil
	}
	c.graph = graph

	vector, err := buildVectorIndex(cfg.VectorIndex)
	if err != nil {
		return nil, fmt.Errorf("vectadb: vector index: %w", err)
	}
	c.vector = vector

	if embeddingRegistry == nil {
		embeddingRegistry = embedding.NewRegistry()
	}
	embedder, err := buildEmbedder(cfg.Embedding, embeddingRegistry)
	if err != nil {
		return nil, fmt.Errorf("vectadb: embedding provider: %w", err)
	}
	c.embedder = embedder

	c.coordinator = coordinator.New(c.registry, c.graph, c.vector, c.embedder, c.log, cfg.Coordinator.LockShardCount)
	c.engine = query.New(c.registry, c.graph, c.vector, c.embedder, c.log)
	return c, nil
}

func (c *Core) loadDefaultSchema(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	schema, err := ontology.Decode(raw, formatFromExtension(path))
	if err != nil {
		return err
	}
	return c.registry.Replace(schema)
}

func formatFromExtension(path string) ontology.UploadFormat {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			switch path[i:] {
			case ".yaml", ".yml":
				return ontology.FormatYAML
			}
			break
		}
	}
	return ontology.FormatJSON
}

func buildGraphStore(cfg config.GraphStoreConfig, log *slog.Logger) (graphstore.Store, error) {
	switch cfg.Kind {
	case "", "memory":
		return graphstore.NewMemoryAdapter(), nil
	case "remote":
		if cfg.Remote.BaseURL == "" {
			return nil, fmt.Errorf("remote graph store requires a base URL")
		}
		return graphstore.NewRemoteAdapter(cfg.Remote, log), nil
	default:
		return nil, fmt.Errorf("unknown graph store kind %q", cfg.Kind)
	}
}

func buildVectorIndex(cfg config.VectorIndexConfig) (vectorindex.Index, error) {
	var index vectorindex.Index
	switch cfg.Kind {
	case "", "memory":
		index = vectorindex.NewMemoryAdapter()
	case "remote":
		if cfg.Remote.BaseURL == "" {
			return nil, fmt.Errorf("remote vector index requires a base URL")
		}
		remoteCfg := vectorindex.RemoteConfig{BaseURL: cfg.Remote.BaseURL, RequestTimeout: cfg.Remote.RequestTimeout}
		if remoteCfg.RequestTimeout == 0 {
			remoteCfg = vectorindex.DefaultRemoteConfig(cfg.Remote.BaseURL)
		}
		index = vectorindex.NewRemoteAdapter(remoteCfg)
	default:
		return nil, fmt.Errorf("unknown vector index kind %q", cfg.Kind)
	}
	return vectorindex.NewPrefixedIndex(index, cfg.CollectionPrefix), nil
}

func buildEmbedder(cfg config.EmbeddingConfig, registry *embedding.Registry) (embedding.Provider, error) {
	options := cfg.Options
	if options == nil {
		options = map[string]any{}
	}
	if cfg.Provider == "deterministic" {
		if _, ok := options["dimension"]; !ok && cfg.Dimension > 0 {
			options["dimension"] = cfg.Dimension
		}
	}
	provider := cfg.Provider
	if provider == "" {
		provider = "deterministic"
	}
	return registry.New(provider, options)
}

// requireStorage returns StorageUnavailableError when running in
// ontology-only mode, otherwise nil.
func (c *Core) requireStorage() error {
	if c.ontologyOnly {
		return &StorageUnavailableError{Reason: c.degradedWhy}
	}
	return nil
}

// --- Schema ---

// Upload decodes and installs a new schema, subject to version
// monotonicity.
func (c *Core) Upload(schemaBytes []byte, format ontology.UploadFormat) error {
	schema, err := ontology.Decode(schemaBytes, format)
	if err != nil {
		return err
	}
	return c.registry.Replace(schema)
}

// Current returns the active schema, or nil if none has been loaded.
func (c *Core) Current() *ontology.Schema {
	return c.registry.Current()
}

// GetType resolves a single entity type by id.
func (c *Core) GetType(id string) (ontology.EntityType, error) {
	schema := c.registry.Current()
	if schema == nil {
		return ontology.EntityType{}, fmt.Errorf("vectadb: no schema loaded")
	}
	return schema.ResolveType(id)
}

// GetSubtypes returns id and every descendant type id.
func (c *Core) GetSubtypes(id string) ([]string, error) {
	schema := c.registry.Current()
	if schema == nil {
		return nil, fmt.Errorf("vectadb: no schema loaded")
	}
	return schema.Descendants(id)
}

// --- Validation ---

func (c *Core) ValidateEntity(typeID string, properties map[string]ontology.PropertyValue) (validator.Result, error) {
	schema := c.registry.Current()
	if schema == nil {
		return validator.Result{}, fmt.Errorf("vectadb: no schema loaded")
	}
	return validator.ValidateEntity(schema, typeID, properties, validator.Options{}), nil
}

func (c *Core) ValidateRelation(typeID, sourceType, targetType string) (validator.Result, error) {
	schema := c.registry.Current()
	if schema == nil {
		return validator.Result{}, fmt.Errorf("vectadb: no schema loaded")
	}
	return validator.ValidateRelation(schema, typeID, sourceType, targetType), nil
}

// --- Reasoning ---

func (c *Core) Expand(typeID string) (reasoner.ExpandedTypes, error) {
	schema := c.registry.Current()
	if schema == nil {
		return reasoner.ExpandedTypes{}, fmt.Errorf("vectadb: no schema loaded")
	}
	return reasoner.ExpandQuery(schema, typeID)
}

func (c *Core) CompatibleRelations(sourceType, targetType string) ([]string, error) {
	schema := c.registry.Current()
	if schema == nil {
		return nil, fmt.Errorf("vectadb: no schema loaded")
	}
	return reasoner.CompatibleRelations(schema, sourceType, targetType), nil
}

// --- Entities ---

func (c *Core) CreateEntity(ctx context.Context, typeID string, properties map[string]ontology.PropertyValue) (ontology.Entity, error) {
	if err := c.requireStorage(); err != nil {
		return ontology.Entity{}, err
	}
	return c.coordinator.Create(ctx, typeID, properties)
}

func (c *Core) GetEntity(ctx context.Context, id string) (*ontology.Entity, error) {
	if err := c.requireStorage(); err != nil {
		return nil, err
	}
	entity, err := c.graph.GetEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, &graphstore.NotFoundError{Kind: "entity", ID: id}
	}
	return entity, nil
}

func (c *Core) UpdateEntity(ctx context.Context, id string, properties map[string]ontology.PropertyValue) (ontology.Entity, error) {
	if err := c.requireStorage(); err != nil {
		return ontology.Entity{}, err
	}
	return c.coordinator.Update(ctx, id, properties)
}

func (c *Core) DeleteEntity(ctx context.Context, id string) error {
	if err := c.requireStorage(); err != nil {
		return err
	}
	return c.coordinator.Delete(ctx, id)
}

// --- Relations ---

func (c *Core) CreateRelation(ctx context.Context, relationTypeID, sourceID, targetID string) (ontology.Relation, error) {
	if err := c.requireStorage(); err != nil {
		return ontology.Relation{}, err
	}
	return c.coordinator.CreateRelation(ctx, relationTypeID, sourceID, targetID)
}

func (c *Core) DeleteRelation(ctx context.Context, id string) error {
	if err := c.requireStorage(); err != nil {
		return err
	}
	return c.graph.DeleteRelation(ctx, id)
}

// --- Query ---

func (c *Core) Hybrid(ctx context.Context, q query.CombinedQuery) (*query.HybridResponse, error) {
	if err := c.requireStorage(); err != nil {
		return nil, err
	}
	return c.engine.Hybrid(ctx, q)
}
