// Package config holds the typed configuration surface the core consumes:
// endpoints/credentials for the two stores, the embedding dimension, the
// collection-name prefix, and an optional default schema path. Every
// struct here has a Default*Config constructor, mirroring the
// WebSocketConfig/DefaultWebSocketConfig shape used throughout the
// reference portal code this package's adapters are grounded on.
package config

import (
	"time"

	"vectadb.dev/core/graphstore"
	"vectadb.dev/core/logging"
)

// GraphStoreConfig configures which graph store adapter is used and how
// it is reached.
type GraphStoreConfig struct {
	// Kind selects "memory" or "remote". Remote requires Remote to be set.
	Kind   string
	Remote graphstore.RemoteConfig
}

// DefaultGraphStoreConfig returns an in-memory graph store configuration,
// suitable for ontology-only or local operation.
func DefaultGraphStoreConfig() GraphStoreConfig {
	return GraphStoreConfig{Kind: "memory"}
}

// VectorIndexConfig configures which vector index adapter is used.
type VectorIndexConfig struct {
	Kind   string // "memory" or "remote"
	Remote struct {
		BaseURL        string
		RequestTimeout time.Duration
	}
	// CollectionPrefix is prepended to every type id used as a collection
	// name, so multiple cores can share one backing vector service.
	CollectionPrefix string
}

// DefaultVectorIndexConfig returns an in-memory vector index configuration
// with no collection prefix.
func DefaultVectorIndexConfig() VectorIndexConfig {
	return VectorIndexConfig{Kind: "memory"}
}

// EmbeddingConfig configures the embedding provider and the dimension it
// must produce. When Provider is "deterministic" and Options sets no
// "dimension", Dimension is passed to it as that option; other providers
// take their dimension from Options alone. Dimension is not compared
// against the built provider's actual dimension.
type EmbeddingConfig struct {
	// Provider is a name registered in an embedding.Registry ("deterministic"
	// is always available; real providers are registered by the outer
	// layer, which owns the provider-registry mapping).
	Provider  string
	Dimension int
	// Options is passed through verbatim to the provider's factory.
	Options map[string]any
}

// DefaultEmbeddingConfig returns the bundled deterministic provider at a
// modest dimension, suitable for ontology-only/test configurations.
func DefaultEmbeddingConfig() EmbeddingConfig {
	return EmbeddingConfig{Provider: "deterministic", Dimension: 16}
}

// CoordinatorConfig tunes the dual-store orchestrator's internal
// concurrency control.
type CoordinatorConfig struct {
	// LockShardCount is the number of mutexes the id lock table hashes
	// entity ids across. Zero selects the Coordinator's own default.
	LockShardCount int
}

// DefaultCoordinatorConfig returns the Coordinator's built-in shard count.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{LockShardCount: 64}
}

// Config is the root configuration assembled from the per-concern configs
// above, plus logging and an optional default schema to load at startup.
type Config struct {
	GraphStore  GraphStoreConfig
	VectorIndex VectorIndexConfig
	Embedding   EmbeddingConfig
	Coordinator CoordinatorConfig
	Logging     logging.Config
	// DefaultSchemaPath, if set, is loaded at startup the same way the
	// graph adapter loads its own persisted schema record.
	DefaultSchemaPath string
}

// DefaultConfig returns a fully in-memory, ontology-ready configuration:
// everything works locally with no external services.
func DefaultConfig() Config {
	return Config{
		GraphStore:  DefaultGraphStoreConfig(),
		VectorIndex: DefaultVectorIndexConfig(),
		Embedding:   DefaultEmbeddingConfig(),
		Coordinator: DefaultCoordinatorConfig(),
		Logging:     logging.DefaultConfig(),
	}
}
