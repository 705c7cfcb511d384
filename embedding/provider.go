// Package embedding defines the pluggable text-to-vector contract every
// other component depends on, plus a name-keyed registry for constructing
// concrete providers from configuration.
package embedding

import (
	"context"
	"fmt"
)

// ErrorClass distinguishes failures an outer caller may retry from ones it
// should not.
type ErrorClass string

const (
	ErrorTransient ErrorClass = "transient"
	ErrorPermanent ErrorClass = "permanent"
)

// Error is returned by Embed and EmbedBatch.
type Error struct {
	Class ErrorClass
	Op    string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("embedding %s: %s: %v", e.Op, e.Class, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// HealthStatus is the result of a provider health check.
type HealthStatus struct {
	Healthy bool
	Reason  string // populated when !Healthy
}

// Stats is a point-in-time snapshot of a provider's usage counters.
type Stats struct {
	TotalRequests  int64
	TotalEmbeddings int64
	TotalTokens    int64
	FailedRequests int64
	AvgLatencyMS   float64
}

// Provider is the full capability set the core depends on from a
// text-to-vector backend. Concrete variants are selected at configuration
// time through Registry; the core never branches on provider identity.
type Provider interface {
	Name() string
	Version() string
	Dimension() int
	MaxBatchSize() int

	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch preserves input order; output length always equals input
	// length. Implementations internally chunk by MaxBatchSize.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	HealthCheck(ctx context.Context) (HealthStatus, error)
	Stats() Stats
}
