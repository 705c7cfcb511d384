package embedding

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math"
	"sync"
	"time"
)

// DeterministicProvider is a seeded hash-based embedding: SHA-256 of the
// input text, expanded or truncated to the configured dimension, then
// L2-normalized. It is explicitly not a semantic embedding — two texts
// with no character overlap land at an essentially random angle to each
// other. It exists so the core has a working, dependency-free default for
// ontology-only configurations and for tests that need a stable vector
// without a real model behind it.
type DeterministicProvider struct {
	name      string
	version   string
	dimension int
	maxBatch  int

	mu    sync.Mutex
	stats Stats
}

// DeterministicConfig configures a DeterministicProvider.
type DeterministicConfig struct {
	Dimension    int
	MaxBatchSize int
}

// NewDeterministicProvider returns a DeterministicProvider. Dimension
// defaults to 16 and MaxBatchSize to 64 when left zero.
func NewDeterministicProvider(cfg DeterministicConfig) *DeterministicProvider {
	dim := cfg.Dimension
	if dim <= 0 {
		dim = 16
	}
	batch := cfg.MaxBatchSize
	if batch <= 0 {
		batch = 64
	}
	return &DeterministicProvider{
		name:      "deterministic",
		version:   "1",
		dimension: dim,
		maxBatch:  batch,
	}
}

func newDeterministicProviderFromConfig(config map[string]any) (Provider, error) {
	cfg := DeterministicConfig{}
	if v, ok := config["dimension"]; ok {
		dim, ok := toInt(v)
		if !ok {
			return nil, fmt.Errorf("embedding: deterministic: dimension must be an integer, got %T", v)
		}
		cfg.Dimension = dim
	}
	if v, ok := config["max_batch_size"]; ok {
		batch, ok := toInt(v)
		if !ok {
			return nil, fmt.Errorf("embedding: deterministic: max_batch_size must be an integer, got %T", v)
		}
		cfg.MaxBatchSize = batch
	}
	return NewDeterministicProvider(cfg), nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func (p *DeterministicProvider) Name() string      { return p.name }
func (p *DeterministicProvider) Version() string   { return p.version }
func (p *DeterministicProvider) Dimension() int     { return p.dimension }
func (p *DeterministicProvider) MaxBatchSize() int  { return p.maxBatch }

func (p *DeterministicProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Class: ErrorTransient, Op: "embed", Err: err}
	}
	start := time.Now()
	vec := hashVector(text, p.dimension)
	p.recordSuccess(1, len(text), time.Since(start))
	return vec, nil
}

func (p *DeterministicProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for start := 0; start < len(texts); start += p.maxBatch {
		end := start + p.maxBatch
		if end > len(texts) {
			end = len(texts)
		}
		if err := ctx.Err(); err != nil {
			return nil, &Error{Class: ErrorTransient, Op: "embed_batch", Err: err}
		}
		chunkStart := time.Now()
		tokens := 0
		for i := start; i < end; i++ {
			out[i] = hashVector(texts[i], p.dimension)
			tokens += len(texts[i])
		}
		p.recordSuccess(end-start, tokens, time.Since(chunkStart))
	}
	return out, nil
}

func (p *DeterministicProvider) HealthCheck(ctx context.Context) (HealthStatus, error) {
	return HealthStatus{Healthy: true}, nil
}

func (p *DeterministicProvider) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func (p *DeterministicProvider) recordSuccess(count, tokens int, elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.TotalRequests++
	p.stats.TotalEmbeddings += int64(count)
	p.stats.TotalTokens += int64(tokens)
	elapsedMS := float64(elapsed) / float64(time.Millisecond)
	if p.stats.TotalRequests == 1 {
		p.stats.AvgLatencyMS = elapsedMS
	} else {
		n := float64(p.stats.TotalRequests)
		p.stats.AvgLatencyMS += (elapsedMS - p.stats.AvgLatencyMS) / n
	}
}

// hashVector expands/truncates SHA-256(text) into a dimension-length
// L2-normalized vector. Each output component is derived from a distinct
// byte of a repeated hash so dimension may exceed 32.
func hashVector(text string, dimension int) []float32 {
	vec := make([]float32, dimension)
	block := 0
	sum := sha256.Sum256([]byte(text))
	digest := sum[:]
	for i := 0; i < dimension; i++ {
		if i > 0 && i%len(digest) == 0 {
			block++
			next := sha256.Sum256(append(digest, byte(block)))
			digest = next[:]
		}
		b := digest[i%len(digest)]
		vec[i] = float32(b)/127.5 - 1 // map [0,255] -> [-1, ~1]
	}
	normalize(vec)
	return vec
}

func normalize(vec []float32) {
	var sumSq float64
	for _, v := range vec {
		sumSq += float64(v) * float64(v)
	}
	if sumSq == 0 {
		return
	}
	norm := math.Sqrt(sumSq)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}
