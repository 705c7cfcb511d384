package vectorindex

import (
	"context"
	"strings"
)

// prefixedIndex decorates an Index, prepending a fixed prefix to every
// type id used as a collection name. This lets several cores share one
// backing vector service without colliding on type id alone.
type prefixedIndex struct {
	inner  Index
	prefix string
}

// NewPrefixedIndex wraps inner so every collection name it sees is
// prefix+typeID. An empty prefix returns inner unchanged.
func NewPrefixedIndex(inner Index, prefix string) Index {
	if prefix == "" {
		return inner
	}
	return &prefixedIndex{inner: inner, prefix: prefix}
}

func (p *prefixedIndex) EnsureCollection(ctx context.Context, typeID string, dimension int, distance Distance) error {
	return p.inner.EnsureCollection(ctx, p.prefix+typeID, dimension, distance)
}

func (p *prefixedIndex) Upsert(ctx context.Context, typeID, entityID string, vector []float32, payload map[string]any) error {
	return p.inner.Upsert(ctx, p.prefix+typeID, entityID, vector, payload)
}

func (p *prefixedIndex) Delete(ctx context.Context, typeID, entityID string) error {
	return p.inner.Delete(ctx, p.prefix+typeID, entityID)
}

func (p *prefixedIndex) Search(ctx context.Context, typeIDs []string, queryVector []float32, limit int, minScore *float64) ([]SearchResult, error) {
	prefixed := make([]string, len(typeIDs))
	for i, t := range typeIDs {
		prefixed[i] = p.prefix + t
	}
	results, err := p.inner.Search(ctx, prefixed, queryVector, limit, minScore)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].TypeID = strings.TrimPrefix(results[i].TypeID, p.prefix)
	}
	return results, nil
}
