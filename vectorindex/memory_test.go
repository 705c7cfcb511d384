package vectorindex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureCollectionIdempotent(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryAdapter()
	require.NoError(t, idx.EnsureCollection(ctx, "agent", 3, DistanceCosine))
	require.NoError(t, idx.EnsureCollection(ctx, "agent", 3, DistanceCosine))

	err := idx.EnsureCollection(ctx, "agent", 4, DistanceCosine)
	require.Error(t, err)
	var mismatch *DimensionMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestUpsertDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryAdapter()
	require.NoError(t, idx.EnsureCollection(ctx, "agent", 3, DistanceCosine))

	err := idx.Upsert(ctx, "agent", "e1", []float32{1, 2}, nil)
	require.Error(t, err)
}

func TestDeleteMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryAdapter()
	require.NoError(t, idx.Delete(ctx, "agent", "ghost"))
}

func TestSearchMergesAndRanks(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryAdapter()
	require.NoError(t, idx.EnsureCollection(ctx, "agent", 2, DistanceCosine))
	require.NoError(t, idx.EnsureCollection(ctx, "tool", 2, DistanceCosine))

	require.NoError(t, idx.Upsert(ctx, "agent", "a1", []float32{1, 0}, nil))
	require.NoError(t, idx.Upsert(ctx, "agent", "a2", []float32{0, 1}, nil))
	require.NoError(t, idx.Upsert(ctx, "tool", "t1", []float32{1, 0}, nil))

	results, err := idx.Search(ctx, []string{"agent", "tool"}, []float32{1, 0}, 10, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.InDelta(t, 1.0, results[0].Score, 1e-9)
	require.InDelta(t, 1.0, results[1].Score, 1e-9)
	require.Equal(t, "a1", results[0].EntityID)
	require.Equal(t, "t1", results[1].EntityID)
	require.Less(t, results[2].Score, results[0].Score)
}

func TestSearchMissingCollectionSkipped(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryAdapter()
	require.NoError(t, idx.EnsureCollection(ctx, "agent", 2, DistanceCosine))
	require.NoError(t, idx.Upsert(ctx, "agent", "a1", []float32{1, 0}, nil))

	results, err := idx.Search(ctx, []string{"agent", "ghost_type"}, []float32{1, 0}, 10, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestSearchRespectsMinScoreAndLimit(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryAdapter()
	require.NoError(t, idx.EnsureCollection(ctx, "agent", 2, DistanceCosine))
	require.NoError(t, idx.Upsert(ctx, "agent", "a1", []float32{1, 0}, nil))
	require.NoError(t, idx.Upsert(ctx, "agent", "a2", []float32{-1, 0}, nil))

	min := 0.0
	results, err := idx.Search(ctx, []string{"agent"}, []float32{1, 0}, 10, &min)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "a1", results[0].EntityID)

	results, err = idx.Search(ctx, []string{"agent"}, []float32{1, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
}
