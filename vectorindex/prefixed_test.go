package vectorindex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrefixedIndexEmptyPrefixReturnsInner(t *testing.T) {
	inner := NewMemoryAdapter()
	require.Same(t, Index(inner), NewPrefixedIndex(inner, ""))
}

func TestPrefixedIndexIsolatesCollectionsByPrefix(t *testing.T) {
	ctx := context.Background()
	shared := NewMemoryAdapter()
	tenantA := NewPrefixedIndex(shared, "tenant-a:")
	tenantB := NewPrefixedIndex(shared, "tenant-b:")

	require.NoError(t, tenantA.EnsureCollection(ctx, "agent", 2, DistanceCosine))
	require.NoError(t, tenantA.Upsert(ctx, "agent", "e1", []float32{1, 0}, nil))

	require.NoError(t, tenantB.EnsureCollection(ctx, "agent", 2, DistanceCosine))
	require.NoError(t, tenantB.Upsert(ctx, "agent", "e2", []float32{0, 1}, nil))

	resultsA, err := tenantA.Search(ctx, []string{"agent"}, []float32{1, 0}, 10, nil)
	require.NoError(t, err)
	require.Len(t, resultsA, 1)
	require.Equal(t, "e1", resultsA[0].EntityID)
	require.Equal(t, "agent", resultsA[0].TypeID)

	resultsB, err := tenantB.Search(ctx, []string{"agent"}, []float32{0, 1}, 10, nil)
	require.NoError(t, err)
	require.Len(t, resultsB, 1)
	require.Equal(t, "e2", resultsB[0].EntityID)
	require.Equal(t, "agent", resultsB[0].TypeID)

	require.NoError(t, tenantA.Delete(ctx, "agent", "e1"))
	resultsA, err = tenantA.Search(ctx, []string{"agent"}, []float32{1, 0}, 10, nil)
	require.NoError(t, err)
	require.Empty(t, resultsA)
}
