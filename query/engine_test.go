package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"vectadb.dev/core/coordinator"
	"vectadb.dev/core/embedding"
	"vectadb.dev/core/graphstore"
	"vectadb.dev/core/ontology"
	"vectadb.dev/core/vectorindex"
)

type testFixture struct {
	engine *Engine
	coord  *coordinator.Coordinator
	graph  graphstore.Store
}

func newTestFixture(t *testing.T) testFixture {
	t.Helper()
	agent := ontology.NewEntityType("agent").
		Property(ontology.Property("name", ontology.KindString, true)).
		Build()
	delegatesTo := ontology.NewRelationType("delegates_to", "agent", "agent").Build()

	schema, err := ontology.Load(
		ontology.SchemaMetadata{Namespace: "core", Version: "1"},
		[]ontology.EntityType{agent},
		[]ontology.RelationType{delegatesTo},
	)
	require.NoError(t, err)

	reg := ontology.NewRegistry()
	require.NoError(t, reg.Replace(schema))

	graph := graphstore.NewMemoryAdapter()
	vector := vectorindex.NewMemoryAdapter()
	embedder := embedding.NewDeterministicProvider(embedding.DeterministicConfig{Dimension: 4})

	return testFixture{
		engine: New(reg, graph, vector, embedder, nil),
		coord:  coordinator.New(reg, graph, vector, embedder, nil, 0),
		graph:  graph,
	}
}

func TestHybridVectorOnlyQuery(t *testing.T) {
	ctx := context.Background()
	fx := newTestFixture(t)

	a, err := fx.coord.Create(ctx, "agent", map[string]ontology.PropertyValue{"name": ontology.StringValue("planner")})
	require.NoError(t, err)
	_, err = fx.coord.Create(ctx, "agent", map[string]ontology.PropertyValue{"name": ontology.StringValue("executor")})
	require.NoError(t, err)

	resp, err := fx.engine.Hybrid(ctx, CombinedQuery{
		Vector: &VectorQuery{EntityType: "agent", QueryVector: a.Embedding, Limit: 10},
	})
	require.NoError(t, err)
	require.False(t, resp.Partial)
	require.NotEmpty(t, resp.Results)
	require.Equal(t, a.ID, resp.Results[0].Entity.ID)
	require.NotNil(t, resp.Results[0].Score)
}

func TestHybridGraphOnlyQuery(t *testing.T) {
	ctx := context.Background()
	fx := newTestFixture(t)

	a, err := fx.coord.Create(ctx, "agent", map[string]ontology.PropertyValue{"name": ontology.StringValue("a")})
	require.NoError(t, err)
	b, err := fx.coord.Create(ctx, "agent", map[string]ontology.PropertyValue{"name": ontology.StringValue("b")})
	require.NoError(t, err)
	_, err = fx.coord.CreateRelation(ctx, "delegates_to", a.ID, b.ID)
	require.NoError(t, err)

	resp, err := fx.engine.Hybrid(ctx, CombinedQuery{
		Graph: &GraphQuery{StartEntityID: a.ID, Direction: graphstore.DirectionOutgoing, MaxDepth: 2},
	})
	require.NoError(t, err)
	require.False(t, resp.Partial)
	ids := entityIDs(resp.Results)
	require.Contains(t, ids, a.ID)
	require.Contains(t, ids, b.ID)
	for _, r := range resp.Results {
		require.Nil(t, r.Score)
	}
}

func TestHybridCombinedRankFusion(t *testing.T) {
	ctx := context.Background()
	fx := newTestFixture(t)

	a, err := fx.coord.Create(ctx, "agent", map[string]ontology.PropertyValue{"name": ontology.StringValue("a")})
	require.NoError(t, err)
	b, err := fx.coord.Create(ctx, "agent", map[string]ontology.PropertyValue{"name": ontology.StringValue("b")})
	require.NoError(t, err)
	_, err = fx.coord.CreateRelation(ctx, "delegates_to", a.ID, b.ID)
	require.NoError(t, err)

	resp, err := fx.engine.Hybrid(ctx, CombinedQuery{
		Vector:   &VectorQuery{EntityType: "agent", QueryVector: a.Embedding, Limit: 10},
		Graph:    &GraphQuery{StartEntityID: a.ID, Direction: graphstore.DirectionOutgoing, MaxDepth: 2},
		Strategy: StrategyRankFusion,
	})
	require.NoError(t, err)
	require.Equal(t, a.ID, resp.Results[0].Entity.ID, "a appears first in both sources, should rank first")
	for _, r := range resp.Results {
		require.NotNil(t, r.Score)
	}
}

func TestHybridReportsDanglingIDs(t *testing.T) {
	ctx := context.Background()
	fx := newTestFixture(t)

	a, err := fx.coord.Create(ctx, "agent", map[string]ontology.PropertyValue{"name": ontology.StringValue("a")})
	require.NoError(t, err)
	b, err := fx.coord.Create(ctx, "agent", map[string]ontology.PropertyValue{"name": ontology.StringValue("b")})
	require.NoError(t, err)
	_, err = fx.coord.CreateRelation(ctx, "delegates_to", a.ID, b.ID)
	require.NoError(t, err)

	// Delete b directly from the graph store, bypassing the coordinator,
	// to simulate a relation whose endpoint no longer resolves.
	require.NoError(t, fx.graph.DeleteEntity(ctx, b.ID))

	resp, err := fx.engine.Hybrid(ctx, CombinedQuery{
		Graph: &GraphQuery{StartEntityID: a.ID, Direction: graphstore.DirectionOutgoing, MaxDepth: 2},
	})
	require.NoError(t, err)
	require.Contains(t, resp.DanglingIDs, b.ID)
	require.NotContains(t, entityIDs(resp.Results), b.ID)
}

// failingVectorIndex simulates a sub-query that doesn't complete in time
// (a deadline expiry) so Hybrid's Partial flag can be
// exercised without depending on whether a given adapter happens to check
// context cancellation internally.
type failingVectorIndex struct {
	vectorindex.Index
}

func (f *failingVectorIndex) Search(ctx context.Context, typeIDs []string, queryVector []float32, limit int, minScore *float64) ([]vectorindex.SearchResult, error) {
	return nil, context.DeadlineExceeded
}

func TestHybridMarksPartialOnSubQueryFailure(t *testing.T) {
	ctx := context.Background()
	agent := ontology.NewEntityType("agent").
		Property(ontology.Property("name", ontology.KindString, true)).
		Build()
	schema, err := ontology.Load(ontology.SchemaMetadata{Namespace: "core", Version: "1"}, []ontology.EntityType{agent}, nil)
	require.NoError(t, err)
	reg := ontology.NewRegistry()
	require.NoError(t, reg.Replace(schema))

	graph := graphstore.NewMemoryAdapter()
	vector := &failingVectorIndex{Index: vectorindex.NewMemoryAdapter()}
	embedder := embedding.NewDeterministicProvider(embedding.DeterministicConfig{Dimension: 4})
	engine := New(reg, graph, vector, embedder, nil)

	resp, err := engine.Hybrid(ctx, CombinedQuery{
		Vector: &VectorQuery{EntityType: "agent", QueryVector: []float32{1, 0, 0, 0}, Limit: 10},
	})
	require.NoError(t, err)
	require.True(t, resp.Partial)
	require.Empty(t, resp.Results)
}

func entityIDs(results []ScoredEntity) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.Entity.ID
	}
	return ids
}
