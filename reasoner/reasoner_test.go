package reasoner

import (
	"testing"

	"github.com/stretchr/testify/require"
	"vectadb.dev/core/ontology"
)

func testSchema(t *testing.T) *ontology.Schema {
	t.Helper()
	entityTypes := []ontology.EntityType{
		ontology.NewEntityType("agent").Build(),
		ontology.NewEntityType("planner_agent").Parent("agent").Build(),
		ontology.NewEntityType("tool_agent").Parent("agent").Build(),
		ontology.NewEntityType("llm_planner_agent").Parent("planner_agent").Build(),
	}
	relationTypes := []ontology.RelationType{
		ontology.NewRelationType("delegates_to", "planner_agent", "agent").
			Inverse("delegated_by").
			Build(),
		ontology.NewRelationType("delegated_by", "agent", "planner_agent").Build(),
		ontology.NewRelationType("collaborates_with", "agent", "agent").Symmetric(true).Build(),
	}
	s, err := ontology.Load(ontology.SchemaMetadata{Namespace: "ns", Version: "1.0.0"}, entityTypes, relationTypes)
	require.NoError(t, err)
	return s
}

func TestExpandQueryOrdersByHierarchyThenLex(t *testing.T) {
	s := testSchema(t)
	expanded, err := ExpandQuery(s, "agent")
	require.NoError(t, err)
	require.Equal(t, "agent", expanded.Original)
	require.Equal(t, []string{"agent", "planner_agent", "tool_agent", "llm_planner_agent"}, expanded.Expanded)
	require.Equal(t, "1.0.0", expanded.Metadata["version"])
}

func TestExpandQueryLeaf(t *testing.T) {
	s := testSchema(t)
	expanded, err := ExpandQuery(s, "tool_agent")
	require.NoError(t, err)
	require.Equal(t, []string{"tool_agent"}, expanded.Expanded)
}

func TestExpandQueryUnknownType(t *testing.T) {
	s := testSchema(t)
	_, err := ExpandQuery(s, "ghost")
	require.Error(t, err)
}

func TestInferRelationsSubtypeSymmetricInverse(t *testing.T) {
	s := testSchema(t)
	inferred := InferRelations(s, "planner_agent")

	byKey := make(map[string]InferredRelation)
	for _, r := range inferred {
		byKey[r.SourceType+"|"+r.TargetType+"|"+r.RelationType] = r
	}

	direct, ok := byKey["planner_agent|agent|delegates_to"]
	require.True(t, ok)
	require.Equal(t, ReasonSubtypeInheritance, direct.Reason)

	symmetric, ok := byKey["agent|planner_agent|collaborates_with"]
	require.True(t, ok)
	require.Equal(t, ReasonSymmetric, symmetric.Reason)

	inverse, ok := byKey["agent|planner_agent|delegated_by"]
	require.True(t, ok)
	require.Equal(t, ReasonInverse, inverse.Reason)
}

func TestInferRelationsDedupKeepsFirstReason(t *testing.T) {
	s := testSchema(t)
	inferred := InferRelations(s, "planner_agent")

	seen := make(map[string]int)
	for _, r := range inferred {
		seen[r.SourceType+"|"+r.TargetType+"|"+r.RelationType]++
	}
	for key, count := range seen {
		require.Equal(t, 1, count, "duplicate tuple for %s", key)
	}
}

func TestCompatibleRelations(t *testing.T) {
	s := testSchema(t)
	ids := CompatibleRelations(s, "llm_planner_agent", "tool_agent")
	require.Contains(t, ids, "delegates_to")
	require.Contains(t, ids, "collaborates_with")
}

func TestTransitiveClosure(t *testing.T) {
	graph := map[string][]Edge{
		"a": {{To: "b", RelationType: "delegates_to"}},
		"b": {{To: "c", RelationType: "delegates_to"}, {To: "a", RelationType: "delegates_to"}},
		"c": {{To: "a", RelationType: "delegates_to"}},
	}
	reached := TransitiveClosure("delegates_to", "a", graph)
	require.Equal(t, []string{"b", "c"}, reached)
}

func TestTransitiveClosureIgnoresOtherRelationTypes(t *testing.T) {
	graph := map[string][]Edge{
		"a": {{To: "b", RelationType: "other"}},
	}
	reached := TransitiveClosure("delegates_to", "a", graph)
	require.Empty(t, reached)
}

func TestTransitiveClosureUnknownStart(t *testing.T) {
	graph := map[string][]Edge{}
	reached := TransitiveClosure("delegates_to", "ghost", graph)
	require.Empty(t, reached)
}
