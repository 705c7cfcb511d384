package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeUnionDedupesPreservingFirstOccurrence(t *testing.T) {
	got := merge(StrategyUnion, []string{"a", "b", "c"}, []string{"c", "d"})
	require.Equal(t, []string{"a", "b", "c", "d"}, got)
}

func TestMergeIntersectionOrdersByVectorRank(t *testing.T) {
	got := merge(StrategyIntersection, []string{"b", "a", "c"}, []string{"a", "b"})
	require.Equal(t, []string{"b", "a"}, got)
}

func TestMergeVectorPriority(t *testing.T) {
	got := merge(StrategyVectorPriority, []string{"a", "b"}, []string{"b", "c"})
	require.Equal(t, []string{"a", "b", "c"}, got)
}

func TestMergeGraphPriority(t *testing.T) {
	got := merge(StrategyGraphPriority, []string{"a", "b"}, []string{"b", "c"})
	require.Equal(t, []string{"b", "c", "a"}, got)
}

func TestMergeRankFusionPrefersDualPresence(t *testing.T) {
	// "b" appears in both sources at decent rank; "a" is #1 vector-only.
	got := merge(StrategyRankFusion, []string{"a", "b"}, []string{"b", "c"})
	require.Equal(t, "b", got[0], "id present in both sources should outrank a single-source #1")
	require.ElementsMatch(t, []string{"a", "b", "c"}, got)
}

func TestMergeRankFusionTieBreaksLexicographically(t *testing.T) {
	got := merge(StrategyRankFusion, []string{"z"}, []string{"a"})
	require.Equal(t, []string{"a", "z"}, got)
}

func TestMergeEmptySources(t *testing.T) {
	require.Empty(t, merge(StrategyUnion, nil, nil))
	require.Empty(t, merge(StrategyIntersection, nil, nil))
	require.Empty(t, merge(StrategyRankFusion, nil, nil))
}
