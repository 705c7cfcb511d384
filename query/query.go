// Package query is the Hybrid Query Engine: it runs a vector search, a
// graph traversal, or both concurrently, merges results per a chosen
// strategy, and materializes the merged id list into full entities.
package query

import (
	"vectadb.dev/core/graphstore"
)

// MergeStrategy names how a combined query's vector and graph result sets
// are folded into one ranked id list.
type MergeStrategy string

const (
	StrategyUnion          MergeStrategy = "union"
	StrategyIntersection   MergeStrategy = "intersection"
	StrategyVectorPriority MergeStrategy = "vector_priority"
	StrategyGraphPriority  MergeStrategy = "graph_priority"
	StrategyRankFusion     MergeStrategy = "rank_fusion"
)

// rankFusionK is the Reciprocal Rank Fusion smoothing constant.
const rankFusionK = 60

// VectorQuery searches one or more entity-type collections by similarity.
// Exactly one of QueryText/QueryVector should be set; if QueryText is set
// it is synthesized through the Embedding Provider before search.
type VectorQuery struct {
	EntityType  string
	QueryText   string
	QueryVector []float32
	Limit       int
	ExpandTypes bool
	MinScore    *float64
}

// GraphQuery traverses from a starting entity by BFS.
type GraphQuery struct {
	StartEntityID string
	RelationType  string
	Direction     graphstore.Direction
	MaxDepth      int
	Limit         int
}

// CombinedQuery pairs a vector and/or graph query with a merge strategy.
// Either sub-query may be nil, in which case it contributes nothing.
type CombinedQuery struct {
	Vector   *VectorQuery
	Graph    *GraphQuery
	Strategy MergeStrategy
}
