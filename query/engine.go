package query

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"vectadb.dev/core/embedding"
	"vectadb.dev/core/graphstore"
	"vectadb.dev/core/logging"
	"vectadb.dev/core/ontology"
	"vectadb.dev/core/reasoner"
	"vectadb.dev/core/vectorindex"
)

// ScoredEntity pairs a materialized entity with the score it was ranked
// by, when one applies (vector and rank-fusion results carry a score;
// pure graph traversal results do not).
type ScoredEntity struct {
	Entity ontology.Entity
	Score  *float64
}

// HybridResponse is the result of a combined or single-sided query.
type HybridResponse struct {
	Results     []ScoredEntity
	Strategy    MergeStrategy
	VectorCount int
	GraphCount  int
	ExecutionMS float64
	DanglingIDs []string
	// Partial is true when the deadline expired (or the context was
	// canceled) before every requested sub-query finished; the response
	// then reflects whichever sub-queries completed. Any other sub-query
	// error is returned by Hybrid instead.
	Partial bool
}

// Engine runs vector and graph sub-queries, merges them, and materializes
// the merged id list back into entities.
type Engine struct {
	registry *ontology.Registry
	graph    graphstore.Store
	vector   vectorindex.Index
	embedder embedding.Provider
	log      *slog.Logger
}

// New returns an Engine. log may be nil.
func New(registry *ontology.Registry, graph graphstore.Store, vector vectorindex.Index, embedder embedding.Provider, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{registry: registry, graph: graph, vector: vector, embedder: embedder, log: log.With(logging.Component("query"))}
}

type vectorOutcome struct {
	ids    []string
	scores map[string]float64
	err    error
}

type graphOutcome struct {
	ids []string
	err error
}

// Hybrid runs q.Vector and q.Graph concurrently (when present), merges
// their id lists per q.Strategy, and materializes the result.
func (e *Engine) Hybrid(ctx context.Context, q CombinedQuery) (*HybridResponse, error) {
	start := time.Now()

	var vecOut vectorOutcome
	var graphOut graphOutcome

	g, gctx := errgroup.WithContext(ctx)
	if q.Vector != nil {
		g.Go(func() error {
			ids, scores, err := e.runVector(gctx, *q.Vector)
			vecOut = vectorOutcome{ids: ids, scores: scores, err: err}
			return nil // sub-query failure never aborts the sibling sub-query
		})
	}
	if q.Graph != nil {
		g.Go(func() error {
			ids, err := e.runGraph(gctx, *q.Graph)
			graphOut = graphOutcome{ids: ids, err: err}
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range []error{vecOut.err, graphOut.err} {
		if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			return nil, err
		}
	}

	partial := false
	if q.Vector != nil && vecOut.err != nil {
		partial = true
		e.log.Warn("vector sub-query did not complete", "error", vecOut.err)
	}
	if q.Graph != nil && graphOut.err != nil {
		partial = true
		e.log.Warn("graph sub-query did not complete", "error", graphOut.err)
	}

	strategy := q.Strategy
	if strategy == "" {
		strategy = StrategyUnion
	}
	mergedIDs := merge(strategy, vecOut.ids, graphOut.ids)

	entities, dangling := e.materialize(ctx, mergedIDs)

	results := make([]ScoredEntity, 0, len(entities))
	for _, ent := range entities {
		scored := ScoredEntity{Entity: ent}
		if strategy == StrategyRankFusion {
			s := rankFusionScore(ent.ID, vecOut.ids, graphOut.ids)
			scored.Score = &s
		} else if score, ok := vecOut.scores[ent.ID]; ok {
			s := score
			scored.Score = &s
		}
		results = append(results, scored)
	}

	return &HybridResponse{
		Results:     results,
		Strategy:    strategy,
		VectorCount: len(vecOut.ids),
		GraphCount:  len(graphOut.ids),
		ExecutionMS: float64(time.Since(start)) / float64(time.Millisecond),
		DanglingIDs: dangling,
		Partial:     partial,
	}, nil
}

func rankFusionScore(id string, vectorIDs, graphIDs []string) float64 {
	var score float64
	for i, v := range vectorIDs {
		if v == id {
			score += 1.0 / float64(rankFusionK+i+1)
			break
		}
	}
	for i, v := range graphIDs {
		if v == id {
			score += 1.0 / float64(rankFusionK+i+1)
			break
		}
	}
	return score
}

// runVector executes a single vector query, returning ids in ranked order
// and their scores.
func (e *Engine) runVector(ctx context.Context, q VectorQuery) ([]string, map[string]float64, error) {
	queryVector := q.QueryVector
	if len(queryVector) == 0 && q.QueryText != "" {
		vec, err := e.embedder.Embed(ctx, q.QueryText)
		if err != nil {
			return nil, nil, err
		}
		queryVector = vec
	}
	if len(queryVector) == 0 {
		return nil, nil, errors.New("query: vector query requires query_text or query_vector")
	}

	typeIDs := []string{q.EntityType}
	if q.ExpandTypes {
		schema := e.registry.Current()
		if schema == nil {
			return nil, nil, errors.New("query: no schema loaded")
		}
		expanded, err := reasoner.ExpandQuery(schema, q.EntityType)
		if err != nil {
			return nil, nil, err
		}
		typeIDs = expanded.Expanded
	}

	results, err := e.vector.Search(ctx, typeIDs, queryVector, q.Limit, q.MinScore)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]string, 0, len(results))
	scores := make(map[string]float64, len(results))
	for _, r := range results {
		ids = append(ids, r.EntityID)
		scores[r.EntityID] = r.Score
	}
	return ids, scores, nil
}

// runGraph executes a single graph traversal, returning ids in BFS order
// truncated to Limit.
func (e *Engine) runGraph(ctx context.Context, q GraphQuery) ([]string, error) {
	entities, err := e.graph.TraverseBFS(ctx, q.StartEntityID, q.RelationType, q.Direction, q.MaxDepth)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entities))
	for _, ent := range entities {
		ids = append(ids, ent.ID)
	}
	if q.Limit > 0 && len(ids) > q.Limit {
		ids = ids[:q.Limit]
	}
	return ids, nil
}

// materialize resolves each id to a full Entity via graph.GetEntity.
// Lookup failures are dropped from the result and reported in dangling.
func (e *Engine) materialize(ctx context.Context, ids []string) ([]ontology.Entity, []string) {
	entities := make([]ontology.Entity, 0, len(ids))
	var dangling []string
	for _, id := range ids {
		ent, err := e.graph.GetEntity(ctx, id)
		if err != nil {
			e.log.Warn("dropping dangling id from query result", "entity_id", id, "error", err)
			dangling = append(dangling, id)
			continue
		}
		if ent == nil {
			e.log.Warn("dropping dangling id from query result", "entity_id", id)
			dangling = append(dangling, id)
			continue
		}
		entities = append(entities, *ent)
	}
	return entities, dangling
}
