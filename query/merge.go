package query

import "sort"

// merge folds a vector result id list and a graph result id list (each
// already in source-native rank order) into one id list per strategy.
func merge(strategy MergeStrategy, vectorIDs, graphIDs []string) []string {
	switch strategy {
	case StrategyIntersection:
		return mergeIntersection(vectorIDs, graphIDs)
	case StrategyVectorPriority:
		return mergePriority(vectorIDs, graphIDs)
	case StrategyGraphPriority:
		return mergePriority(graphIDs, vectorIDs)
	case StrategyRankFusion:
		return mergeRankFusion(vectorIDs, graphIDs)
	case StrategyUnion:
		fallthrough
	default:
		return mergeUnion(vectorIDs, graphIDs)
	}
}

// mergeUnion concatenates vector then graph results, deduplicating by id
// and preserving first occurrence.
func mergeUnion(vectorIDs, graphIDs []string) []string {
	seen := make(map[string]bool, len(vectorIDs)+len(graphIDs))
	out := make([]string, 0, len(vectorIDs)+len(graphIDs))
	for _, id := range append(append([]string(nil), vectorIDs...), graphIDs...) {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// mergeIntersection keeps only ids present in both lists, ordered by their
// rank in vectorIDs (best vector rank first).
func mergeIntersection(vectorIDs, graphIDs []string) []string {
	inGraph := make(map[string]bool, len(graphIDs))
	for _, id := range graphIDs {
		inGraph[id] = true
	}
	out := make([]string, 0)
	for _, id := range vectorIDs {
		if inGraph[id] {
			out = append(out, id)
		}
	}
	return out
}

// mergePriority returns primary in order, then secondary ids not already
// present. Used for both VectorPriority (primary=vector) and
// GraphPriority (primary=graph).
func mergePriority(primary, secondary []string) []string {
	seen := make(map[string]bool, len(primary)+len(secondary))
	out := make([]string, 0, len(primary)+len(secondary))
	for _, id := range primary {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	for _, id := range secondary {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// mergeRankFusion implements Reciprocal Rank Fusion: score(id) = sum over
// sources of 1/(k + rank), rank 1-based within each source's order,
// descending by score, ties broken lexicographically by id.
func mergeRankFusion(vectorIDs, graphIDs []string) []string {
	scores := make(map[string]float64)
	addRanks := func(ids []string) {
		for i, id := range ids {
			rank := i + 1
			scores[id] += 1.0 / float64(rankFusionK+rank)
		}
	}
	addRanks(vectorIDs)
	addRanks(graphIDs)

	out := make([]string, 0, len(scores))
	for id := range scores {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		if scores[out[i]] != scores[out[j]] {
			return scores[out[i]] > scores[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}
