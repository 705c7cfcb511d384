// Package reasoner derives facts implied by, but not explicitly stored in,
// the active schema: type expansion for query fan-out, relation
// inference from domain/symmetric/inverse declarations, and transitive
// closure over a caller-supplied subgraph. It is pure computation: every
// operation here is synchronous and takes its inputs as arguments, never
// reaching into a store itself.
package reasoner

import (
	"sort"

	"vectadb.dev/core/ontology"
)

// ExpandedTypes is the result of expanding a type id to itself plus every
// descendant, in the order the Hybrid Query Engine fans out collections.
type ExpandedTypes struct {
	Original string
	Expanded []string
	Metadata map[string]string
}

// ExpandQuery returns {type_id} ∪ descendants(type_id), ordered
// topologically by hierarchy (the original type first, then each
// generation of descendants in turn) and lexicographically within a
// generation, so the same schema always produces the same order.
func ExpandQuery(schema *ontology.Schema, typeID string) (ExpandedTypes, error) {
	descendants, err := schema.Descendants(typeID)
	if err != nil {
		return ExpandedTypes{}, err
	}

	ordered := append([]string(nil), descendants...)
	sort.Slice(ordered, func(i, j int) bool {
		di, _ := ancestorDepth(schema, ordered[i])
		dj, _ := ancestorDepth(schema, ordered[j])
		if di != dj {
			return di < dj
		}
		return ordered[i] < ordered[j]
	})

	return ExpandedTypes{
		Original: typeID,
		Expanded: ordered,
		Metadata: map[string]string{
			"namespace": schema.Metadata.Namespace,
			"version":   schema.Metadata.Version,
		},
	}, nil
}

// ancestorDepth returns the number of ancestors above id (0 for a root
// type), used to order a descendant set by hierarchy level.
func ancestorDepth(schema *ontology.Schema, id string) (int, error) {
	chain, err := schema.Ancestors(id)
	if err != nil {
		return 0, err
	}
	return len(chain) - 1, nil
}

// InferReason names why a relation tuple was inferred rather than
// declared directly.
type InferReason string

const (
	ReasonSubtypeInheritance InferReason = "subtype_inheritance"
	ReasonSymmetric          InferReason = "symmetric"
	ReasonInverse            InferReason = "inverse"
)

// InferredRelation is one (source_type, target_type, relation_type, reason)
// tuple derived from schema facts.
type InferredRelation struct {
	SourceType   string
	TargetType   string
	RelationType string
	Reason       InferReason
}

type inferKey struct {
	source, target, relationType string
}

// InferRelations derives every relation tuple implied by typeID acting as
// a source: direct domain compatibility, then symmetric mirroring, then
// inverse swapping, in that priority order. Tuples are deduplicated by
// (source_type, target_type, relation_type), keeping whichever reason
// produced the tuple first.
func InferRelations(schema *ontology.Schema, typeID string) []InferredRelation {
	seen := make(map[inferKey]bool)
	var out []InferredRelation

	add := func(source, target, relationType string, reason InferReason) {
		key := inferKey{source, target, relationType}
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, InferredRelation{SourceType: source, TargetType: target, RelationType: relationType, Reason: reason})
	}

	var applicable []ontology.RelationType
	for _, id := range schema.RelationTypeIDs() {
		rt, err := schema.ResolveRelationType(id)
		if err != nil || !schema.IsSubtypeOf(typeID, rt.Domain) {
			continue
		}
		applicable = append(applicable, rt)
	}
	for _, rt := range applicable {
		add(typeID, rt.Range, rt.ID, ReasonSubtypeInheritance)
	}
	for _, rt := range applicable {
		if rt.Symmetric {
			add(rt.Range, typeID, rt.ID, ReasonSymmetric)
		}
	}
	for _, rt := range applicable {
		if rt.Inverse != "" {
			add(rt.Range, typeID, rt.Inverse, ReasonInverse)
		}
	}
	return out
}

// CompatibleRelations returns every relation type id that could connect an
// entity of sourceType to an entity of targetType: either directly (source
// is a subtype of the declared domain and target of the declared range) or
// through a declared symmetric relation used in reverse.
func CompatibleRelations(schema *ontology.Schema, sourceType, targetType string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, id := range schema.RelationTypeIDs() {
		rt, err := schema.ResolveRelationType(id)
		if err != nil {
			continue
		}
		compatible := schema.IsSubtypeOf(sourceType, rt.Domain) && schema.IsSubtypeOf(targetType, rt.Range)
		if !compatible && rt.Symmetric {
			compatible = schema.IsSubtypeOf(targetType, rt.Domain) && schema.IsSubtypeOf(sourceType, rt.Range)
		}
		if compatible && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// Edge is one caller-supplied adjacency entry for TransitiveClosure.
type Edge struct {
	To           string
	RelationType string
}

// TransitiveClosure computes the set of ids reachable from startID by
// following edges labeled relationType in graph, an adjacency mapping the
// caller builds from whatever subgraph it cares about (the Reasoner never
// reads a store directly). Cycles are detected via the visited set and
// simply stop expansion; startID itself is never in the result, even when
// a cycle leads back to it.
func TransitiveClosure(relationType, startID string, graph map[string][]Edge) []string {
	visited := map[string]bool{startID: true}
	reached := make(map[string]bool)
	queue := []string{startID}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range graph[cur] {
			if e.RelationType != relationType || visited[e.To] {
				continue
			}
			visited[e.To] = true
			reached[e.To] = true
			queue = append(queue, e.To)
		}
	}

	out := make([]string, 0, len(reached))
	for id := range reached {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
