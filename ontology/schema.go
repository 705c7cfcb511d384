package ontology

import "sort"

// Schema is an immutable, fully-resolved snapshot of entity types, relation
// types, and their effective (inherited) property schemas.
// A Schema is built once by Load and never mutated afterward; replacing the
// active schema means constructing a new Schema and swapping it behind the
// lock in Registry.
type Schema struct {
	Metadata SchemaMetadata

	entityTypes   map[string]EntityType
	relationTypes map[string]RelationType

	// children/descendants/ancestors are precomputed at Load time so that
	// expansion is O(result size), not O(schema size).
	children     map[string][]string // parent -> direct children ids, lex-sorted
	descendants  map[string][]string // id -> all transitive subtypes, lex-sorted, inclusive of id
	ancestors    map[string][]string // id -> chain from id to root, inclusive of id
	inheritedBy  map[string]map[string]PropertySchema
}

// Load builds a Schema from entity/relation type definitions, already
// deserialized from whatever wire format the outer layer used.
// It fails atomically: on error, the caller's previously active schema (if
// any) is left untouched by construction, since Load never mutates
// anything outside the returned value.
func Load(meta SchemaMetadata, entityTypes []EntityType, relationTypes []RelationType) (*Schema, error) {
	s := &Schema{
		Metadata:      meta,
		entityTypes:   make(map[string]EntityType, len(entityTypes)),
		relationTypes: make(map[string]RelationType, len(relationTypes)),
		children:      make(map[string][]string),
		descendants:   make(map[string][]string),
		ancestors:     make(map[string][]string),
		inheritedBy:   make(map[string]map[string]PropertySchema),
	}

	for _, et := range entityTypes {
		s.entityTypes[et.ID] = et
	}
	for _, rt := range relationTypes {
		s.relationTypes[rt.ID] = rt
	}

	// Every non-root parent must resolve, and the hierarchy must be acyclic.
	for id, et := range s.entityTypes {
		if et.Parent == "" {
			continue
		}
		if _, ok := s.entityTypes[et.Parent]; !ok {
			return nil, &SchemaInvalidError{Reason: ReasonUnknownParent, TypeID: id}
		}
	}
	if cycle := findCycle(s.entityTypes); cycle != nil {
		return nil, &SchemaInvalidError{Reason: ReasonCycle, Cycle: cycle}
	}

	// Relation domain/range must name known entity types.
	for id, rt := range s.relationTypes {
		if _, ok := s.entityTypes[rt.Domain]; !ok {
			return nil, &SchemaInvalidError{Reason: ReasonUnknownDomainOrRange, TypeID: id}
		}
		if _, ok := s.entityTypes[rt.Range]; !ok {
			return nil, &SchemaInvalidError{Reason: ReasonUnknownDomainOrRange, TypeID: id}
		}
	}

	for id, et := range s.entityTypes {
		if et.Parent != "" {
			s.children[et.Parent] = append(s.children[et.Parent], id)
		}
	}
	for parent := range s.children {
		sort.Strings(s.children[parent])
	}

	for id := range s.entityTypes {
		s.ancestors[id] = s.computeAncestors(id)
	}
	for id := range s.entityTypes {
		s.descendants[id] = s.computeDescendants(id)
	}
	for id := range s.entityTypes {
		merged, err := s.computeInherited(id)
		if err != nil {
			return nil, err
		}
		s.inheritedBy[id] = merged
	}

	return s, nil
}

func (s *Schema) computeAncestors(id string) []string {
	var chain []string
	cur := id
	for cur != "" {
		chain = append(chain, cur)
		cur = s.entityTypes[cur].Parent
	}
	return chain
}

func (s *Schema) computeDescendants(id string) []string {
	out := []string{id}
	var walk func(string)
	walk = func(cur string) {
		for _, child := range s.children[cur] {
			out = append(out, child)
			walk(child)
		}
	}
	walk(id)
	sort.Strings(out)
	return out
}

// computeInherited merges the property schema chain from root to id,
// rejecting a descendant that redeclares an inherited property with a
// different kind.
func (s *Schema) computeInherited(id string) (map[string]PropertySchema, error) {
	chain := s.ancestors[id]
	// ancestors(id) is id-to-root; walk root-to-id to apply overrides in order.
	merged := make(map[string]PropertySchema)
	for i := len(chain) - 1; i >= 0; i-- {
		typeID := chain[i]
		for name, prop := range s.entityTypes[typeID].Properties {
			if existing, ok := merged[name]; ok {
				if existing.Kind != prop.Kind {
					return nil, &SchemaInvalidError{Reason: ReasonPropertyConflict, TypeID: typeID, Property: name}
				}
			}
			merged[name] = prop
		}
	}
	return merged, nil
}

func findCycle(entityTypes map[string]EntityType) []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(entityTypes))
	var path []string

	var visit func(id string) []string
	visit = func(id string) []string {
		color[id] = gray
		path = append(path, id)
		if parent := entityTypes[id].Parent; parent != "" {
			switch color[parent] {
			case gray:
				// found the cycle: slice path from parent's first occurrence
				for i, p := range path {
					if p == parent {
						return append(append([]string(nil), path[i:]...), parent)
					}
				}
				return []string{parent}
			case white:
				if cyc := visit(parent); cyc != nil {
					return cyc
				}
			}
		}
		path = path[:len(path)-1]
		color[id] = black
		return nil
	}

	ids := make([]string, 0, len(entityTypes))
	for id := range entityTypes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if color[id] == white {
			if cyc := visit(id); cyc != nil {
				return cyc
			}
		}
	}
	return nil
}

// ResolveType returns the raw (non-inherited) EntityType definition.
func (s *Schema) ResolveType(id string) (EntityType, error) {
	et, ok := s.entityTypes[id]
	if !ok {
		return EntityType{}, &NotFoundError{Kind: "entity_type", ID: id}
	}
	return et, nil
}

// ResolveRelationType returns a RelationType definition.
func (s *Schema) ResolveRelationType(id string) (RelationType, error) {
	rt, ok := s.relationTypes[id]
	if !ok {
		return RelationType{}, &NotFoundError{Kind: "relation_type", ID: id}
	}
	return rt, nil
}

// Ancestors returns the ordered chain from id up to its root, inclusive of
// id, or an error if id is unknown.
func (s *Schema) Ancestors(id string) ([]string, error) {
	if _, ok := s.entityTypes[id]; !ok {
		return nil, &NotFoundError{Kind: "entity_type", ID: id}
	}
	return append([]string(nil), s.ancestors[id]...), nil
}

// Descendants returns the lex-sorted set of id and all its transitive
// subtypes, or an error if id is unknown.
func (s *Schema) Descendants(id string) ([]string, error) {
	if _, ok := s.entityTypes[id]; !ok {
		return nil, &NotFoundError{Kind: "entity_type", ID: id}
	}
	return append([]string(nil), s.descendants[id]...), nil
}

// IsSubtypeOf reports whether sub is typeID or a descendant of typeID.
func (s *Schema) IsSubtypeOf(sub, typeID string) bool {
	for _, a := range s.ancestors[sub] {
		if a == typeID {
			return true
		}
	}
	return false
}

// InheritedProperties returns the effective property schema for id after
// merging its parent chain.
func (s *Schema) InheritedProperties(id string) (map[string]PropertySchema, error) {
	if _, ok := s.entityTypes[id]; !ok {
		return nil, &NotFoundError{Kind: "entity_type", ID: id}
	}
	out := make(map[string]PropertySchema, len(s.inheritedBy[id]))
	for k, v := range s.inheritedBy[id] {
		out[k] = v
	}
	return out, nil
}

// EntityTypeIDs returns every entity type id in lex order.
func (s *Schema) EntityTypeIDs() []string {
	ids := make([]string, 0, len(s.entityTypes))
	for id := range s.entityTypes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RelationTypeIDs returns every relation type id in lex order.
func (s *Schema) RelationTypeIDs() []string {
	ids := make([]string, 0, len(s.relationTypes))
	for id := range s.relationTypes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RelationTypes returns a copy of every relation type definition.
func (s *Schema) RelationTypes() []RelationType {
	out := make([]RelationType, 0, len(s.relationTypes))
	for _, id := range s.RelationTypeIDs() {
		out = append(out, s.relationTypes[id])
	}
	return out
}
