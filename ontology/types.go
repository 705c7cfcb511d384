// Package ontology is the Schema Model: the in-memory representation of
// entity types, relation types, properties, and constraints, plus the
// Entity/Relation record shapes every other component exchanges.
//
// Beyond evaluating a single property constraint, it knows nothing about
// validation, persistence, or queries — those are the Validator, the store
// adapters, and the Hybrid Query Engine, layered on top. The model package
// imports no other package of this module, which avoids import cycles
// between those layers.
package ontology

import "time"

// PropertyKind enumerates the recognized property value kinds.
type PropertyKind string

const (
	KindString    PropertyKind = "string"
	KindInteger   PropertyKind = "integer"
	KindFloat     PropertyKind = "float"
	KindBoolean   PropertyKind = "boolean"
	KindTimestamp PropertyKind = "timestamp"
	KindList      PropertyKind = "list"
	KindObject    PropertyKind = "object" // opaque nested object, unvalidated
)

// Cardinality is One or Many for a property.
type Cardinality string

const (
	CardinalityOne  Cardinality = "one"
	CardinalityMany Cardinality = "many"
)

// ConstraintKind names a built-in or scripted constraint.
type ConstraintKind string

const (
	ConstraintMinLength ConstraintKind = "min_length"
	ConstraintMaxLength ConstraintKind = "max_length"
	ConstraintMin       ConstraintKind = "min"
	ConstraintMax       ConstraintKind = "max"
	ConstraintPattern   ConstraintKind = "pattern"
	ConstraintScript    ConstraintKind = "script"
)

// Constraint is a single named constraint on a property. Exactly one of the
// typed fields is meaningful, selected by Kind.
type Constraint struct {
	Kind    ConstraintKind
	Number  float64 // Min, Max
	Text    string  // Pattern, Script source
	Integer int     // MinLength, MaxLength
}

// PropertySchema is the declared shape of one property on an entity or
// relation type.
type PropertySchema struct {
	Name        string
	Kind        PropertyKind
	Required    bool
	Cardinality Cardinality
	// ItemKind is the element kind when Kind == KindList.
	ItemKind    PropertyKind
	Constraints []Constraint
}

// EntityType is a node in the single-parent type hierarchy.
type EntityType struct {
	ID         string
	Parent     string // empty for a root type
	Properties map[string]PropertySchema
}

// RelationType declares the allowed endpoint types and inference behavior
// for a relation.
type RelationType struct {
	ID         string
	Domain     string
	Range      string
	Symmetric  bool
	Inverse    string // relation type id, empty if none
	Transitive bool
	Properties map[string]PropertySchema
}

// SchemaMetadata identifies a schema revision.
type SchemaMetadata struct {
	Namespace string
	Version   string
}

// PropertyValue is a typed value carried in an Entity or Relation's
// properties map. Exactly one field is populated, selected by Kind.
type PropertyValue struct {
	Kind   PropertyKind
	Str    string
	Int    int64
	Flt    float64
	Bool   bool
	Time   time.Time
	List   []PropertyValue
	Object map[string]any // opaque, not validated below the top level
}

func StringValue(s string) PropertyValue  { return PropertyValue{Kind: KindString, Str: s} }
func IntValue(i int64) PropertyValue      { return PropertyValue{Kind: KindInteger, Int: i} }
func FloatValue(f float64) PropertyValue  { return PropertyValue{Kind: KindFloat, Flt: f} }
func BoolValue(b bool) PropertyValue      { return PropertyValue{Kind: KindBoolean, Bool: b} }
func TimeValue(t time.Time) PropertyValue { return PropertyValue{Kind: KindTimestamp, Time: t} }
func ListValue(items ...PropertyValue) PropertyValue {
	return PropertyValue{Kind: KindList, List: items}
}
func ObjectValue(m map[string]any) PropertyValue {
	return PropertyValue{Kind: KindObject, Object: m}
}

// Entity is a typed, server-assigned record.
type Entity struct {
	ID         string
	Type       string
	Properties map[string]PropertyValue
	Embedding  []float32
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Metadata   map[string]string
}

// Clone returns a deep-enough copy for compensation/comparison purposes.
func (e Entity) Clone() Entity {
	out := e
	if e.Properties != nil {
		out.Properties = make(map[string]PropertyValue, len(e.Properties))
		for k, v := range e.Properties {
			out.Properties[k] = v
		}
	}
	if e.Embedding != nil {
		out.Embedding = append([]float32(nil), e.Embedding...)
	}
	if e.Metadata != nil {
		out.Metadata = make(map[string]string, len(e.Metadata))
		for k, v := range e.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// Relation is an immutable (except for deletion) directed edge.
type Relation struct {
	ID         string
	Type       string
	SourceID   string
	TargetID   string
	Properties map[string]PropertyValue
	CreatedAt  time.Time
}
