package ontology

// EntityTypeBuilder fluently constructs an EntityType, mirroring the
// chained builder style used throughout this codebase's schema
// construction (e.g. NewString().MinLength(3).Pattern(...).Build()).
type EntityTypeBuilder struct {
	et EntityType
}

// NewEntityType starts building an entity type with the given id.
func NewEntityType(id string) *EntityTypeBuilder {
	return &EntityTypeBuilder{et: EntityType{ID: id, Properties: map[string]PropertySchema{}}}
}

// Parent sets the single parent type id.
func (b *EntityTypeBuilder) Parent(parent string) *EntityTypeBuilder {
	b.et.Parent = parent
	return b
}

// Property adds or replaces a property declaration.
func (b *EntityTypeBuilder) Property(p PropertySchema) *EntityTypeBuilder {
	b.et.Properties[p.Name] = p
	return b
}

// Build finalizes the EntityType.
func (b *EntityTypeBuilder) Build() EntityType {
	return b.et
}

// RelationTypeBuilder fluently constructs a RelationType.
type RelationTypeBuilder struct {
	rt RelationType
}

// NewRelationType starts building a relation type with the given id.
func NewRelationType(id, domain, rng string) *RelationTypeBuilder {
	return &RelationTypeBuilder{rt: RelationType{
		ID:         id,
		Domain:     domain,
		Range:      rng,
		Properties: map[string]PropertySchema{},
	}}
}

func (b *RelationTypeBuilder) Symmetric(v bool) *RelationTypeBuilder {
	b.rt.Symmetric = v
	return b
}

func (b *RelationTypeBuilder) Inverse(relationTypeID string) *RelationTypeBuilder {
	b.rt.Inverse = relationTypeID
	return b
}

func (b *RelationTypeBuilder) Transitive(v bool) *RelationTypeBuilder {
	b.rt.Transitive = v
	return b
}

func (b *RelationTypeBuilder) Property(p PropertySchema) *RelationTypeBuilder {
	b.rt.Properties[p.Name] = p
	return b
}

func (b *RelationTypeBuilder) Build() RelationType {
	return b.rt
}

// Property is a convenience constructor for a simple required/optional
// scalar property with no constraints, the common case in tests and
// builder chains.
func Property(name string, kind PropertyKind, required bool) PropertySchema {
	return PropertySchema{
		Name:        name,
		Kind:        kind,
		Required:    required,
		Cardinality: CardinalityOne,
	}
}
