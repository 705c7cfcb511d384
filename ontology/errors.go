package ontology

import "fmt"

// SchemaInvalidReason names why a schema load was rejected.
type SchemaInvalidReason string

const (
	ReasonCycle                SchemaInvalidReason = "cycle"
	ReasonUnknownParent        SchemaInvalidReason = "unknown_parent"
	ReasonVersionNotMonotonic  SchemaInvalidReason = "version_not_monotonic"
	ReasonUnknownDomainOrRange SchemaInvalidReason = "unknown_domain_or_range"
	ReasonPropertyConflict     SchemaInvalidReason = "property_conflict"
)

// SchemaInvalidError is returned by Load when a candidate schema has a
// cyclic type hierarchy or references an unknown parent/domain/range, and
// by Registry.Replace when it fails the version-monotonicity policy.
type SchemaInvalidError struct {
	Reason   SchemaInvalidReason
	Cycle    []string // populated when Reason == ReasonCycle
	TypeID   string   // the offending type, when applicable
	Property string   // the offending property, when Reason == ReasonPropertyConflict
}

func (e *SchemaInvalidError) Error() string {
	switch e.Reason {
	case ReasonCycle:
		return fmt.Sprintf("schema invalid: cycle in type hierarchy: %v", e.Cycle)
	case ReasonUnknownParent:
		return fmt.Sprintf("schema invalid: unknown parent referenced by %q", e.TypeID)
	case ReasonVersionNotMonotonic:
		return "schema invalid: version is not strictly greater than the active schema's version"
	case ReasonUnknownDomainOrRange:
		return fmt.Sprintf("schema invalid: relation type %q references an unknown domain or range", e.TypeID)
	case ReasonPropertyConflict:
		return fmt.Sprintf("schema invalid: type %q retypes inherited property %q", e.TypeID, e.Property)
	default:
		return fmt.Sprintf("schema invalid: %s", e.Reason)
	}
}

// NotFoundError is returned by lookups against an id absent from the
// active schema.
type NotFoundError struct {
	Kind string // "entity_type" | "relation_type"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %q", e.Kind, e.ID)
}
