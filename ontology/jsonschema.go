package ontology

import "github.com/google/jsonschema-go/jsonschema"

// ToJSONSchema renders the fully inherited property set of id as a JSON
// Schema object, the shape handed back when a caller asks for the JSON
// representation of a type instead of the native Go value. Inheritance is
// flattened at render time rather than expressed through $ref, so the
// result for a given type id is stable regardless of how deep its
// ancestor chain is.
func (s *Schema) ToJSONSchema(id string) (*jsonschema.Schema, error) {
	props, err := s.InheritedProperties(id)
	if err != nil {
		return nil, err
	}

	out := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(props)),
	}
	for name, p := range props {
		out.Properties[name] = propertyJSONSchema(p)
		if p.Required {
			out.Required = append(out.Required, name)
		}
	}
	return out, nil
}

func propertyJSONSchema(p PropertySchema) *jsonschema.Schema {
	item := kindJSONSchema(p.Kind, p.ItemKind)
	for _, c := range p.Constraints {
		applyConstraint(item, c)
	}
	if p.Cardinality == CardinalityMany && p.Kind != KindList {
		return &jsonschema.Schema{Type: "array", Items: item}
	}
	return item
}

func kindJSONSchema(kind, itemKind PropertyKind) *jsonschema.Schema {
	switch kind {
	case KindString:
		return &jsonschema.Schema{Type: "string"}
	case KindInteger:
		return &jsonschema.Schema{Type: "integer"}
	case KindFloat:
		return &jsonschema.Schema{Type: "number"}
	case KindBoolean:
		return &jsonschema.Schema{Type: "boolean"}
	case KindTimestamp:
		return &jsonschema.Schema{Type: "string", Format: "date-time"}
	case KindList:
		return &jsonschema.Schema{Type: "array", Items: kindJSONSchema(itemKind, "")}
	case KindObject:
		return &jsonschema.Schema{Type: "object"}
	default:
		return &jsonschema.Schema{}
	}
}

func applyConstraint(target *jsonschema.Schema, c Constraint) {
	switch c.Kind {
	case ConstraintMinLength:
		n := c.Integer
		target.MinLength = &n
	case ConstraintMaxLength:
		n := c.Integer
		target.MaxLength = &n
	case ConstraintMin:
		target.Minimum = &c.Number
	case ConstraintMax:
		target.Maximum = &c.Number
	case ConstraintPattern:
		target.Pattern = c.Text
	case ConstraintScript:
		// Scripted constraints have no static JSON Schema equivalent; they are
		// enforced only by EvalConstraint at validation time.
	}
}
