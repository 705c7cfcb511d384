package validator

import (
	"fmt"

	"vectadb.dev/core/ontology"
)

// Options tunes optional validation behavior.
type Options struct {
	// Strict, when true, rejects properties not declared on the type
	// (CodeUnexpectedProperty). Off by default: unknown properties are
	// allowed and preserved verbatim.
	Strict bool
}

// ValidateEntity checks properties against typeID's effective (inherited)
// property schema in schema. Errors are accumulated, never short-circuited:
// a caller always gets every violation in one pass. Property ordering in
// the input is irrelevant, since properties is a map.
func ValidateEntity(schema *ontology.Schema, typeID string, properties map[string]ontology.PropertyValue, opts Options) Result {
	result := OK()

	_, err := schema.ResolveType(typeID)
	if err != nil {
		result.addError("", CodeUnknownType, fmt.Sprintf("unknown entity type %q", typeID))
		return result
	}

	declared, err := schema.InheritedProperties(typeID)
	if err != nil {
		result.addError("", CodeUnknownType, fmt.Sprintf("unknown entity type %q", typeID))
		return result
	}

	for name, propSchema := range declared {
		value, present := properties[name]
		if !present {
			if propSchema.Required {
				result.addError(name, CodeMissingRequiredProperty, fmt.Sprintf("missing required property %q", name))
			}
			continue
		}
		validateValue(&result, propSchema, value)
	}

	if opts.Strict {
		for name := range properties {
			if _, ok := declared[name]; !ok {
				result.addError(name, CodeUnexpectedProperty, fmt.Sprintf("unexpected property %q", name))
			}
		}
	}

	return result
}

// ValidateRelation checks that a relation of typeID may connect an entity
// of sourceType to an entity of targetType, per the relation's declared
// domain/range and the schema's subtype relationships.
func ValidateRelation(schema *ontology.Schema, typeID, sourceType, targetType string) Result {
	result := OK()

	rt, err := schema.ResolveRelationType(typeID)
	if err != nil {
		result.addError("", CodeUnknownType, fmt.Sprintf("unknown relation type %q", typeID))
		return result
	}

	if !schema.IsSubtypeOf(sourceType, rt.Domain) {
		result.addError("", CodeIncompatibleDomain,
			fmt.Sprintf("source type %q is not a subtype of declared domain %q", sourceType, rt.Domain))
	}
	if !schema.IsSubtypeOf(targetType, rt.Range) {
		result.addError("", CodeIncompatibleRange,
			fmt.Sprintf("target type %q is not a subtype of declared range %q", targetType, rt.Range))
	}
	return result
}

// validateValue checks one property value against its schema: kind/
// cardinality shape, then constraints.
func validateValue(result *Result, propSchema ontology.PropertySchema, value ontology.PropertyValue) {
	switch {
	case propSchema.Kind == ontology.KindList:
		if value.Kind != ontology.KindList {
			result.addError(propSchema.Name, CodeWrongKind,
				fmt.Sprintf("property %q expected list, got %s", propSchema.Name, value.Kind))
			return
		}
		for _, item := range value.List {
			if propSchema.ItemKind != "" && item.Kind != propSchema.ItemKind {
				result.addError(propSchema.Name, CodeWrongKind,
					fmt.Sprintf("property %q list item expected %s, got %s", propSchema.Name, propSchema.ItemKind, item.Kind))
				continue
			}
			applyConstraints(result, propSchema, item)
		}

	case propSchema.Cardinality == ontology.CardinalityMany:
		if value.Kind != ontology.KindList {
			result.addError(propSchema.Name, CodeCardinalityViolation,
				fmt.Sprintf("property %q declares cardinality many but got a single value", propSchema.Name))
			return
		}
		for _, item := range value.List {
			if item.Kind != propSchema.Kind {
				result.addError(propSchema.Name, CodeWrongKind,
					fmt.Sprintf("property %q expected %s, got %s", propSchema.Name, propSchema.Kind, item.Kind))
				continue
			}
			applyConstraints(result, propSchema, item)
		}

	default:
		if value.Kind != propSchema.Kind {
			result.addError(propSchema.Name, CodeWrongKind,
				fmt.Sprintf("property %q expected %s, got %s", propSchema.Name, propSchema.Kind, value.Kind))
			return
		}
		applyConstraints(result, propSchema, value)
	}
}

func applyConstraints(result *Result, propSchema ontology.PropertySchema, value ontology.PropertyValue) {
	for _, c := range propSchema.Constraints {
		evalResult, err := ontology.EvalConstraint(c, propSchema.Name, value)
		if err != nil {
			result.addError(propSchema.Name, CodeConstraintViolation,
				fmt.Sprintf("property %q constraint %s errored: %v", propSchema.Name, c.Kind, err))
			continue
		}
		if !evalResult.OK {
			msg := evalResult.Message
			if msg == "" {
				msg = fmt.Sprintf("property %q failed constraint %s", propSchema.Name, c.Kind)
			}
			result.addError(propSchema.Name, CodeConstraintViolation, msg)
		}
	}
}
