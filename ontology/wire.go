package ontology

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
)

// UploadFormat names the wire encoding accepted by the schema upload operation.
type UploadFormat string

const (
	FormatJSON UploadFormat = "json"
	FormatYAML UploadFormat = "yaml"
)

// wireSchema is the deserialized shape of a schema document, shared by both
// the JSON and YAML wire encodings.
type wireSchema struct {
	Namespace     string             `json:"namespace" yaml:"namespace"`
	Version       string             `json:"version" yaml:"version"`
	EntityTypes   []wireEntityType   `json:"entity_types" yaml:"entity_types"`
	RelationTypes []wireRelationType `json:"relation_types" yaml:"relation_types"`
}

type wireEntityType struct {
	ID         string                    `json:"id" yaml:"id"`
	Parent     string                    `json:"parent,omitempty" yaml:"parent,omitempty"`
	Properties map[string]wireProperty   `json:"properties,omitempty" yaml:"properties,omitempty"`
}

type wireRelationType struct {
	ID         string                  `json:"id" yaml:"id"`
	Domain     string                  `json:"domain" yaml:"domain"`
	Range      string                  `json:"range" yaml:"range"`
	Symmetric  bool                    `json:"symmetric,omitempty" yaml:"symmetric,omitempty"`
	Inverse    string                  `json:"inverse,omitempty" yaml:"inverse,omitempty"`
	Transitive bool                    `json:"transitive,omitempty" yaml:"transitive,omitempty"`
	Properties map[string]wireProperty `json:"properties,omitempty" yaml:"properties,omitempty"`
}

type wireProperty struct {
	Kind        string           `json:"kind" yaml:"kind"`
	Required    bool             `json:"required,omitempty" yaml:"required,omitempty"`
	Cardinality string           `json:"cardinality,omitempty" yaml:"cardinality,omitempty"`
	ItemKind    string           `json:"item_kind,omitempty" yaml:"item_kind,omitempty"`
	Constraints []wireConstraint `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

type wireConstraint struct {
	Kind    string  `json:"kind" yaml:"kind"`
	Number  float64 `json:"number,omitempty" yaml:"number,omitempty"`
	Text    string  `json:"text,omitempty" yaml:"text,omitempty"`
	Integer int     `json:"integer,omitempty" yaml:"integer,omitempty"`
}

// Decode parses schema_bytes per format and builds a
// Schema via Load, so the atomicity and invariant checks in Load apply
// uniformly regardless of wire encoding.
func Decode(schemaBytes []byte, format UploadFormat) (*Schema, error) {
	var w wireSchema
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(schemaBytes, &w); err != nil {
			return nil, fmt.Errorf("decode json schema: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(schemaBytes, &w); err != nil {
			return nil, fmt.Errorf("decode yaml schema: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown schema upload format %q", format)
	}

	entityTypes := make([]EntityType, 0, len(w.EntityTypes))
	for _, et := range w.EntityTypes {
		props := make(map[string]PropertySchema, len(et.Properties))
		for name, p := range et.Properties {
			ps, err := decodeProperty(name, p)
			if err != nil {
				return nil, err
			}
			props[name] = ps
		}
		entityTypes = append(entityTypes, EntityType{ID: et.ID, Parent: et.Parent, Properties: props})
	}

	relationTypes := make([]RelationType, 0, len(w.RelationTypes))
	for _, rt := range w.RelationTypes {
		props := make(map[string]PropertySchema, len(rt.Properties))
		for name, p := range rt.Properties {
			ps, err := decodeProperty(name, p)
			if err != nil {
				return nil, err
			}
			props[name] = ps
		}
		relationTypes = append(relationTypes, RelationType{
			ID: rt.ID, Domain: rt.Domain, Range: rt.Range,
			Symmetric: rt.Symmetric, Inverse: rt.Inverse, Transitive: rt.Transitive,
			Properties: props,
		})
	}

	meta := SchemaMetadata{Namespace: w.Namespace, Version: w.Version}
	return Load(meta, entityTypes, relationTypes)
}

func decodeProperty(name string, p wireProperty) (PropertySchema, error) {
	card := CardinalityOne
	if p.Cardinality == string(CardinalityMany) {
		card = CardinalityMany
	}
	constraints := make([]Constraint, 0, len(p.Constraints))
	for _, c := range p.Constraints {
		constraints = append(constraints, Constraint{
			Kind: ConstraintKind(c.Kind), Number: c.Number, Text: c.Text, Integer: c.Integer,
		})
	}
	return PropertySchema{
		Name:        name,
		Kind:        PropertyKind(p.Kind),
		Required:    p.Required,
		Cardinality: card,
		ItemKind:    PropertyKind(p.ItemKind),
		Constraints: constraints,
	}, nil
}

// Encode serializes a Schema back to the wire shape decoded by Decode, so
// decoding the output rebuilds the same types, relation types and property
// schemas. The bytes are not always identical to an uploaded document:
// types and relation types are written in id order, every property's
// cardinality is written out ("one" included), and an empty relation type
// list is written as null.
func (s *Schema) Encode(format UploadFormat) ([]byte, error) {
	w := wireSchema{Namespace: s.Metadata.Namespace, Version: s.Metadata.Version}
	for _, id := range s.EntityTypeIDs() {
		et := s.entityTypes[id]
		w.EntityTypes = append(w.EntityTypes, wireEntityType{
			ID: et.ID, Parent: et.Parent, Properties: encodeProperties(et.Properties),
		})
	}
	for _, id := range s.RelationTypeIDs() {
		rt := s.relationTypes[id]
		w.RelationTypes = append(w.RelationTypes, wireRelationType{
			ID: rt.ID, Domain: rt.Domain, Range: rt.Range,
			Symmetric: rt.Symmetric, Inverse: rt.Inverse, Transitive: rt.Transitive,
			Properties: encodeProperties(rt.Properties),
		})
	}

	switch format {
	case FormatJSON:
		return json.Marshal(w)
	case FormatYAML:
		return yaml.Marshal(w)
	default:
		return nil, fmt.Errorf("unknown schema format %q", format)
	}
}

func encodeProperties(props map[string]PropertySchema) map[string]wireProperty {
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]wireProperty, len(props))
	for name, p := range props {
		constraints := make([]wireConstraint, 0, len(p.Constraints))
		for _, c := range p.Constraints {
			constraints = append(constraints, wireConstraint{
				Kind: string(c.Kind), Number: c.Number, Text: c.Text, Integer: c.Integer,
			})
		}
		out[name] = wireProperty{
			Kind: string(p.Kind), Required: p.Required, Cardinality: string(p.Cardinality),
			ItemKind: string(p.ItemKind), Constraints: constraints,
		}
	}
	return out
}
