package main

import (
	"encoding/json"
	"fmt"

	"vectadb.dev/core/ontology"
)

// parseProperties decodes a JSON object of plain values into typed
// PropertyValues using schema's declared kind for each property, so the
// CLI's --properties flag can stay plain JSON ({"name": "planner"})
// instead of requiring the caller to spell out a Kind discriminator per
// field.
func parseProperties(schema map[string]ontology.PropertySchema, raw string) (map[string]ontology.PropertyValue, error) {
	if raw == "" {
		return map[string]ontology.PropertyValue{}, nil
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("--properties must be a JSON object: %w", err)
	}

	out := make(map[string]ontology.PropertyValue, len(decoded))
	for name, value := range decoded {
		propSchema, known := schema[name]
		kind := ontology.KindString
		if known {
			kind = propSchema.Kind
		}
		pv, err := decodeValue(kind, value)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		out[name] = pv
	}
	return out, nil
}

func decodeValue(kind ontology.PropertyKind, raw json.RawMessage) (ontology.PropertyValue, error) {
	switch kind {
	case ontology.KindInteger:
		var n int64
		if err := json.Unmarshal(raw, &n); err != nil {
			return ontology.PropertyValue{}, err
		}
		return ontology.IntValue(n), nil
	case ontology.KindFloat:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return ontology.PropertyValue{}, err
		}
		return ontology.FloatValue(f), nil
	case ontology.KindBoolean:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return ontology.PropertyValue{}, err
		}
		return ontology.BoolValue(b), nil
	case ontology.KindObject:
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			return ontology.PropertyValue{}, err
		}
		return ontology.ObjectValue(m), nil
	case ontology.KindList:
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return ontology.PropertyValue{}, err
		}
		values := make([]ontology.PropertyValue, 0, len(items))
		for _, item := range items {
			v, err := decodeValue(ontology.KindString, item)
			if err != nil {
				return ontology.PropertyValue{}, err
			}
			values = append(values, v)
		}
		return ontology.ListValue(values...), nil
	default:
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return ontology.PropertyValue{}, err
		}
		return ontology.StringValue(str), nil
	}
}
