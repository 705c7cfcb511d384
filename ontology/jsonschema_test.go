package ontology

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToJSONSchema(t *testing.T) {
	types := []EntityType{
		NewEntityType("agent").
			Property(Property("name", KindString, true)).
			Build(),
		NewEntityType("planner_agent").
			Parent("agent").
			Property(PropertySchema{
				Name: "max_steps", Kind: KindInteger, Required: false, Cardinality: CardinalityOne,
				Constraints: []Constraint{{Kind: ConstraintMin, Number: 1}, {Kind: ConstraintMax, Number: 100}},
			}).
			Build(),
	}
	s, err := Load(SchemaMetadata{Version: "1.0.0"}, types, nil)
	require.NoError(t, err)

	js, err := s.ToJSONSchema("planner_agent")
	require.NoError(t, err)
	require.Equal(t, "object", js.Type)
	require.Contains(t, js.Required, "name")
	require.NotContains(t, js.Required, "max_steps")

	nameSchema := js.Properties["name"]
	require.NotNil(t, nameSchema)
	require.Equal(t, "string", nameSchema.Type)

	maxStepsSchema := js.Properties["max_steps"]
	require.NotNil(t, maxStepsSchema)
	require.Equal(t, "integer", maxStepsSchema.Type)
	require.NotNil(t, maxStepsSchema.Minimum)
	require.Equal(t, 1.0, *maxStepsSchema.Minimum)
	require.NotNil(t, maxStepsSchema.Maximum)
	require.Equal(t, 100.0, *maxStepsSchema.Maximum)
}

func TestToJSONSchemaUnknownType(t *testing.T) {
	s, err := Load(SchemaMetadata{Version: "1.0.0"}, testSchemaTypes(), nil)
	require.NoError(t, err)

	_, err = s.ToJSONSchema("missing")
	require.Error(t, err)
}
