package ontology

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const jsonDoc = `{
  "namespace": "default",
  "version": "1.0.0",
  "entity_types": [
    {"id": "agent", "properties": {"name": {"kind": "string", "required": true}}},
    {"id": "planner_agent", "parent": "agent", "properties": {"strategy": {"kind": "string"}}}
  ],
  "relation_types": [
    {"id": "delegates_to", "domain": "agent", "range": "agent", "transitive": true}
  ]
}`

const yamlDoc = `
namespace: default
version: 1.0.0
entity_types:
  - id: agent
    properties:
      name:
        kind: string
        required: true
  - id: planner_agent
    parent: agent
    properties:
      strategy:
        kind: string
relation_types:
  - id: delegates_to
    domain: agent
    range: agent
    transitive: true
`

func TestDecodeJSON(t *testing.T) {
	s, err := Decode([]byte(jsonDoc), FormatJSON)
	require.NoError(t, err)
	require.Equal(t, "1.0.0", s.Metadata.Version)

	props, err := s.InheritedProperties("planner_agent")
	require.NoError(t, err)
	require.Contains(t, props, "name")
	require.Contains(t, props, "strategy")

	rt, err := s.ResolveRelationType("delegates_to")
	require.NoError(t, err)
	require.True(t, rt.Transitive)
}

func TestDecodeYAML(t *testing.T) {
	s, err := Decode([]byte(yamlDoc), FormatYAML)
	require.NoError(t, err)
	require.Equal(t, "default", s.Metadata.Namespace)
	require.ElementsMatch(t, []string{"agent", "planner_agent"}, s.EntityTypeIDs())
}

func TestDecodeUnknownFormat(t *testing.T) {
	_, err := Decode([]byte(jsonDoc), UploadFormat("toml"))
	require.Error(t, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original, err := Decode([]byte(jsonDoc), FormatJSON)
	require.NoError(t, err)

	encoded, err := original.Encode(FormatJSON)
	require.NoError(t, err)

	roundTripped, err := Decode(encoded, FormatJSON)
	require.NoError(t, err)

	require.Empty(t, cmp.Diff(original.EntityTypeIDs(), roundTripped.EntityTypeIDs()))
	require.Empty(t, cmp.Diff(original.RelationTypeIDs(), roundTripped.RelationTypeIDs()))

	origProps, err := original.InheritedProperties("planner_agent")
	require.NoError(t, err)
	rtProps, err := roundTripped.InheritedProperties("planner_agent")
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(origProps, rtProps))
}
