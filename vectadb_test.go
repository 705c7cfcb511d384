package vectadb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"vectadb.dev/core/config"
	"vectadb.dev/core/ontology"
	"vectadb.dev/core/query"
)

const testSchemaJSON = `{
	"namespace": "core",
	"version": "1",
	"entity_types": [
		{"id": "agent", "properties": {
			"name": {"kind": "string", "required": true}
		}}
	],
	"relation_types": [
		{"id": "delegates_to", "domain": "agent", "range": "agent"}
	]
}`

func newTestCore(t *testing.T) *Core {
	t.Helper()
	c, err := New(config.DefaultConfig(), nil, nil)
	require.NoError(t, err)
	require.NoError(t, c.Upload([]byte(testSchemaJSON), ontology.FormatJSON))
	return c
}

func TestUploadAndCurrent(t *testing.T) {
	c := newTestCore(t)
	schema := c.Current()
	require.NotNil(t, schema)
	require.Equal(t, "1", schema.Metadata.Version)
}

func TestUploadRejectsNonMonotonicVersion(t *testing.T) {
	c := newTestCore(t)
	err := c.Upload([]byte(testSchemaJSON), ontology.FormatJSON)
	require.Error(t, err)
}

func TestGetTypeAndSubtypes(t *testing.T) {
	c := newTestCore(t)
	et, err := c.GetType("agent")
	require.NoError(t, err)
	require.Equal(t, "agent", et.ID)

	subtypes, err := c.GetSubtypes("agent")
	require.NoError(t, err)
	require.Equal(t, []string{"agent"}, subtypes)
}

func TestValidateEntity(t *testing.T) {
	c := newTestCore(t)
	result, err := c.ValidateEntity("agent", map[string]ontology.PropertyValue{
		"name": ontology.StringValue("planner"),
	})
	require.NoError(t, err)
	require.True(t, result.Valid)
}

func TestExpandAndCompatibleRelations(t *testing.T) {
	c := newTestCore(t)
	expanded, err := c.Expand("agent")
	require.NoError(t, err)
	require.Equal(t, []string{"agent"}, expanded.Expanded)

	rels, err := c.CompatibleRelations("agent", "agent")
	require.NoError(t, err)
	require.Contains(t, rels, "delegates_to")
}

func TestEntityAndRelationLifecycle(t *testing.T) {
	ctx := context.Background()
	c := newTestCore(t)

	entity, err := c.CreateEntity(ctx, "agent", map[string]ontology.PropertyValue{
		"name": ontology.StringValue("planner"),
	})
	require.NoError(t, err)

	fetched, err := c.GetEntity(ctx, entity.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ID, fetched.ID)

	updated, err := c.UpdateEntity(ctx, entity.ID, map[string]ontology.PropertyValue{
		"name": ontology.StringValue("coordinator"),
	})
	require.NoError(t, err)
	require.Equal(t, entity.ID, updated.ID)

	other, err := c.CreateEntity(ctx, "agent", map[string]ontology.PropertyValue{
		"name": ontology.StringValue("other"),
	})
	require.NoError(t, err)

	rel, err := c.CreateRelation(ctx, "delegates_to", entity.ID, other.ID)
	require.NoError(t, err)

	require.NoError(t, c.DeleteRelation(ctx, rel.ID))
	require.NoError(t, c.DeleteEntity(ctx, entity.ID))

	_, err = c.GetEntity(ctx, entity.ID)
	require.Error(t, err)
}

func TestHybridQueryThroughCore(t *testing.T) {
	ctx := context.Background()
	c := newTestCore(t)

	entity, err := c.CreateEntity(ctx, "agent", map[string]ontology.PropertyValue{
		"name": ontology.StringValue("planner"),
	})
	require.NoError(t, err)

	resp, err := c.Hybrid(ctx, query.CombinedQuery{
		Vector: &query.VectorQuery{EntityType: "agent", QueryVector: entity.Embedding, Limit: 10},
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)
}

func TestOntologyOnlyModeRejectsStorageOperations(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultConfig()
	cfg.GraphStore.Kind = "remote" // no BaseURL set: fails to initialize
	c, err := New(cfg, nil, nil)
	require.NoError(t, err, "New degrades gracefully rather than failing")
	require.NoError(t, c.Upload([]byte(testSchemaJSON), ontology.FormatJSON))

	result, err := c.ValidateEntity("agent", map[string]ontology.PropertyValue{
		"name": ontology.StringValue("planner"),
	})
	require.NoError(t, err)
	require.True(t, result.Valid)

	_, err = c.CreateEntity(ctx, "agent", map[string]ontology.PropertyValue{
		"name": ontology.StringValue("planner"),
	})
	require.Error(t, err)
	var storageErr *StorageUnavailableError
	require.ErrorAs(t, err, &storageErr)
}
