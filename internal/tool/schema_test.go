package tool

import (
	"reflect"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// snapshotCustomTypes saves and restores the global RegisterType table so
// tests that register types do not leak into other tests. Tests using it
// must not run in parallel.
func snapshotCustomTypes(t *testing.T) {
	t.Helper()
	customTypesMu.Lock()
	saved := make(map[reflect.Type]*jsonschema.Schema, len(customTypes))
	for k, v := range customTypes {
		saved[k] = v
	}
	customTypesMu.Unlock()
	t.Cleanup(func() {
		customTypesMu.Lock()
		customTypes = saved
		customTypesMu.Unlock()
	})
}

func TestGenerateSchema_Simple(t *testing.T) {
	t.Parallel()
	type Args struct {
		Name string `json:"name" description:"full doctor name"`
		Age  int    `json:"age,omitempty"`
	}
	schemaMap, resolved, err := generateSchema[Args](false)
	require.NoError(t, err)
	require.NotNil(t, resolved)

	obj := rootObject(schemaMap)
	require.NotNil(t, obj)
	props, ok := obj["properties"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, props, "name")
	require.Contains(t, props, "age")

	name, ok := props["name"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "full doctor name", name["description"])

	assert.Equal(t, []string{"name"}, requiredParams(schemaMap))
}

func TestGenerateSchema_EnumAndDefaultTags(t *testing.T) {
	t.Parallel()
	type Args struct {
		Period   string `json:"period,omitempty" enum:"morning,afternoon,evening,any" default:"any"`
		Duration int    `json:"duration,omitempty" default:"30"`
	}
	schemaMap, _, err := generateSchema[Args](false)
	require.NoError(t, err)

	obj := rootObject(schemaMap)
	require.NotNil(t, obj)
	props := obj["properties"].(map[string]any)

	period := props["period"].(map[string]any)
	assert.Equal(t, []any{"morning", "afternoon", "evening", "any"}, period["enum"])
	assert.Equal(t, "any", period["default"])

	duration := props["duration"].(map[string]any)
	// Numeric default tags parse as JSON numbers.
	assert.Equal(t, float64(30), duration["default"])

	defaults := parameterDefaults(schemaMap)
	assert.Equal(t, "any", defaults["period"])
	assert.Equal(t, float64(30), defaults["duration"])
}

func TestGenerateSchema_Strict(t *testing.T) {
	t.Parallel()
	type Args struct {
		A string `json:"a,omitempty"`
	}
	schemaMap, resolved, err := generateSchema[Args](true)
	require.NoError(t, err)
	require.NotNil(t, resolved)

	obj := rootObject(schemaMap)
	require.NotNil(t, obj)
	assert.Equal(t, false, obj["additionalProperties"])
	assert.Equal(t, []string{"a"}, requiredParams(schemaMap))

	err = resolved.Validate(map[string]any{"a": "x", "extra": 1})
	assert.Error(t, err, "strict schema must reject unknown properties")
}

func TestRegisterType_CustomMapping(t *testing.T) {
	snapshotCustomTypes(t)

	type stamp struct{ unix int64 }
	RegisterType(stamp{}, "string", "date-time")

	type Args struct {
		At stamp `json:"at"`
	}
	schemaMap, _, err := generateSchema[Args](false)
	require.NoError(t, err)

	obj := rootObject(schemaMap)
	require.NotNil(t, obj)
	props := obj["properties"].(map[string]any)
	at, ok := props["at"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", at["type"])
	assert.Equal(t, "date-time", at["format"])
}

func TestRegisterType_PanicsOnBadInput(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { RegisterType(nil, "string", "") })
	assert.Panics(t, func() { RegisterType(struct{}{}, "", "") })
}

func TestStripSchemaIDs(t *testing.T) {
	t.Parallel()
	schemaMap := map[string]any{
		"$id":        "https://example.invalid/root",
		"properties": map[string]any{"x": map[string]any{"id": "nested", "type": "integer"}},
	}
	stripSchemaIDs(schemaMap)
	assert.NotContains(t, schemaMap, "$id")
	nested := schemaMap["properties"].(map[string]any)["x"].(map[string]any)
	assert.NotContains(t, nested, "id")
	assert.Equal(t, "integer", nested["type"])
}

func TestWalkSchema_VisitsDefsAndArrays(t *testing.T) {
	t.Parallel()
	schemaMap := map[string]any{
		"properties": map[string]any{"a": map[string]any{}},
		"$defs":      map[string]any{"B": map[string]any{"properties": map[string]any{"b": map[string]any{}}}},
		"anyOf":      []any{map[string]any{"type": "string"}},
	}
	visited := 0
	walkSchema(schemaMap, func(map[string]any) { visited++ })
	assert.GreaterOrEqual(t, visited, 6)
}
