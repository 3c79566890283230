package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExtractor_Success(t *testing.T) {
	t.Parallel()
	type Args struct {
		X int `json:"x"`
	}
	ext, err := NewExtractor[Args](false)
	require.NoError(t, err)
	require.NotNil(t, ext)
	schema := ext.Schema()
	require.NotNil(t, schema)
	assert.Equal(t, []string{"x"}, ext.Required())
}

func TestNewExtractor_Strict(t *testing.T) {
	t.Parallel()
	type Args struct {
		A string `json:"a"`
		B int    `json:"b"`
	}
	ext, err := NewExtractor[Args](true)
	require.NoError(t, err)
	require.NotNil(t, ext)
	schema := ext.Schema()
	require.NotNil(t, schema)
	obj := rootObject(schema)
	require.NotNil(t, obj, "expected object with properties in schema")
	assert.Equal(t, false, obj["additionalProperties"])
	// Strict mode also makes all properties required
	required, ok := obj["required"].([]any)
	require.True(t, ok, "strict schema must have required array")
	require.Len(t, required, 2, "required must list all properties (a, b)")
	// Order is deterministic (slices.Sort in applyStrictMode)
	assert.Equal(t, "a", required[0])
	assert.Equal(t, "b", required[1])
}

func TestExtractor_ParseAndValidate_Success(t *testing.T) {
	t.Parallel()
	type Args struct {
		X int    `json:"x"`
		S string `json:"s"`
	}
	ext, err := NewExtractor[Args](false)
	require.NoError(t, err)
	args, err := ext.ParseAndValidate([]byte(`{"x": 42, "s": "hello"}`))
	require.NoError(t, err)
	assert.Equal(t, 42, args.X)
	assert.Equal(t, "hello", args.S)
}

func TestExtractor_ParseAndValidate_InvalidJSON(t *testing.T) {
	t.Parallel()
	type Args struct {
		X int `json:"x"`
	}
	ext, err := NewExtractor[Args](false)
	require.NoError(t, err)
	_, err = ext.ParseAndValidate([]byte(`{invalid`))
	require.Error(t, err)
	assert.True(t, IsClientError(err))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestExtractor_ParseAndValidate_MissingRequired(t *testing.T) {
	t.Parallel()
	type Args struct {
		DoctorName string `json:"doctor_name"`
		Date       string `json:"date"`
	}
	ext, err := NewExtractor[Args](false)
	require.NoError(t, err)
	_, err = ext.ParseAndValidate([]byte(`{"doctor_name": "Dr. Smith"}`))
	require.Error(t, err)
	assert.True(t, IsClientError(err))
	assert.ErrorIs(t, err, ErrMissingParameter)
	assert.Contains(t, err.Error(), "date")
}

func TestExtractor_ParseAndValidate_EnumViolation(t *testing.T) {
	t.Parallel()
	type Args struct {
		Unit string `json:"unit" enum:"celsius,fahrenheit"`
	}
	ext, err := NewExtractor[Args](false)
	require.NoError(t, err)
	_, err = ext.ParseAndValidate([]byte(`{"unit": "kelvin"}`))
	require.Error(t, err)
	assert.True(t, IsClientError(err))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestExtractor_ParseAndValidate_DefaultFilled(t *testing.T) {
	t.Parallel()
	type Args struct {
		Pref string `json:"pref,omitempty" default:"any"`
	}
	ext, err := NewExtractor[Args](false)
	require.NoError(t, err)
	args, err := ext.ParseAndValidate([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "any", args.Pref)
}

func TestExtractor_ParseAndValidate_Validatable(t *testing.T) {
	t.Parallel()
	ext, err := NewExtractor[validatableArgs](false)
	require.NoError(t, err)
	// Valid: low <= high
	args, err := ext.ParseAndValidate([]byte(`{"low": 1, "high": 10}`))
	require.NoError(t, err)
	assert.Equal(t, 1, args.Low)
	assert.Equal(t, 10, args.High)
	// Invalid: low > high
	_, err = ext.ParseAndValidate([]byte(`{"low": 10, "high": 5}`))
	require.Error(t, err)
	assert.True(t, IsClientError(err))
	assert.ErrorIs(t, err, ErrValidation)
}
