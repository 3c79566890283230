package tool

import (
	"encoding/json"
	"errors"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

var (
	customTypesMu sync.RWMutex
	customTypes   = make(map[reflect.Type]*jsonschema.Schema)
)

// RegisterType registers a custom Go type to be mapped to a JSON Schema type/format in generated schemas.
// emptyInstance is a value of the type to register (e.g. uuid.UUID{}); it must not be nil.
// jsonType is the JSON Schema type (e.g. "string", "number"); it must not be empty.
// format is optional (e.g. "uuid", "date"). Registration is by reflect.TypeOf(emptyInstance).
// Pointer fields (*T) use the same mapping as T; call RegisterType once for the value type.
// Call RegisterType at application startup before the first NewTool or NewExtractor.
func RegisterType(emptyInstance any, jsonType, format string) {
	if emptyInstance == nil {
		panic("tool: RegisterType emptyInstance must not be nil")
	}
	if jsonType == "" {
		panic("tool: RegisterType jsonType must not be empty")
	}
	t := reflect.TypeOf(emptyInstance)
	s := &jsonschema.Schema{Type: jsonType, Format: format}
	customTypesMu.Lock()
	defer customTypesMu.Unlock()
	if customTypes == nil {
		customTypes = make(map[reflect.Type]*jsonschema.Schema)
	}
	customTypes[t] = s
}

// buildTypeSchemas returns a copy of registered type schemas for use in ForOptions.
// Caller holds no lock; safe for concurrent use with RegisterType.
func buildTypeSchemas() map[reflect.Type]*jsonschema.Schema {
	customTypesMu.RLock()
	defer customTypesMu.RUnlock()
	out := make(map[reflect.Type]*jsonschema.Schema, len(customTypes))
	for t, s := range customTypes {
		if s != nil {
			out[t] = s.CloneSchemas()
		}
	}
	return out
}

// generateSchema produces a JSON Schema map and a resolved validator for type T.
// It is called once when building a Tool. strict sets additionalProperties: false
// for all objects and marks every property required.
func generateSchema[T any](strict bool) (map[string]any, *jsonschema.Resolved, error) {
	opts := &jsonschema.ForOptions{TypeSchemas: buildTypeSchemas()}
	schema, err := jsonschema.For[T](opts)
	if err != nil {
		return nil, nil, err
	}
	if schema == nil {
		return nil, nil, errNilSchema
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, nil, err
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(data, &schemaMap); err != nil {
		return nil, nil, err
	}
	enrichSchemaFromStructTags(schemaMap, reflect.TypeOf(*new(T)))
	if strict {
		applyStrictMode(schemaMap)
	}
	stripSchemaIDs(schemaMap)
	resolved, err := compileRawSchema(schemaMap)
	if err != nil {
		return nil, nil, err
	}
	return schemaMap, resolved, nil
}

// enrichSchemaFromStructTags adds description, enum, and default from struct
// tags to root-level properties. typ may be a pointer; the json tag (first
// part before comma) is used to match property keys. The default tag is
// parsed as JSON when possible, otherwise kept as a string.
func enrichSchemaFromStructTags(schemaMap map[string]any, typ reflect.Type) {
	if schemaMap == nil || typ == nil {
		return
	}
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return
	}
	obj := rootObject(schemaMap)
	if obj == nil {
		return
	}
	props, ok := obj["properties"].(map[string]any)
	if !ok || len(props) == 0 {
		return
	}
	// Build json name -> field for root struct
	jsonToField := make(map[string]reflect.StructField)
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		jsonTag := strings.Split(field.Tag.Get("json"), ",")[0]
		if jsonTag == "" || jsonTag == "-" {
			continue
		}
		jsonToField[jsonTag] = field
	}
	for key, val := range props {
		prop, ok := val.(map[string]any)
		if !ok {
			continue
		}
		field, ok := jsonToField[key]
		if !ok {
			continue
		}
		if desc := field.Tag.Get("description"); desc != "" {
			prop["description"] = desc
		}
		if enumStr := field.Tag.Get("enum"); enumStr != "" {
			parts := strings.Split(enumStr, ",")
			enum := make([]any, len(parts))
			for i, p := range parts {
				enum[i] = strings.TrimSpace(p)
			}
			prop["enum"] = enum
		}
		if defStr := field.Tag.Get("default"); defStr != "" {
			var v any
			if err := json.Unmarshal([]byte(defStr), &v); err == nil {
				prop["default"] = v
			} else {
				prop["default"] = defStr
			}
		}
	}
}

// rootObject returns the schema node holding the parameter properties: the
// root itself, or the first $defs entry with properties when the generator
// places the root struct there.
func rootObject(schemaMap map[string]any) map[string]any {
	if schemaMap == nil {
		return nil
	}
	if _, ok := schemaMap["properties"]; ok {
		return schemaMap
	}
	if defs, ok := schemaMap["$defs"].(map[string]any); ok {
		for _, v := range defs {
			if o, ok := v.(map[string]any); ok {
				if _, ok := o["properties"]; ok {
					return o
				}
			}
		}
	}
	return nil
}

// requiredParams returns the names listed in the root object's required array.
func requiredParams(schemaMap map[string]any) []string {
	obj := rootObject(schemaMap)
	if obj == nil {
		return nil
	}
	raw, _ := obj["required"].([]any)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// parameterDefaults returns declared defaults keyed by parameter name, or nil.
func parameterDefaults(schemaMap map[string]any) map[string]any {
	obj := rootObject(schemaMap)
	if obj == nil {
		return nil
	}
	props, _ := obj["properties"].(map[string]any)
	var out map[string]any
	for name, v := range props {
		prop, ok := v.(map[string]any)
		if !ok {
			continue
		}
		def, ok := prop["default"]
		if !ok {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[name] = def
	}
	return out
}

// walkSchema recursively visits every map node in the schema tree (including $defs and definitions).
func walkSchema(schemaMap map[string]any, visit func(map[string]any)) {
	if schemaMap == nil {
		return
	}
	visit(schemaMap)
	for _, val := range schemaMap {
		switch v := val.(type) {
		case map[string]any:
			walkSchema(v, visit)
		case []any:
			for _, item := range v {
				if m2, ok := item.(map[string]any); ok {
					walkSchema(m2, visit)
				}
			}
		}
	}
}

// applyStrictMode sets additionalProperties: false for every object in the schema.
func applyStrictMode(schemaMap map[string]any) {
	walkSchema(schemaMap, func(n map[string]any) {
		if _, isObj := n["properties"]; isObj {
			n["additionalProperties"] = false
			if props, ok := n["properties"].(map[string]any); ok {
				keys := make([]string, 0, len(props))
				for k := range props {
					keys = append(keys, k)
				}
				slices.Sort(keys)
				required := make([]any, len(keys))
				for i, k := range keys {
					required[i] = k
				}
				if len(required) > 0 {
					n["required"] = required
				}
			}
		}
	})
}

var errNilSchema = errors.New("schema reflection returned nil")

// compileRawSchema compiles a raw JSON Schema map into a resolved validator. The map is not mutated.
// Callers must ensure the schema is valid (e.g. no conflicting $id that would break resolution).
func compileRawSchema(schemaMap map[string]any) (*jsonschema.Resolved, error) {
	data, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, err
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return s.Resolve(nil)
}

// stripSchemaIDs removes id and $id from schema so resolution does not depend on them.
func stripSchemaIDs(schemaMap map[string]any) {
	walkSchema(schemaMap, func(n map[string]any) {
		delete(n, "id")
		delete(n, "$id")
	})
}
