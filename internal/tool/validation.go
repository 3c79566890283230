package tool

import (
	"encoding/json"
	"fmt"
)

// Validatable is implemented by argument structs that need custom business validation.
// Called after schema validation and unmarshaling.
type Validatable interface {
	Validate() error
}

// schemaValidator validates a JSON-like value (e.g. map[string]any from json.Unmarshal).
// Used by both static Extractor and dynamic Tool. *jsonschema.Resolved implements it.
type schemaValidator interface {
	Validate(v any) error
}

// validateCall runs the shared parameter pipeline on raw argument JSON:
// parse, fill declared defaults, check required parameters, validate against
// the schema. Unknown parameters pass through untouched (non-strict schemas
// tolerate caller drift). Returns the defaults-filled JSON for unmarshaling.
func validateCall(schemaMap map[string]any, validate schemaValidator, argsJSON []byte) ([]byte, error) {
	if len(argsJSON) == 0 {
		argsJSON = []byte("{}")
	}
	var params map[string]any
	if err := json.Unmarshal(argsJSON, &params); err != nil {
		return nil, wrapJSONParseError(err)
	}
	if params == nil {
		params = map[string]any{}
	}
	filled := false
	for name, def := range parameterDefaults(schemaMap) {
		if _, ok := params[name]; !ok {
			params[name] = def
			filled = true
		}
	}
	for _, name := range requiredParams(schemaMap) {
		if _, ok := params[name]; !ok {
			return nil, &ClientError{
				Reason: fmt.Sprintf("missing required parameter: %s", name),
				Err:    ErrMissingParameter,
			}
		}
	}
	// Required parameters are checked above, so remaining schema failures are
	// type, enum, or format violations.
	if err := validate.Validate(params); err != nil {
		return nil, &ClientError{Reason: err.Error(), Err: ErrTypeMismatch}
	}
	if !filled {
		return argsJSON, nil
	}
	out, err := json.Marshal(params)
	if err != nil {
		return nil, &SystemError{Err: err}
	}
	return out, nil
}

// validateCustom runs Layer 2 (Validatable) if args implements it.
func validateCustom(args any) error {
	if v, ok := args.(Validatable); ok {
		return v.Validate()
	}
	return nil
}
