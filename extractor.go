package datapilot

import (
	"encoding/json"
	"maps"
	"reflect"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Extractor provides JSON Schema generation and two-layer validation (schema
// + Validatable) for argument type T without binding to the Command
// interface. Use it in custom orchestrators that need schema export and
// validated parsing but not the full registry/executor pipeline.
type Extractor[T any] struct {
	command   string
	schemaMap map[string]any
	compiled  *jsonschema.Schema
}

// NewExtractor creates an Extractor for type T. command names the owning
// command in error messages. When strict is true, the generated schema
// forbids properties beyond T's fields.
func NewExtractor[T any](command string, strict bool) (*Extractor[T], error) {
	schemaMap, compiled, err := generateSchema[T](strict)
	if err != nil {
		return nil, err
	}
	return &Extractor[T]{
		command:   command,
		schemaMap: schemaMap,
		compiled:  compiled,
	}, nil
}

// Schema returns a shallow copy of the JSON Schema (top-level keys only).
// Nested maps are shared; callers must not mutate them.
func (e *Extractor[T]) Schema() map[string]any {
	return maps.Clone(e.schemaMap)
}

// Validate runs Layer 1 (schema) validation only, without unmarshaling into T.
func (e *Extractor[T]) Validate(argsJSON []byte) error {
	return validateAgainstSchema(e.command, e.compiled, argsJSON)
}

// ParseAndValidate deserializes argsJSON into T, running Layer 1 (schema
// validation) and Layer 2 (Validatable.Validate() if T implements it).
// Failures are ArgumentMismatchError so the runner can hand the message back
// to the model for self-correction.
func (e *Extractor[T]) ParseAndValidate(argsJSON []byte) (T, error) {
	var zero T
	if err := validateAgainstSchema(e.command, e.compiled, argsJSON); err != nil {
		return zero, err
	}
	var args T
	if err := json.Unmarshal(argsJSON, &args); err != nil {
		return zero, wrapJSONParseError(e.command, err)
	}
	if err := runLayer2Validation(args); err != nil {
		if IsArgumentMismatch(err) {
			return zero, err
		}
		return zero, &ArgumentMismatchError{Command: e.command, Reason: err.Error()}
	}
	return args, nil
}

// runLayer2Validation runs Validatable.Validate() on args; if args does not
// implement Validatable, it tries &args for value types (pointer receiver).
// Never calls Validate twice for the same receiver.
func runLayer2Validation[T any](args T) error {
	if err := validateCustom(any(args)); err != nil {
		return err
	}
	if _, ok := any(args).(Validatable); ok {
		return nil
	}
	typ := reflect.TypeOf(args)
	if typ == nil || typ.Kind() == reflect.Pointer {
		return nil
	}
	return validateCustom(any(&args))
}
