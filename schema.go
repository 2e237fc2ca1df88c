package datapilot

import (
	"bytes"
	"encoding/json"
	"errors"
	"slices"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

var errNilSchema = errors.New("schema reflection returned nil")

// generateSchema produces a JSON Schema map and a compiled validator for the
// argument type T. It is called once when building a Command. strict forbids
// additional properties so the model cannot smuggle in unknown arguments.
func generateSchema[T any](strict bool) (map[string]any, *jsonschema.Schema, error) {
	r := &invopop.Reflector{
		Anonymous:                 true,
		DoNotReference:            true,
		AllowAdditionalProperties: !strict,
	}
	schema := r.Reflect(new(T))
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
	stripSchemaIDs(schemaMap)
	compiled, err := compileRawSchema(schemaMap)
	if err != nil {
		return nil, nil, err
	}
	return schemaMap, compiled, nil
}

// compileRawSchema compiles a raw JSON Schema map into a validator. The map
// is not mutated.
func compileRawSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	data, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("args.json", doc); err != nil {
		return nil, err
	}
	return c.Compile("args.json")
}

// validateAgainstSchema runs argsJSON through the compiled schema. The
// instance is decoded with the validator's own JSON reader so numbers compare
// the way the schema expects. Failures become ArgumentMismatchError with the
// validator's message as the reason.
func validateAgainstSchema(command string, compiled *jsonschema.Schema, argsJSON []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(argsJSON))
	if err != nil {
		return wrapJSONParseError(command, err)
	}
	if err := compiled.Validate(inst); err != nil {
		return &ArgumentMismatchError{Command: command, Reason: err.Error()}
	}
	return nil
}

// walkSchema recursively visits every map node in the schema tree (including
// $defs and definitions).
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
				if m, ok := item.(map[string]any); ok {
					walkSchema(m, visit)
				}
			}
		}
	}
}

// stripSchemaIDs removes $schema, id, and $id so resolution does not depend
// on them.
func stripSchemaIDs(schemaMap map[string]any) {
	delete(schemaMap, "$schema")
	walkSchema(schemaMap, func(n map[string]any) {
		delete(n, "id")
		delete(n, "$id")
	})
}

// parameterNames returns the sorted property names of an argument schema.
// Used by Registry.Describe to render a stable parameter list per command.
func parameterNames(schemaMap map[string]any) []string {
	props, ok := schemaMap["properties"].(map[string]any)
	if !ok || len(props) == 0 {
		return nil
	}
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
