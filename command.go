package datapilot

import (
	"context"
	"fmt"
	"maps"
)

// command is the internal implementation of Command built by NewCommand.
type command struct {
	name        string
	description string
	schema      map[string]any
	validate    func(argsJSON []byte) error
	invoke      func(ctx context.Context, data any, argsJSON []byte) (any, error)
	opts        commandOptions
}

// NewCommand builds a Command from a typed function. D is the data type the
// command transforms (the implicit first argument), A the argument struct the
// model fills in. Schema generation and validation are delegated to
// Extractor[A]; the schema is also what Registry.Describe shows the model.
// Returns an error if schema generation fails (e.g. unsupported type).
func NewCommand[D any, A any](
	name, description string,
	fn func(ctx context.Context, data D, args A) (D, error),
	opts ...CommandOption,
) (Command, error) {
	if name == "" {
		return nil, fmt.Errorf("command name must not be empty")
	}
	if fn == nil {
		return nil, fmt.Errorf("command %q: handler must not be nil", name)
	}
	var o commandOptions
	for _, opt := range opts {
		opt(&o)
	}
	ext, err := NewExtractor[A](name, o.strict)
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", name, err)
	}
	invoke := func(ctx context.Context, data any, argsJSON []byte) (any, error) {
		args, err := ext.ParseAndValidate(argsJSON)
		if err != nil {
			return nil, err
		}
		typed, ok := data.(D)
		if !ok {
			return nil, fmt.Errorf("command %q: unexpected data type %T", name, data)
		}
		out, err := fn(ctx, typed, args)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return &command{
		name:        name,
		description: description,
		schema:      ext.Schema(),
		validate:    ext.Validate,
		invoke:      invoke,
		opts:        o,
	}, nil
}

func (c *command) Name() string        { return c.name }
func (c *command) Description() string { return c.description }

// Parameters returns a shallow copy of the JSON Schema (top-level keys only).
// Nested maps (e.g. under "properties") are shared; callers must not mutate them.
func (c *command) Parameters() map[string]any { return maps.Clone(c.schema) }

func (c *command) ValidateArgs(argsJSON []byte) error {
	return c.validate(normalizeArgs(argsJSON))
}

func (c *command) Invoke(ctx context.Context, data any, argsJSON []byte) (any, error) {
	return c.invoke(ctx, data, normalizeArgs(argsJSON))
}

func (c *command) Tags() []string { return append([]string(nil), c.opts.tags...) }

// normalizeArgs maps absent or null kwargs to an empty object, matching the
// prompt contract ("if no parameters are needed, use an empty dictionary").
func normalizeArgs(argsJSON []byte) []byte {
	if len(argsJSON) == 0 || string(argsJSON) == "null" {
		return []byte("{}")
	}
	return argsJSON
}

var (
	_ Command         = (*command)(nil)
	_ CommandMetadata = (*command)(nil)
)
