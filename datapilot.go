package datapilot

import (
	"context"
	"encoding/json"
)

// Command is a named transformation over an opaque data value. It is
// provider-agnostic: nothing here knows which model picked it or how the
// data value is represented.
type Command interface {
	Name() string
	Description() string
	// Parameters returns a valid JSON Schema as map describing the command's
	// arguments (compatible with LLM tool definitions).
	Parameters() map[string]any
	// ValidateArgs checks argsJSON against the command's schema without
	// invoking it. A failure is an *ArgumentMismatchError.
	ValidateArgs(argsJSON []byte) error
	// Invoke applies the command to data with the given arguments and returns
	// the transformed value. The data value is the implicit first argument;
	// commands must not mutate it in place.
	Invoke(ctx context.Context, data any, argsJSON []byte) (any, error)
}

// CommandMetadata is implemented by commands created with NewCommand and
// exposes optional per-command settings for orchestration or discovery.
type CommandMetadata interface {
	Tags() []string
}

// CommandSource supplies candidate commands to BuildRegistry. Anything that
// can enumerate named callables qualifies; hand-built slices work via Source.
type CommandSource interface {
	Enumerate() []Command
}

// Source is a CommandSource backed by a plain slice.
type Source []Command

// Enumerate returns the commands as given.
func (s Source) Enumerate() []Command { return s }

// Model is the language-model capability the runner depends on. Generate
// sends one prompt and returns the raw response text. It is the only blocking
// external call in the pipeline; implementations should honor ctx.
type Model interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// Prompt is one request to the model: a system message describing the
// available commands and the required output format, plus the user message.
type Prompt struct {
	System string
	User   string
}

// Cloner is implemented by data values that can produce an independent deep
// copy. The runner clones the caller's data before every attempt so a failed
// plan never leaks partial mutations into the next one.
type Cloner interface {
	Clone() any
}

// Step is a single command invocation within a plan, as produced by the model.
type Step struct {
	Command string          `json:"command"`
	Args    json.RawMessage `json:"kwargs,omitempty"`
}

// Plan is an ordered sequence of steps. Each step consumes the previous
// step's output, so execution order is semantically required, not just
// convenient.
type Plan struct {
	Steps []Step
}

// Attempt records one full prompt-generate-execute cycle for diagnostics.
// Err is nil on the successful attempt.
type Attempt struct {
	ID   string // unique per attempt (uuid)
	Raw  string // raw model output, empty if the model call itself failed
	Plan Plan   // parsed plan, zero value if parsing failed
	Err  error
}
