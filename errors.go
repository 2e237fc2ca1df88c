package datapilot

import (
	"errors"
	"fmt"
)

// Sentinel errors for datapilot. Use errors.Is to check; the typed wrappers
// below all unwrap to one of these.
var (
	ErrDuplicateCommand = errors.New("duplicate command name")
	ErrNotFound         = errors.New("command not found")
	ErrArgumentMismatch = errors.New("arguments do not match command parameters")
	ErrPlanGeneration   = errors.New("plan generation failed")
	ErrRetryExhausted   = errors.New("retry budget exhausted")
)

// DuplicateCommandError is returned by BuildRegistry when two sources supply
// a command with the same name. Registry construction is all-or-nothing.
type DuplicateCommandError struct {
	Name string
}

func (e *DuplicateCommandError) Error() string {
	return fmt.Sprintf("duplicate command name %q", e.Name)
}

func (e *DuplicateCommandError) Unwrap() error { return ErrDuplicateCommand }

// NotFoundError is returned by Registry.Resolve for an unregistered name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("command %q not found", e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// UnknownCommandError is the executor-side variant of NotFoundError: a plan
// step referenced a command absent from the registry. It is wrapped in the
// step's ExecutionError.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("command %q is not supported", e.Name)
}

func (e *UnknownCommandError) Unwrap() error { return ErrNotFound }

// ArgumentMismatchError reports model-supplied arguments that fail the
// command's schema (bad JSON, missing required field, wrong type). Reason is
// safe to feed back to the model for self-correction; it never carries stack
// traces or internal detail.
type ArgumentMismatchError struct {
	Command string
	Reason  string
}

func (e *ArgumentMismatchError) Error() string {
	return fmt.Sprintf("invalid arguments for command %q: %s", e.Command, e.Reason)
}

func (e *ArgumentMismatchError) Unwrap() error { return ErrArgumentMismatch }

// PlanGenerationError means no executable plan was obtained: the model was
// unreachable, returned nothing, or returned text that does not match the
// plan envelope. Err optionally carries the transport or parse cause.
type PlanGenerationError struct {
	Reason string
	Err    error
}

func (e *PlanGenerationError) Error() string {
	return fmt.Sprintf("plan generation failed: %s", e.Reason)
}

func (e *PlanGenerationError) Unwrap() error { return ErrPlanGeneration }

// Cause returns the wrapped transport or parse error, if any.
func (e *PlanGenerationError) Cause() error { return e.Err }

// ExecutionError reports the first failing step of a plan. Steps after it
// were never invoked and the intermediate result was discarded.
type ExecutionError struct {
	Step    int    // zero-based index into the plan
	Command string // command named by the failing step
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("plan step %d (command %q) failed: %v", e.Step, e.Command, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// RetryExhaustedError is the terminal failure of Runner.Run: every attempt in
// the budget failed. History holds one Attempt per try, in order; LastErr is
// the final attempt's error, kept separately for convenience.
type RetryExhaustedError struct {
	Attempts int
	LastErr  error
	History  []Attempt
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("no successful plan after %d attempts, last error: %v", e.Attempts, e.LastErr)
}

func (e *RetryExhaustedError) Unwrap() error { return ErrRetryExhausted }

// IsArgumentMismatch returns true if err is or wraps an ArgumentMismatchError.
func IsArgumentMismatch(err error) bool {
	var ae *ArgumentMismatchError
	return errors.As(err, &ae)
}

// IsPlanGeneration returns true if err is or wraps a PlanGenerationError.
func IsPlanGeneration(err error) bool {
	var pe *PlanGenerationError
	return errors.As(err, &pe)
}

// IsExecution returns true if err is or wraps an ExecutionError.
func IsExecution(err error) bool {
	var ee *ExecutionError
	return errors.As(err, &ee)
}

// errorInfo renders err as a compact "kind: message" line for retry prompts.
// The model sees the failure kind and message, never a dump of internals.
func errorInfo(err error) string {
	switch {
	case err == nil:
		return ""
	case IsPlanGeneration(err):
		return "plan generation: " + err.Error()
	case IsExecution(err):
		return "execution: " + err.Error()
	default:
		return "error: " + err.Error()
	}
}

// wrapJSONParseError returns an ArgumentMismatchError for argument JSON that
// does not parse. Used by Extractor.ParseAndValidate and Command.ValidateArgs
// so parse failures read the same everywhere.
func wrapJSONParseError(command string, err error) error {
	return &ArgumentMismatchError{Command: command, Reason: "json parse error: " + err.Error()}
}

// panicError wraps a recovered panic value; used by the executor and the
// WithRecovery middleware.
type panicError struct{ p any }

func (e *panicError) Error() string {
	return "panic: " + fmt.Sprint(e.p)
}
