// Package datapilot orchestrates language-model-planned transformations over
// tabular data: it describes a registry of typed commands to a model, parses
// the model's JSON plan, executes the plan sequentially over an opaque data
// value, and retries with error-annotated prompts when a plan fails.
//
// # Overview
//
// The model produces plans as JSON. This package turns a plan into concrete
// Go function calls: resolve each command by name → validate its kwargs
// against the same JSON Schema shown to the model → invoke it with the
// running data value as implicit first argument → thread the return value
// into the next step.
//
// Pipeline: Go function + argument struct → NewCommand (reflection + schema)
// → Command → BuildRegistry → Runner.Run (prompt, generate, parse, execute,
// retry) → transformed data or RetryExhaustedError.
//
// # Key concepts
//
//   - Single Source of Truth: the argument struct drives both the parameter
//     list the model sees in the prompt and the validation of its kwargs.
//   - Fresh Start: every attempt executes against a fresh copy of the
//     caller's data; a failed plan never leaks partial mutations.
//   - Self-Correction: retry prompts carry the failed plan plus a compact
//     "kind: message" error line so the model can course-correct.
//
// See Command, Plan, Attempt for the core types, and NewCommand /
// BuildRegistry / NewRunner for setup. The frame subpackage provides a
// ready-made tabular data value with a standard command set; openaichat
// provides a Model backed by an OpenAI-compatible chat API.
//
// # Example
//
//	type Args struct { Column string `json:"column"` }
//	cmd, err := datapilot.NewCommand("drop_column", "Remove one column",
//	    func(_ context.Context, f *frame.Frame, a Args) (*frame.Frame, error) {
//	        return f.DropColumns(a.Column)
//	    })
//	if err != nil { ... }
//	reg, err := datapilot.BuildRegistry(datapilot.Source{cmd})
//	if err != nil { ... }
//	runner := datapilot.NewRunner(reg, model, datapilot.WithMaxAttempts(3))
//	out, err := runner.Run(ctx, f, "get rid of the notes column")
package datapilot
