package datapilot

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Runner is the retry controller: it asks the model for a plan, executes it,
// and on failure re-prompts with the error until a plan succeeds or the
// attempt budget runs out. Each Run invocation is independent and owns its
// own copies of the data; a Runner holds no mutable state across sessions.
type Runner struct {
	registry *Registry
	model    Model
	opts     runnerOptions
}

// NewRunner creates a Runner over a built registry and a model capability.
// The model is injected, never read from ambient state, so tests can swap in
// a deterministic stub.
func NewRunner(reg *Registry, model Model, opts ...RunnerOption) *Runner {
	o := runnerOptions{
		maxAttempts: 3,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Runner{registry: reg, model: model, opts: o}
}

// Run satisfies instruction against data. Per attempt: build the prompt
// (initial on the first try, error-annotated on retries), request a plan from
// the model, parse it, and execute it against a fresh copy of the original
// data — never against the output of a previous failed attempt, so failures
// stay independent and reproducible.
//
// Model transport failures and unparseable responses are PlanGenerationError;
// step failures are ExecutionError. Both consume the same attempt budget and
// are captured, not surfaced, until the budget is exhausted, at which point
// Run returns a RetryExhaustedError carrying the full attempt history.
func (r *Runner) Run(ctx context.Context, data any, instruction string) (any, error) {
	prompt := BuildInitialPrompt(r.registry, instruction)
	history := make([]Attempt, 0, r.opts.maxAttempts)
	for attempt := 0; attempt < r.opts.maxAttempts; attempt++ {
		att := r.runAttempt(ctx, prompt, data)
		if att.Err == nil {
			r.opts.logger.Info("plan applied",
				"attempt", attempt+1, "attempt_id", att.ID, "steps", len(att.Plan.Steps))
			r.notify(ctx, att.Attempt)
			return att.result, nil
		}
		r.opts.logger.Warn("attempt failed",
			"attempt", attempt+1, "attempt_id", att.ID, "error", att.Err)
		r.notify(ctx, att.Attempt)
		history = append(history, att.Attempt)
		prompt = BuildRetryPrompt(r.registry, instruction, att.Plan, att.Err)
	}
	return nil, &RetryExhaustedError{
		Attempts: r.opts.maxAttempts,
		LastErr:  history[len(history)-1].Err,
		History:  history,
	}
}

// attemptResult pairs an Attempt record with the transformed data of a
// successful execution.
type attemptResult struct {
	Attempt
	result any
}

// runAttempt performs one generate-parse-execute cycle. The data value is
// cloned before execution; commands therefore never see the caller's copy.
func (r *Runner) runAttempt(ctx context.Context, prompt Prompt, data any) attemptResult {
	att := attemptResult{Attempt: Attempt{ID: uuid.NewString()}}
	raw, err := r.model.Generate(ctx, prompt)
	if err != nil {
		att.Err = &PlanGenerationError{Reason: "model request failed", Err: err}
		return att
	}
	att.Raw = raw
	plan, err := ParsePlan(raw)
	if err != nil {
		att.Err = err
		return att
	}
	att.Plan = plan
	result, err := ExecutePlan(ctx, r.registry, plan, r.clone(data))
	if err != nil {
		att.Err = err
		return att
	}
	att.result = result
	return att
}

// clone produces the per-attempt working copy: the configured clone func if
// set, otherwise Cloner when the data implements it, otherwise the value as
// given (safe for pure commands, which never mutate their input).
func (r *Runner) clone(data any) any {
	if r.opts.clone != nil {
		return r.opts.clone(data)
	}
	if c, ok := data.(Cloner); ok {
		return c.Clone()
	}
	return data
}

func (r *Runner) notify(ctx context.Context, att Attempt) {
	if r.opts.onAttempt != nil {
		r.opts.onAttempt(ctx, att)
	}
}
