package datapilot

import (
	"context"
	"log/slog"
)

// commandOptions hold optional command settings.
type commandOptions struct {
	strict bool
	tags   []string
}

// CommandOption configures a command built with NewCommand.
type CommandOption func(*commandOptions)

// WithStrict forbids argument properties beyond the argument struct's fields
// (additionalProperties: false). Use when the model tends to invent kwargs.
func WithStrict() CommandOption {
	return func(o *commandOptions) {
		o.strict = true
	}
}

// WithTags sets command tags (metadata for discovery/orchestration).
func WithTags(tags ...string) CommandOption {
	return func(o *commandOptions) {
		o.tags = tags
	}
}

// runnerOptions hold Runner settings.
type runnerOptions struct {
	maxAttempts int
	logger      *slog.Logger
	clone       func(any) any
	onAttempt   func(context.Context, Attempt)
}

// RunnerOption configures a Runner.
type RunnerOption func(*runnerOptions)

// WithMaxAttempts sets the retry budget (default 3). Values below 1 are
// clamped to 1: every session gets at least one attempt.
func WithMaxAttempts(n int) RunnerOption {
	return func(o *runnerOptions) {
		if n < 1 {
			n = 1
		}
		o.maxAttempts = n
	}
}

// WithLogger sets the logger for attempt-level events (default slog.Default()).
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(o *runnerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCloneFunc overrides how the per-attempt working copy of the data is
// made. Takes precedence over the Cloner interface.
func WithCloneFunc(clone func(any) any) RunnerOption {
	return func(o *runnerOptions) {
		o.clone = clone
	}
}

// WithOnAttempt sets a hook called after every attempt, successful or not,
// with the attempt record (Err is nil on success).
func WithOnAttempt(fn func(context.Context, Attempt)) RunnerOption {
	return func(o *runnerOptions) {
		o.onAttempt = fn
	}
}
