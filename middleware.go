package datapilot

import (
	"context"
	"log/slog"
	"time"
)

// Middleware wraps a Command with cross-cutting behavior (logging, recovery).
// Apply via Registry.Use.
type Middleware func(Command) Command

// WithLogging returns a middleware that logs start, end, duration, and errors
// of every invocation.
func WithLogging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Command) Command {
		return &loggingCommand{commandBase: commandBase{next: next}, logger: logger}
	}
}

// WithRecovery returns a middleware that recovers panics in Invoke and
// returns them as errors. The executor already recovers panics itself; use
// this when calling commands outside the executor.
func WithRecovery() Middleware {
	return func(next Command) Command {
		return &recoveryCommand{commandBase{next: next}}
	}
}

// commandBase delegates Command and CommandMetadata to the wrapped Command;
// used by middleware wrappers.
type commandBase struct{ next Command }

func (b *commandBase) Name() string               { return b.next.Name() }
func (b *commandBase) Description() string        { return b.next.Description() }
func (b *commandBase) Parameters() map[string]any { return b.next.Parameters() }

func (b *commandBase) ValidateArgs(argsJSON []byte) error {
	return b.next.ValidateArgs(argsJSON)
}

func (b *commandBase) Tags() []string {
	if cm, ok := b.next.(CommandMetadata); ok {
		return cm.Tags()
	}
	return nil
}

type loggingCommand struct {
	commandBase
	logger *slog.Logger
}

func (m *loggingCommand) Invoke(ctx context.Context, data any, argsJSON []byte) (any, error) {
	m.logger.Info("command start", "command", m.next.Name())
	start := time.Now()
	out, err := m.next.Invoke(ctx, data, argsJSON)
	dur := time.Since(start)
	if err != nil {
		m.logger.Error("command error", "command", m.next.Name(), "duration", dur, "error", err)
		return nil, err
	}
	m.logger.Info("command end", "command", m.next.Name(), "duration", dur)
	return out, nil
}

type recoveryCommand struct{ commandBase }

func (r *recoveryCommand) Invoke(ctx context.Context, data any, argsJSON []byte) (out any, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = &panicError{p: p}
		}
	}()
	return r.next.Invoke(ctx, data, argsJSON)
}
