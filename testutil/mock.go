// Package testutil provides test helpers for datapilot (e.g. MockModel,
// MockCommand).
package testutil

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/skosovsky/datapilot"
)

// MockModel is a scripted datapilot.Model for tests. Each Generate call
// consumes the next entry of Script; when the script runs out, the last
// entry repeats. Calls counts Generate invocations.
type MockModel struct {
	Script []ModelTurn
	Calls  atomic.Int64
}

// ModelTurn is one scripted Generate outcome: either Response text or Err.
type ModelTurn struct {
	Response string
	Err      error
}

// Respond builds a model that always returns the given text.
func Respond(text string) *MockModel {
	return &MockModel{Script: []ModelTurn{{Response: text}}}
}

// Generate returns the next scripted turn.
func (m *MockModel) Generate(_ context.Context, _ datapilot.Prompt) (string, error) {
	n := int(m.Calls.Add(1)) - 1
	if len(m.Script) == 0 {
		return "", errors.New("mock model has no script")
	}
	if n >= len(m.Script) {
		n = len(m.Script) - 1
	}
	turn := m.Script[n]
	return turn.Response, turn.Err
}

// MockCommand is a configurable datapilot.Command implementation for tests.
type MockCommand struct {
	NameVal     string
	DescVal     string
	ParamsVal   map[string]any
	ValidateFn  func(argsJSON []byte) error
	InvokeFn    func(ctx context.Context, data any, argsJSON []byte) (any, error)
	InvokeCount atomic.Int64
}

// Name returns the command name.
func (m *MockCommand) Name() string {
	if m.NameVal != "" {
		return m.NameVal
	}
	return "mock"
}

// Description returns the command description.
func (m *MockCommand) Description() string {
	return m.DescVal
}

// Parameters returns the parameters schema (or empty map).
func (m *MockCommand) Parameters() map[string]any {
	if m.ParamsVal != nil {
		return m.ParamsVal
	}
	return map[string]any{}
}

// ValidateArgs runs ValidateFn if set, otherwise accepts anything.
func (m *MockCommand) ValidateArgs(argsJSON []byte) error {
	if m.ValidateFn != nil {
		return m.ValidateFn(argsJSON)
	}
	return nil
}

// Invoke counts the call and runs InvokeFn if set, otherwise passes data
// through unchanged.
func (m *MockCommand) Invoke(ctx context.Context, data any, argsJSON []byte) (any, error) {
	m.InvokeCount.Add(1)
	if m.InvokeFn != nil {
		return m.InvokeFn(ctx, data, argsJSON)
	}
	return data, nil
}

var (
	_ datapilot.Model   = (*MockModel)(nil)
	_ datapilot.Command = (*MockCommand)(nil)
)
