package datapilot

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func raw(s string) json.RawMessage { return []byte(s) }

// fakeCommand is a minimal Command for tests that need to control validation
// and invocation directly.
type fakeCommand struct {
	name     string
	desc     string
	params   map[string]any
	validate func([]byte) error
	invoke   func(context.Context, any, []byte) (any, error)
	calls    atomic.Int64
}

func (f *fakeCommand) Name() string { return f.name }

func (f *fakeCommand) Description() string { return f.desc }

func (f *fakeCommand) Parameters() map[string]any {
	if f.params != nil {
		return f.params
	}
	return map[string]any{}
}

func (f *fakeCommand) ValidateArgs(argsJSON []byte) error {
	if f.validate != nil {
		return f.validate(argsJSON)
	}
	return nil
}

func (f *fakeCommand) Invoke(ctx context.Context, data any, argsJSON []byte) (any, error) {
	f.calls.Add(1)
	if f.invoke != nil {
		return f.invoke(ctx, data, argsJSON)
	}
	return data, nil
}

// scriptedModel returns canned responses/errors in order; the last entry
// repeats once the script is exhausted.
type scriptedModel struct {
	turns []modelTurn
	calls atomic.Int64
}

type modelTurn struct {
	response string
	err      error
}

func (m *scriptedModel) Generate(_ context.Context, _ Prompt) (string, error) {
	n := int(m.calls.Add(1)) - 1
	if n >= len(m.turns) {
		n = len(m.turns) - 1
	}
	turn := m.turns[n]
	return turn.response, turn.err
}

func TestSource_Enumerate(t *testing.T) {
	a := &fakeCommand{name: "a"}
	b := &fakeCommand{name: "b"}
	src := Source{a, b}
	got := src.Enumerate()
	require.Len(t, got, 2)
	assert.Same(t, a, got[0])
	assert.Same(t, b, got[1])
}

func TestStep_WireShape(t *testing.T) {
	step := Step{Command: "drop_missing_values", Args: raw(`{"columns":["age"]}`)}
	b, err := json.Marshal(step)
	require.NoError(t, err)
	assert.JSONEq(t, `{"command":"drop_missing_values","kwargs":{"columns":["age"]}}`, string(b))

	var decoded Step
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "drop_missing_values", decoded.Command)
	assert.JSONEq(t, `{"columns":["age"]}`, string(decoded.Args))
}
