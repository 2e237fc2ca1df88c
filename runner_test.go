package datapilot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRegistry(t *testing.T, commands ...Command) *Registry {
	t.Helper()
	reg, err := BuildRegistry(Source(commands))
	require.NoError(t, err)
	return reg
}

const noopPlan = `{"commands":[{"command":"noop","kwargs":{}}]}`

func TestRunner_SucceedsFirstAttempt(t *testing.T) {
	reg := testRegistry(t, &fakeCommand{name: "noop"})
	model := &scriptedModel{turns: []modelTurn{{response: noopPlan}}}
	runner := NewRunner(reg, model, WithLogger(discardLogger()))

	out, err := runner.Run(context.Background(), "data", "do nothing")
	require.NoError(t, err)
	assert.Equal(t, "data", out)
	assert.EqualValues(t, 1, model.calls.Load())
}

func TestRunner_FailsTwiceThenSucceeds(t *testing.T) {
	reg := testRegistry(t, &fakeCommand{name: "noop"})
	model := &scriptedModel{turns: []modelTurn{
		{err: errors.New("rate limited")},
		{response: "not even json"},
		{response: noopPlan},
	}}
	runner := NewRunner(reg, model, WithMaxAttempts(3), WithLogger(discardLogger()))

	out, err := runner.Run(context.Background(), "data", "do nothing")
	require.NoError(t, err)
	assert.Equal(t, "data", out)
	assert.EqualValues(t, 3, model.calls.Load(), "success on the third attempt takes exactly three prompt calls")
}

func TestRunner_ExhaustsBudget(t *testing.T) {
	reg := testRegistry(t, &fakeCommand{name: "noop"})
	model := &scriptedModel{turns: []modelTurn{{err: errors.New("unreachable")}}}
	runner := NewRunner(reg, model, WithMaxAttempts(3), WithLogger(discardLogger()))

	_, err := runner.Run(context.Background(), "data", "do nothing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetryExhausted)

	var re *RetryExhaustedError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 3, re.Attempts)
	require.Len(t, re.History, 3)
	assert.Same(t, re.History[2].Err, re.LastErr)
	assert.True(t, IsPlanGeneration(re.LastErr))
	assert.EqualValues(t, 3, model.calls.Load())
	for _, att := range re.History {
		assert.NotEmpty(t, att.ID)
	}
}

func TestRunner_ExecutionFailureBecomesRetryFuel(t *testing.T) {
	flaky := &fakeCommand{
		name: "flaky",
		invoke: func(context.Context, any, []byte) (any, error) {
			return nil, errors.New("boom")
		},
	}
	reg := testRegistry(t, flaky, &fakeCommand{name: "noop"})
	model := &scriptedModel{turns: []modelTurn{
		{response: `{"commands":[{"command":"flaky"}]}`},
		{response: noopPlan},
	}}
	runner := NewRunner(reg, model, WithMaxAttempts(2), WithLogger(discardLogger()))

	out, err := runner.Run(context.Background(), "data", "do the thing")
	require.NoError(t, err)
	assert.Equal(t, "data", out)
	assert.EqualValues(t, 2, model.calls.Load())
}

func TestRunner_ErrorKindsDistinguished(t *testing.T) {
	bad := &fakeCommand{
		name: "bad",
		invoke: func(context.Context, any, []byte) (any, error) {
			return nil, errors.New("boom")
		},
	}
	reg := testRegistry(t, bad)
	model := &scriptedModel{turns: []modelTurn{
		{err: errors.New("unreachable")},
		{response: "garbage"},
		{response: `{"commands":[{"command":"bad"}]}`},
	}}
	runner := NewRunner(reg, model, WithMaxAttempts(3), WithLogger(discardLogger()))

	_, err := runner.Run(context.Background(), "data", "do")
	var re *RetryExhaustedError
	require.ErrorAs(t, err, &re)
	require.Len(t, re.History, 3)
	assert.True(t, IsPlanGeneration(re.History[0].Err), "transport failure is a PlanGenerationError")
	assert.True(t, IsPlanGeneration(re.History[1].Err), "unparseable output is a PlanGenerationError")
	assert.True(t, IsExecution(re.History[2].Err), "step failure is an ExecutionError")
}

// cloneTracker counts how many working copies the runner takes.
type cloneTracker struct {
	clones atomic.Int64
	value  string
}

func (c *cloneTracker) Clone() any {
	c.clones.Add(1)
	return &cloneTracker{value: c.value}
}

func TestRunner_ClonesDataPerAttempt(t *testing.T) {
	mutator := &fakeCommand{
		name: "mutate",
		invoke: func(_ context.Context, data any, _ []byte) (any, error) {
			data.(*cloneTracker).value = "mutated"
			return nil, errors.New("failed after mutating")
		},
	}
	reg := testRegistry(t, mutator)
	model := &scriptedModel{turns: []modelTurn{{response: `{"commands":[{"command":"mutate"}]}`}}}
	runner := NewRunner(reg, model, WithMaxAttempts(3), WithLogger(discardLogger()))

	data := &cloneTracker{value: "original"}
	_, err := runner.Run(context.Background(), data, "mutate")
	require.Error(t, err)
	assert.EqualValues(t, 3, data.clones.Load(), "one fresh copy per attempt")
	assert.Equal(t, "original", data.value, "failed attempts never touch the caller's data")
}

func TestRunner_WithCloneFuncOverridesCloner(t *testing.T) {
	reg := testRegistry(t, &fakeCommand{name: "noop"})
	model := &scriptedModel{turns: []modelTurn{{response: noopPlan}}}
	var called bool
	runner := NewRunner(reg, model,
		WithLogger(discardLogger()),
		WithCloneFunc(func(data any) any {
			called = true
			return data
		}))

	data := &cloneTracker{value: "original"}
	_, err := runner.Run(context.Background(), data, "do nothing")
	require.NoError(t, err)
	assert.True(t, called)
	assert.EqualValues(t, 0, data.clones.Load())
}

func TestRunner_OnAttemptHook(t *testing.T) {
	reg := testRegistry(t, &fakeCommand{name: "noop"})
	model := &scriptedModel{turns: []modelTurn{
		{response: "garbage"},
		{response: noopPlan},
	}}
	var seen []Attempt
	runner := NewRunner(reg, model,
		WithMaxAttempts(3),
		WithLogger(discardLogger()),
		WithOnAttempt(func(_ context.Context, att Attempt) {
			seen = append(seen, att)
		}))

	_, err := runner.Run(context.Background(), "data", "do nothing")
	require.NoError(t, err)
	require.Len(t, seen, 2)
	assert.Error(t, seen[0].Err)
	assert.NoError(t, seen[1].Err)
	assert.Equal(t, noopPlan, seen[1].Raw)
}

func TestRunner_EmptyPlanSucceedsWithDataUnchanged(t *testing.T) {
	reg := testRegistry(t, &fakeCommand{name: "noop"})
	model := &scriptedModel{turns: []modelTurn{{response: `{"commands":[]}`}}}
	runner := NewRunner(reg, model, WithLogger(discardLogger()))

	out, err := runner.Run(context.Background(), "data", "nothing to do")
	require.NoError(t, err)
	assert.Equal(t, "data", out)
}
