package datapilot

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerOptions_Defaults(t *testing.T) {
	reg, err := BuildRegistry(Source{&fakeCommand{name: "noop"}})
	require.NoError(t, err)
	runner := NewRunner(reg, &scriptedModel{turns: []modelTurn{{response: noopPlan}}})

	assert.Equal(t, 3, runner.opts.maxAttempts)
	assert.NotNil(t, runner.opts.logger)
	assert.Nil(t, runner.opts.clone)
	assert.Nil(t, runner.opts.onAttempt)
}

func TestWithMaxAttempts_ClampsToOne(t *testing.T) {
	tests := []struct {
		name   string
		give   int
		expect int
	}{
		{"zero", 0, 1},
		{"negative", -5, 1},
		{"normal", 4, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o runnerOptions
			WithMaxAttempts(tt.give)(&o)
			assert.Equal(t, tt.expect, o.maxAttempts)
		})
	}
}

func TestWithLogger_IgnoresNil(t *testing.T) {
	o := runnerOptions{logger: slog.Default()}
	WithLogger(nil)(&o)
	assert.NotNil(t, o.logger)
}

func TestCommandOptions(t *testing.T) {
	var o commandOptions
	WithStrict()(&o)
	WithTags("a", "b")(&o)
	assert.True(t, o.strict)
	assert.Equal(t, []string{"a", "b"}, o.tags)
}

func TestWithOnAttempt_SetsHook(t *testing.T) {
	var o runnerOptions
	WithOnAttempt(func(context.Context, Attempt) {})(&o)
	assert.NotNil(t, o.onAttempt)
}
