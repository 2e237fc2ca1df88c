package datapilot

import "context"

// ExecutePlan applies the plan's steps to data in order, threading each
// command's return value into the next step. The first failing step aborts
// the rest; the error is an *ExecutionError naming the step and command, and
// the caller's data value is left untouched (the running intermediate result
// is discarded, never partially committed).
//
// Step failures, by kind of wrapped error:
//   - UnknownCommandError: the step names a command absent from the registry.
//   - ArgumentMismatchError: the supplied kwargs fail the command's schema.
//   - anything else: the command itself returned an error or panicked.
func ExecutePlan(ctx context.Context, reg *Registry, plan Plan, data any) (any, error) {
	current := data
	for i, step := range plan.Steps {
		cmd, err := reg.Resolve(step.Command)
		if err != nil {
			return nil, &ExecutionError{Step: i, Command: step.Command, Err: &UnknownCommandError{Name: step.Command}}
		}
		if err := cmd.ValidateArgs(step.Args); err != nil {
			return nil, &ExecutionError{Step: i, Command: step.Command, Err: err}
		}
		next, err := invokeStep(ctx, cmd, current, step)
		if err != nil {
			return nil, &ExecutionError{Step: i, Command: step.Command, Err: err}
		}
		current = next
	}
	return current, nil
}

// invokeStep runs one command with panic recovery. A panicking command is a
// failed step, not a crashed session; the model gets a chance to route
// around it.
func invokeStep(ctx context.Context, cmd Command, data any, step Step) (out any, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = &panicError{p: p}
		}
	}()
	return cmd.Invoke(ctx, data, step.Args)
}
