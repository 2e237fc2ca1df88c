package datapilot

import "fmt"

// promptTemplate is the initial system message: it lists the available
// commands and pins down the exact JSON envelope the model must return.
// Keep this concise and deterministic; ParsePlan enforces the envelope.
const promptTemplate = `You are a data transformation assistant that plans command sequences over tabular data.

Your task:
1. Read the user's request.
2. Determine the appropriate sequence of transformations by choosing from the commands listed below.
3. Output these commands in JSON format, where "commands" is a list of objects. Each object must have:
   - "command": the name of the command to run.
   - "kwargs": an object of parameters to pass to that command (if no parameters are needed, use an empty object).
4. The data object is threaded through automatically; never include it as an argument.

Available commands:
%s
Format your response exactly as follows (no extra keys or text):
{
  "commands": [
    {"command": "command_name", "kwargs": {"param1": "value1"}}
  ]
}
Return the result as valid JSON with no explanations outside the JSON structure.`

// retryTemplate is the follow-up system message after a failed attempt. It
// carries the failed plan and a compact error line so the model can correct
// course; if the request cannot be satisfied with the available commands, the
// model is told to return an empty command list.
const retryTemplate = `You are a data transformation assistant correcting a previously generated sequence of commands over tabular data.

The previous plan failed:
%s

Error:
%s

Available commands:
%s
Your task:
1. Inspect the failing command; leave correct ones as they are.
2. Determine the corrections needed based on the error message.
3. Output the corrected full sequence in the strict JSON format below.
4. If the request cannot be satisfied with the available commands, output {"commands": []}.

Format your response exactly as follows (no extra keys or text):
{
  "commands": [
    {"command": "command_name", "kwargs": {"param1": "value1"}}
  ]
}
Return the result as valid JSON with no explanations outside the JSON structure.`

// BuildInitialPrompt renders the first request of a session: the registry
// description in the system message and the user's instruction verbatim.
// Deterministic for identical inputs.
func BuildInitialPrompt(reg *Registry, instruction string) Prompt {
	return Prompt{
		System: fmt.Sprintf(promptTemplate, reg.Describe()),
		User:   instruction,
	}
}

// BuildRetryPrompt renders a correction request after a failed attempt. The
// system message carries the serialized failed plan and the failure as a
// "kind: message" line (never a stack trace); the user message repeats the
// original instruction so the model re-plans against the real goal.
func BuildRetryPrompt(reg *Registry, instruction string, failed Plan, cause error) Prompt {
	return Prompt{
		System: fmt.Sprintf(retryTemplate, failed.String(), errorInfo(cause), reg.Describe()),
		User:   instruction,
	}
}
