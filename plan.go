package datapilot

import (
	"encoding/json"
	"strconv"
	"strings"
)

// planEnvelope is the wire shape the model is instructed to produce:
// {"commands":[{"command":"name","kwargs":{...}}]}.
type planEnvelope struct {
	Commands []Step `json:"commands"`
}

// ParsePlan parses raw model output into a Plan. The envelope is strict: the
// text must be a JSON object with a "commands" array whose entries carry a
// non-empty "command" name. Any deviation is a PlanGenerationError, never a
// best-effort guess. An empty commands array is a valid no-op plan (the retry
// prompt tells the model to return one when the request cannot be satisfied).
func ParsePlan(raw string) (Plan, error) {
	text := stripFences(strings.TrimSpace(raw))
	if text == "" {
		return Plan{}, &PlanGenerationError{Reason: "model returned an empty response"}
	}
	var env planEnvelope
	dec := json.NewDecoder(strings.NewReader(text))
	if err := dec.Decode(&env); err != nil {
		return Plan{}, &PlanGenerationError{Reason: "response is not valid plan JSON", Err: err}
	}
	if env.Commands == nil {
		return Plan{}, &PlanGenerationError{Reason: `response is missing the "commands" list`}
	}
	for i, step := range env.Commands {
		if step.Command == "" {
			return Plan{}, &PlanGenerationError{Reason: `plan step ` + strconv.Itoa(i) + ` has no "command" name`}
		}
	}
	return Plan{Steps: env.Commands}, nil
}

// String serializes the plan back into the wire format. Used by the retry
// prompt so the model sees exactly what failed. Deterministic for a given plan.
func (p Plan) String() string {
	env := planEnvelope{Commands: p.Steps}
	if env.Commands == nil {
		env.Commands = []Step{}
	}
	b, err := json.Marshal(env)
	if err != nil {
		return `{"commands":[]}`
	}
	return string(b)
}

// Empty reports whether the plan has no steps.
func (p Plan) Empty() bool { return len(p.Steps) == 0 }

// stripFences removes a surrounding markdown code fence (``` or ```json),
// which chat models commonly wrap JSON in despite instructions.
func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		// Drop the language tag on the opening fence line.
		first := strings.TrimSpace(text[:idx])
		if first == "" || !strings.ContainsAny(first, "{[") {
			text = text[idx+1:]
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
