package datapilot

import (
	"maps"
	"slices"
	"strings"
	"sync"
)

// Registry is the lookup table of commands known to the orchestrator. It is
// built once from command sources and read-only afterwards, except for Use,
// which re-wraps commands with middleware.
type Registry struct {
	mu          sync.Mutex
	commands    map[string]Command // wrapped with middlewares, used by the executor
	rawCommands map[string]Command // unwrapped, used by Use() to re-apply middlewares from scratch
	names       []string           // sorted, fixed at build time
	middlewares []Middleware
}

// BuildRegistry collects commands from the given sources. Two commands with
// the same name, within one source or across sources, fail the whole build
// with DuplicateCommandError, regardless of source order.
func BuildRegistry(sources ...CommandSource) (*Registry, error) {
	commands := make(map[string]Command)
	for _, src := range sources {
		for _, cmd := range src.Enumerate() {
			name := cmd.Name()
			if _, exists := commands[name]; exists {
				return nil, &DuplicateCommandError{Name: name}
			}
			commands[name] = cmd
		}
	}
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)
	return &Registry{
		commands:    commands,
		rawCommands: maps.Clone(commands),
		names:       names,
	}, nil
}

// Resolve returns the command with the given name (after middlewares are
// applied) or a NotFoundError.
func (r *Registry) Resolve(name string) (Command, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cmd, ok := r.commands[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return cmd, nil
}

// Commands returns all registered commands sorted by name for deterministic
// order (e.g. for exporting to LLM providers).
func (r *Registry) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.commands[name])
	}
	return out
}

// Len returns the number of registered commands.
func (r *Registry) Len() int { return len(r.names) }

// Describe renders every command as " - name(params) - description", one per
// line, sorted by name. The output is deterministic for a fixed command set
// and is what the prompt builder embeds in the system message.
func (r *Registry) Describe() string {
	var b strings.Builder
	for _, cmd := range r.Commands() {
		b.WriteString(" - ")
		b.WriteString(cmd.Name())
		b.WriteString("(")
		b.WriteString(strings.Join(parameterNames(cmd.Parameters()), ", "))
		b.WriteString(") - ")
		desc := cmd.Description()
		if desc == "" {
			desc = "No description"
		}
		b.WriteString(strings.ReplaceAll(desc, "\n", " "))
		b.WriteString("\n")
	}
	return b.String()
}

// Use stores the given middlewares and reapplies them from scratch to all
// registered commands (onion order: first middleware is outermost). Calling
// Use multiple times replaces the chain and rewraps from raw commands,
// avoiding double-wrapping.
func (r *Registry) Use(middlewares ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = middlewares
	for name, raw := range r.rawCommands {
		cmd := raw
		for i := len(middlewares) - 1; i >= 0; i-- {
			cmd = middlewares[i](cmd)
		}
		r.commands[name] = cmd
	}
}
