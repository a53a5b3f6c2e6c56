package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/loopworks/flowkit/llm"
)

// ErrUnknownTool is returned when an invocation names an unregistered tool.
var ErrUnknownTool = errors.New("unknown tool")

// ErrInvalidArguments is returned when invocation arguments do not satisfy
// the tool's declared schema.
var ErrInvalidArguments = errors.New("invalid tool arguments")

// Handler executes a tool. The returned value is serialized to JSON and fed
// back into the conversation as the tool result.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Definition describes a tool for registration and for the model.
type Definition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Schema      Schema `json:"schema"`
}

type registeredTool struct {
	definition Definition
	handler    Handler
}

// Registry maps tool names to schema-described handlers. Safe for
// concurrent use.
type Registry struct {
	tools map[string]*registeredTool
	mu    sync.RWMutex
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*registeredTool)}
}

// Register adds a tool to the registry, replacing any existing tool with
// the same name.
func (r *Registry) Register(def Definition, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[def.Name] = &registeredTool{definition: def, handler: handler}
}

// Unregister removes a tool from the registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tools, name)
}

// Has reports whether a tool with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// Names returns the names of all registered tools.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Definitions returns serializable tool definitions for the model call.
func (r *Registry) Definitions() []llm.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]llm.ToolDefinition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, llm.ToolDefinition{
			Name:        t.definition.Name,
			Description: t.definition.Description,
			Parameters:  t.definition.Schema.Parameters(),
		})
	}
	return defs
}

// Invoke validates arguments against the tool's schema and runs its
// handler. The handler's return value is serialized to a JSON string.
func (r *Registry) Invoke(ctx context.Context, name string, rawArgs json.RawMessage) (string, error) {
	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	args, err := ParseArguments(rawArgs)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidArguments, name, err)
	}
	if err := t.definition.Schema.Validate(args); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidArguments, name, err)
	}

	result, err := t.handler(ctx, args)
	if err != nil {
		return "", fmt.Errorf("tool %s: %w", name, err)
	}

	switch v := result.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		serialized, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("tool %s: serialize result: %w", name, err)
		}
		return string(serialized), nil
	}
}

// ParseArguments unmarshals raw invocation arguments into a map. Empty
// arguments parse as an empty map.
func ParseArguments(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("parse arguments: %w", err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}
