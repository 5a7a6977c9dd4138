// Package tools implements the MCP tool registry: named operations a client
// can discover through tools/list and invoke through tools/call, each with a
// JSON schema describing its arguments.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"
)

// Handler executes a tool call. The raw arguments come straight from the
// request's params; handlers decode them with DecodeArgs. A returned error
// marks tool failure, it is reported to the client as an error result rather
// than a protocol error.
type Handler func(ctx context.Context, args json.RawMessage) (*Result, error)

// Annotations carry the optional behavior hints advertised with a tool.
type Annotations struct {
	Title           string `json:"title,omitempty"`
	ReadOnlyHint    bool   `json:"readOnlyHint,omitempty"`
	DestructiveHint bool   `json:"destructiveHint,omitempty"`
	IdempotentHint  bool   `json:"idempotentHint,omitempty"`
}

// Tool is a registered MCP tool. The JSON shape matches what tools/list
// returns; the handler is never serialized.
type Tool struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
	Annotations *Annotations       `json:"annotations,omitempty"`
	Handler     Handler            `json:"-"`
}

// ErrNotFound is returned by Call when no tool with the requested name is
// registered. The engine maps it to an invalid-params protocol error.
var ErrNotFound = fmt.Errorf("tool not found")

// ErrInternal wraps failures that originate in the tool machinery rather
// than the tool itself, such as a recovered handler panic. Callers must not
// surface the wrapped detail to clients.
var ErrInternal = fmt.Errorf("internal tool failure")

// Registry holds the set of registered tools. Registration happens at
// startup; lookups and listings are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Tool
	order []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]*Tool),
	}
}

// Register adds a tool to the registry. The name must be unique and the
// handler non-nil.
func (r *Registry) Register(tool Tool) error {
	if tool.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if tool.Handler == nil {
		return fmt.Errorf("tool %q has no handler", tool.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("tool %q already registered", tool.Name)
	}

	t := tool
	r.tools[tool.Name] = &t
	r.order = append(r.order, tool.Name)
	return nil
}

// Get returns the tool with the given name.
func (r *Registry) Get(name string) (*Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	return tool, ok
}

// List returns all registered tools in registration order.
func (r *Registry) List() []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.tools)
}

// Call invokes the named tool. Unknown names return ErrNotFound; any other
// error comes from the tool's handler. A panicking handler is recovered and
// reported as an error so one misbehaving tool cannot take down the stream.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (result *Result, err error) {
	tool, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = fmt.Errorf("%w: tool %q panicked: %v", ErrInternal, name, rec)
		}
	}()

	return tool.Handler(ctx, args)
}
