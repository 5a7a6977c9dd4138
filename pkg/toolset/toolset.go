// Package toolset registers the Shortcut operations exposed over MCP.
//
// Each tool wraps one or two Shortcut API calls and renders the outcome as
// plain text for the model: ids are enriched into names (workflow states,
// owners, epics) through a per-call lookup cache, and failures come back as
// readable tool errors rather than raw API responses.
package toolset

import (
	"context"
	"fmt"

	"github.com/marmos91/shortcut-mcp/pkg/mcp/tools"
	"github.com/marmos91/shortcut-mcp/pkg/shortcut"
)

// toolset binds tool handlers to a Shortcut client. Handlers rebind the
// client to the session token carried in the call context.
type toolset struct {
	base *shortcut.Client
}

// Register adds every Shortcut tool to the registry, in the order
// tools/list advertises them.
func Register(reg *tools.Registry, client *shortcut.Client) error {
	ts := &toolset{base: client}

	var all []tools.Tool
	all = append(all, ts.memberTools()...)
	all = append(all, ts.storyTools()...)
	all = append(all, ts.epicTools()...)
	all = append(all, ts.workflowTools()...)
	all = append(all, ts.iterationTools()...)
	all = append(all, ts.objectiveTools()...)
	all = append(all, ts.teamTools()...)

	for _, t := range all {
		if err := reg.Register(t); err != nil {
			return fmt.Errorf("registering %s: %w", t.Name, err)
		}
	}
	return nil
}

// client returns the base client rebound to the session token, falling back
// to the base client's own token when the context carries none (CLI use).
func (ts *toolset) client(ctx context.Context) *shortcut.Client {
	if token := shortcut.TokenFromContext(ctx); token != "" {
		return ts.base.WithToken(token)
	}
	return ts.base
}

// describeErr rewrites Shortcut API failures into messages a model can act
// on. Raw API error text is kept only for conditions without an obvious
// remedy.
func describeErr(err error, what string) error {
	switch {
	case shortcut.IsNotFound(err):
		return fmt.Errorf("%s not found", what)
	case shortcut.IsUnauthorized(err):
		return fmt.Errorf("shortcut rejected the session token")
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
