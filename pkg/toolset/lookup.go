package toolset

import (
	"context"
	"fmt"

	"github.com/marmos91/shortcut-mcp/pkg/shortcut"
)

// lookup memoizes cross-entity name resolution within a single tool call.
// Tool output favors human names over raw ids; the cache keeps that
// enrichment at one API round trip per entity kind, no matter how many
// stories a result page holds.
//
// Resolution failures degrade to the raw id so a flaky secondary call never
// fails the primary one.
type lookup struct {
	client *shortcut.Client

	members map[string]string
	states  map[int64]string
	groups  map[string]string
	epics   map[int64]string
}

func newLookup(client *shortcut.Client) *lookup {
	return &lookup{client: client}
}

// memberName resolves a member id to its @mention name.
func (l *lookup) memberName(ctx context.Context, id string) string {
	if l.members == nil {
		l.members = make(map[string]string)
		if ms, err := l.client.ListMembers(ctx); err == nil {
			for _, m := range ms {
				l.members[m.ID] = m.Profile.MentionName
			}
		}
	}
	if name := l.members[id]; name != "" {
		return "@" + name
	}
	return id
}

// stateName resolves a workflow state id across all workflows.
func (l *lookup) stateName(ctx context.Context, id int64) string {
	if l.states == nil {
		l.states = make(map[int64]string)
		if wfs, err := l.client.ListWorkflows(ctx); err == nil {
			for _, wf := range wfs {
				for _, st := range wf.States {
					l.states[st.ID] = st.Name
				}
			}
		}
	}
	if name := l.states[id]; name != "" {
		return name
	}
	return fmt.Sprintf("state %d", id)
}

// groupName resolves a group id to the team name shown in the product.
func (l *lookup) groupName(ctx context.Context, id string) string {
	if l.groups == nil {
		l.groups = make(map[string]string)
		if gs, err := l.client.ListGroups(ctx); err == nil {
			for _, g := range gs {
				l.groups[g.ID] = g.Name
			}
		}
	}
	if name := l.groups[id]; name != "" {
		return name
	}
	return id
}

// epicName resolves an epic id to its title. Epics are fetched one by one;
// there is no cheap list-all endpoint worth a page walk for a single name.
func (l *lookup) epicName(ctx context.Context, id int64) string {
	if l.epics == nil {
		l.epics = make(map[int64]string)
	}
	if name, ok := l.epics[id]; ok {
		return name
	}
	name := fmt.Sprintf("epic %d", id)
	if epic, err := l.client.GetEpic(ctx, id); err == nil {
		name = epic.Name
	}
	l.epics[id] = name
	return name
}
