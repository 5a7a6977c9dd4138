package toolset

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/marmos91/shortcut-mcp/pkg/mcp/tools"
)

type getEpicArgs struct {
	EpicID int64 `json:"epic_id" validate:"required" jsonschema:"description=Public id of the epic"`
}

type searchEpicsArgs struct {
	Query      string `json:"query,omitempty" jsonschema:"description=Free-form Shortcut search syntax; combined with the structured filters below"`
	Owner      string `json:"owner,omitempty" jsonschema:"description=Owner mention name without the @"`
	State      string `json:"state,omitempty" jsonschema:"description=Epic state; one of to do; in progress; done"`
	Team       string `json:"team,omitempty" jsonschema:"description=Team mention name"`
	IsArchived *bool  `json:"is_archived,omitempty" jsonschema:"description=Only archived epics when true; exclude them when false"`
	PageSize   int    `json:"page_size,omitempty" validate:"omitempty,min=1,max=25" jsonschema:"description=Results per page; the API caps this at 25"`
}

func (ts *toolset) epicTools() []tools.Tool {
	return []tools.Tool{
		{
			Name:        "get-epic",
			Description: "Get an epic by its public id, including story progress and owners.",
			InputSchema: tools.MustSchema(&getEpicArgs{}),
			Annotations: &tools.Annotations{Title: "Get Epic", ReadOnlyHint: true},
			Handler: func(ctx context.Context, raw json.RawMessage) (*tools.Result, error) {
				var in getEpicArgs
				if err := tools.DecodeArgs(raw, &in); err != nil {
					return nil, err
				}
				c := ts.client(ctx)
				epic, err := c.GetEpic(ctx, in.EpicID)
				if err != nil {
					return nil, describeErr(err, fmt.Sprintf("epic %d", in.EpicID))
				}
				return tools.TextResult("%s", formatEpic(ctx, newLookup(c), epic)), nil
			},
		},
		{
			Name:        "search-epics",
			Description: "Search epics with structured filters (owner, state, team, archived) or raw Shortcut query syntax.",
			InputSchema: tools.MustSchema(&searchEpicsArgs{}),
			Annotations: &tools.Annotations{Title: "Search Epics", ReadOnlyHint: true},
			Handler: func(ctx context.Context, raw json.RawMessage) (*tools.Result, error) {
				var in searchEpicsArgs
				if err := tools.DecodeArgs(raw, &in); err != nil {
					return nil, err
				}
				query := buildEpicQuery(in)
				if query == "" {
					return nil, fmt.Errorf("provide a query or at least one filter")
				}
				page, err := ts.client(ctx).SearchEpics(ctx, query, in.PageSize)
				if err != nil {
					return nil, describeErr(err, fmt.Sprintf("epic search %q", query))
				}
				return tools.TextResult("%s", formatEpicResults(query, page)), nil
			},
		},
	}
}
