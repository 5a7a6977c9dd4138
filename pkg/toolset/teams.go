package toolset

import (
	"context"
	"encoding/json"

	"github.com/marmos91/shortcut-mcp/pkg/mcp/tools"
)

type getTeamArgs struct {
	TeamID string `json:"team_id" validate:"required" jsonschema:"description=Team UUID as shown by list-teams"`
}

// Teams are "groups" in the Shortcut API; the tools use the product name.
func (ts *toolset) teamTools() []tools.Tool {
	return []tools.Tool{
		{
			Name:        "list-teams",
			Description: "List all teams with their mention names, member counts, and UUIDs.",
			InputSchema: tools.MustSchema(&struct{}{}),
			Annotations: &tools.Annotations{Title: "List Teams", ReadOnlyHint: true},
			Handler: func(ctx context.Context, _ json.RawMessage) (*tools.Result, error) {
				groups, err := ts.client(ctx).ListGroups(ctx)
				if err != nil {
					return nil, describeErr(err, "listing teams")
				}
				return tools.TextResult("%s", formatGroupList(groups)), nil
			},
		},
		{
			Name:        "get-team",
			Description: "Get a team by its UUID, including members and workflow ids.",
			InputSchema: tools.MustSchema(&getTeamArgs{}),
			Annotations: &tools.Annotations{Title: "Get Team", ReadOnlyHint: true},
			Handler: func(ctx context.Context, raw json.RawMessage) (*tools.Result, error) {
				var in getTeamArgs
				if err := tools.DecodeArgs(raw, &in); err != nil {
					return nil, err
				}
				g, err := ts.client(ctx).GetGroup(ctx, in.TeamID)
				if err != nil {
					return nil, describeErr(err, "team "+in.TeamID)
				}
				return tools.TextResult("%s", formatGroup(g)), nil
			},
		},
	}
}
