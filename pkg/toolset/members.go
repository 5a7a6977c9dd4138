package toolset

import (
	"context"
	"encoding/json"

	"github.com/marmos91/shortcut-mcp/pkg/mcp/tools"
)

type getMemberArgs struct {
	MemberID string `json:"member_id" validate:"required" jsonschema:"description=Member UUID as shown by list-members"`
}

func (ts *toolset) memberTools() []tools.Tool {
	return []tools.Tool{
		{
			Name:        "get-current-user",
			Description: "Get the member the session's API token authenticates as, including the workspace it belongs to.",
			InputSchema: tools.MustSchema(&struct{}{}),
			Annotations: &tools.Annotations{Title: "Get Current User", ReadOnlyHint: true},
			Handler: func(ctx context.Context, _ json.RawMessage) (*tools.Result, error) {
				me, err := ts.client(ctx).GetCurrentMember(ctx)
				if err != nil {
					return nil, describeErr(err, "current user")
				}
				return tools.TextResult("%s", formatCurrentMember(me)), nil
			},
		},
		{
			Name:        "get-member",
			Description: "Get a workspace member by UUID: name, mention name, role, and email.",
			InputSchema: tools.MustSchema(&getMemberArgs{}),
			Annotations: &tools.Annotations{Title: "Get Member", ReadOnlyHint: true},
			Handler: func(ctx context.Context, raw json.RawMessage) (*tools.Result, error) {
				var in getMemberArgs
				if err := tools.DecodeArgs(raw, &in); err != nil {
					return nil, err
				}
				m, err := ts.client(ctx).GetMember(ctx, in.MemberID)
				if err != nil {
					return nil, describeErr(err, "member "+in.MemberID)
				}
				return tools.TextResult("%s", formatMember(m)), nil
			},
		},
		{
			Name:        "list-members",
			Description: "List all workspace members with their mention names, roles, and UUIDs.",
			InputSchema: tools.MustSchema(&struct{}{}),
			Annotations: &tools.Annotations{Title: "List Members", ReadOnlyHint: true},
			Handler: func(ctx context.Context, _ json.RawMessage) (*tools.Result, error) {
				members, err := ts.client(ctx).ListMembers(ctx)
				if err != nil {
					return nil, describeErr(err, "listing members")
				}
				return tools.TextResult("%s", formatMemberList(members)), nil
			},
		},
	}
}
