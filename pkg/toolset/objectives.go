package toolset

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/marmos91/shortcut-mcp/pkg/mcp/tools"
)

type getObjectiveArgs struct {
	ObjectiveID int64 `json:"objective_id" validate:"required" jsonschema:"description=Public id of the objective"`
}

func (ts *toolset) objectiveTools() []tools.Tool {
	return []tools.Tool{
		{
			Name:        "list-objectives",
			Description: "List all objectives with their states.",
			InputSchema: tools.MustSchema(&struct{}{}),
			Annotations: &tools.Annotations{Title: "List Objectives", ReadOnlyHint: true},
			Handler: func(ctx context.Context, _ json.RawMessage) (*tools.Result, error) {
				objectives, err := ts.client(ctx).ListObjectives(ctx)
				if err != nil {
					return nil, describeErr(err, "listing objectives")
				}
				return tools.TextResult("%s", formatObjectiveList(objectives)), nil
			},
		},
		{
			Name:        "get-objective",
			Description: "Get an objective by its public id.",
			InputSchema: tools.MustSchema(&getObjectiveArgs{}),
			Annotations: &tools.Annotations{Title: "Get Objective", ReadOnlyHint: true},
			Handler: func(ctx context.Context, raw json.RawMessage) (*tools.Result, error) {
				var in getObjectiveArgs
				if err := tools.DecodeArgs(raw, &in); err != nil {
					return nil, err
				}
				o, err := ts.client(ctx).GetObjective(ctx, in.ObjectiveID)
				if err != nil {
					return nil, describeErr(err, fmt.Sprintf("objective %d", in.ObjectiveID))
				}
				return tools.TextResult("%s", formatObjective(o)), nil
			},
		},
	}
}
