package toolset

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/marmos91/shortcut-mcp/pkg/mcp/tools"
)

type getIterationArgs struct {
	IterationID int64 `json:"iteration_id" validate:"required" jsonschema:"description=Public id of the iteration"`
}

func (ts *toolset) iterationTools() []tools.Tool {
	return []tools.Tool{
		{
			Name:        "list-iterations",
			Description: "List all iterations (sprints) with their status and date ranges.",
			InputSchema: tools.MustSchema(&struct{}{}),
			Annotations: &tools.Annotations{Title: "List Iterations", ReadOnlyHint: true},
			Handler: func(ctx context.Context, _ json.RawMessage) (*tools.Result, error) {
				iterations, err := ts.client(ctx).ListIterations(ctx)
				if err != nil {
					return nil, describeErr(err, "listing iterations")
				}
				return tools.TextResult("%s", formatIterationList(iterations)), nil
			},
		},
		{
			Name:        "get-iteration",
			Description: "Get an iteration by its public id, including teams and story progress.",
			InputSchema: tools.MustSchema(&getIterationArgs{}),
			Annotations: &tools.Annotations{Title: "Get Iteration", ReadOnlyHint: true},
			Handler: func(ctx context.Context, raw json.RawMessage) (*tools.Result, error) {
				var in getIterationArgs
				if err := tools.DecodeArgs(raw, &in); err != nil {
					return nil, err
				}
				c := ts.client(ctx)
				it, err := c.GetIteration(ctx, in.IterationID)
				if err != nil {
					return nil, describeErr(err, fmt.Sprintf("iteration %d", in.IterationID))
				}
				return tools.TextResult("%s", formatIteration(ctx, newLookup(c), it)), nil
			},
		},
	}
}
