package toolset

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/marmos91/shortcut-mcp/pkg/mcp/tools"
)

type getWorkflowArgs struct {
	WorkflowID int64 `json:"workflow_id" validate:"required" jsonschema:"description=Public id of the workflow"`
}

func (ts *toolset) workflowTools() []tools.Tool {
	return []tools.Tool{
		{
			Name:        "list-workflows",
			Description: "List all workflows and their states with ids. Workflow state ids are what create-story and update-story take to place a story.",
			InputSchema: tools.MustSchema(&struct{}{}),
			Annotations: &tools.Annotations{Title: "List Workflows", ReadOnlyHint: true},
			Handler: func(ctx context.Context, _ json.RawMessage) (*tools.Result, error) {
				workflows, err := ts.client(ctx).ListWorkflows(ctx)
				if err != nil {
					return nil, describeErr(err, "listing workflows")
				}
				return tools.TextResult("%s", formatWorkflowList(workflows)), nil
			},
		},
		{
			Name:        "get-workflow",
			Description: "Get a workflow by its public id, including its ordered states.",
			InputSchema: tools.MustSchema(&getWorkflowArgs{}),
			Annotations: &tools.Annotations{Title: "Get Workflow", ReadOnlyHint: true},
			Handler: func(ctx context.Context, raw json.RawMessage) (*tools.Result, error) {
				var in getWorkflowArgs
				if err := tools.DecodeArgs(raw, &in); err != nil {
					return nil, err
				}
				wf, err := ts.client(ctx).GetWorkflow(ctx, in.WorkflowID)
				if err != nil {
					return nil, describeErr(err, fmt.Sprintf("workflow %d", in.WorkflowID))
				}
				return tools.TextResult("%s", formatWorkflow(wf)), nil
			},
		},
	}
}
