package shortcut

import "context"

// Workflow represents a workflow and its ordered states.
type Workflow struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	DefaultStateID int64           `json:"default_state_id"`
	States         []WorkflowState `json:"states"`
}

// WorkflowState is a single column of a workflow.
type WorkflowState struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Position   int64  `json:"position"`
	NumStories int64  `json:"num_stories,omitempty"`
}

// ListWorkflows returns all workflows in the workspace.
func (c *Client) ListWorkflows(ctx context.Context) ([]Workflow, error) {
	return listResources[Workflow](ctx, c, "/workflows")
}

// GetWorkflow returns a workflow by its public id.
func (c *Client) GetWorkflow(ctx context.Context, id int64) (*Workflow, error) {
	return getResource[Workflow](ctx, c, resourcePath("/workflows/%d", id))
}
