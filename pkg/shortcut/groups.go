package shortcut

import "context"

// Group represents a Shortcut group (shown as "Team" in the product UI).
type Group struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	MentionName string   `json:"mention_name"`
	Description string   `json:"description,omitempty"`
	AppURL      string   `json:"app_url,omitempty"`
	Archived    bool     `json:"archived"`
	Color       string   `json:"color,omitempty"`
	MemberIDs   []string `json:"member_ids,omitempty"`
	WorkflowIDs []int64  `json:"workflow_ids,omitempty"`
}

// ListGroups returns all groups in the workspace.
func (c *Client) ListGroups(ctx context.Context) ([]Group, error) {
	return listResources[Group](ctx, c, "/groups")
}

// GetGroup returns a group by its public id.
func (c *Client) GetGroup(ctx context.Context, id string) (*Group, error) {
	return getResource[Group](ctx, c, resourcePath("/groups/%s", id))
}
