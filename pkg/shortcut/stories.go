package shortcut

import (
	"context"
	"time"
)

// Story represents a Shortcut story.
type Story struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	StoryType       string     `json:"story_type"`
	AppURL          string     `json:"app_url,omitempty"`
	Archived        bool       `json:"archived"`
	Started         bool       `json:"started"`
	Completed       bool       `json:"completed"`
	Blocked         bool       `json:"blocked"`
	Blocker         bool       `json:"blocker"`
	Estimate        *int64     `json:"estimate,omitempty"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	EpicID          *int64     `json:"epic_id,omitempty"`
	IterationID     *int64     `json:"iteration_id,omitempty"`
	GroupID         *string    `json:"group_id,omitempty"`
	WorkflowID      int64      `json:"workflow_id,omitempty"`
	WorkflowStateID int64      `json:"workflow_state_id"`
	RequestedByID   string     `json:"requested_by_id,omitempty"`
	OwnerIDs        []string   `json:"owner_ids,omitempty"`
	Labels          []Label    `json:"labels,omitempty"`
	Comments        []Comment  `json:"comments,omitempty"`
	CreatedAt       time.Time  `json:"created_at,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// Label is a label attached to a story or epic.
type Label struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Comment is a comment on a story.
type Comment struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	AuthorID  string    `json:"author_id,omitempty"`
	AppURL    string    `json:"app_url,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// CreateStoryParams is the request body for creating a story. Name and a
// routing target (workflow state, group or project) are required by the API;
// everything else is optional.
type CreateStoryParams struct {
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	StoryType       string     `json:"story_type,omitempty"`
	WorkflowStateID *int64     `json:"workflow_state_id,omitempty"`
	EpicID          *int64     `json:"epic_id,omitempty"`
	IterationID     *int64     `json:"iteration_id,omitempty"`
	GroupID         *string    `json:"group_id,omitempty"`
	Estimate        *int64     `json:"estimate,omitempty"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	OwnerIDs        []string   `json:"owner_ids,omitempty"`
	Labels          []Label    `json:"labels,omitempty"`
}

// UpdateStoryParams is the request body for updating a story. Pointer fields
// distinguish "leave unchanged" from "set to zero value".
type UpdateStoryParams struct {
	Name            *string    `json:"name,omitempty"`
	Description     *string    `json:"description,omitempty"`
	StoryType       *string    `json:"story_type,omitempty"`
	WorkflowStateID *int64     `json:"workflow_state_id,omitempty"`
	EpicID          *int64     `json:"epic_id,omitempty"`
	IterationID     *int64     `json:"iteration_id,omitempty"`
	GroupID         *string    `json:"group_id,omitempty"`
	Estimate        *int64     `json:"estimate,omitempty"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	OwnerIDs        *[]string  `json:"owner_ids,omitempty"`
	Archived        *bool      `json:"archived,omitempty"`
}

// CreateCommentParams is the request body for commenting on a story.
type CreateCommentParams struct {
	Text string `json:"text"`
}

// GetStory returns a story by its public id.
func (c *Client) GetStory(ctx context.Context, id int64) (*Story, error) {
	return getResource[Story](ctx, c, resourcePath("/stories/%d", id))
}

// CreateStory creates a new story.
func (c *Client) CreateStory(ctx context.Context, params *CreateStoryParams) (*Story, error) {
	return createResource[Story](ctx, c, "/stories", params)
}

// UpdateStory updates an existing story.
func (c *Client) UpdateStory(ctx context.Context, id int64, params *UpdateStoryParams) (*Story, error) {
	return updateResource[Story](ctx, c, resourcePath("/stories/%d", id), params)
}

// CreateStoryComment adds a comment to a story.
func (c *Client) CreateStoryComment(ctx context.Context, storyID int64, text string) (*Comment, error) {
	return createResource[Comment](ctx, c, resourcePath("/stories/%d/comments", storyID), &CreateCommentParams{Text: text})
}

// SearchStories runs a story search using Shortcut's search syntax
// (e.g. "owner:jane state:started"). Page size is capped at 25 by the API.
func (c *Client) SearchStories(ctx context.Context, query string, pageSize int) (*SearchResults[Story], error) {
	return getResource[SearchResults[Story]](ctx, c, searchPath("/search/stories", query, pageSize, "full"))
}
