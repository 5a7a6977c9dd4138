package shortcut

import (
	"context"
	"time"
)

// Epic represents a Shortcut epic.
type Epic struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	State       string     `json:"state"`
	AppURL      string     `json:"app_url,omitempty"`
	Archived    bool       `json:"archived"`
	Started     bool       `json:"started"`
	Completed   bool       `json:"completed"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	GroupID     *string    `json:"group_id,omitempty"`
	OwnerIDs    []string   `json:"owner_ids,omitempty"`
	Labels      []Label    `json:"labels,omitempty"`
	Stats       *EpicStats `json:"stats,omitempty"`
	CreatedAt   time.Time  `json:"created_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at,omitempty"`
}

// EpicStats aggregates story progress within an epic.
type EpicStats struct {
	NumStoriesTotal   int64 `json:"num_stories_total"`
	NumStoriesStarted int64 `json:"num_stories_started"`
	NumStoriesDone    int64 `json:"num_stories_done"`
	NumPoints         int64 `json:"num_points"`
	NumPointsDone     int64 `json:"num_points_done"`
}

// GetEpic returns an epic by its public id.
func (c *Client) GetEpic(ctx context.Context, id int64) (*Epic, error) {
	return getResource[Epic](ctx, c, resourcePath("/epics/%d", id))
}

// SearchEpics runs an epic search using Shortcut's search syntax.
func (c *Client) SearchEpics(ctx context.Context, query string, pageSize int) (*SearchResults[Epic], error) {
	return getResource[SearchResults[Epic]](ctx, c, searchPath("/search/epics", query, pageSize, "full"))
}
