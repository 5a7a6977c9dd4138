package shortcut

import "context"

// Iteration represents a Shortcut iteration (sprint).
type Iteration struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Status    string          `json:"status"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	AppURL    string          `json:"app_url,omitempty"`
	GroupIDs  []string        `json:"group_ids,omitempty"`
	Stats     *IterationStats `json:"stats,omitempty"`
}

// IterationStats aggregates story progress within an iteration.
type IterationStats struct {
	NumStoriesTotal     int64 `json:"num_stories_total,omitempty"`
	NumStoriesStarted   int64 `json:"num_stories_started"`
	NumStoriesUnstarted int64 `json:"num_stories_unstarted"`
	NumStoriesDone      int64 `json:"num_stories_done"`
	NumPoints           int64 `json:"num_points"`
	NumPointsDone       int64 `json:"num_points_done"`
}

// ListIterations returns all iterations in the workspace.
func (c *Client) ListIterations(ctx context.Context) ([]Iteration, error) {
	return listResources[Iteration](ctx, c, "/iterations")
}

// GetIteration returns an iteration by its public id.
func (c *Client) GetIteration(ctx context.Context, id int64) (*Iteration, error) {
	return getResource[Iteration](ctx, c, resourcePath("/iterations/%d", id))
}
