package shortcut

import (
	"context"
	"time"
)

// Objective represents a Shortcut objective (previously called milestone).
type Objective struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	State       string    `json:"state"`
	AppURL      string    `json:"app_url,omitempty"`
	Archived    bool      `json:"archived"`
	Started     bool      `json:"started"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// ListObjectives returns all objectives in the workspace.
func (c *Client) ListObjectives(ctx context.Context) ([]Objective, error) {
	return listResources[Objective](ctx, c, "/objectives")
}

// GetObjective returns an objective by its public id.
func (c *Client) GetObjective(ctx context.Context, id int64) (*Objective, error) {
	return getResource[Objective](ctx, c, resourcePath("/objectives/%d", id))
}
