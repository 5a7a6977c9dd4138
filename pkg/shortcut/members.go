package shortcut

import (
	"context"
	"time"
)

// CurrentMember is the authenticated member returned by GET /member. The
// endpoint doubles as the cheapest way to check a token's validity.
type CurrentMember struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	MentionName string     `json:"mention_name"`
	Workspace2  *Workspace `json:"workspace2,omitempty"`
}

// Workspace describes the workspace a member belongs to.
type Workspace struct {
	URLSlug       string `json:"url_slug"`
	EstimateScale []int  `json:"estimate_scale,omitempty"`
}

// Member represents a workspace member.
type Member struct {
	ID        string    `json:"id"`
	Profile   Profile   `json:"profile"`
	Role      string    `json:"role"`
	Disabled  bool      `json:"disabled"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Profile holds a member's display details.
type Profile struct {
	Name        string `json:"name"`
	MentionName string `json:"mention_name"`
	Email       string `json:"email_address,omitempty"`
	Deactivated bool   `json:"deactivated"`
}

// GetCurrentMember returns the member the token authenticates as.
func (c *Client) GetCurrentMember(ctx context.Context) (*CurrentMember, error) {
	return getResource[CurrentMember](ctx, c, "/member")
}

// ListMembers returns all members of the workspace.
func (c *Client) ListMembers(ctx context.Context) ([]Member, error) {
	return listResources[Member](ctx, c, "/members")
}

// GetMember returns a member by their public id.
func (c *Client) GetMember(ctx context.Context, id string) (*Member, error) {
	return getResource[Member](ctx, c, resourcePath("/members/%s", id))
}
