package toolset

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marmos91/shortcut-mcp/pkg/mcp/tools"
	"github.com/marmos91/shortcut-mcp/pkg/shortcut"
)

type getStoryArgs struct {
	StoryID int64 `json:"story_id" validate:"required" jsonschema:"description=Public id of the story"`
}

type searchStoriesArgs struct {
	Query      string `json:"query,omitempty" jsonschema:"description=Free-form Shortcut search syntax; combined with the structured filters below"`
	Owner      string `json:"owner,omitempty" jsonschema:"description=Owner mention name without the @"`
	Requester  string `json:"requester,omitempty" jsonschema:"description=Requester mention name without the @"`
	Type       string `json:"type,omitempty" validate:"omitempty,oneof=feature bug chore" jsonschema:"description=Story type; one of feature; bug; chore"`
	State      string `json:"state,omitempty" jsonschema:"description=Workflow state name; quoted automatically when it contains spaces"`
	Epic       string `json:"epic,omitempty" jsonschema:"description=Epic name"`
	Team       string `json:"team,omitempty" jsonschema:"description=Team mention name"`
	Label      string `json:"label,omitempty" jsonschema:"description=Label name"`
	IsBlocked  *bool  `json:"is_blocked,omitempty" jsonschema:"description=Only blocked stories when true; only unblocked when false"`
	IsStarted  *bool  `json:"is_started,omitempty" jsonschema:"description=Only started stories when true"`
	IsDone     *bool  `json:"is_done,omitempty" jsonschema:"description=Only completed stories when true"`
	IsArchived *bool  `json:"is_archived,omitempty" jsonschema:"description=Only archived stories when true; exclude them when false"`
	PageSize   int    `json:"page_size,omitempty" validate:"omitempty,min=1,max=25" jsonschema:"description=Results per page; the API caps this at 25"`
}

type createStoryArgs struct {
	Name            string   `json:"name" validate:"required" jsonschema:"description=Story title"`
	Description     string   `json:"description,omitempty" jsonschema:"description=Story description in Markdown"`
	Type            string   `json:"type,omitempty" validate:"omitempty,oneof=feature bug chore" jsonschema:"description=Story type; one of feature; bug; chore; the API defaults to feature"`
	TeamID          string   `json:"team_id,omitempty" jsonschema:"description=Team UUID; routes the story to the team's default workflow. Required unless workflow_state_id is set"`
	WorkflowStateID int64    `json:"workflow_state_id,omitempty" jsonschema:"description=Workflow state id from list-workflows. Required unless team_id is set"`
	EpicID          int64    `json:"epic_id,omitempty" jsonschema:"description=Epic to attach the story to"`
	IterationID     int64    `json:"iteration_id,omitempty" jsonschema:"description=Iteration to schedule the story in"`
	Estimate        int64    `json:"estimate,omitempty" jsonschema:"description=Point estimate"`
	Deadline        string   `json:"deadline,omitempty" jsonschema:"description=Due date as YYYY-MM-DD"`
	OwnerIDs        []string `json:"owner_ids,omitempty" jsonschema:"description=Member UUIDs to assign as owners"`
	Labels          []string `json:"labels,omitempty" jsonschema:"description=Label names to attach"`
}

type updateStoryArgs struct {
	StoryID         int64     `json:"story_id" validate:"required" jsonschema:"description=Public id of the story to update"`
	Name            *string   `json:"name,omitempty" jsonschema:"description=New story title"`
	Description     *string   `json:"description,omitempty" jsonschema:"description=New description; replaces the old one"`
	Type            *string   `json:"type,omitempty" validate:"omitempty,oneof=feature bug chore" jsonschema:"description=New story type; one of feature; bug; chore"`
	WorkflowStateID *int64    `json:"workflow_state_id,omitempty" jsonschema:"description=Move the story to this workflow state"`
	TeamID          *string   `json:"team_id,omitempty" jsonschema:"description=Move the story to this team"`
	EpicID          *int64    `json:"epic_id,omitempty" jsonschema:"description=Attach the story to this epic"`
	IterationID     *int64    `json:"iteration_id,omitempty" jsonschema:"description=Schedule the story in this iteration"`
	Estimate        *int64    `json:"estimate,omitempty" jsonschema:"description=New point estimate"`
	Deadline        *string   `json:"deadline,omitempty" jsonschema:"description=Due date as YYYY-MM-DD"`
	OwnerIDs        *[]string `json:"owner_ids,omitempty" jsonschema:"description=Replaces the full owner list"`
	Archived        *bool     `json:"archived,omitempty" jsonschema:"description=Archive (true) or unarchive (false) the story"`
}

type addCommentArgs struct {
	StoryID int64  `json:"story_id" validate:"required" jsonschema:"description=Public id of the story to comment on"`
	Text    string `json:"text" validate:"required" jsonschema:"description=Comment text in Markdown"`
}

func (ts *toolset) storyTools() []tools.Tool {
	return []tools.Tool{
		{
			Name:        "get-story",
			Description: "Get a Shortcut story by its public id, including description, owners, labels, and comments.",
			InputSchema: tools.MustSchema(&getStoryArgs{}),
			Annotations: &tools.Annotations{Title: "Get Story", ReadOnlyHint: true},
			Handler:     ts.getStory,
		},
		{
			Name:        "search-stories",
			Description: "Search stories with structured filters (owner, state, type, epic, team, label, blocked/started/done/archived) or raw Shortcut query syntax.",
			InputSchema: tools.MustSchema(&searchStoriesArgs{}),
			Annotations: &tools.Annotations{Title: "Search Stories", ReadOnlyHint: true},
			Handler:     ts.searchStories,
		},
		{
			Name:        "create-story",
			Description: "Create a story. Takes a name plus either team_id or workflow_state_id to place it; type, description, epic, iteration, estimate, deadline, owners, and labels are optional.",
			InputSchema: tools.MustSchema(&createStoryArgs{}),
			Annotations: &tools.Annotations{Title: "Create Story"},
			Handler:     ts.createStory,
		},
		{
			Name:        "update-story",
			Description: "Update fields of an existing story; only the provided fields change. Moving between workflow states, re-assigning owners, and archiving all go through here.",
			InputSchema: tools.MustSchema(&updateStoryArgs{}),
			Annotations: &tools.Annotations{Title: "Update Story", IdempotentHint: true},
			Handler:     ts.updateStory,
		},
		{
			Name:        "add-comment-to-story",
			Description: "Add a Markdown comment to a story.",
			InputSchema: tools.MustSchema(&addCommentArgs{}),
			Annotations: &tools.Annotations{Title: "Comment on Story"},
			Handler:     ts.addComment,
		},
	}
}

func (ts *toolset) getStory(ctx context.Context, raw json.RawMessage) (*tools.Result, error) {
	var in getStoryArgs
	if err := tools.DecodeArgs(raw, &in); err != nil {
		return nil, err
	}

	c := ts.client(ctx)
	story, err := c.GetStory(ctx, in.StoryID)
	if err != nil {
		return nil, describeErr(err, fmt.Sprintf("story %d", in.StoryID))
	}
	return tools.TextResult("%s", formatStory(ctx, newLookup(c), story)), nil
}

func (ts *toolset) searchStories(ctx context.Context, raw json.RawMessage) (*tools.Result, error) {
	var in searchStoriesArgs
	if err := tools.DecodeArgs(raw, &in); err != nil {
		return nil, err
	}

	query := buildStoryQuery(in)
	if query == "" {
		return nil, fmt.Errorf("provide a query or at least one filter")
	}

	c := ts.client(ctx)
	page, err := c.SearchStories(ctx, query, in.PageSize)
	if err != nil {
		return nil, describeErr(err, fmt.Sprintf("story search %q", query))
	}
	return tools.TextResult("%s", formatStoryResults(ctx, newLookup(c), query, page)), nil
}

func (ts *toolset) createStory(ctx context.Context, raw json.RawMessage) (*tools.Result, error) {
	var in createStoryArgs
	if err := tools.DecodeArgs(raw, &in); err != nil {
		return nil, err
	}
	if in.WorkflowStateID == 0 && in.TeamID == "" {
		return nil, fmt.Errorf("provide team_id or workflow_state_id to place the story; list-teams and list-workflows show the candidates")
	}

	params := &shortcut.CreateStoryParams{
		Name:        in.Name,
		Description: in.Description,
		StoryType:   in.Type,
		OwnerIDs:    in.OwnerIDs,
	}
	if in.WorkflowStateID != 0 {
		params.WorkflowStateID = &in.WorkflowStateID
	}
	if in.TeamID != "" {
		params.GroupID = &in.TeamID
	}
	if in.EpicID != 0 {
		params.EpicID = &in.EpicID
	}
	if in.IterationID != 0 {
		params.IterationID = &in.IterationID
	}
	if in.Estimate != 0 {
		params.Estimate = &in.Estimate
	}
	if in.Deadline != "" {
		d, err := time.Parse(dateOnly, in.Deadline)
		if err != nil {
			return nil, fmt.Errorf("invalid deadline %q: use YYYY-MM-DD", in.Deadline)
		}
		params.Deadline = &d
	}
	for _, name := range in.Labels {
		params.Labels = append(params.Labels, shortcut.Label{Name: name})
	}

	c := ts.client(ctx)
	story, err := c.CreateStory(ctx, params)
	if err != nil {
		return nil, describeErr(err, "creating the story")
	}
	return tools.TextResult("Created story #%d.\n\n%s", story.ID, formatStory(ctx, newLookup(c), story)), nil
}

func (ts *toolset) updateStory(ctx context.Context, raw json.RawMessage) (*tools.Result, error) {
	var in updateStoryArgs
	if err := tools.DecodeArgs(raw, &in); err != nil {
		return nil, err
	}

	params := &shortcut.UpdateStoryParams{
		Name:            in.Name,
		Description:     in.Description,
		StoryType:       in.Type,
		WorkflowStateID: in.WorkflowStateID,
		GroupID:         in.TeamID,
		EpicID:          in.EpicID,
		IterationID:     in.IterationID,
		Estimate:        in.Estimate,
		OwnerIDs:        in.OwnerIDs,
		Archived:        in.Archived,
	}
	if in.Deadline != nil {
		d, err := time.Parse(dateOnly, *in.Deadline)
		if err != nil {
			return nil, fmt.Errorf("invalid deadline %q: use YYYY-MM-DD", *in.Deadline)
		}
		params.Deadline = &d
	}
	if *params == (shortcut.UpdateStoryParams{}) {
		return nil, fmt.Errorf("nothing to update: provide at least one field to change")
	}

	c := ts.client(ctx)
	story, err := c.UpdateStory(ctx, in.StoryID, params)
	if err != nil {
		return nil, describeErr(err, fmt.Sprintf("story %d", in.StoryID))
	}
	return tools.TextResult("Updated story #%d.\n\n%s", story.ID, formatStory(ctx, newLookup(c), story)), nil
}

func (ts *toolset) addComment(ctx context.Context, raw json.RawMessage) (*tools.Result, error) {
	var in addCommentArgs
	if err := tools.DecodeArgs(raw, &in); err != nil {
		return nil, err
	}

	comment, err := ts.client(ctx).CreateStoryComment(ctx, in.StoryID, in.Text)
	if err != nil {
		return nil, describeErr(err, fmt.Sprintf("story %d", in.StoryID))
	}
	return tools.TextResult("Added comment %d to story #%d.", comment.ID, in.StoryID), nil
}
