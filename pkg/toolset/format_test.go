package toolset

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/marmos91/shortcut-mcp/pkg/shortcut"
)

// seededLookup returns a lookup with every cache pre-filled, so formatter
// tests never touch the network.
func seededLookup() *lookup {
	return &lookup{
		members: map[string]string{
			"uuid-jane": "jane",
			"uuid-bob":  "bob",
		},
		states: map[int64]string{
			500: "In Review",
			501: "Done",
		},
		groups: map[string]string{
			"uuid-platform": "Platform",
		},
		epics: map[int64]string{
			7: "Checkout revamp",
		},
	}
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func TestFormatStory(t *testing.T) {
	ctx := context.Background()

	t.Run("FullStory", func(t *testing.T) {
		deadline := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		story := &shortcut.Story{
			ID:              123,
			Name:            "Fix login flow",
			Description:     "Steps to reproduce...",
			StoryType:       "bug",
			AppURL:          "https://app.shortcut.com/acme/story/123",
			WorkflowStateID: 500,
			GroupID:         strPtr("uuid-platform"),
			EpicID:          int64Ptr(7),
			IterationID:     int64Ptr(77),
			Estimate:        int64Ptr(3),
			Deadline:        &deadline,
			OwnerIDs:        []string{"uuid-jane", "uuid-bob"},
			RequestedByID:   "uuid-jane",
			Labels:          []shortcut.Label{{Name: "backend"}, {Name: "urgent"}},
			Blocked:         true,
			Started:         true,
			CreatedAt:       time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
			UpdatedAt:       time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
			Comments: []shortcut.Comment{
				{ID: 1, Text: "Looking into it", AuthorID: "uuid-bob", CreatedAt: time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)},
			},
		}

		out := formatStory(ctx, seededLookup(), story)

		assert.Contains(t, out, "Story #123: Fix login flow")
		assert.Contains(t, out, "URL: https://app.shortcut.com/acme/story/123")
		assert.Contains(t, out, "Type: bug")
		assert.Contains(t, out, "State: In Review")
		assert.Contains(t, out, "Team: Platform")
		assert.Contains(t, out, "Epic: Checkout revamp (#7)")
		assert.Contains(t, out, "Iteration: 77")
		assert.Contains(t, out, "Estimate: 3")
		assert.Contains(t, out, "Deadline: 2026-09-01")
		assert.Contains(t, out, "Owners: @jane, @bob")
		assert.Contains(t, out, "Requested by: @jane")
		assert.Contains(t, out, "Labels: backend, urgent")
		assert.Contains(t, out, "Flags: started, blocked")
		assert.Contains(t, out, "Created: 2026-08-01, updated: 2026-08-20")
		assert.Contains(t, out, "Description:\nSteps to reproduce...")
		assert.Contains(t, out, "Comments (1):")
		assert.Contains(t, out, "[2026-08-02 @bob] Looking into it")
	})

	t.Run("MinimalStoryOmitsEmptySections", func(t *testing.T) {
		story := &shortcut.Story{
			ID:              5,
			Name:            "Tiny chore",
			StoryType:       "chore",
			WorkflowStateID: 501,
		}

		out := formatStory(ctx, seededLookup(), story)

		assert.Contains(t, out, "Story #5: Tiny chore")
		assert.Contains(t, out, "State: Done")
		assert.NotContains(t, out, "Owners:")
		assert.NotContains(t, out, "Labels:")
		assert.NotContains(t, out, "Description:")
		assert.NotContains(t, out, "Comments")
		assert.NotContains(t, out, "Flags:")
		assert.False(t, strings.HasSuffix(out, "\n"), "output must not end with a newline")
	})

	t.Run("UnknownIDsDegradeToRawValues", func(t *testing.T) {
		story := &shortcut.Story{
			ID:              6,
			Name:            "Mystery",
			StoryType:       "feature",
			WorkflowStateID: 999,
			OwnerIDs:        []string{"uuid-stranger"},
		}

		out := formatStory(ctx, seededLookup(), story)

		assert.Contains(t, out, "State: state 999")
		assert.Contains(t, out, "Owners: uuid-stranger")
	})
}

func TestFormatStoryResults(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyPage", func(t *testing.T) {
		page := &shortcut.SearchResults[shortcut.Story]{Total: 0}
		out := formatStoryResults(ctx, seededLookup(), "owner:jane", page)
		assert.Equal(t, `No stories match "owner:jane".`, out)
	})

	t.Run("PageWithEntries", func(t *testing.T) {
		page := &shortcut.SearchResults[shortcut.Story]{
			Total: 12,
			Data: []shortcut.Story{
				{ID: 1, Name: "First", StoryType: "bug", WorkflowStateID: 500, OwnerIDs: []string{"uuid-jane"}},
				{ID: 2, Name: "Second", StoryType: "feature", WorkflowStateID: 501, EpicID: int64Ptr(7), Archived: true},
			},
			Next: strPtr("/search/stories?page=2"),
		}

		out := formatStoryResults(ctx, seededLookup(), "team:platform", page)

		assert.Contains(t, out, `12 stories match "team:platform" (showing 2):`)
		assert.Contains(t, out, "#1 First")
		assert.Contains(t, out, "bug | In Review | owners: @jane")
		assert.Contains(t, out, "#2 Second")
		assert.Contains(t, out, "feature | Done | epic: Checkout revamp | archived")
		assert.Contains(t, out, "More results exist beyond this page")
	})
}

func TestFormatEpic(t *testing.T) {
	epic := &shortcut.Epic{
		ID:       7,
		Name:     "Checkout revamp",
		State:    "in progress",
		GroupID:  strPtr("uuid-platform"),
		OwnerIDs: []string{"uuid-jane"},
		Stats: &shortcut.EpicStats{
			NumStoriesTotal: 10,
			NumStoriesDone:  4,
			NumPoints:       21,
			NumPointsDone:   8,
		},
	}

	out := formatEpic(context.Background(), seededLookup(), epic)

	assert.Contains(t, out, "Epic #7: Checkout revamp")
	assert.Contains(t, out, "State: in progress")
	assert.Contains(t, out, "Team: Platform")
	assert.Contains(t, out, "Owners: @jane")
	assert.Contains(t, out, "Progress: 4/10 stories done, 8/21 points")
}

func TestFormatWorkflow(t *testing.T) {
	wf := &shortcut.Workflow{
		ID:             9,
		Name:           "Engineering",
		DefaultStateID: 500,
		States: []shortcut.WorkflowState{
			{ID: 499, Name: "Backlog", Type: "backlog", NumStories: 12},
			{ID: 500, Name: "Ready for Dev", Type: "unstarted"},
			{ID: 501, Name: "Done", Type: "done", NumStories: 3},
		},
	}

	out := formatWorkflow(wf)

	assert.Contains(t, out, "Workflow 9: Engineering")
	assert.Contains(t, out, "- Backlog [backlog] (id 499, 12 stories)")
	assert.Contains(t, out, "- Ready for Dev [unstarted] (id 500) (default)")
	assert.Contains(t, out, "- Done [done] (id 501, 3 stories)")
}

func TestFormatIteration(t *testing.T) {
	it := &shortcut.Iteration{
		ID:        77,
		Name:      "Sprint 14",
		Status:    "started",
		StartDate: "2026-08-18",
		EndDate:   "2026-08-29",
		GroupIDs:  []string{"uuid-platform"},
		Stats: &shortcut.IterationStats{
			NumStoriesUnstarted: 4,
			NumStoriesStarted:   3,
			NumStoriesDone:      5,
			NumPoints:           21,
			NumPointsDone:       8,
		},
	}

	out := formatIteration(context.Background(), seededLookup(), it)

	assert.Contains(t, out, "Iteration 77: Sprint 14 [started]")
	assert.Contains(t, out, "Dates: 2026-08-18 to 2026-08-29")
	assert.Contains(t, out, "Teams: Platform")
	assert.Contains(t, out, "Progress: 5/12 stories done, 8/21 points")
}

func TestFormatMembers(t *testing.T) {
	t.Run("CurrentMember", func(t *testing.T) {
		me := &shortcut.CurrentMember{
			ID:          "uuid-jane",
			Name:        "Jane Doe",
			MentionName: "jane",
			Workspace2:  &shortcut.Workspace{URLSlug: "acme"},
		}

		out := formatCurrentMember(me)

		assert.Contains(t, out, "Authenticated as @jane (Jane Doe)")
		assert.Contains(t, out, "Member ID: uuid-jane")
		assert.Contains(t, out, "Workspace: acme")
	})

	t.Run("MemberListMarksDisabled", func(t *testing.T) {
		members := []shortcut.Member{
			{ID: "uuid-jane", Role: "member", Profile: shortcut.Profile{Name: "Jane Doe", MentionName: "jane"}},
			{ID: "uuid-bob", Role: "observer", Disabled: true, Profile: shortcut.Profile{Name: "Bob", MentionName: "bob"}},
		}

		out := formatMemberList(members)

		assert.Contains(t, out, "2 members:")
		assert.Contains(t, out, "@jane - Jane Doe (member) uuid-jane")
		assert.Contains(t, out, "@bob - Bob (observer) uuid-bob [disabled]")
	})
}

func TestFormatGroupList(t *testing.T) {
	groups := []shortcut.Group{
		{ID: "uuid-platform", Name: "Platform", MentionName: "platform", MemberIDs: []string{"a", "b"}},
		{ID: "uuid-old", Name: "Legacy", MentionName: "legacy", Archived: true},
	}

	out := formatGroupList(groups)

	assert.Contains(t, out, "2 teams:")
	assert.Contains(t, out, "Platform (@platform) - 2 members - id uuid-platform")
	assert.Contains(t, out, "Legacy (@legacy) - 0 members - id uuid-old [archived]")
}
