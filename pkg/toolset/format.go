package toolset

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/marmos91/shortcut-mcp/pkg/shortcut"
)

const dateOnly = "2006-01-02"

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateOnly)
}

func memberList(ctx context.Context, names *lookup, ids []string) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = names.memberName(ctx, id)
	}
	return strings.Join(out, ", ")
}

func labelList(labels []shortcut.Label) string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = l.Name
	}
	return strings.Join(out, ", ")
}

func storyFlags(s *shortcut.Story) string {
	var flags []string
	if s.Completed {
		flags = append(flags, "completed")
	} else if s.Started {
		flags = append(flags, "started")
	}
	if s.Blocked {
		flags = append(flags, "blocked")
	}
	if s.Blocker {
		flags = append(flags, "blocks others")
	}
	if s.Archived {
		flags = append(flags, "archived")
	}
	return strings.Join(flags, ", ")
}

// formatStory renders one story with every field a follow-up action could
// need. State, team, epic, and member ids are resolved to names.
func formatStory(ctx context.Context, names *lookup, s *shortcut.Story) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Story #%d: %s\n", s.ID, s.Name)
	if s.AppURL != "" {
		fmt.Fprintf(&b, "URL: %s\n", s.AppURL)
	}
	fmt.Fprintf(&b, "Type: %s\n", s.StoryType)
	fmt.Fprintf(&b, "State: %s\n", names.stateName(ctx, s.WorkflowStateID))
	if s.GroupID != nil {
		fmt.Fprintf(&b, "Team: %s\n", names.groupName(ctx, *s.GroupID))
	}
	if s.EpicID != nil {
		fmt.Fprintf(&b, "Epic: %s (#%d)\n", names.epicName(ctx, *s.EpicID), *s.EpicID)
	}
	if s.IterationID != nil {
		fmt.Fprintf(&b, "Iteration: %d\n", *s.IterationID)
	}
	if s.Estimate != nil {
		fmt.Fprintf(&b, "Estimate: %d\n", *s.Estimate)
	}
	if s.Deadline != nil {
		fmt.Fprintf(&b, "Deadline: %s\n", fmtDate(*s.Deadline))
	}
	if len(s.OwnerIDs) > 0 {
		fmt.Fprintf(&b, "Owners: %s\n", memberList(ctx, names, s.OwnerIDs))
	}
	if s.RequestedByID != "" {
		fmt.Fprintf(&b, "Requested by: %s\n", names.memberName(ctx, s.RequestedByID))
	}
	if len(s.Labels) > 0 {
		fmt.Fprintf(&b, "Labels: %s\n", labelList(s.Labels))
	}
	if flags := storyFlags(s); flags != "" {
		fmt.Fprintf(&b, "Flags: %s\n", flags)
	}
	if created := fmtDate(s.CreatedAt); created != "" {
		fmt.Fprintf(&b, "Created: %s", created)
		if updated := fmtDate(s.UpdatedAt); updated != "" {
			fmt.Fprintf(&b, ", updated: %s", updated)
		}
		b.WriteString("\n")
	}
	if s.Description != "" {
		fmt.Fprintf(&b, "\nDescription:\n%s\n", s.Description)
	}
	if len(s.Comments) > 0 {
		fmt.Fprintf(&b, "\nComments (%d):\n", len(s.Comments))
		for _, c := range s.Comments {
			fmt.Fprintf(&b, "[%s %s] %s\n", fmtDate(c.CreatedAt), names.memberName(ctx, c.AuthorID), c.Text)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatStoryResults renders a search page compactly, one story per entry.
func formatStoryResults(ctx context.Context, names *lookup, query string, page *shortcut.SearchResults[shortcut.Story]) string {
	if len(page.Data) == 0 {
		return fmt.Sprintf("No stories match %q.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d stories match %q (showing %d):\n", page.Total, query, len(page.Data))
	for _, s := range page.Data {
		fmt.Fprintf(&b, "\n#%d %s\n", s.ID, s.Name)
		details := []string{s.StoryType, names.stateName(ctx, s.WorkflowStateID)}
		if len(s.OwnerIDs) > 0 {
			details = append(details, "owners: "+memberList(ctx, names, s.OwnerIDs))
		}
		if s.EpicID != nil {
			details = append(details, "epic: "+names.epicName(ctx, *s.EpicID))
		}
		if s.Archived {
			details = append(details, "archived")
		}
		fmt.Fprintf(&b, "  %s\n", strings.Join(details, " | "))
	}
	if page.Next != nil {
		b.WriteString("\nMore results exist beyond this page; narrow the search to see the rest.")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatEpic(ctx context.Context, names *lookup, e *shortcut.Epic) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Epic #%d: %s\n", e.ID, e.Name)
	if e.AppURL != "" {
		fmt.Fprintf(&b, "URL: %s\n", e.AppURL)
	}
	fmt.Fprintf(&b, "State: %s\n", e.State)
	if e.GroupID != nil {
		fmt.Fprintf(&b, "Team: %s\n", names.groupName(ctx, *e.GroupID))
	}
	if len(e.OwnerIDs) > 0 {
		fmt.Fprintf(&b, "Owners: %s\n", memberList(ctx, names, e.OwnerIDs))
	}
	if e.Deadline != nil {
		fmt.Fprintf(&b, "Deadline: %s\n", fmtDate(*e.Deadline))
	}
	if e.Stats != nil {
		fmt.Fprintf(&b, "Progress: %d/%d stories done, %d/%d points\n",
			e.Stats.NumStoriesDone, e.Stats.NumStoriesTotal,
			e.Stats.NumPointsDone, e.Stats.NumPoints)
	}
	if len(e.Labels) > 0 {
		fmt.Fprintf(&b, "Labels: %s\n", labelList(e.Labels))
	}
	if e.Archived {
		b.WriteString("Flags: archived\n")
	}
	if e.Description != "" {
		fmt.Fprintf(&b, "\nDescription:\n%s\n", e.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatEpicResults(query string, page *shortcut.SearchResults[shortcut.Epic]) string {
	if len(page.Data) == 0 {
		return fmt.Sprintf("No epics match %q.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d epics match %q (showing %d):\n", page.Total, query, len(page.Data))
	for _, e := range page.Data {
		fmt.Fprintf(&b, "\n#%d %s [%s]\n", e.ID, e.Name, e.State)
		if e.Stats != nil {
			fmt.Fprintf(&b, "  %d/%d stories done\n", e.Stats.NumStoriesDone, e.Stats.NumStoriesTotal)
		}
	}
	if page.Next != nil {
		b.WriteString("\nMore results exist beyond this page; narrow the search to see the rest.")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatCurrentMember(m *shortcut.CurrentMember) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Authenticated as @%s (%s)\n", m.MentionName, m.Name)
	fmt.Fprintf(&b, "Member ID: %s\n", m.ID)
	if m.Workspace2 != nil && m.Workspace2.URLSlug != "" {
		fmt.Fprintf(&b, "Workspace: %s\n", m.Workspace2.URLSlug)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatMember(m *shortcut.Member) string {
	var b strings.Builder
	fmt.Fprintf(&b, "@%s (%s)\n", m.Profile.MentionName, m.Profile.Name)
	fmt.Fprintf(&b, "ID: %s\n", m.ID)
	fmt.Fprintf(&b, "Role: %s\n", m.Role)
	if m.Profile.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", m.Profile.Email)
	}
	if m.Disabled || m.Profile.Deactivated {
		b.WriteString("Status: disabled\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatMemberLine(m *shortcut.Member) string {
	line := fmt.Sprintf("@%s - %s (%s) %s", m.Profile.MentionName, m.Profile.Name, m.Role, m.ID)
	if m.Disabled || m.Profile.Deactivated {
		line += " [disabled]"
	}
	return line
}

func formatMemberList(members []shortcut.Member) string {
	if len(members) == 0 {
		return "The workspace has no members."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d members:\n", len(members))
	for i := range members {
		fmt.Fprintf(&b, "%s\n", formatMemberLine(&members[i]))
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatWorkflow includes every state id: create-story and update-story need
// workflow_state_id, and this listing is where callers discover it.
func formatWorkflow(w *shortcut.Workflow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Workflow %d: %s\n", w.ID, w.Name)
	if w.Description != "" {
		fmt.Fprintf(&b, "%s\n", w.Description)
	}
	b.WriteString("States:\n")
	for _, st := range w.States {
		fmt.Fprintf(&b, "  - %s [%s] (id %d", st.Name, st.Type, st.ID)
		if st.NumStories > 0 {
			fmt.Fprintf(&b, ", %d stories", st.NumStories)
		}
		b.WriteString(")")
		if st.ID == w.DefaultStateID {
			b.WriteString(" (default)")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatWorkflowList(workflows []shortcut.Workflow) string {
	if len(workflows) == 0 {
		return "The workspace has no workflows."
	}
	parts := make([]string, len(workflows))
	for i := range workflows {
		parts[i] = formatWorkflow(&workflows[i])
	}
	return strings.Join(parts, "\n\n")
}

func formatIteration(ctx context.Context, names *lookup, it *shortcut.Iteration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Iteration %d: %s [%s]\n", it.ID, it.Name, it.Status)
	fmt.Fprintf(&b, "Dates: %s to %s\n", it.StartDate, it.EndDate)
	if it.AppURL != "" {
		fmt.Fprintf(&b, "URL: %s\n", it.AppURL)
	}
	if len(it.GroupIDs) > 0 {
		teams := make([]string, len(it.GroupIDs))
		for i, id := range it.GroupIDs {
			teams[i] = names.groupName(ctx, id)
		}
		fmt.Fprintf(&b, "Teams: %s\n", strings.Join(teams, ", "))
	}
	if st := it.Stats; st != nil {
		total := st.NumStoriesTotal
		if total == 0 {
			total = st.NumStoriesUnstarted + st.NumStoriesStarted + st.NumStoriesDone
		}
		fmt.Fprintf(&b, "Progress: %d/%d stories done, %d/%d points\n",
			st.NumStoriesDone, total, st.NumPointsDone, st.NumPoints)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatIterationList(iterations []shortcut.Iteration) string {
	if len(iterations) == 0 {
		return "The workspace has no iterations."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d iterations:\n", len(iterations))
	for _, it := range iterations {
		fmt.Fprintf(&b, "%d: %s [%s] %s to %s\n", it.ID, it.Name, it.Status, it.StartDate, it.EndDate)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatObjective(o *shortcut.Objective) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Objective %d: %s [%s]\n", o.ID, o.Name, o.State)
	if o.AppURL != "" {
		fmt.Fprintf(&b, "URL: %s\n", o.AppURL)
	}
	if o.Archived {
		b.WriteString("Flags: archived\n")
	}
	if created := fmtDate(o.CreatedAt); created != "" {
		fmt.Fprintf(&b, "Created: %s", created)
		if updated := fmtDate(o.UpdatedAt); updated != "" {
			fmt.Fprintf(&b, ", updated: %s", updated)
		}
		b.WriteString("\n")
	}
	if o.Description != "" {
		fmt.Fprintf(&b, "\nDescription:\n%s\n", o.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatObjectiveList(objectives []shortcut.Objective) string {
	if len(objectives) == 0 {
		return "The workspace has no objectives."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d objectives:\n", len(objectives))
	for _, o := range objectives {
		fmt.Fprintf(&b, "%d: %s [%s]\n", o.ID, o.Name, o.State)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatGroup(g *shortcut.Group) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Team: %s (@%s)\n", g.Name, g.MentionName)
	fmt.Fprintf(&b, "ID: %s\n", g.ID)
	if g.Description != "" {
		fmt.Fprintf(&b, "%s\n", g.Description)
	}
	fmt.Fprintf(&b, "Members: %d\n", len(g.MemberIDs))
	if len(g.WorkflowIDs) > 0 {
		ids := make([]string, len(g.WorkflowIDs))
		for i, id := range g.WorkflowIDs {
			ids[i] = fmt.Sprintf("%d", id)
		}
		fmt.Fprintf(&b, "Workflow ids: %s\n", strings.Join(ids, ", "))
	}
	if g.Archived {
		b.WriteString("Flags: archived\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatGroupList(groups []shortcut.Group) string {
	if len(groups) == 0 {
		return "The workspace has no teams."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d teams:\n", len(groups))
	for _, g := range groups {
		line := fmt.Sprintf("%s (@%s) - %d members - id %s", g.Name, g.MentionName, len(g.MemberIDs), g.ID)
		if g.Archived {
			line += " [archived]"
		}
		fmt.Fprintf(&b, "%s\n", line)
	}
	return strings.TrimRight(b.String(), "\n")
}
