package toolset

import "strings"

// queryBuilder assembles Shortcut search syntax from structured filters.
// Operators are documented at help.shortcut.com under "Using Search
// Operators"; values with spaces must be quoted.
type queryBuilder struct {
	parts []string
}

// raw appends free-form query text as-is.
func (q *queryBuilder) raw(text string) {
	if text = strings.TrimSpace(text); text != "" {
		q.parts = append(q.parts, text)
	}
}

// field appends an operator:value pair, quoting the value when it contains
// whitespace.
func (q *queryBuilder) field(name, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if strings.ContainsAny(value, " \t") {
		value = `"` + value + `"`
	}
	q.parts = append(q.parts, name+":"+value)
}

// flag appends an is: operator, negated with ! when the filter is false.
// A nil filter leaves the dimension unconstrained.
func (q *queryBuilder) flag(name string, v *bool) {
	if v == nil {
		return
	}
	if *v {
		q.parts = append(q.parts, "is:"+name)
	} else {
		q.parts = append(q.parts, "!is:"+name)
	}
}

func (q *queryBuilder) String() string {
	return strings.Join(q.parts, " ")
}

// buildStoryQuery translates structured story filters into one query string.
func buildStoryQuery(a searchStoriesArgs) string {
	var q queryBuilder
	q.raw(a.Query)
	q.field("owner", a.Owner)
	q.field("requester", a.Requester)
	q.field("type", a.Type)
	q.field("state", a.State)
	q.field("epic", a.Epic)
	q.field("team", a.Team)
	q.field("label", a.Label)
	q.flag("blocked", a.IsBlocked)
	q.flag("started", a.IsStarted)
	q.flag("done", a.IsDone)
	q.flag("archived", a.IsArchived)
	return q.String()
}

// buildEpicQuery translates structured epic filters into one query string.
func buildEpicQuery(a searchEpicsArgs) string {
	var q queryBuilder
	q.raw(a.Query)
	q.field("owner", a.Owner)
	q.field("state", a.State)
	q.field("team", a.Team)
	q.flag("archived", a.IsArchived)
	return q.String()
}
