package github

import (
	"time"

	"github.com/jsamuelsen/go-github-issues/internal/adapters/clients/acl"
	"github.com/jsamuelsen/go-github-issues/internal/adapters/clients/rest"
	"github.com/jsamuelsen/go-github-issues/internal/domain"
)

type (
	// Record is an ordered JSON object keeping every field of a response.
	Record = domain.Record

	// Value is one JSON value inside a Record.
	Value = domain.Value

	// Params are the request parameters of a call. They are sent as given
	// once required keys and enumerated values check out.
	Params = rest.Params

	// ListOptions selects a page of a list endpoint.
	ListOptions = rest.ListOptions
)

// User is the compact account object GitHub nests in issues and comments.
type User struct{ *Record }

// Login returns the account name.
func (u User) Login() string { return u.GetString("login") }

// ID returns the account id.
func (u User) ID() int64 { return u.GetInt("id") }

// Issue is an issue (or pull request) returned by the Issues API.
type Issue struct{ *Record }

// ID returns the global issue id.
func (i Issue) ID() int64 { return i.GetInt("id") }

// Number returns the issue number within its repository.
func (i Issue) Number() int64 { return i.GetInt("number") }

// Title returns the issue title.
func (i Issue) Title() string { return i.GetString("title") }

// Body returns the issue description, "" when it has none.
func (i Issue) Body() string { return i.GetString("body") }

// State returns "open" or "closed".
func (i Issue) State() string { return i.GetString("state") }

// HTMLURL returns the issue's web page.
func (i Issue) HTMLURL() string { return i.GetString("html_url") }

// Comments returns the number of comments on the issue.
func (i Issue) Comments() int64 { return i.GetInt("comments") }

// User returns the account that opened the issue.
func (i Issue) User() User { return User{i.GetRecord("user")} }

// Locked reports whether the conversation is locked.
func (i Issue) Locked() bool { return i.GetBool("locked") }

// CreatedAt returns when the issue was opened.
func (i Issue) CreatedAt() time.Time { return timeField(i.Record, "created_at") }

// UpdatedAt returns when the issue last changed.
func (i Issue) UpdatedAt() time.Time { return timeField(i.Record, "updated_at") }

// ClosedAt is zero while the issue is open.
func (i Issue) ClosedAt() time.Time { return timeField(i.Record, "closed_at") }

// IsPullRequest reports whether the issue is the issue half of a pull request.
func (i Issue) IsPullRequest() bool {
	v, ok := i.Get("pull_request")
	return ok && !v.IsNull()
}

// Assignees returns the assigned users.
func (i Issue) Assignees() []User {
	return views(i.GetArray("assignees"), func(r *Record) User { return User{r} })
}

// Labels returns the labels applied to the issue.
func (i Issue) Labels() []Label {
	return views(i.GetArray("labels"), func(r *Record) Label { return Label{r} })
}

// Milestone returns the issue's milestone, or nil when it has none.
func (i Issue) Milestone() *Milestone {
	rec := i.GetRecord("milestone")
	if rec == nil {
		return nil
	}
	return &Milestone{rec}
}

// Comment is an issue comment.
type Comment struct{ *Record }

// ID returns the comment id used by Comments.Get, Edit and Delete.
func (c Comment) ID() int64 { return c.GetInt("id") }

// Body returns the comment text.
func (c Comment) Body() string { return c.GetString("body") }

// HTMLURL returns the comment's web page.
func (c Comment) HTMLURL() string { return c.GetString("html_url") }

// User returns the comment author.
func (c Comment) User() User { return User{c.GetRecord("user")} }

// CreatedAt returns when the comment was posted.
func (c Comment) CreatedAt() time.Time { return timeField(c.Record, "created_at") }

// UpdatedAt returns when the comment was last edited.
func (c Comment) UpdatedAt() time.Time { return timeField(c.Record, "updated_at") }

// Label is a repository label. Color is six hex digits without '#'.
type Label struct{ *Record }

// ID returns the label id.
func (l Label) ID() int64 { return l.GetInt("id") }

// Name returns the label name, which also identifies it in paths.
func (l Label) Name() string { return l.GetString("name") }

// Color returns the label color, e.g. "f29513".
func (l Label) Color() string { return l.GetString("color") }

// Description returns the label description.
func (l Label) Description() string { return l.GetString("description") }

// Default reports whether GitHub created the label with the repository.
func (l Label) Default() bool { return l.GetBool("default") }

// Milestone is a repository milestone.
type Milestone struct{ *Record }

// ID returns the global milestone id.
func (m Milestone) ID() int64 { return m.GetInt("id") }

// Number returns the milestone number within its repository.
func (m Milestone) Number() int64 { return m.GetInt("number") }

// Title returns the milestone title.
func (m Milestone) Title() string { return m.GetString("title") }

// Description returns the milestone description.
func (m Milestone) Description() string { return m.GetString("description") }

// State returns "open" or "closed".
func (m Milestone) State() string { return m.GetString("state") }

// OpenIssues returns the number of open issues in the milestone.
func (m Milestone) OpenIssues() int64 { return m.GetInt("open_issues") }

// ClosedIssues returns the number of closed issues in the milestone.
func (m Milestone) ClosedIssues() int64 { return m.GetInt("closed_issues") }

// Creator returns the account that created the milestone.
func (m Milestone) Creator() User { return User{m.GetRecord("creator")} }

// DueOn returns the due date, zero when none is set.
func (m Milestone) DueOn() time.Time { return timeField(m.Record, "due_on") }

// Event is an issue timeline event such as "closed" or "labeled".
type Event struct{ *Record }

// ID returns the event id used by Events.Get.
func (e Event) ID() int64 { return e.GetInt("id") }

// Event returns the event type, e.g. "closed", "labeled" or "referenced".
func (e Event) Event() string { return e.GetString("event") }

// Actor returns the account that caused the event.
func (e Event) Actor() User { return User{e.GetRecord("actor")} }

// CommitID returns the referencing commit SHA, "" for events without one.
func (e Event) CommitID() string { return e.GetString("commit_id") }

// CreatedAt returns when the event happened.
func (e Event) CreatedAt() time.Time { return timeField(e.Record, "created_at") }

// Issue returns the issue the event belongs to. Only repository-wide event
// listings embed it; nil otherwise.
func (e Event) Issue() *Issue {
	rec := e.GetRecord("issue")
	if rec == nil {
		return nil
	}
	return &Issue{rec}
}

// timeField parses an RFC 3339 timestamp field; absent, null or malformed
// values yield the zero time.
func timeField(r *Record, key string) time.Time {
	s := r.GetString(key)
	if s == "" {
		return time.Time{}
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// views wraps each object element of values; non-objects are skipped.
func views[T any](values []Value, wrap func(*Record) T) []T {
	recs := make([]*Record, 0, len(values))
	for _, v := range values {
		if rec := v.AsRecord(); rec != nil {
			recs = append(recs, rec)
		}
	}
	return acl.TranslateSlice(recs, wrap)
}
