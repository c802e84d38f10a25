package github

import (
	"context"
	"net/http"

	"github.com/jsamuelsen/go-github-issues/internal/adapters/clients/acl"
	"github.com/jsamuelsen/go-github-issues/internal/adapters/clients/rest"
)

var (
	listRepoEvents = rest.Endpoint{
		Method: http.MethodGet,
		Path:   "/repos/{user}/{repo}/issues/events",
	}
	listIssueEvents = rest.Endpoint{
		Method: http.MethodGet,
		Path:   "/repos/{user}/{repo}/issues/{number}/events",
	}
	getEvent = rest.Endpoint{
		Method: http.MethodGet,
		Path:   "/repos/{user}/{repo}/issues/events/{id}",
	}
)

// Events is the read-only issue events API.
type Events struct {
	adapter *acl.Adapter
}

// List lists events for every issue in a repository.
func (s *Events) List(ctx context.Context, user, repo string, page *ListOptions) ([]Event, error) {
	return many(ctx, s.adapter, acl.Call{
		Endpoint:  listRepoEvents,
		Args:      []any{user, repo},
		List:      page,
		Operation: "list events",
	}, asEvent)
}

// ListForIssue lists the events of one issue.
func (s *Events) ListForIssue(ctx context.Context, user, repo string, number int64, page *ListOptions) ([]Event, error) {
	return many(ctx, s.adapter, acl.Call{
		Endpoint:  listIssueEvents,
		Args:      []any{user, repo, number},
		List:      page,
		Operation: "list issue events",
	}, asEvent)
}

// Get fetches a single event.
func (s *Events) Get(ctx context.Context, user, repo string, id int64) (*Event, error) {
	return one(ctx, s.adapter, acl.Call{
		Endpoint:  getEvent,
		Args:      []any{user, repo, id},
		Operation: "get event",
	}, asEvent)
}
