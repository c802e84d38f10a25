package github

import (
	"context"
	"net/http"

	"github.com/jsamuelsen/go-github-issues/internal/adapters/clients/acl"
	"github.com/jsamuelsen/go-github-issues/internal/adapters/clients/rest"
)

var issueFilterRules = rest.Rules{
	"filter":    "oneof=assigned created mentioned subscribed all",
	"state":     "oneof=open closed all",
	"sort":      "oneof=created updated comments",
	"direction": "oneof=asc desc",
}

var (
	listIssues = rest.Endpoint{
		Method: http.MethodGet,
		Path:   "/issues",
		Rules:  issueFilterRules,
	}
	listUserIssues = rest.Endpoint{
		Method: http.MethodGet,
		Path:   "/user/issues",
		Rules:  issueFilterRules,
	}
	listOrgIssues = rest.Endpoint{
		Method: http.MethodGet,
		Path:   "/orgs/{org}/issues",
		Rules:  issueFilterRules,
	}
	listRepoIssues = rest.Endpoint{
		Method: http.MethodGet,
		Path:   "/repos/{user}/{repo}/issues",
		Rules:  issueFilterRules,
	}
	getIssue = rest.Endpoint{
		Method: http.MethodGet,
		Path:   "/repos/{user}/{repo}/issues/{number}",
	}
	createIssue = rest.Endpoint{
		Method:   http.MethodPost,
		Path:     "/repos/{user}/{repo}/issues",
		Required: []string{"title"},
	}
	editIssue = rest.Endpoint{
		Method: http.MethodPatch,
		Path:   "/repos/{user}/{repo}/issues/{number}",
		Rules:  rest.Rules{"state": "oneof=open closed"},
	}
)

// Issues is the Issues API. Its sub-services share the same connection
// and credentials.
type Issues struct {
	adapter *acl.Adapter

	Comments   *Comments
	Events     *Events
	Labels     *Labels
	Milestones *Milestones
}

func newIssues(adapter *acl.Adapter) *Issues {
	return &Issues{
		adapter:    adapter,
		Comments:   &Comments{adapter: adapter},
		Events:     &Events{adapter: adapter},
		Labels:     &Labels{adapter: adapter},
		Milestones: &Milestones{adapter: adapter},
	}
}

// List lists issues assigned to the authenticated user across all visible
// repositories. params may carry filter, state, labels, sort, direction,
// since, milestone, assignee, mentioned and creator.
func (s *Issues) List(ctx context.Context, params Params, page *ListOptions) ([]Issue, error) {
	return many(ctx, s.adapter, acl.Call{
		Endpoint:  listIssues,
		Params:    params,
		List:      page,
		Operation: "list issues",
	}, asIssue)
}

// ListForUser lists issues across the authenticated user's owned and
// member repositories.
func (s *Issues) ListForUser(ctx context.Context, params Params, page *ListOptions) ([]Issue, error) {
	return many(ctx, s.adapter, acl.Call{
		Endpoint:  listUserIssues,
		Params:    params,
		List:      page,
		Operation: "list user issues",
	}, asIssue)
}

// ListForOrg lists the authenticated user's issues in an organization.
func (s *Issues) ListForOrg(ctx context.Context, org string, params Params, page *ListOptions) ([]Issue, error) {
	return many(ctx, s.adapter, acl.Call{
		Endpoint:  listOrgIssues,
		Args:      []any{org},
		Params:    params,
		List:      page,
		Operation: "list org issues",
	}, asIssue)
}

// ListForRepo lists issues in a repository.
func (s *Issues) ListForRepo(ctx context.Context, user, repo string, params Params, page *ListOptions) ([]Issue, error) {
	return many(ctx, s.adapter, acl.Call{
		Endpoint:  listRepoIssues,
		Args:      []any{user, repo},
		Params:    params,
		List:      page,
		Operation: "list repo issues",
	}, asIssue)
}

// Get fetches a single issue.
func (s *Issues) Get(ctx context.Context, user, repo string, number int64) (*Issue, error) {
	return one(ctx, s.adapter, acl.Call{
		Endpoint:  getIssue,
		Args:      []any{user, repo, number},
		Operation: "get issue",
	}, asIssue)
}

// Create opens an issue. title is required; body, assignee, assignees,
// milestone and labels are optional.
func (s *Issues) Create(ctx context.Context, user, repo string, params Params) (*Issue, error) {
	return one(ctx, s.adapter, acl.Call{
		Endpoint:  createIssue,
		Args:      []any{user, repo},
		Params:    params,
		Operation: "create issue",
	}, asIssue)
}

// Edit updates an issue. Setting state to "closed" closes it.
func (s *Issues) Edit(ctx context.Context, user, repo string, number int64, params Params) (*Issue, error) {
	return one(ctx, s.adapter, acl.Call{
		Endpoint:  editIssue,
		Args:      []any{user, repo, number},
		Params:    params,
		Operation: "edit issue",
	}, asIssue)
}
