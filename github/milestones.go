package github

import (
	"context"
	"net/http"

	"github.com/jsamuelsen/go-github-issues/internal/adapters/clients/acl"
	"github.com/jsamuelsen/go-github-issues/internal/adapters/clients/rest"
)

var (
	listMilestones = rest.Endpoint{
		Method: http.MethodGet,
		Path:   "/repos/{user}/{repo}/milestones",
		Rules: rest.Rules{
			"state":     "oneof=open closed all",
			"sort":      "oneof=due_on completeness",
			"direction": "oneof=asc desc",
		},
	}
	getMilestone = rest.Endpoint{
		Method: http.MethodGet,
		Path:   "/repos/{user}/{repo}/milestones/{number}",
	}
	createMilestone = rest.Endpoint{
		Method:   http.MethodPost,
		Path:     "/repos/{user}/{repo}/milestones",
		Required: []string{"title"},
		Rules:    rest.Rules{"state": "oneof=open closed"},
	}
	updateMilestone = rest.Endpoint{
		Method: http.MethodPatch,
		Path:   "/repos/{user}/{repo}/milestones/{number}",
		Rules:  rest.Rules{"state": "oneof=open closed"},
	}
	deleteMilestone = rest.Endpoint{
		Method: http.MethodDelete,
		Path:   "/repos/{user}/{repo}/milestones/{number}",
	}
)

// Milestones is the milestones API.
type Milestones struct {
	adapter *acl.Adapter
}

// List lists a repository's milestones. params may carry state, sort
// (due_on, completeness) and direction.
func (s *Milestones) List(ctx context.Context, user, repo string, params Params, page *ListOptions) ([]Milestone, error) {
	return many(ctx, s.adapter, acl.Call{
		Endpoint:  listMilestones,
		Args:      []any{user, repo},
		Params:    params,
		List:      page,
		Operation: "list milestones",
	}, asMilestone)
}

// Get fetches a milestone by number.
func (s *Milestones) Get(ctx context.Context, user, repo string, number int64) (*Milestone, error) {
	return one(ctx, s.adapter, acl.Call{
		Endpoint:  getMilestone,
		Args:      []any{user, repo, number},
		Operation: "get milestone",
	}, asMilestone)
}

// Create creates a milestone. title is required.
func (s *Milestones) Create(ctx context.Context, user, repo string, params Params) (*Milestone, error) {
	return one(ctx, s.adapter, acl.Call{
		Endpoint:  createMilestone,
		Args:      []any{user, repo},
		Params:    params,
		Operation: "create milestone",
	}, asMilestone)
}

// Update changes a milestone's title, state, description or due date.
func (s *Milestones) Update(ctx context.Context, user, repo string, number int64, params Params) (*Milestone, error) {
	return one(ctx, s.adapter, acl.Call{
		Endpoint:  updateMilestone,
		Args:      []any{user, repo, number},
		Params:    params,
		Operation: "update milestone",
	}, asMilestone)
}

// Delete deletes a milestone.
func (s *Milestones) Delete(ctx context.Context, user, repo string, number int64) error {
	return s.adapter.Exec(ctx, acl.Call{
		Endpoint:  deleteMilestone,
		Args:      []any{user, repo, number},
		Operation: "delete milestone",
	})
}
