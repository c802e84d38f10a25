package github

import (
	"context"
	"net/http"

	"github.com/jsamuelsen/go-github-issues/internal/adapters/clients/acl"
	"github.com/jsamuelsen/go-github-issues/internal/adapters/clients/rest"
	"github.com/jsamuelsen/go-github-issues/internal/domain"
)

var labelRules = rest.Rules{"color": "len=6,hexadecimal"}

var (
	listLabels = rest.Endpoint{
		Method: http.MethodGet,
		Path:   "/repos/{user}/{repo}/labels",
	}
	getLabel = rest.Endpoint{
		Method: http.MethodGet,
		Path:   "/repos/{user}/{repo}/labels/{name}",
	}
	createLabel = rest.Endpoint{
		Method:   http.MethodPost,
		Path:     "/repos/{user}/{repo}/labels",
		Required: []string{"name", "color"},
		Rules:    labelRules,
	}
	updateLabel = rest.Endpoint{
		Method:   http.MethodPatch,
		Path:     "/repos/{user}/{repo}/labels/{name}",
		Required: []string{"name", "color"},
		Rules:    labelRules,
	}
	deleteLabel = rest.Endpoint{
		Method: http.MethodDelete,
		Path:   "/repos/{user}/{repo}/labels/{name}",
	}
	listIssueLabels = rest.Endpoint{
		Method: http.MethodGet,
		Path:   "/repos/{user}/{repo}/issues/{number}/labels",
	}
	addIssueLabels = rest.Endpoint{
		Method: http.MethodPost,
		Path:   "/repos/{user}/{repo}/issues/{number}/labels",
	}
	removeIssueLabel = rest.Endpoint{
		Method: http.MethodDelete,
		Path:   "/repos/{user}/{repo}/issues/{number}/labels/{name}",
	}
	replaceIssueLabels = rest.Endpoint{
		Method: http.MethodPut,
		Path:   "/repos/{user}/{repo}/issues/{number}/labels",
	}
	removeAllIssueLabels = rest.Endpoint{
		Method: http.MethodDelete,
		Path:   "/repos/{user}/{repo}/issues/{number}/labels",
	}
	listMilestoneLabels = rest.Endpoint{
		Method: http.MethodGet,
		Path:   "/repos/{user}/{repo}/milestones/{number}/labels",
	}
)

// Labels is the labels API, for both repository labels and the labels
// applied to an issue.
type Labels struct {
	adapter *acl.Adapter
}

// List lists a repository's labels.
func (s *Labels) List(ctx context.Context, user, repo string, page *ListOptions) ([]Label, error) {
	return many(ctx, s.adapter, acl.Call{
		Endpoint:  listLabels,
		Args:      []any{user, repo},
		List:      page,
		Operation: "list labels",
	}, asLabel)
}

// Get fetches a label by name.
func (s *Labels) Get(ctx context.Context, user, repo, name string) (*Label, error) {
	return one(ctx, s.adapter, acl.Call{
		Endpoint:  getLabel,
		Args:      []any{user, repo, name},
		Operation: "get label",
	}, asLabel)
}

// Create creates a label. name and color are required; color is six hex
// digits without the leading '#'.
func (s *Labels) Create(ctx context.Context, user, repo string, params Params) (*Label, error) {
	return one(ctx, s.adapter, acl.Call{
		Endpoint:  createLabel,
		Args:      []any{user, repo},
		Params:    params,
		Operation: "create label",
	}, asLabel)
}

// Update renames or recolors the label called name.
func (s *Labels) Update(ctx context.Context, user, repo, name string, params Params) (*Label, error) {
	return one(ctx, s.adapter, acl.Call{
		Endpoint:  updateLabel,
		Args:      []any{user, repo, name},
		Params:    params,
		Operation: "update label",
	}, asLabel)
}

// Delete deletes a label from the repository.
func (s *Labels) Delete(ctx context.Context, user, repo, name string) error {
	return s.adapter.Exec(ctx, acl.Call{
		Endpoint:  deleteLabel,
		Args:      []any{user, repo, name},
		Operation: "delete label",
	})
}

// ListForIssue lists the labels applied to an issue.
func (s *Labels) ListForIssue(ctx context.Context, user, repo string, number int64) ([]Label, error) {
	return many(ctx, s.adapter, acl.Call{
		Endpoint:  listIssueLabels,
		Args:      []any{user, repo, number},
		Operation: "list issue labels",
	}, asLabel)
}

// AddToIssue applies labels to an issue and returns the issue's full label set.
func (s *Labels) AddToIssue(ctx context.Context, user, repo string, number int64, labels ...string) ([]Label, error) {
	if len(labels) == 0 {
		return nil, domain.NewArgumentError("labels", "must not be empty")
	}

	return many(ctx, s.adapter, acl.Call{
		Endpoint:  addIssueLabels,
		Args:      []any{user, repo, number},
		Body:      labels,
		Operation: "add issue labels",
	}, asLabel)
}

// RemoveFromIssue removes one label from an issue and returns the labels left.
func (s *Labels) RemoveFromIssue(ctx context.Context, user, repo string, number int64, name string) ([]Label, error) {
	return many(ctx, s.adapter, acl.Call{
		Endpoint:  removeIssueLabel,
		Args:      []any{user, repo, number, name},
		Operation: "remove issue label",
	}, asLabel)
}

// ReplaceForIssue replaces every label on an issue. No labels clears them.
func (s *Labels) ReplaceForIssue(ctx context.Context, user, repo string, number int64, labels ...string) ([]Label, error) {
	if labels == nil {
		labels = []string{}
	}

	return many(ctx, s.adapter, acl.Call{
		Endpoint:  replaceIssueLabels,
		Args:      []any{user, repo, number},
		Body:      labels,
		Operation: "replace issue labels",
	}, asLabel)
}

// RemoveAllFromIssue removes every label from an issue.
func (s *Labels) RemoveAllFromIssue(ctx context.Context, user, repo string, number int64) error {
	return s.adapter.Exec(ctx, acl.Call{
		Endpoint:  removeAllIssueLabels,
		Args:      []any{user, repo, number},
		Operation: "remove all issue labels",
	})
}

// ListForMilestone lists the labels of every issue in a milestone.
func (s *Labels) ListForMilestone(ctx context.Context, user, repo string, number int64) ([]Label, error) {
	return many(ctx, s.adapter, acl.Call{
		Endpoint:  listMilestoneLabels,
		Args:      []any{user, repo, number},
		Operation: "list milestone labels",
	}, asLabel)
}
