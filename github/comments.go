package github

import (
	"context"
	"net/http"

	"github.com/jsamuelsen/go-github-issues/internal/adapters/clients/acl"
	"github.com/jsamuelsen/go-github-issues/internal/adapters/clients/rest"
)

var (
	listComments = rest.Endpoint{
		Method: http.MethodGet,
		Path:   "/repos/{user}/{repo}/issues/{number}/comments",
	}
	getComment = rest.Endpoint{
		Method: http.MethodGet,
		Path:   "/repos/{user}/{repo}/issues/comments/{id}",
	}
	createComment = rest.Endpoint{
		Method:   http.MethodPost,
		Path:     "/repos/{user}/{repo}/issues/{number}/comments",
		Required: []string{"body"},
	}
	editComment = rest.Endpoint{
		Method:   http.MethodPatch,
		Path:     "/repos/{user}/{repo}/issues/comments/{id}",
		Required: []string{"body"},
	}
	deleteComment = rest.Endpoint{
		Method: http.MethodDelete,
		Path:   "/repos/{user}/{repo}/issues/comments/{id}",
	}
)

// Comments is the issue comments API. Comments are addressed by issue
// number when listing or creating, and by comment id otherwise.
type Comments struct {
	adapter *acl.Adapter
}

// List lists the comments on an issue.
func (s *Comments) List(ctx context.Context, user, repo string, number int64, page *ListOptions) ([]Comment, error) {
	return many(ctx, s.adapter, acl.Call{
		Endpoint:  listComments,
		Args:      []any{user, repo, number},
		List:      page,
		Operation: "list comments",
	}, asComment)
}

// Get fetches a single comment.
func (s *Comments) Get(ctx context.Context, user, repo string, id int64) (*Comment, error) {
	return one(ctx, s.adapter, acl.Call{
		Endpoint:  getComment,
		Args:      []any{user, repo, id},
		Operation: "get comment",
	}, asComment)
}

// Create comments on an issue. body is required.
func (s *Comments) Create(ctx context.Context, user, repo string, number int64, params Params) (*Comment, error) {
	return one(ctx, s.adapter, acl.Call{
		Endpoint:  createComment,
		Args:      []any{user, repo, number},
		Params:    params,
		Operation: "create comment",
	}, asComment)
}

// Edit replaces a comment's body. body is required.
func (s *Comments) Edit(ctx context.Context, user, repo string, id int64, params Params) (*Comment, error) {
	return one(ctx, s.adapter, acl.Call{
		Endpoint:  editComment,
		Args:      []any{user, repo, id},
		Params:    params,
		Operation: "edit comment",
	}, asComment)
}

// Delete deletes a comment.
func (s *Comments) Delete(ctx context.Context, user, repo string, id int64) error {
	return s.adapter.Exec(ctx, acl.Call{
		Endpoint:  deleteComment,
		Args:      []any{user, repo, id},
		Operation: "delete comment",
	})
}
