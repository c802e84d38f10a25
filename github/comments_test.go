package github

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComments(t *testing.T) {
	ctx := context.Background()
	comment := fixture(t, "comment.json")

	t.Run("list", func(t *testing.T) {
		client, mock := setup(t)
		mock.RegisterResponderWithQuery(http.MethodGet, repoIssues+"/1347/comments", "per_page=5",
			httpmock.NewStringResponder(http.StatusOK, "["+string(comment)+"]"))

		comments, err := client.Issues.Comments.List(ctx, "octocat", "Hello-World", 1347, &ListOptions{PerPage: 5})
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, "Me too", comments[0].Body())
	})

	t.Run("get", func(t *testing.T) {
		client, mock := setup(t)
		mock.RegisterResponder(http.MethodGet, repoIssues+"/comments/1", httpmock.NewBytesResponder(http.StatusOK, comment))

		c, err := client.Issues.Comments.Get(ctx, "octocat", "Hello-World", 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), c.ID())
		assert.Equal(t, "octocat", c.User().Login())
		assert.Equal(t, 2011, c.CreatedAt().Year())
	})

	t.Run("create", func(t *testing.T) {
		client, mock := setup(t)

		var req *http.Request
		var body []byte
		mock.RegisterResponder(http.MethodPost, repoIssues+"/1347/comments",
			capture(http.StatusCreated, comment, &req, &body))

		c, err := client.Issues.Comments.Create(ctx, "octocat", "Hello-World", 1347, Params{"body": "Me too"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"body":"Me too"}`, string(body))
		assert.Contains(t, c.HTMLURL(), "issuecomment-1")
	})

	t.Run("create without body", func(t *testing.T) {
		client, mock := setup(t)
		mock.RegisterNoResponder(httpmock.NewStringResponder(http.StatusCreated, `{}`))

		_, err := client.Issues.Comments.Create(ctx, "octocat", "Hello-World", 1347, Params{})
		require.ErrorIs(t, err, ErrRequiredParams)
		assert.Zero(t, mock.GetTotalCallCount())
	})

	t.Run("edit", func(t *testing.T) {
		client, mock := setup(t)

		var req *http.Request
		var body []byte
		mock.RegisterResponder(http.MethodPatch, repoIssues+"/comments/1",
			capture(http.StatusOK, comment, &req, &body))

		_, err := client.Issues.Comments.Edit(ctx, "octocat", "Hello-World", 1, Params{"body": "Edited"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"body":"Edited"}`, string(body))
	})

	t.Run("edit without body", func(t *testing.T) {
		client, mock := setup(t)
		mock.RegisterNoResponder(httpmock.NewStringResponder(http.StatusOK, `{}`))

		_, err := client.Issues.Comments.Edit(ctx, "octocat", "Hello-World", 1, nil)
		require.ErrorIs(t, err, ErrRequiredParams)
		assert.Zero(t, mock.GetTotalCallCount())
	})

	t.Run("delete", func(t *testing.T) {
		client, mock := setup(t)
		mock.RegisterResponder(http.MethodDelete, repoIssues+"/comments/1",
			httpmock.NewStringResponder(http.StatusNoContent, ""))

		require.NoError(t, client.Issues.Comments.Delete(ctx, "octocat", "Hello-World", 1))
		assert.Equal(t, 1, mock.GetTotalCallCount())
	})

	t.Run("delete missing", func(t *testing.T) {
		client, mock := setup(t)
		mock.RegisterResponder(http.MethodDelete, repoIssues+"/comments/9",
			httpmock.NewStringResponder(http.StatusNotFound, `{"message":"Not Found"}`))

		err := client.Issues.Comments.Delete(ctx, "octocat", "Hello-World", 9)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
