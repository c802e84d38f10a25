package github

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvents(t *testing.T) {
	ctx := context.Background()
	event := fixture(t, "event.json")

	t.Run("list for repository", func(t *testing.T) {
		client, mock := setup(t)
		mock.RegisterResponder(http.MethodGet, repoIssues+"/events",
			httpmock.NewStringResponder(http.StatusOK, "["+string(event)+"]"))

		events, err := client.Issues.Events.List(ctx, "octocat", "Hello-World", nil)
		require.NoError(t, err)
		require.Len(t, events, 1)

		assert.Equal(t, "closed", events[0].Event())
		require.NotNil(t, events[0].Issue())
		assert.Equal(t, int64(1347), events[0].Issue().Number())
	})

	t.Run("list for issue", func(t *testing.T) {
		client, mock := setup(t)
		mock.RegisterResponder(http.MethodGet, repoIssues+"/1347/events",
			httpmock.NewStringResponder(http.StatusOK, `[{"id":2,"event":"labeled","actor":{"login":"hubot"}}]`))

		events, err := client.Issues.Events.ListForIssue(ctx, "octocat", "Hello-World", 1347, nil)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "hubot", events[0].Actor().Login())
		assert.Nil(t, events[0].Issue())
	})

	t.Run("get", func(t *testing.T) {
		client, mock := setup(t)
		mock.RegisterResponder(http.MethodGet, repoIssues+"/events/1", httpmock.NewBytesResponder(http.StatusOK, event))

		e, err := client.Issues.Events.Get(ctx, "octocat", "Hello-World", 1)
		require.NoError(t, err)
		assert.Equal(t, "6dcb09b5b57875f334f61aebed695e2e4193db5e", e.CommitID())
		assert.False(t, e.CreatedAt().IsZero())
	})

	t.Run("empty repo argument", func(t *testing.T) {
		client, mock := setup(t)
		mock.RegisterNoResponder(httpmock.NewStringResponder(http.StatusOK, `[]`))

		_, err := client.Issues.Events.List(ctx, "octocat", "  ", nil)
		require.ErrorIs(t, err, ErrInvalidArgument)
		assert.Zero(t, mock.GetTotalCallCount())
	})
}
