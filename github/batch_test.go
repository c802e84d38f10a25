package github

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssues_GetMany_KeepsOrder(t *testing.T) {
	client, mock := setup(t)

	for _, n := range []int{3, 1, 2} {
		mock.RegisterResponder(http.MethodGet, fmt.Sprintf("%s/%d", repoIssues, n),
			httpmock.NewStringResponder(http.StatusOK, fmt.Sprintf(`{"number":%d,"title":"issue %d"}`, n, n)))
	}

	issues, err := client.Issues.GetMany(context.Background(), "octocat", "Hello-World", 3, 1, 2)
	require.NoError(t, err)
	require.Len(t, issues, 3)

	assert.Equal(t, int64(3), issues[0].Number())
	assert.Equal(t, int64(1), issues[1].Number())
	assert.Equal(t, "issue 2", issues[2].Title())
	assert.Equal(t, 3, mock.GetTotalCallCount())
}

func TestIssues_GetMany_Empty(t *testing.T) {
	client, mock := setup(t)

	issues, err := client.Issues.GetMany(context.Background(), "octocat", "Hello-World")
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Zero(t, mock.GetTotalCallCount())
}

func TestIssues_GetMany_FirstErrorWins(t *testing.T) {
	client, mock := setup(t)

	mock.RegisterResponder(http.MethodGet, repoIssues+"/1",
		httpmock.NewStringResponder(http.StatusOK, `{"number":1}`))
	mock.RegisterResponder(http.MethodGet, repoIssues+"/404",
		httpmock.NewStringResponder(http.StatusNotFound, `{"message":"Not Found"}`))

	_, err := client.Issues.GetMany(context.Background(), "octocat", "Hello-World", 1, 404)

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "issue 404")
}

func TestIssues_GetManyLimit_BoundsConcurrency(t *testing.T) {
	client, mock := setup(t)

	var inFlight, peak atomic.Int32
	mock.RegisterRegexpResponder(http.MethodGet, regexp.MustCompile(`/issues/\d+$`),
		func(req *http.Request) (*http.Response, error) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)

			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)

			return httpmock.NewStringResponse(http.StatusOK, `{"number":1}`), nil
		})

	numbers := []int64{1, 2, 3, 4, 5, 6, 7, 8}
	issues, err := client.Issues.GetManyLimit(context.Background(), 2, "octocat", "Hello-World", numbers...)
	require.NoError(t, err)

	assert.Len(t, issues, len(numbers))
	assert.LessOrEqual(t, peak.Load(), int32(2))
}
