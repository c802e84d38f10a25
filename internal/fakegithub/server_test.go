package fakegithub

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, s *Server, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func newRepoServer(t *testing.T, opts ...Option) *Server {
	t.Helper()

	s := New(opts...)
	s.Store().AddRepository("octocat", "hello-world")
	return s
}

func TestServer_CreateAndGetIssue(t *testing.T) {
	s := newRepoServer(t)

	rec := do(t, s, http.MethodPost, "/repos/octocat/hello-world/issues",
		`{"title":"Found a bug","body":"It crashes","labels":["bug"],"assignees":["octocat"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))

	created := decode[Issue](t, rec)
	assert.Equal(t, int64(1), created.Number)
	assert.Equal(t, "open", created.State)
	require.Len(t, created.Labels, 1)
	assert.Equal(t, "bug", created.Labels[0].Name)
	require.NotNil(t, created.Assignee)
	assert.Equal(t, "octocat", created.Assignee.Login)

	rec = do(t, s, http.MethodGet, "/repos/octocat/hello-world/issues/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Found a bug", decode[Issue](t, rec).Title)
}

func TestServer_CreateIssueValidation(t *testing.T) {
	s := newRepoServer(t)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "missing title", body: `{"body":"x"}`, field: "title"},
		{name: "unknown assignee", body: `{"title":"t","assignee":"nobody"}`, field: "assignee"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/repos/octocat/hello-world/issues", tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

			body := decode[errorBody](t, rec)
			assert.Equal(t, "Validation Failed", body.Message)
			require.Len(t, body.Errors, 1)
			assert.Equal(t, tt.field, body.Errors[0].Field)
		})
	}

	assert.Zero(t, s.Store().IssueCount("octocat", "hello-world"))
}

func TestServer_EditIssue(t *testing.T) {
	s := newRepoServer(t)
	do(t, s, http.MethodPost, "/repos/octocat/hello-world/issues", `{"title":"t"}`)

	rec := do(t, s, http.MethodPatch, "/repos/octocat/hello-world/issues/1", `{"state":"closed"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	edited := decode[Issue](t, rec)
	assert.Equal(t, "closed", edited.State)
	assert.NotNil(t, edited.ClosedAt)
	assert.Equal(t, "t", edited.Title)

	rec = do(t, s, http.MethodPatch, "/repos/octocat/hello-world/issues/99", `{"state":"closed"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", decode[errorBody](t, rec).Message)
}

func TestServer_ListIssuesByState(t *testing.T) {
	s := newRepoServer(t)
	do(t, s, http.MethodPost, "/repos/octocat/hello-world/issues", `{"title":"one"}`)
	do(t, s, http.MethodPost, "/repos/octocat/hello-world/issues", `{"title":"two"}`)
	do(t, s, http.MethodPatch, "/repos/octocat/hello-world/issues/1", `{"state":"closed"}`)

	open := decode[[]Issue](t, do(t, s, http.MethodGet, "/repos/octocat/hello-world/issues", ""))
	require.Len(t, open, 1)
	assert.Equal(t, "two", open[0].Title)

	all := decode[[]Issue](t, do(t, s, http.MethodGet, "/repos/octocat/hello-world/issues?state=all", ""))
	assert.Len(t, all, 2)

	paged := decode[[]Issue](t, do(t, s, http.MethodGet, "/repos/octocat/hello-world/issues?state=all&page=2&per_page=1", ""))
	require.Len(t, paged, 1)
	assert.Equal(t, int64(1), paged[0].Number)
}

func TestServer_CommentsAndLabels(t *testing.T) {
	s := newRepoServer(t)
	do(t, s, http.MethodPost, "/repos/octocat/hello-world/issues", `{"title":"t"}`)

	rec := do(t, s, http.MethodPost, "/repos/octocat/hello-world/issues/1/comments", `{"body":"Me too"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	comments := decode[[]Comment](t, do(t, s, http.MethodGet, "/repos/octocat/hello-world/issues/1/comments", ""))
	require.Len(t, comments, 1)
	assert.Equal(t, "Me too", comments[0].Body)

	iss, ok := s.Store().Issue("octocat", "hello-world", 1)
	require.True(t, ok)
	assert.Equal(t, 1, iss.Comments)

	rec = do(t, s, http.MethodPost, "/repos/octocat/hello-world/issues/1/labels", `["bug","help wanted"]`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]Label](t, rec), 2)

	rec = do(t, s, http.MethodPost, "/repos/octocat/hello-world/issues/1/labels", `{"labels":["bug"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]Label](t, rec), 2)

	rec = do(t, s, http.MethodDelete, "/repos/octocat/hello-world/issues/1/labels/bug", "")
	require.Equal(t, http.StatusOK, rec.Code)
	labels := decode[[]Label](t, rec)
	require.Len(t, labels, 1)
	assert.Equal(t, "help wanted", labels[0].Name)
}

func TestServer_Authentication(t *testing.T) {
	s := newRepoServer(t, WithToken("s3cret"))

	rec := do(t, s, http.MethodGet, "/repos/octocat/hello-world/issues", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bad credentials", decode[errorBody](t, rec).Message)

	rec = do(t, s, http.MethodGet, "/repos/octocat/hello-world/issues", "", "Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodGet, "/repos/octocat/hello-world/issues", "", "Authorization", "Bearer s3cret")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/repos/octocat/hello-world/issues", "", "Authorization", "token s3cret")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_UnknownRepositoryAndRoute(t *testing.T) {
	s := newRepoServer(t)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/repos/octocat/missing/issues", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/nowhere", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/repos/octocat/hello-world/issues/abc", "").Code)
}

func TestServer_RecordsRequests(t *testing.T) {
	s := newRepoServer(t)

	do(t, s, http.MethodPost, "/repos/octocat/hello-world/issues?x=1", `{"title":"t"}`, "User-Agent", "issue-bot")

	require.Equal(t, 1, s.RequestCount())
	last, ok := s.LastRequest()
	require.True(t, ok)
	assert.Equal(t, http.MethodPost, last.Method)
	assert.Equal(t, "/repos/octocat/hello-world/issues", last.Path)
	assert.Equal(t, "x=1", last.Query)
	assert.Equal(t, "issue-bot", last.Header.Get("User-Agent"))
	assert.JSONEq(t, `{"title":"t"}`, string(last.Body))

	s.Reset()
	assert.Zero(t, s.RequestCount())
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/repos/octocat/hello-world/issues", "").Code)
}

func TestServer_StartAndClose(t *testing.T) {
	s := newRepoServer(t)
	assert.Empty(t, s.URL())

	url := s.Start()
	t.Cleanup(s.Close)

	assert.Equal(t, url, s.URL())

	resp, err := http.Get(url + "/repos/octocat/hello-world/issues")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_Metrics(t *testing.T) {
	s := newRepoServer(t, WithToken("s3cret"))

	do(t, s, http.MethodPost, "/repos/octocat/hello-world/issues", `{"title":"t"}`, "Authorization", "Bearer s3cret")
	do(t, s, http.MethodGet, "/repos/octocat/hello-world/issues/1", "", "Authorization", "Bearer s3cret")
	do(t, s, http.MethodGet, "/repos/octocat/hello-world/issues/1", "", "Authorization", "Bearer s3cret")
	do(t, s, http.MethodGet, "/repos/octocat/hello-world/issues", "")
	do(t, s, http.MethodGet, "/nowhere", "", "Authorization", "Bearer s3cret")

	rec := do(t, s, http.MethodGet, MetricsPath, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")

	body := rec.Body.String()
	assert.Contains(t, body, `fakegithub_requests_total{method="POST",route="/repos/:owner/:repo/issues",status="201"} 1`)
	assert.Contains(t, body, `fakegithub_requests_total{method="GET",route="/repos/:owner/:repo/issues/:number",status="200"} 2`)
	assert.Contains(t, body, `fakegithub_requests_total{method="GET",route="/repos/:owner/:repo/issues",status="401"} 1`)
	assert.Contains(t, body, `fakegithub_requests_total{method="GET",route="unmatched",status="404"} 1`)
	assert.Contains(t, body, "fakegithub_request_duration_seconds_count")

	assert.Equal(t, 5, s.RequestCount(), "metrics scrapes are not recorded")
}
