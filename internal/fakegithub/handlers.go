package fakegithub

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleListIssues(c *gin.Context) {
	state := c.DefaultQuery("state", "open")
	switch state {
	case "open", "closed", "all":
	default:
		validationFailed(c, fieldError{Resource: "Issue", Field: "state", Code: "invalid"})
		return
	}

	issues, ok := s.store.listIssues(c.Param("owner"), c.Param("repo"), state)
	if !ok {
		notFound(c)
		return
	}

	c.JSON(http.StatusOK, paginate(c, issues))
}

func (s *Server) handleCreateIssue(c *gin.Context) {
	var in issueInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Problems parsing JSON")
		return
	}

	iss, errs, ok := s.store.createIssue(c.Param("owner"), c.Param("repo"), in)
	switch {
	case !ok:
		notFound(c)
	case len(errs) > 0:
		validationFailed(c, errs...)
	default:
		c.JSON(http.StatusCreated, iss)
	}
}

func (s *Server) handleGetIssue(c *gin.Context) {
	number, ok := issueNumber(c)
	if !ok {
		return
	}

	iss, ok := s.store.Issue(c.Param("owner"), c.Param("repo"), number)
	if !ok {
		notFound(c)
		return
	}

	c.JSON(http.StatusOK, iss)
}

func (s *Server) handleEditIssue(c *gin.Context) {
	number, ok := issueNumber(c)
	if !ok {
		return
	}

	var in issueInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Problems parsing JSON")
		return
	}

	iss, errs, ok := s.store.editIssue(c.Param("owner"), c.Param("repo"), number, in)
	switch {
	case !ok:
		notFound(c)
	case len(errs) > 0:
		validationFailed(c, errs...)
	default:
		c.JSON(http.StatusOK, iss)
	}
}

func (s *Server) handleListComments(c *gin.Context) {
	number, ok := issueNumber(c)
	if !ok {
		return
	}

	comments, ok := s.store.listComments(c.Param("owner"), c.Param("repo"), number)
	if !ok {
		notFound(c)
		return
	}

	c.JSON(http.StatusOK, paginate(c, comments))
}

func (s *Server) handleCreateComment(c *gin.Context) {
	number, ok := issueNumber(c)
	if !ok {
		return
	}

	var in struct {
		Body string `json:"body"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Problems parsing JSON")
		return
	}
	if in.Body == "" {
		validationFailed(c, fieldError{Resource: "IssueComment", Field: "body", Code: "missing_field"})
		return
	}

	comment, ok := s.store.createComment(c.Param("owner"), c.Param("repo"), number, in.Body)
	if !ok {
		notFound(c)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (s *Server) handleListIssueLabels(c *gin.Context) {
	number, ok := issueNumber(c)
	if !ok {
		return
	}

	labels, ok := s.store.issueLabels(c.Param("owner"), c.Param("repo"), number)
	if !ok {
		notFound(c)
		return
	}

	c.JSON(http.StatusOK, labels)
}

// handleAddIssueLabels accepts a bare array or {"labels": [...]}.
func (s *Server) handleAddIssueLabels(c *gin.Context) {
	number, ok := issueNumber(c)
	if !ok {
		return
	}

	names, ok := labelNames(c)
	if !ok {
		badRequest(c, "Problems parsing JSON")
		return
	}
	if len(names) == 0 {
		validationFailed(c, fieldError{Resource: "Label", Field: "labels", Code: "missing_field"})
		return
	}

	labels, ok := s.store.addIssueLabels(c.Param("owner"), c.Param("repo"), number, names)
	if !ok {
		notFound(c)
		return
	}

	c.JSON(http.StatusOK, labels)
}

func (s *Server) handleRemoveIssueLabel(c *gin.Context) {
	number, ok := issueNumber(c)
	if !ok {
		return
	}

	labels, ok := s.store.removeIssueLabel(c.Param("owner"), c.Param("repo"), number, c.Param("name"))
	if !ok {
		notFound(c)
		return
	}

	c.JSON(http.StatusOK, labels)
}

func issueNumber(c *gin.Context) (int64, bool) {
	number, err := strconv.ParseInt(c.Param("number"), 10, 64)
	if err != nil || number <= 0 {
		notFound(c)
		return 0, false
	}
	return number, true
}

func labelNames(c *gin.Context) ([]string, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, false
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err == nil {
		return names, true
	}

	var wrapped struct {
		Labels []string `json:"labels"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, false
	}
	return wrapped.Labels, true
}

// paginate slices items by the page and per_page query parameters.
func paginate[T any](c *gin.Context, items []T) []T {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "30"))
	if err != nil || perPage < 1 {
		perPage = 30
	}
	perPage = min(perPage, 100)

	start := (page - 1) * perPage
	if start >= len(items) {
		return []T{}
	}
	return items[start:min(start+perPage, len(items))]
}
