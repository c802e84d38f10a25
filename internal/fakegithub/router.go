package fakegithub

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/jsamuelsen/go-github-issues/internal/platform/logging"
	"github.com/jsamuelsen/go-github-issues/internal/platform/telemetry"
)

// HeaderRequestID is echoed back on every response, as GitHub does.
const HeaderRequestID = "X-GitHub-Request-Id"

// routes registers middleware and endpoints. The metrics endpoint sits
// behind recovery only. API middleware order:
//  1. Recovery
//  2. Request recording
//  3. Request ID
//  4. OpenTelemetry
//  5. Metrics
//  6. Logging
//  7. Authentication
func (s *Server) routes() {
	s.engine.Use(s.recovery())
	s.engine.GET(MetricsPath, gin.WrapH(s.metrics.handler()))

	s.engine.Use(
		s.record,
		s.requestID(),
		otelgin.Middleware("fake-github", otelgin.WithPropagators(telemetry.Propagator())),
		s.metrics.middleware(),
		s.logging(),
		s.authenticate(),
	)

	repo := s.engine.Group("/repos/:owner/:repo", s.requireRepository)
	repo.GET("/issues", s.handleListIssues)
	repo.POST("/issues", s.handleCreateIssue)
	repo.GET("/issues/:number", s.handleGetIssue)
	repo.PATCH("/issues/:number", s.handleEditIssue)
	repo.GET("/issues/:number/comments", s.handleListComments)
	repo.POST("/issues/:number/comments", s.handleCreateComment)
	repo.GET("/issues/:number/labels", s.handleListIssueLabels)
	repo.POST("/issues/:number/labels", s.handleAddIssueLabels)
	repo.DELETE("/issues/:number/labels/:name", s.handleRemoveIssueLabel)

	s.engine.NoRoute(notFound)
}

func (s *Server) recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logging.FromContext(c.Request.Context()).Error("panic recovered",
					slog.Any("error", r),
					slog.String("stack", string(debug.Stack())),
					slog.String("path", c.Request.URL.Path),
				)

				if !c.Writer.Written() {
					abortWithError(c, http.StatusInternalServerError, "Server Error")
				} else {
					c.Abort()
				}
			}
		}()

		c.Next()
	}
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		c.Header(HeaderRequestID, id)

		ctx := logging.WithContext(c.Request.Context(), s.logger)
		c.Request = c.Request.WithContext(logging.WithRequestID(ctx, id))

		c.Next()
	}
}

func (s *Server) logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logging.FromContext(c.Request.Context()).Info("request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

// authenticate accepts "Bearer" and the legacy "token" scheme.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.token == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		scheme, credential, _ := strings.Cut(header, " ")

		switch {
		case strings.EqualFold(scheme, "bearer"), strings.EqualFold(scheme, "token"):
			if credential == s.token {
				c.Next()
				return
			}
		}

		abortWithError(c, http.StatusUnauthorized, "Bad credentials")
	}
}

func (s *Server) requireRepository(c *gin.Context) {
	if !s.store.hasRepository(c.Param("owner"), c.Param("repo")) {
		notFound(c)
		return
	}
	c.Next()
}
