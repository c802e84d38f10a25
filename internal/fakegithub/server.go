// Package fakegithub is an in-memory stand-in for the GitHub Issues REST API,
// served by gin. It implements the subset of endpoints the acceptance suite
// and the CLI tests drive, answers errors in GitHub's JSON shape, and records
// every request it receives.
package fakegithub

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"
)

// Request is a request as the server received it.
type Request struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// Option configures a Server.
type Option func(*Server)

// WithToken makes the server reject requests that do not carry
// "Authorization: Bearer <token>".
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// WithLogger sets the logger used for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// Server is a fake GitHub API.
type Server struct {
	engine  *gin.Engine
	http    *httptest.Server
	store   *Store
	token   string
	logger  *slog.Logger
	metrics *metrics

	mu       sync.Mutex
	requests []Request
}

// New creates a server with an empty store. Call Start to listen.
func New(opts ...Option) *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		engine:  gin.New(),
		store:   NewStore(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.routes()

	return s
}

// Start listens on a random loopback port and returns the base URL.
func (s *Server) Start() string {
	s.http = httptest.NewServer(s.engine)
	s.logger.Info("fake github listening", slog.String("url", s.http.URL))

	return s.http.URL
}

// URL returns the base URL, or "" before Start.
func (s *Server) URL() string {
	if s.http == nil {
		return ""
	}
	return s.http.URL
}

// Close stops the listener.
func (s *Server) Close() {
	if s.http != nil {
		s.http.Close()
	}
}

// Handler exposes the router for in-process use with httptest.NewRecorder.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Store returns the backing store, for seeding and inspection.
func (s *Server) Store() *Store {
	return s.store
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestCount returns how many requests were received.
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.requests)
}

// LastRequest returns the most recent request, or false when none arrived.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Reset forgets recorded requests and empties the store. Metrics keep
// counting across resets.
func (s *Server) Reset() {
	s.mu.Lock()
	s.requests = nil
	s.mu.Unlock()

	s.store.Reset()
}

func (s *Server) record(c *gin.Context) {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
	}

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.RawQuery,
		Header: c.Request.Header.Clone(),
		Body:   body,
	})
	s.mu.Unlock()
}
