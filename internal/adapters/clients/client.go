package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"

	"github.com/jsamuelsen/go-github-issues/internal/domain"
	"github.com/jsamuelsen/go-github-issues/internal/platform/config"
	"github.com/jsamuelsen/go-github-issues/internal/platform/logging"
)

const (
	// instrumentationName is used for OpenTelemetry tracer and meter.
	instrumentationName = "github.com/jsamuelsen/go-github-issues/internal/adapters/clients"

	// httpStatusCategoryDivisor divides status code to get category (2xx, 4xx, 5xx).
	httpStatusCategoryDivisor = 100

	// DefaultBaseURL is the public GitHub REST endpoint.
	DefaultBaseURL = "https://api.github.com"

	// DefaultUserAgent is sent when Config.UserAgent is empty.
	DefaultUserAgent = "go-github-issues"

	// MediaType is the Accept header GitHub recommends for REST v3.
	MediaType = "application/vnd.github+json"

	// APIVersion pins the REST API version.
	APIVersion = "2022-11-28"

	// defaultTimeout is the default request timeout if not configured.
	defaultTimeout = 30 * time.Second

	// defaultServiceName labels logs, spans and metrics.
	defaultServiceName = "github"
)

// Header names set on every request.
const (
	HeaderRequestID  = "X-Request-ID"
	HeaderAPIVersion = "X-GitHub-Api-Version"
)

// Config configures an HTTP client instance.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.github.com" or a GitHub
	// Enterprise "https://ghe.example.com/api/v3". Defaults to DefaultBaseURL.
	BaseURL string

	// ServiceName identifies the downstream service for logging and tracing.
	ServiceName string

	// UserAgent is sent with every request. GitHub rejects requests without one.
	UserAgent string

	// Timeout bounds each request.
	Timeout time.Duration

	// Transport tunes the connection pool of the default base transport.
	Transport config.TransportConfig

	// BaseTransport replaces the default connection-pooling transport.
	// Tests install a mock here.
	BaseTransport http.RoundTripper

	// Token authenticates with "Authorization: Bearer <token>" via oauth2.
	Token string

	// AuthFunc is an optional function to inject authentication into
	// requests, e.g. HTTP Basic credentials. Applied after Token.
	AuthFunc func(*http.Request)

	// Logger is used for request logs when the request context carries no
	// logger. If nil, the default logger is used.
	Logger *slog.Logger
}

// Client is an instrumented HTTP client for the GitHub REST API.
// It provides:
//   - Credential, User-Agent, Accept and request ID headers
//   - OpenTelemetry tracing and metrics
//   - Structured logging
//
// Each call issues exactly one HTTP request; failures are never retried.
type Client struct {
	http        *http.Client
	baseURL     string
	serviceName string
	userAgent   string
	authFunc    func(*http.Request)
	logger      *slog.Logger

	tracer trace.Tracer

	// Metrics
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
}

// New creates a new instrumented HTTP client.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("base url %q must be an http(s) URL", cfg.BaseURL)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	// Set up logger
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Initialize telemetry
	tracer := otel.Tracer(instrumentationName)
	meter := otel.Meter(instrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("Duration of HTTP client requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration metric: %w", err)
	}

	requestTotal, err := meter.Int64Counter(
		"http.client.request.total",
		metric.WithDescription("Total number of HTTP client requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: newTransport(cfg),
		},
		baseURL:         baseURL,
		serviceName:     serviceName,
		userAgent:       userAgent,
		authFunc:        cfg.AuthFunc,
		logger:          logger,
		tracer:          tracer,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
	}, nil
}

// newTransport builds the round tripper chain: pool (or injected base), then
// oauth2 when a token is configured.
func newTransport(cfg *Config) http.RoundTripper {
	base := cfg.BaseTransport
	if base == nil {
		pool := config.DefaultTransportConfig()
		if cfg.Transport.MaxIdleConns > 0 {
			pool = cfg.Transport
		}

		base = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        pool.MaxIdleConns,
			MaxIdleConnsPerHost: pool.MaxIdleConnsPerHost,
			IdleConnTimeout:     pool.IdleConnTimeout,
		}
	}

	if cfg.Token == "" {
		return base
	}

	return &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"}),
		Base:   base,
	}
}

// Do sends req exactly once with headers, tracing and logging applied.
// Any response, whatever its status, is returned to the caller; only
// transport failures produce an error, always a *domain.NetworkError.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	startTime := time.Now()

	ctx, requestID := ensureRequestID(ctx)
	logger := logging.FromContextOr(ctx, c.logger).With(
		slog.String("downstream", c.serviceName),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.String("request_id", requestID),
	)

	c.injectHeaders(req, requestID)

	// Create span
	ctx, span := c.tracer.Start(ctx, fmt.Sprintf("HTTP %s %s", req.Method, c.serviceName),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.String("peer.service", c.serviceName),
		),
	)
	defer span.End()

	// Propagate trace context
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	logger.Log(ctx, logging.LevelTrace, "sending request", slog.String("url", req.URL.String()))

	resp, err := c.http.Do(req.WithContext(ctx))
	duration := time.Since(startTime)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.recordMetrics(ctx, req.Method, 0, duration, "error")
		logger.WarnContext(ctx, "request failed",
			slog.Duration("duration", duration),
			slog.Any("error", err),
		)

		return nil, domain.NewNetworkError(req.Method, redactURL(req), err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	statusCategory := fmt.Sprintf("%dxx", resp.StatusCode/httpStatusCategoryDivisor)
	c.recordMetrics(ctx, req.Method, resp.StatusCode, duration, statusCategory)

	logger.DebugContext(ctx, "request completed",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", duration),
	)

	return resp, nil
}

// URL joins the base URL with an absolute API path.
func (c *Client) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return c.baseURL + path
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ServiceName returns the name used in logs and spans.
func (c *Client) ServiceName() string {
	return c.serviceName
}

// Logger returns the logger used when a request context carries none.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// injectHeaders adds protocol, identity and auth headers to the request.
func (c *Client) injectHeaders(req *http.Request, requestID string) {
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", MediaType)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(HeaderAPIVersion, APIVersion)
	req.Header.Set(HeaderRequestID, requestID)

	// Inject auth if configured
	if c.authFunc != nil {
		c.authFunc(req)
	}
}

// recordMetrics records request metrics.
func (c *Client) recordMetrics(ctx context.Context, method string, statusCode int, duration time.Duration, result string) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("peer.service", c.serviceName),
		attribute.String("result", result),
	}

	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	c.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	c.requestTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// ensureRequestID returns the request ID carried by ctx, generating one when
// absent.
func ensureRequestID(ctx context.Context) (context.Context, string) {
	if id := RequestIDFromContext(ctx); id != "" {
		return ctx, id
	}

	id := uuid.New().String()

	return ContextWithRequestID(ctx, id), id
}

// redactURL strips credentials embedded in the URL before it is reported.
func redactURL(req *http.Request) string {
	u := *req.URL
	u.User = nil

	return u.String()
}
