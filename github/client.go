package github

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jsamuelsen/go-github-issues/internal/adapters/clients"
	"github.com/jsamuelsen/go-github-issues/internal/adapters/clients/acl"
	"github.com/jsamuelsen/go-github-issues/internal/platform/config"
)

// DefaultBaseURL is the public GitHub REST API root.
const DefaultBaseURL = clients.DefaultBaseURL

// Client talks to one GitHub API root with one set of credentials. It is
// safe for concurrent use; nothing in it changes after NewClient returns.
type Client struct {
	// Issues is the Issues API, with its sub-services attached.
	Issues *Issues

	http *clients.Client
}

// Option configures a Client.
type Option func(*options)

type options struct {
	http     clients.Config
	login    string
	password string
}

// WithBaseURL points the client at another API root, e.g. GitHub Enterprise
// ("https://ghe.example.com/api/v3") or a test server.
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.http.BaseURL = baseURL }
}

// WithToken authenticates with a personal access or OAuth token.
// A token takes precedence over basic credentials.
func WithToken(token string) Option {
	return func(o *options) { o.http.Token = token }
}

// WithBasicAuth authenticates with a login and password.
func WithBasicAuth(login, password string) Option {
	return func(o *options) {
		o.login = login
		o.password = password
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(o *options) { o.http.UserAgent = userAgent }
}

// WithTimeout bounds each request. Defaults to 30s.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) { o.http.Timeout = timeout }
}

// WithLogger sets the logger for request and error logging. A logger
// carried by the call's context takes precedence.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.http.Logger = logger }
}

// WithHTTPTransport replaces the underlying round tripper. Credentials and
// headers are still applied on top of it.
func WithHTTPTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.http.BaseTransport = rt }
}

// WithConnectionPool tunes the default transport's idle connection pool.
func WithConnectionPool(maxIdle, maxIdlePerHost int, idleTimeout time.Duration) Option {
	return func(o *options) {
		o.http.Transport = config.TransportConfig{
			MaxIdleConns:        maxIdle,
			MaxIdleConnsPerHost: maxIdlePerHost,
			IdleConnTimeout:     idleTimeout,
		}
	}
}

// NewClient creates a client. With no options it calls api.github.com
// anonymously.
func NewClient(opts ...Option) (*Client, error) {
	o := options{
		http: clients.Config{ServiceName: "github"},
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.http.Token == "" && o.login != "" {
		login, password := o.login, o.password
		o.http.AuthFunc = func(req *http.Request) {
			req.SetBasicAuth(login, password)
		}
	}

	httpClient, err := clients.New(&o.http)
	if err != nil {
		return nil, fmt.Errorf("creating github client: %w", err)
	}

	return &Client{
		Issues: newIssues(acl.NewAdapter(httpClient)),
		http:   httpClient,
	}, nil
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.http.BaseURL()
}
