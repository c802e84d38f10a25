package acl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen/go-github-issues/internal/adapters/clients"
	"github.com/jsamuelsen/go-github-issues/internal/adapters/clients/rest"
	"github.com/jsamuelsen/go-github-issues/internal/domain"
	"github.com/jsamuelsen/go-github-issues/internal/platform/logging"
)

// Call is one invocation of an endpoint.
type Call struct {
	// Endpoint is the operation being invoked.
	Endpoint rest.Endpoint

	// Args fill the endpoint path placeholders, in order.
	Args []any

	// Params are validated against the endpoint, then sent as query or body.
	Params rest.Params

	// Body, when set, is sent as the JSON body verbatim instead of Params.
	// Used for endpoints that take a bare array.
	Body any

	// List selects a page on list endpoints.
	List *rest.ListOptions

	// Operation names the call in logs, e.g. "create issue".
	Operation string
}

// Adapter runs calls through validation, request building, transport and
// error translation, and maps successful bodies to records.
type Adapter struct {
	client *clients.Client
	logger *slog.Logger
}

// NewAdapter creates an adapter around an HTTP client.
// Panics if client is nil.
func NewAdapter(client *clients.Client) *Adapter {
	if client == nil {
		panic("acl.NewAdapter: client is required")
	}

	return &Adapter{
		client: client,
		logger: client.Logger(),
	}
}

// Client returns the underlying HTTP client.
func (a *Adapter) Client() *clients.Client {
	return a.client
}

// Record performs call and decodes a JSON object body.
func (a *Adapter) Record(ctx context.Context, call Call) (*domain.Record, error) {
	body, err := a.Send(ctx, call)
	if err != nil {
		return nil, err
	}

	rec, err := DecodeRecord(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", call.Operation, err)
	}

	return rec, nil
}

// Records performs call and decodes a JSON array body.
func (a *Adapter) Records(ctx context.Context, call Call) ([]*domain.Record, error) {
	body, err := a.Send(ctx, call)
	if err != nil {
		return nil, err
	}

	recs, err := DecodeRecords(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", call.Operation, err)
	}

	return recs, nil
}

// Exec performs call and discards the body. Used for DELETE endpoints that
// answer 204 No Content.
func (a *Adapter) Exec(ctx context.Context, call Call) error {
	_, err := a.Send(ctx, call)
	return err
}

// Send validates and sends call, returning the raw body of a 2xx response.
// Validation and path errors are returned before any request is made.
func (a *Adapter) Send(ctx context.Context, call Call) ([]byte, error) {
	req, err := a.build(ctx, call)
	if err != nil {
		return nil, err
	}

	ctx = logging.WithContext(ctx, logging.FromContextOr(ctx, a.logger))
	ctx = logging.WithOperation(ctx, call.Operation)
	logger := logging.FromContext(ctx)
	logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", req.URL.Path))

	resp, err := a.client.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewNetworkError(req.Method, req.URL.String(), fmt.Errorf("reading body: %w", err))
	}

	if err := MapHTTPError(resp, body); err != nil {
		logger.WarnContext(ctx, "github API error",
			slog.Int("status_code", resp.StatusCode),
			slog.String("body", string(body)),
		)

		return nil, err
	}

	logger.Log(ctx, logging.LevelTrace, "request complete", slog.Int("status", resp.StatusCode))

	return body, nil
}

// build runs the parameter validator, then the request builder.
func (a *Adapter) build(ctx context.Context, call Call) (*http.Request, error) {
	ep := call.Endpoint

	params, err := ep.Prepare(call.Params)
	if err != nil {
		return nil, err
	}

	if call.List != nil {
		params, err = call.List.Apply(params)
		if err != nil {
			return nil, err
		}
	}

	path, err := rest.ExpandPath(ep.Path, call.Args...)
	if err != nil {
		return nil, err
	}

	if call.Body != nil {
		return rest.NewJSONRequest(ctx, ep.Method, a.client.URL(path), call.Body)
	}

	return rest.NewRequest(ctx, ep.Method, a.client.URL(path), params)
}

// DecodeRecord parses a JSON object body. An empty body yields an empty record.
func DecodeRecord(body []byte) (*domain.Record, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return domain.NewRecord(), nil
	}

	rec, err := domain.ParseRecord(body)
	if err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return rec, nil
}

// DecodeRecords parses a JSON array body. An empty body yields no records.
func DecodeRecords(body []byte) ([]*domain.Record, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return []*domain.Record{}, nil
	}

	recs, err := domain.ParseRecords(body)
	if err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return recs, nil
}

// TranslateSlice applies translate to every record.
func TranslateSlice[D any](records []*domain.Record, translate func(*domain.Record) D) []D {
	result := make([]D, 0, len(records))

	for _, rec := range records {
		result = append(result, translate(rec))
	}

	return result
}
