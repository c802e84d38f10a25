package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-querystring/query"

	"github.com/jsamuelsen/go-github-issues/internal/domain"
)

// Endpoint describes one REST operation: its verb, path template, the
// parameters it requires and the rules constraining enumerated values.
type Endpoint struct {
	Method   string
	Path     string
	Required []string
	Rules    Rules
}

// Prepare checks required keys and value rules. Keys the endpoint does not
// name pass through untouched. The returned copy is safe to modify.
func (e Endpoint) Prepare(params Params) (Params, error) {
	if _, err := RequireParams(params, e.Required...); err != nil {
		return nil, err
	}

	if err := ValidateValues(params, e.Rules); err != nil {
		return nil, err
	}

	return params.Clone(), nil
}

// ListOptions selects a page of a list endpoint.
type ListOptions struct {
	Page    int `url:"page,omitempty"     validate:"omitempty,gte=1"`
	PerPage int `url:"per_page,omitempty" validate:"omitempty,gte=1,lte=100"`
}

// Apply returns params with the page options merged in.
func (o *ListOptions) Apply(params Params) (Params, error) {
	out := params.Clone()
	if o == nil {
		return out, nil
	}

	if err := Validator().Struct(o); err != nil {
		return nil, domain.NewValidationError("list options", validationMessage(err))
	}

	values, err := query.Values(o)
	if err != nil {
		return nil, fmt.Errorf("encoding list options: %w", err)
	}

	for k := range values {
		out[k] = values.Get(k)
	}

	return out, nil
}

// HasBody reports whether params travel in a JSON body for method.
func HasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPatch, http.MethodPut:
		return true
	default:
		return false
	}
}

// NewRequest builds a request for rawURL. For POST/PATCH/PUT params are sent
// as a JSON object body; for GET/DELETE they become the query string.
func NewRequest(ctx context.Context, method, rawURL string, params Params) (*http.Request, error) {
	if HasBody(method) {
		var body any = params
		if params == nil {
			body = Params{}
		}

		return NewJSONRequest(ctx, method, rawURL, body)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing url: %w", err)
	}

	if len(params) > 0 {
		q := u.Query()
		for k, v := range EncodeQuery(params) {
			q[k] = v
		}

		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	return req, nil
}

// NewJSONRequest builds a request whose body is body encoded as JSON. It is
// used directly by endpoints whose payload is not an object, such as label
// lists.
func NewJSONRequest(ctx context.Context, method, rawURL string, body any) (*http.Request, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	return req, nil
}

// EncodeQuery converts params to url.Values. Slices are joined with commas,
// times are formatted as RFC 3339 and nil values are skipped.
func EncodeQuery(params Params) url.Values {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	values := make(url.Values, len(params))

	for _, k := range keys {
		v := params[k]
		if v == nil {
			continue
		}

		values.Set(k, queryValue(v))
	}

	return values
}

func queryValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case []string:
		return strings.Join(t, ",")
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = queryValue(item)
		}

		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(t)
	}
}
