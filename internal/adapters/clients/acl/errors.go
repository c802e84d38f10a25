package acl

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jsamuelsen/go-github-issues/internal/domain"
)

// ErrNoResponse is wrapped when a response is expected but absent.
var ErrNoResponse = errors.New("no response received")

// ErrorResponse is the error body GitHub sends with 4xx and 5xx statuses:
//
//	{"message": "Validation Failed",
//	 "errors": [{"resource": "Issue", "field": "title", "code": "missing_field"}],
//	 "documentation_url": "https://docs.github.com/..."}
type ErrorResponse struct {
	Message          string              `json:"message"`
	DocumentationURL string              `json:"documentation_url"`
	Errors           []domain.FieldError `json:"-"`
}

// UnmarshalJSON accepts both object and bare-string entries in "errors".
func (e *ErrorResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		Message          string            `json:"message"`
		DocumentationURL string            `json:"documentation_url"`
		Errors           []json.RawMessage `json:"errors"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.Message = raw.Message
	e.DocumentationURL = raw.DocumentationURL
	e.Errors = make([]domain.FieldError, 0, len(raw.Errors))

	for _, item := range raw.Errors {
		var msg string
		if err := json.Unmarshal(item, &msg); err == nil {
			e.Errors = append(e.Errors, domain.FieldError{Message: msg})
			continue
		}

		var fe domain.FieldError
		if err := json.Unmarshal(item, &fe); err != nil {
			return err
		}

		e.Errors = append(e.Errors, fe)
	}

	return nil
}

// ParseErrorResponse attempts to parse an error response body.
// Returns nil if the body is empty, cannot be parsed, or carries nothing useful.
func ParseErrorResponse(body []byte) *ErrorResponse {
	if len(body) == 0 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return nil
	}

	if errResp.Message == "" && len(errResp.Errors) == 0 && errResp.DocumentationURL == "" {
		return nil
	}

	return &errResp
}

// KindForStatus returns the domain sentinel a non-2xx status maps to.
func KindForStatus(status int) error {
	switch status {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusUnprocessableEntity:
		return domain.ErrUnprocessable
	default:
		return domain.ErrHTTP
	}
}

// IsSuccess reports whether status is 2xx.
func IsSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

// MapHTTPError translates a response into a *domain.ResponseError.
// body is the already-read response body. Success statuses return nil.
//
// Mapping:
//   - 404 → ErrNotFound
//   - 401 → ErrUnauthorized
//   - 403 → ErrForbidden
//   - 422 → ErrUnprocessable, plus ErrValidationFailed when field errors are present
//   - anything else outside 2xx → ErrHTTP only
func MapHTTPError(resp *http.Response, body []byte) error {
	if resp == nil {
		return domain.NewNetworkError("", "", ErrNoResponse)
	}

	if IsSuccess(resp.StatusCode) {
		return nil
	}

	respErr := &domain.ResponseError{
		Kind:       KindForStatus(resp.StatusCode),
		StatusCode: resp.StatusCode,
		Body:       body,
	}

	if resp.Request != nil {
		respErr.Method = resp.Request.Method
		if resp.Request.URL != nil {
			u := *resp.Request.URL
			u.User = nil
			respErr.URL = u.String()
		}
	}

	if errResp := ParseErrorResponse(body); errResp != nil {
		respErr.Message = errResp.Message
		respErr.DocURL = errResp.DocumentationURL
		respErr.Errors = errResp.Errors
	}

	return respErr
}
