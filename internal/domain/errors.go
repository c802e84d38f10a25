// Package domain contains the record model and the error taxonomy shared by
// every resource service. Errors here are transport-agnostic: adapters map
// HTTP failures onto them before returning to callers.
package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrRequiredParams indicates one or more required parameters were not supplied.
	ErrRequiredParams = errors.New("required parameters missing")

	// ErrInvalidArgument indicates a path argument (user, repo, id) was missing or empty.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrValidationFailed indicates a parameter value was rejected, locally or by the API.
	ErrValidationFailed = errors.New("validation failed")

	// ErrNotFound indicates the API answered 404.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates the API answered 401.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the API answered 403.
	ErrForbidden = errors.New("forbidden")

	// ErrUnprocessable indicates the API answered 422.
	ErrUnprocessable = errors.New("unprocessable entity")

	// ErrHTTP is matched by every error built from a non-2xx response.
	ErrHTTP = errors.New("http error")

	// ErrNetwork indicates the request never produced a response.
	ErrNetwork = errors.New("network error")
)

// RequiredParamsError lists the required parameters that were absent.
type RequiredParamsError struct {
	Missing []string
}

// Error implements the error interface.
func (e *RequiredParamsError) Error() string {
	return "required parameters missing: " + strings.Join(e.Missing, ", ")
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *RequiredParamsError) Unwrap() error {
	return ErrRequiredParams
}

// NewRequiredParamsError creates a required params error for the given names.
func NewRequiredParamsError(missing ...string) error {
	return &RequiredParamsError{Missing: missing}
}

// ArgumentError describes a missing or malformed path argument.
type ArgumentError struct {
	Name   string
	Reason string
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument %q %s", e.Name, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// NewArgumentError creates an argument error.
func NewArgumentError(name, reason string) error {
	return &ArgumentError{Name: name, Reason: reason}
}

// ValidationError provides context for a rejected parameter value.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue creates a validation error including the invalid value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// FieldError is one entry of the "errors" array GitHub returns with a 422.
type FieldError struct {
	Resource string `json:"resource"`
	Field    string `json:"field"`
	Code     string `json:"code"`
	Message  string `json:"message,omitempty"`
}

// String formats the field error for inclusion in messages.
func (f FieldError) String() string {
	if f.Message != "" {
		return f.Message
	}

	return fmt.Sprintf("%s.%s %s", f.Resource, f.Field, f.Code)
}

// ResponseError is returned for every non-2xx response. Kind holds the
// sentinel the status maps to, so errors.Is(err, ErrNotFound) works without
// inspecting StatusCode.
type ResponseError struct {
	Kind       error
	StatusCode int
	Method     string
	URL        string
	Message    string
	DocURL     string
	Errors     []FieldError
	Body       []byte
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s: %d", e.Method, e.URL, e.StatusCode)

	if e.Message != "" {
		b.WriteString(" ")
		b.WriteString(e.Message)
	} else {
		b.WriteString(" ")
		b.WriteString(http.StatusText(e.StatusCode))
	}

	if len(e.Errors) > 0 {
		parts := make([]string, 0, len(e.Errors))
		for _, fe := range e.Errors {
			parts = append(parts, fe.String())
		}

		fmt.Fprintf(&b, " [%s]", strings.Join(parts, "; "))
	}

	return b.String()
}

// Unwrap exposes the kind sentinel, ErrHTTP, and ErrValidationFailed when the
// body carried field-level errors.
func (e *ResponseError) Unwrap() []error {
	errs := []error{ErrHTTP}
	if e.Kind != nil && e.Kind != ErrHTTP {
		errs = append(errs, e.Kind)
	}

	if e.Kind == ErrUnprocessable && len(e.Errors) > 0 {
		errs = append(errs, ErrValidationFailed)
	}

	return errs
}

// NetworkError wraps a transport failure that produced no response.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap returns both the sentinel and the underlying cause.
func (e *NetworkError) Unwrap() []error {
	return []error{ErrNetwork, e.Err}
}

// NewNetworkError creates a network error.
func NewNetworkError(method, url string, err error) error {
	return &NetworkError{Method: method, URL: url, Err: err}
}

// IsRequiredParams checks if an error is a required params error.
func IsRequiredParams(err error) bool {
	return errors.Is(err, ErrRequiredParams)
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized checks if an error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}

// IsUnprocessable checks if an error is an unprocessable entity error.
func IsUnprocessable(err error) bool {
	return errors.Is(err, ErrUnprocessable)
}

// StatusCode returns the HTTP status carried by err, or 0 when err did not
// come from a response.
func StatusCode(err error) int {
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode
	}

	return 0
}
