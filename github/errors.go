package github

import "github.com/jsamuelsen/go-github-issues/internal/domain"

// Sentinel errors for use with errors.Is.
var (
	ErrRequiredParams   = domain.ErrRequiredParams
	ErrInvalidArgument  = domain.ErrInvalidArgument
	ErrValidationFailed = domain.ErrValidationFailed
	ErrNotFound         = domain.ErrNotFound
	ErrUnauthorized     = domain.ErrUnauthorized
	ErrForbidden        = domain.ErrForbidden
	ErrUnprocessable    = domain.ErrUnprocessable
	ErrHTTP             = domain.ErrHTTP
	ErrNetwork          = domain.ErrNetwork
)

// Error types for use with errors.As.
type (
	// RequiredParamsError lists required parameters that were not supplied.
	RequiredParamsError = domain.RequiredParamsError

	// ArgumentError reports an empty or malformed path argument.
	ArgumentError = domain.ArgumentError

	// ValidationError reports a parameter value rejected before sending.
	ValidationError = domain.ValidationError

	// ResponseError is returned for every non-2xx response.
	ResponseError = domain.ResponseError

	// FieldError is one entry of a GitHub validation error body.
	FieldError = domain.FieldError

	// NetworkError is returned when no response was received.
	NetworkError = domain.NetworkError
)

// IsNotFound reports whether err came from a 404 response.
func IsNotFound(err error) bool { return domain.IsNotFound(err) }

// IsUnauthorized reports whether err came from a 401 response.
func IsUnauthorized(err error) bool { return domain.IsUnauthorized(err) }

// IsRequiredParams reports whether err is a missing-parameter failure.
func IsRequiredParams(err error) bool { return domain.IsRequiredParams(err) }

// IsValidation reports whether a value was rejected, locally or by a 422
// response carrying field errors.
func IsValidation(err error) bool { return domain.IsValidation(err) }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int { return domain.StatusCode(err) }
