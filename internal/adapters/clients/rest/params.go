// Package rest builds GitHub REST requests: it validates parameters, expands
// path templates and encodes parameters as a query string or JSON body.
// Nothing in this package performs network I/O.
package rest

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/go-github-issues/internal/domain"
)

// Params holds request parameters as JSON-compatible values.
type Params map[string]any

// Clone returns a shallow copy of p. A nil Params clones to an empty one.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}

	return out
}

// Rules maps parameter names to validator tags, e.g. "oneof=open closed all".
type Rules map[string]string

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator instance.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	return validate
}

// RequireParams fails with a *domain.RequiredParamsError naming every
// required key that is absent or nil. On success params is returned as is.
func RequireParams(params Params, required ...string) (Params, error) {
	var missing []string

	for _, key := range required {
		if v, ok := params[key]; !ok || v == nil {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return nil, domain.NewRequiredParamsError(missing...)
	}

	return params, nil
}

// ValidateValues checks each present parameter against its rule. Ruled
// parameters must be strings.
func ValidateValues(params Params, rules Rules) error {
	keys := make([]string, 0, len(rules))
	for k := range rules {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, key := range keys {
		raw, ok := params[key]
		if !ok || raw == nil {
			continue
		}

		value, ok := raw.(string)
		if !ok {
			return domain.NewValidationErrorWithValue(key, "must be a string", raw)
		}

		if err := Validator().Var(value, rules[key]); err != nil {
			return domain.NewValidationErrorWithValue(key, validationMessage(err), value)
		}
	}

	return nil
}

// validationMessages maps validation tags to message templates.
var validationMessages = map[string]string{
	"required":    "this field is required",
	"oneof":       "must be one of: {param}",
	"datetime":    "must be a timestamp in the format {param}",
	"hexcolor":    "must be a hex color",
	"hexadecimal": "must be hexadecimal",
	"len":         "must be {param} characters long",
	"gte":         "must be greater than or equal to {param}",
	"lte":         "must be less than or equal to {param}",
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err.Error()
	}

	fe := fieldErrs[0]
	if msg, ok := validationMessages[fe.Tag()]; ok {
		return strings.ReplaceAll(msg, "{param}", fe.Param())
	}

	return fmt.Sprintf("failed validation: %s", fe.Tag())
}
