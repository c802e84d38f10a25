package rest

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/jsamuelsen/go-github-issues/internal/domain"
)

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Placeholders lists the placeholder names of a path template in order.
func Placeholders(template string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(template, -1)

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}

	return names
}

// ExpandPath fills the placeholders of template with args, in order.
// String args must be non-blank; integer args must be positive. Each value is
// path-escaped. A missing or invalid argument yields a *domain.ArgumentError.
func ExpandPath(template string, args ...any) (string, error) {
	names := Placeholders(template)

	if len(args) > len(names) {
		return "", domain.NewArgumentError(template,
			fmt.Sprintf("takes %d arguments, got %d", len(names), len(args)))
	}

	values := make([]string, len(names))

	for i, name := range names {
		if i >= len(args) {
			return "", domain.NewArgumentError(name, "is required")
		}

		s, err := formatArg(name, args[i])
		if err != nil {
			return "", err
		}

		values[i] = url.PathEscape(s)
	}

	i := 0
	expanded := placeholderPattern.ReplaceAllStringFunc(template, func(string) string {
		v := values[i]
		i++

		return v
	})

	return expanded, nil
}

func formatArg(name string, arg any) (string, error) {
	switch v := arg.(type) {
	case nil:
		return "", domain.NewArgumentError(name, "is required")
	case string:
		if strings.TrimSpace(v) == "" {
			return "", domain.NewArgumentError(name, "must not be empty")
		}

		return v, nil
	case int:
		return formatID(name, int64(v))
	case int64:
		return formatID(name, v)
	case fmt.Stringer:
		return formatArg(name, v.String())
	default:
		return "", domain.NewArgumentError(name, fmt.Sprintf("has unsupported type %T", arg))
	}
}

func formatID(name string, id int64) (string, error) {
	if id <= 0 {
		return "", domain.NewArgumentError(name, "must be positive")
	}

	return strconv.FormatInt(id, 10), nil
}
