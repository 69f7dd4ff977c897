package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes scope context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, scope, operation, message string, err error) error {
	detail := buildDetail(scope, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether err must abort the current library run. Configuration
// and consistency problems are fatal; collaborator failures are not.
func IsFatal(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration):
		return true
	default:
		return false
	}
}

// Hint returns a short operator-facing next step for an error class.
func Hint(err error) string {
	switch {
	case errors.Is(err, ErrConfiguration):
		return "fix the .info overlay or .root marker named in the error"
	case errors.Is(err, ErrValidation):
		return "check episode files, overrides and metadata counts for the named directory"
	case errors.Is(err, ErrNotFound):
		return "verify the path or identifier exists"
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrTransient):
		return "re-run the command; the remote service may be unavailable"
	case errors.Is(err, ErrExternalTool):
		return "check the external service response and credentials"
	default:
		return "check logs for details"
	}
}

func buildDetail(scope, operation, message string) string {
	parts := make([]string, 0, 3)
	if scope = strings.TrimSpace(scope); scope != "" {
		parts = append(parts, scope)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
