package library

import (
	"errors"
	"fmt"
	"strings"

	"mediamirror/internal/services"
)

// ErrNotEpisodic is returned when episodes are requested from a context that
// is neither a season nor an OVA.
var ErrNotEpisodic = errors.New("context does not hold episodes")

// ConfigError is the fatal error raised when the annotated tree is
// inconsistent. It matches services.ErrConfiguration for malformed or unknown
// configuration and services.ErrValidation for file/episode consistency
// problems.
type ConfigError struct {
	Context string
	Op      string
	Detail  string
	Marker  error
	Err     error
}

func (e *ConfigError) Error() string {
	parts := make([]string, 0, 4)
	if e.Context != "" {
		parts = append(parts, e.Context)
	}
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if e.Detail != "" {
		parts = append(parts, e.Detail)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *ConfigError) Unwrap() []error {
	out := []error{e.Marker}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

func configErrorf(c *Context, op, format string, args ...any) error {
	return &ConfigError{Context: c.String(), Op: op, Detail: fmt.Sprintf(format, args...), Marker: services.ErrConfiguration}
}

func validationErrorf(c *Context, op, format string, args ...any) error {
	return &ConfigError{Context: c.String(), Op: op, Detail: fmt.Sprintf(format, args...), Marker: services.ErrValidation}
}
