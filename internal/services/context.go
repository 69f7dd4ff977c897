package services

import "context"

type contextKey string

const (
	runIDKey       contextKey = "run_id"
	contextPathKey contextKey = "context_path"
	kindKey        contextKey = "kind"
)

// WithRunID annotates context with the identifier of the current pass.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the pass identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithContextPath annotates context with the library directory being processed.
func WithContextPath(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, contextPathKey, path)
}

// ContextPathFromContext returns the library directory if present.
func ContextPathFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(contextPathKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithKind annotates context with the kind of the library directory being processed.
func WithKind(ctx context.Context, kind string) context.Context {
	if kind == "" {
		return ctx
	}
	return context.WithValue(ctx, kindKey, kind)
}

// KindFromContext returns the directory kind if present.
func KindFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(kindKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
