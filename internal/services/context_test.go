package services_test

import (
	"context"
	"testing"

	"mediamirror/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithContextPath(ctx, "/library/Show")
	ctx = services.WithKind(ctx, "series")

	if rid, ok := services.RunIDFromContext(ctx); !ok || rid != "run-123" {
		t.Fatalf("unexpected run id: %v %v", rid, ok)
	}
	if path, ok := services.ContextPathFromContext(ctx); !ok || path != "/library/Show" {
		t.Fatalf("unexpected context path: %v %v", path, ok)
	}
	if kind, ok := services.KindFromContext(ctx); !ok || kind != "series" {
		t.Fatalf("unexpected kind: %v %v", kind, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "")
	ctx = services.WithContextPath(ctx, "")
	ctx = services.WithKind(ctx, "")
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id")
	}
	if _, ok := services.ContextPathFromContext(ctx); ok {
		t.Fatal("expected no context path")
	}
	if _, ok := services.KindFromContext(ctx); ok {
		t.Fatal("expected no kind")
	}
}
