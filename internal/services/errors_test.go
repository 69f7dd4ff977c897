package services_test

import (
	"errors"
	"strings"
	"testing"

	"mediamirror/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "catalog", "best match", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"catalog", "best match", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"configuration", services.Wrap(services.ErrConfiguration, "/lib/Show", "overlay", "unknown key", nil), true},
		{"validation", services.Wrap(services.ErrValidation, "/lib/Show/S1", "episodes", "gap", nil), true},
		{"transient", services.Wrap(services.ErrTransient, "tmdb", "fetch", "timeout", errors.New("io")), false},
		{"plain", errors.New("plain"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.IsFatal(tt.err); got != tt.want {
				t.Fatalf("IsFatal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHintVariesByMarker(t *testing.T) {
	cfgHint := services.Hint(services.Wrap(services.ErrConfiguration, "", "", "x", nil))
	valHint := services.Hint(services.Wrap(services.ErrValidation, "", "", "x", nil))
	if cfgHint == valHint {
		t.Fatalf("expected distinct hints, got %q", cfgHint)
	}
	if services.Hint(errors.New("other")) != "check logs for details" {
		t.Fatal("expected default hint")
	}
}
