package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestTeeHandlerCollapses(t *testing.T) {
	if _, ok := TeeHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler for all nil handlers")
	}
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := TeeHandler(nil, inner, nil); h != inner {
		t.Fatal("expected single non-nil handler to be returned unwrapped")
	}
}

func TestTeeHandlerConsoleAndJSON(t *testing.T) {
	var console, file bytes.Buffer
	lvl := new(slog.LevelVar)
	h := TeeHandler(newPrettyHandler(&console, lvl, false), newJSONHandler(&file, lvl, false))
	logger := slog.New(h).With(String(FieldComponent, "reflect"))

	logger.Info("symlink created", String("derived", "/mirror/Show - S1.ep01.mkv"))

	if !strings.Contains(console.String(), "INFO reflect: symlink created") {
		t.Fatalf("unexpected console output %q", console.String())
	}
	if !strings.Contains(file.String(), `"component":"reflect"`) {
		t.Fatalf("unexpected json output %q", file.String())
	}
}

func TestTeeHandlerRespectsPerHandlerLevel(t *testing.T) {
	var infoBuf, debugBuf bytes.Buffer
	infoHandler := slog.NewJSONHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo})
	debugHandler := slog.NewJSONHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug})

	h := TeeHandler(infoHandler, debugHandler)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected tee to be enabled when any handler accepts debug")
	}
	slog.New(h).Debug("debug only message")

	if infoBuf.Len() != 0 {
		t.Error("info handler should not receive debug messages")
	}
	if debugBuf.Len() == 0 {
		t.Error("debug handler should receive debug messages")
	}
}

func TestTeeHandlerWithAttrsAndGroup(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	h := TeeHandler(slog.NewJSONHandler(&buf1, nil), slog.NewJSONHandler(&buf2, nil))
	logger := slog.New(h.WithAttrs([]slog.Attr{slog.String("key", "value")}).WithGroup("episode"))
	logger.Info("test", slog.String("index", "01"))

	for i, buf := range []*bytes.Buffer{&buf1, &buf2} {
		if !bytes.Contains(buf.Bytes(), []byte(`"key":"value"`)) {
			t.Errorf("buffer %d missing attr: %s", i, buf.String())
		}
		if !bytes.Contains(buf.Bytes(), []byte(`"episode":{"index":"01"}`)) {
			t.Errorf("buffer %d missing group: %s", i, buf.String())
		}
	}
}
