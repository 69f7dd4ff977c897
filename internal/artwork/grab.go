package artwork

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"mediamirror/internal/fileutil"
	"mediamirror/internal/library"
	"mediamirror/internal/logging"
	"mediamirror/internal/services"
)

// ErrUnsupportedFormat reports art that is neither PNG nor JPEG.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// maxImageBytes bounds a single artwork download.
const maxImageBytes = 64 << 20

// HTTPDoer describes the HTTP client used for downloads.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Grabber stores the art referenced by a context's overlay in its directory.
type Grabber struct {
	client    HTTPDoer
	userAgent string
	maxBytes  int64
	logger    *slog.Logger
}

// NewGrabber returns a Grabber using client for remote art.
func NewGrabber(client HTTPDoer, userAgent string, logger *slog.Logger) *Grabber {
	if client == nil {
		client = http.DefaultClient
	}
	return &Grabber{
		client:    client,
		userAgent: userAgent,
		maxBytes:  maxImageBytes,
		logger:    logging.NewComponentLogger(logger, "artwork"),
	}
}

// Grab stores every art resource defined for c that is not already present.
// Undefined expected art, unreachable URLs, and unsupported formats are
// logged and skipped. It returns the number of files written.
func (g *Grabber) Grab(ctx context.Context, c *library.Context) (int, error) {
	if !c.Kind().Reflected() {
		return 0, nil
	}
	logger := logging.WithContext(ctx, g.logger).With(logging.String(logging.FieldContext, c.String()))
	expected := make(map[string]bool)
	for _, art := range c.ExpectedArt() {
		expected[art] = true
	}

	grabbed := 0
	for _, art := range Resources {
		source := strings.TrimSpace(c.GetString(art))
		if source == "" || source == "None" {
			if expected[art] {
				logging.WarnWithContext(logger, "artwork undefined", "artwork_undefined",
					logging.String("art", art),
					logging.String(logging.FieldErrorHint, "set "+art+" in the overlay or run mirror identify"),
					logging.String(logging.FieldImpact, "media center shows no "+art),
				)
			}
			continue
		}
		if Existing(c.Path(), art) != "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return grabbed, err
		}
		target, err := g.grabOne(ctx, c.Path(), art, source)
		if err != nil {
			if services.IsFatal(err) {
				return grabbed, err
			}
			logging.WarnWithContext(logger, "artwork not grabbed", "artwork_skipped",
				logging.String("art", art),
				logging.String("source", source),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, services.Hint(err)),
				logging.String(logging.FieldImpact, "art stays missing until the next grab"),
			)
			continue
		}
		grabbed++
		logger.Info("artwork grabbed",
			logging.String(logging.FieldEventType, "artwork_grabbed"),
			logging.String("source", source),
			logging.String("path", target),
		)
	}
	return grabbed, nil
}

func (g *Grabber) grabOne(ctx context.Context, dir, art, source string) (string, error) {
	if isRemote(source) {
		content, contentType, err := g.download(ctx, source)
		if err != nil {
			return "", err
		}
		ext := extensionForContent(contentType, content)
		target, err := targetPath(dir, art, source, ext)
		if err != nil {
			return "", err
		}
		if _, _, err := fileutil.WriteFileIfChanged(target, content, 0o644); err != nil {
			return "", services.Wrap(services.ErrConfiguration, "artwork", "write", target, err)
		}
		return target, nil
	}

	local := source
	if !filepath.IsAbs(local) {
		local = filepath.Join(dir, local)
	}
	head, err := readHead(local)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "artwork", "read local art", local, err)
	}
	target, err := targetPath(dir, art, source, extensionForContent("", head))
	if err != nil {
		return "", err
	}
	if err := fileutil.CopyFileVerified(local, target); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "artwork", "copy", target, err)
	}
	return target, nil
}

func (g *Grabber) download(ctx context.Context, source string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, "", services.Wrap(services.ErrValidation, "artwork", "build request", source, err)
	}
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, "", services.Wrap(services.ErrTransient, "artwork", "download", source, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, "", services.Wrap(services.ErrExternalTool, "artwork", "download", fmt.Sprintf("%s returned %d", source, resp.StatusCode), nil)
	}
	content, err := io.ReadAll(io.LimitReader(resp.Body, g.maxBytes+1))
	if err != nil {
		return nil, "", services.Wrap(services.ErrTransient, "artwork", "read body", source, err)
	}
	if int64(len(content)) > g.maxBytes {
		return nil, "", services.Wrap(services.ErrExternalTool, "artwork", "download", fmt.Sprintf("%s exceeds %d bytes", source, g.maxBytes), nil)
	}
	return content, resp.Header.Get("Content-Type"), nil
}

func targetPath(dir, art, source, ext string) (string, error) {
	normalized, ok := normalizeExtension(ext)
	if !ok {
		return "", fmt.Errorf("%w: %s maps to unknown extension %q", ErrUnsupportedFormat, source, normalized)
	}
	return filepath.Join(dir, Stem(art)+"."+normalized), nil
}

// extensionForContent prefers an image Content-Type and falls back to
// sniffing the content itself.
func extensionForContent(contentType string, content []byte) string {
	if ext := imageSubtype(contentType); ext != "" {
		return ext
	}
	return imageSubtype(http.DetectContentType(content))
}

func imageSubtype(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	subtype, ok := strings.CutPrefix(strings.ToLower(mediaType), "image/")
	if !ok {
		return ""
	}
	return subtype
}

func isRemote(source string) bool {
	parsed, err := url.Parse(source)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(parsed.Scheme)
	return (scheme == "http" || scheme == "https") && parsed.Host != ""
}

func readHead(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return head[:n], nil
}
