package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"mediamirror/internal/config"
	"mediamirror/internal/services"
)

// HTTPDoer describes the HTTP client used for catalog pages.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxPageBytes bounds how much of a search page is read.
const maxPageBytes = 4 << 20

// Fetcher downloads catalog search pages with a browser user agent.
type Fetcher struct {
	client    HTTPDoer
	userAgent string
}

// NewFetcher builds a Fetcher from the catalog configuration.
func NewFetcher(cfg config.Catalog) *Fetcher {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}, userAgent: cfg.UserAgent}
}

// NewFetcherWithClient builds a Fetcher around an existing client.
func NewFetcherWithClient(client HTTPDoer, userAgent string) *Fetcher {
	return &Fetcher{client: client, userAgent: userAgent}
}

// Get downloads rawURL and returns the body.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "build request", rawURL, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "catalog", "fetch", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, services.Wrap(services.ErrExternalTool, "catalog", "fetch", fmt.Sprintf("%s returned %d", rawURL, resp.StatusCode), nil)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "catalog", "read body", rawURL, err)
	}
	return body, nil
}

// firstLinkedID scans every anchor of page, resolves its href against base
// and returns the first id parse yields.
func firstLinkedID(page []byte, base string, parse func(string) (string, bool)) (string, error) {
	doc, err := html.Parse(strings.NewReader(string(page)))
	if err != nil {
		return "", fmt.Errorf("parse search page: %w", err)
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse search url: %w", err)
	}
	var found string
	var visit func(*html.Node) bool
	visit = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				ref, err := url.Parse(strings.TrimSpace(attr.Val))
				if err != nil {
					continue
				}
				if id, ok := parse(baseURL.ResolveReference(ref).String()); ok {
					found = id
					return true
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if visit(child) {
				return true
			}
		}
		return false
	}
	visit(doc)
	return found, nil
}
