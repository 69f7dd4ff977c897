package jellyfin

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"mediamirror/internal/config"
	"mediamirror/internal/services"
)

// Service triggers a Jellyfin library scan after the derived tree changes.
type Service interface {
	Refresh(ctx context.Context) error
	Enabled() bool
}

// HTTPDoer describes the HTTP client used by the Jellyfin service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type noopService struct{}

func (noopService) Refresh(context.Context) error { return nil }

func (noopService) Enabled() bool { return false }

type httpService struct {
	baseURL string
	apiKey  string
	client  HTTPDoer
}

// NewConfiguredService returns a Jellyfin service that triggers scans when
// the integration is enabled and credentials are available, and a no-op
// service otherwise.
func NewConfiguredService(cfg *config.Config) Service {
	if cfg == nil || !cfg.Jellyfin.Enabled {
		return noopService{}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.Jellyfin.URL), "/")
	apiKey := strings.TrimSpace(cfg.Jellyfin.APIKey)
	if baseURL == "" || apiKey == "" {
		return noopService{}
	}
	return &httpService{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  http.DefaultClient,
	}
}

// NewHTTPService constructs an HTTP-backed Jellyfin service.
func NewHTTPService(baseURL, apiKey string, client HTTPDoer) Service {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpService{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		client:  client,
	}
}

func (s *httpService) Enabled() bool {
	return s != nil && s.baseURL != "" && s.apiKey != ""
}

func (s *httpService) Refresh(ctx context.Context) error {
	if !s.Enabled() || s.client == nil {
		return nil
	}
	refreshURL := fmt.Sprintf("%s/Library/Refresh", s.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, refreshURL, nil)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "jellyfin", "refresh", "build request", err)
	}
	req.Header.Set("X-Emby-Token", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "jellyfin", "refresh", "request failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return services.Wrap(services.ErrExternalTool, "jellyfin", "refresh", fmt.Sprintf("returned %d", resp.StatusCode), nil)
	}
	return nil
}
