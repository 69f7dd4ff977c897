package mirror

import (
	"context"
	"log/slog"
	"time"

	"mediamirror/internal/config"
	"mediamirror/internal/descriptor"
	"mediamirror/internal/library"
	"mediamirror/internal/logging"
	"mediamirror/internal/notifications"
	"mediamirror/internal/reflection"
	"mediamirror/internal/services"
	"mediamirror/internal/services/jellyfin"
)

const defaultLookupTimeout = 30 * time.Second

// Runner holds the collaborators shared by every pass.
type Runner struct {
	cfg           *config.Config
	logger        *slog.Logger
	opts          library.Options
	projector     *reflection.Projector
	writer        *descriptor.Writer
	jellyfin      jellyfin.Service
	notifier      notifications.Service
	lookupTimeout time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithJellyfin overrides the Jellyfin service built from the configuration.
func WithJellyfin(svc jellyfin.Service) Option {
	return func(r *Runner) {
		if svc != nil {
			r.jellyfin = svc
		}
	}
}

// WithNotifier overrides the notification service built from the configuration.
func WithNotifier(svc notifications.Service) Option {
	return func(r *Runner) {
		if svc != nil {
			r.notifier = svc
		}
	}
}

// WithLookupTimeout bounds how long Identify waits for one lookup.
func WithLookupTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.lookupTimeout = d
		}
	}
}

// NewRunner builds a Runner from cfg.
func NewRunner(cfg *config.Config, logger *slog.Logger, options ...Option) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	r := &Runner{
		cfg:           cfg,
		logger:        logging.NewComponentLogger(logger, "mirror"),
		opts:          library.OptionsFromConfig(cfg, logger),
		projector:     reflection.NewProjector(logger),
		writer:        descriptor.NewWriter(logger),
		jellyfin:      jellyfin.NewConfiguredService(cfg),
		notifier:      notifications.NewService(cfg),
		lookupTimeout: defaultLookupTimeout,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// ContextFunc handles one context of a pass. ctx carries the context's path
// and kind for logging.
type ContextFunc func(ctx context.Context, c *library.Context) error

// Walk visits every context under roots in traversal order.
func (r *Runner) Walk(ctx context.Context, roots []string, fn ContextFunc) error {
	for _, root := range roots {
		err := library.Walk(ctx, root, r.opts, func(c *library.Context) error {
			cctx := services.WithContextPath(ctx, c.Path())
			cctx = services.WithKind(cctx, string(c.Kind()))
			return fn(cctx, c)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Collect returns every context under roots in traversal order.
func (r *Runner) Collect(ctx context.Context, roots []string) ([]*library.Context, error) {
	var out []*library.Context
	err := r.Walk(ctx, roots, func(_ context.Context, c *library.Context) error {
		out = append(out, c)
		return nil
	})
	return out, err
}

func (r *Runner) contextLogger(ctx context.Context) *slog.Logger {
	return logging.WithContext(ctx, r.logger)
}
