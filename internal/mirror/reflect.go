package mirror

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"mediamirror/internal/descriptor"
	"mediamirror/internal/library"
	"mediamirror/internal/logging"
	"mediamirror/internal/notifications"
	"mediamirror/internal/reflection"
	"mediamirror/internal/services"
)

// ReflectSummary reports what one reflection pass did.
type ReflectSummary struct {
	Contexts    int
	Links       reflection.Stats
	Descriptors int
	Inspected   int
	Refreshed   bool
}

// Changed reports whether the pass touched the derived tree.
func (s ReflectSummary) Changed() bool {
	return s.Links.Changed() || s.Descriptors > 0
}

// Reflect brings the derived tree of every root up to date. The set of
// derived paths produced is shared across all roots of the pass.
func (r *Runner) Reflect(ctx context.Context, roots []string) (ReflectSummary, error) {
	var summary ReflectSummary
	inspected := reflection.NewInspected()
	started := time.Now()

	err := r.Walk(ctx, roots, func(ctx context.Context, c *library.Context) error {
		summary.Contexts++
		return r.reflectContext(ctx, c, inspected, &summary)
	})
	summary.Inspected = inspected.Len()
	logger := r.contextLogger(ctx)
	if err != nil {
		r.notifyFailure(ctx, logger, err)
		return summary, err
	}

	logger.Info("reflection pass complete",
		logging.String(logging.FieldEventType, "reflect_complete"),
		logging.Int("contexts", summary.Contexts),
		logging.Int("links_created", summary.Links.Created),
		logging.Int("links_replaced", summary.Links.Replaced),
		logging.Int("links_unchanged", summary.Links.Unchanged),
		logging.Int("removed", summary.Links.Removed),
		logging.Int("descriptors_written", summary.Descriptors),
		logging.Duration("elapsed", time.Since(started)),
	)

	if summary.Changed() && r.jellyfin.Enabled() {
		if err := r.jellyfin.Refresh(ctx); err != nil {
			logging.WarnWithContext(logger, "jellyfin refresh failed", "jellyfin_refresh_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, services.Hint(err)),
				logging.String(logging.FieldImpact, "jellyfin shows the new tree after its next scheduled scan"),
			)
		} else {
			summary.Refreshed = true
		}
	}
	if summary.Changed() {
		report := notifications.PassReport{
			Contexts:    summary.Contexts,
			Created:     summary.Links.Created,
			Replaced:    summary.Links.Replaced,
			Removed:     summary.Links.Removed,
			Descriptors: summary.Descriptors,
			Duration:    time.Since(started),
		}
		if err := r.notifier.NotifyReflectionCompleted(ctx, report); err != nil {
			logging.WarnWithContext(logger, "reflection notification failed", "notification_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
				logging.String(logging.FieldImpact, "no push message for this pass"),
			)
		}
	}
	return summary, nil
}

func (r *Runner) notifyFailure(ctx context.Context, logger *slog.Logger, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	label := ""
	var cfgErr *library.ConfigError
	if errors.As(err, &cfgErr) {
		label = cfgErr.Context
	}
	logging.ErrorWithContext(logger, "reflection pass stopped", "reflect_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, services.Hint(err)),
		logging.String("failed_context", label),
	)
	if notifyErr := r.notifier.NotifyError(context.WithoutCancel(ctx), err, label); notifyErr != nil {
		logging.WarnWithContext(logger, "error notification failed", "notification_failed",
			logging.Error(notifyErr),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
			logging.String(logging.FieldImpact, "the failed pass is only visible in the log"),
		)
	}
}

func (r *Runner) reflectContext(ctx context.Context, c *library.Context, inspected *reflection.Inspected, summary *ReflectSummary) error {
	if !c.Kind().Reflected() {
		return nil
	}
	if _, err := c.EnsureReflectedPath(); err != nil {
		return err
	}

	var episodes []library.Episode
	var err error
	if c.Kind().Episodic() {
		if episodes, err = library.ResolveEpisodes(c); err != nil {
			return err
		}
	}
	docs, err := descriptor.Render(c, descriptor.MetadataOf(c), episodes)
	if err != nil {
		return err
	}

	links, err := reflection.ProjectLinks(c)
	if err != nil {
		return err
	}
	stats, err := r.projector.Materialize(withoutDescriptors(links, docs), inspected)
	summary.Links.Add(stats)
	if err != nil {
		return err
	}
	written, err := r.writer.Write(docs, inspected)
	summary.Descriptors += written
	if err != nil {
		return err
	}

	swept, err := r.projector.Sweep(c, inspected)
	summary.Links.Add(swept)
	if err != nil {
		return err
	}

	r.contextLogger(ctx).Debug("context reflected",
		logging.String(logging.FieldEventType, "context_reflected"),
		logging.Int("links", len(links)),
		logging.Int("episodes", len(episodes)),
		logging.Int("descriptors", len(docs)),
	)
	return nil
}

// withoutDescriptors drops links whose derived path a descriptor claims, so
// a source file sharing a descriptor's name is never written through.
func withoutDescriptors(links []reflection.Link, docs []descriptor.Document) []reflection.Link {
	claimed := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		claimed[doc.Path] = struct{}{}
	}
	kept := make([]reflection.Link, 0, len(links))
	for _, link := range links {
		if _, ok := claimed[link.Path]; !ok {
			kept = append(kept, link)
		}
	}
	return kept
}
