package kodi

import (
	"context"
	"fmt"
	"log/slog"

	"mediamirror/internal/config"
	"mediamirror/internal/library"
	"mediamirror/internal/logging"
	"mediamirror/internal/services"
)

// Summary counts the edits of one Update call across all profiles.
type Summary struct {
	Inserted        int
	Updated         int
	Unchanged       int
	SettingsChanged int
}

// Updater applies view modes and backgrounds to the configured profiles.
type Updater struct {
	profiles   []string
	skin       string
	background string
	logger     *slog.Logger
}

// NewUpdater builds an Updater from the kodi configuration section.
func NewUpdater(cfg config.Kodi, logger *slog.Logger) *Updater {
	return &Updater{
		profiles:   cfg.Profiles,
		skin:       cfg.Skin,
		background: cfg.Background,
		logger:     logging.NewComponentLogger(logger, "kodi"),
	}
}

// Update writes a view row for every reflected context into each profile's
// database and then sets the profile's fallback backgrounds.
func (u *Updater) Update(ctx context.Context, contexts []*library.Context) (Summary, error) {
	var summary Summary
	if len(u.profiles) == 0 {
		logging.WarnWithContext(u.logger, "no kodi profiles configured", "kodi_unconfigured",
			logging.String(logging.FieldErrorHint, "add profile directories to [kodi] profiles"),
			logging.String(logging.FieldImpact, "view modes and backgrounds are not updated"),
		)
		return summary, nil
	}

	for _, profile := range u.profiles {
		if err := u.updateViews(ctx, profile, contexts, &summary); err != nil {
			return summary, err
		}
	}

	if u.background == "" {
		return summary, nil
	}
	for _, profile := range u.profiles {
		changed, err := SetFallbackBackground(profile, u.skin, u.background)
		if err != nil {
			return summary, services.Wrap(services.ErrConfiguration, profile, "update gui settings", "", err)
		}
		if changed {
			summary.SettingsChanged++
			u.logger.Info("fallback background updated",
				logging.String(logging.FieldEventType, "kodi_background_updated"),
				logging.String("profile", profile),
				logging.String("background", u.background),
			)
		}
	}
	return summary, nil
}

func (u *Updater) updateViews(ctx context.Context, profile string, contexts []*library.Context, summary *Summary) error {
	store, err := OpenViewStore(profile, u.skin)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, profile, "open view database", "", err)
	}
	defer store.Close()

	for _, c := range contexts {
		if err := ctx.Err(); err != nil {
			return err
		}
		mode, ok := ViewModeFor(c.Kind())
		if !ok {
			continue
		}
		dir, err := c.ReflectedPath()
		if err != nil {
			return err
		}
		result, err := store.Upsert(ctx, dir, mode)
		if err != nil {
			return services.Wrap(services.ErrExternalTool, c.String(), "update view", store.Path(), err)
		}
		switch result {
		case ViewUnchanged:
			summary.Unchanged++
			continue
		case ViewInserted:
			summary.Inserted++
		case ViewUpdated:
			summary.Updated++
		}
		u.logger.Info("view mode recorded",
			logging.String(logging.FieldEventType, "kodi_view_"+viewResultLabel(result)),
			logging.String(logging.FieldContext, c.String()),
			logging.String("path", dir),
			logging.Int("view_mode", mode),
			logging.String("database", store.Path()),
		)
	}
	return nil
}

func viewResultLabel(r ViewResult) string {
	switch r {
	case ViewInserted:
		return "inserted"
	case ViewUpdated:
		return "updated"
	default:
		return fmt.Sprintf("result_%d", int(r))
	}
}
