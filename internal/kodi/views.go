package kodi

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"mediamirror/internal/library"
)

// View modes understood by the supported skin.
const (
	ViewModeLowList = 66037
	ViewModePosters = 458808
)

// Fixed columns of every row this package writes.
const (
	filesWindow    = 10025 // "Files"
	sortMethod     = 4     // by file
	sortOrder      = 1     // ascending
	sortAttributes = 0
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// ViewModeFor returns the view mode for contexts of kind k. ok is false for
// kinds without a reflected directory.
func ViewModeFor(k library.Kind) (int, bool) {
	switch k {
	case library.KindSeries:
		return ViewModePosters, true
	case library.KindSeason, library.KindMovie, library.KindOVA:
		return ViewModeLowList, true
	default:
		return 0, false
	}
}

// DatabasePath returns the view mode database of a Kodi profile.
func DatabasePath(profile string) string {
	return filepath.Join(profile, "userdata", "Database", "ViewModes6.db")
}

// ViewResult describes what Upsert did to a row.
type ViewResult int

const (
	ViewUnchanged ViewResult = iota
	ViewInserted
	ViewUpdated
)

// ViewStore edits the view table of one profile database.
type ViewStore struct {
	db   *sql.DB
	path string
	skin string
}

// OpenViewStore connects to the existing view mode database of profile.
// Kodi owns the schema, so a missing database is an error.
func OpenViewStore(profile, skin string) (*ViewStore, error) {
	dbPath := DatabasePath(profile)
	info, err := os.Stat(dbPath)
	if err != nil {
		return nil, fmt.Errorf("view mode database: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("view mode database %q is not a regular file", dbPath)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragma: %w", err)
	}
	return &ViewStore{db: db, path: dbPath, skin: skin}, nil
}

// Path returns the database file.
func (s *ViewStore) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *ViewStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Upsert makes the row for dir carry mode and the fixed sort settings. dir
// is stored with a trailing separator, the way Kodi keys directories.
func (s *ViewStore) Upsert(ctx context.Context, dir string, mode int) (ViewResult, error) {
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}

	var id int64
	var window, viewMode, method, order, attributes int
	var skin sql.NullString
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			"SELECT idView, window, viewMode, sortMethod, sortOrder, sortAttributes, skin FROM view WHERE path = ?",
			dir,
		).Scan(&id, &window, &viewMode, &method, &order, &attributes, &skin)
	})
	switch {
	case errors.Is(err, sql.ErrNoRows):
		err = retryOnBusy(ctx, func() error {
			_, execErr := s.db.ExecContext(ctx,
				"INSERT INTO view (window, path, viewMode, sortMethod, sortOrder, sortAttributes, skin) VALUES (?, ?, ?, ?, ?, ?, ?)",
				filesWindow, dir, mode, sortMethod, sortOrder, sortAttributes, s.skin,
			)
			return execErr
		})
		if err != nil {
			return ViewUnchanged, fmt.Errorf("insert view for %s: %w", dir, err)
		}
		return ViewInserted, nil
	case err != nil:
		return ViewUnchanged, fmt.Errorf("select view for %s: %w", dir, err)
	}

	if window == filesWindow && viewMode == mode && method == sortMethod &&
		order == sortOrder && attributes == sortAttributes && skin.String == s.skin {
		return ViewUnchanged, nil
	}
	err = retryOnBusy(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx,
			"UPDATE view SET window = ?, viewMode = ?, sortMethod = ?, sortOrder = ?, sortAttributes = ?, skin = ? WHERE idView = ?",
			filesWindow, mode, sortMethod, sortOrder, sortAttributes, s.skin, id,
		)
		return execErr
	})
	if err != nil {
		return ViewUnchanged, fmt.Errorf("update view for %s: %w", dir, err)
	}
	return ViewUpdated, nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
