package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// archiveThreshold is the size at which the active log file is archived
// before a command appends to it.
const archiveThreshold = 8 << 20

// RetentionTarget names archived log files to prune in one directory.
type RetentionTarget struct {
	Dir     string
	Pattern string
	Exclude []string
	// Keep is the number of newest matches spared regardless of age.
	Keep int
}

// ArchiveLogFile renames path to "<stem>-<timestamp><ext>" once it has grown
// past the archive threshold. It returns the archive path, or "" when the
// file was left in place.
func ArchiveLogFile(path string, now time.Time) (string, error) {
	info, err := os.Stat(path)
	if err != nil || info.Size() < archiveThreshold {
		return "", nil
	}
	ext := filepath.Ext(path)
	archived := fmt.Sprintf("%s-%s%s", strings.TrimSuffix(path, ext), now.Format("20060102-150405"), ext)
	if err := os.Rename(path, archived); err != nil {
		return "", fmt.Errorf("archive log file %s: %w", path, err)
	}
	return archived, nil
}

type logCandidate struct {
	path    string
	modTime time.Time
}

// CleanupOldLogs removes target files last written more than retentionDays
// ago and returns how many were removed. Excluded paths and the newest Keep
// matches of each target survive. A retentionDays of 0 disables pruning.
func CleanupOldLogs(logger *slog.Logger, retentionDays int, targets ...RetentionTarget) int {
	if retentionDays <= 0 {
		return 0
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	removed := 0
	for _, target := range targets {
		candidates := retentionCandidates(target)
		slices.SortFunc(candidates, func(a, b logCandidate) int { return b.modTime.Compare(a.modTime) })
		for i, c := range candidates {
			if i < target.Keep || !c.modTime.Before(cutoff) {
				continue
			}
			if err := os.Remove(c.path); err != nil {
				WarnWithContext(logger, "log retention remove failed; file remains", "log_retention_failed",
					String("path", c.path),
					Error(err),
					String(FieldErrorHint, "check file permissions and paths.log_dir ownership"),
					String(FieldImpact, "old log file remains on disk"),
				)
				continue
			}
			removed++
			if logger != nil {
				logger.Info("log pruned",
					String("path", c.path),
					String(FieldEventType, "log_pruned"),
				)
			}
		}
	}
	return removed
}

func retentionCandidates(target RetentionTarget) []logCandidate {
	dir := strings.TrimSpace(target.Dir)
	if dir == "" {
		return nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, strings.TrimSpace(target.Pattern)))
	if err != nil {
		return nil
	}
	var out []logCandidate
	for _, match := range matches {
		abs, err := filepath.Abs(match)
		if err != nil {
			continue
		}
		if slices.ContainsFunc(target.Exclude, func(ex string) bool {
			exAbs, err := filepath.Abs(strings.TrimSpace(ex))
			return err == nil && exAbs == abs
		}) {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		out = append(out, logCandidate{path: abs, modTime: info.ModTime()})
	}
	return out
}
