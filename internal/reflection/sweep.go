package reflection

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"mediamirror/internal/library"
	"mediamirror/internal/logging"
	"mediamirror/internal/services"
)

// Inspected is the set of derived paths produced during one pass.
type Inspected struct {
	paths map[string]struct{}
}

// NewInspected returns an empty set.
func NewInspected() *Inspected {
	return &Inspected{paths: make(map[string]struct{})}
}

// Add records derived paths.
func (s *Inspected) Add(paths ...string) {
	for _, p := range paths {
		s.paths[filepath.Clean(p)] = struct{}{}
	}
}

// Has reports whether path was produced in this pass.
func (s *Inspected) Has(path string) bool {
	_, ok := s.paths[filepath.Clean(path)]
	return ok
}

// Len returns the number of recorded paths.
func (s *Inspected) Len() int {
	return len(s.paths)
}

// Sweep removes entries of the context's derived directory that were not
// produced in this pass and have no same-named source entry. Directories are
// removed recursively; symlinks are removed without following them.
func (p *Projector) Sweep(c *library.Context, inspected *Inspected) (Stats, error) {
	var stats Stats
	if !c.Kind().Reflected() {
		return stats, nil
	}
	reflected, err := c.ReflectedPath()
	if err != nil {
		return stats, err
	}
	entries, err := os.ReadDir(reflected)
	if errors.Is(err, fs.ErrNotExist) {
		return stats, nil
	}
	if err != nil {
		return stats, services.Wrap(services.ErrConfiguration, reflected, "sweep", "list derived directory", err)
	}
	for _, entry := range entries {
		derived := filepath.Join(reflected, entry.Name())
		if inspected.Has(derived) {
			continue
		}
		if _, err := os.Lstat(filepath.Join(c.Path(), entry.Name())); err == nil {
			continue
		}
		if entry.IsDir() {
			err = os.RemoveAll(derived)
		} else {
			err = os.Remove(derived)
		}
		if err != nil {
			return stats, services.Wrap(services.ErrConfiguration, derived, "sweep", "remove stale entry", err)
		}
		stats.Removed++
		p.logger.Info("stale derived entry removed",
			logging.String(logging.FieldEventType, "derived_removed"),
			logging.String(logging.FieldContext, c.Path()),
			logging.String("path", derived),
			logging.Bool("directory", entry.IsDir()),
		)
	}
	return stats, nil
}
