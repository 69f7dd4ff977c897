package reflection

import (
	"log/slog"

	"mediamirror/internal/fileutil"
	"mediamirror/internal/logging"
	"mediamirror/internal/services"
)

// Stats counts what a materialization did.
type Stats struct {
	Created   int
	Replaced  int
	Unchanged int
	Removed   int
}

// Changed reports whether any filesystem mutation happened.
func (s Stats) Changed() bool {
	return s.Created+s.Replaced+s.Removed > 0
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Created += other.Created
	s.Replaced += other.Replaced
	s.Unchanged += other.Unchanged
	s.Removed += other.Removed
}

// Projector materializes links on disk.
type Projector struct {
	logger *slog.Logger
}

// NewProjector returns a projector that logs each mutation to logger.
func NewProjector(logger *slog.Logger) *Projector {
	return &Projector{logger: logging.NewComponentLogger(logger, "reflection")}
}

// Materialize creates or repairs every link. Links that already point at
// their target are not touched and not logged. Every derived path is added
// to inspected, including links that fail.
func (p *Projector) Materialize(links []Link, inspected *Inspected) (Stats, error) {
	var stats Stats
	for _, link := range links {
		inspected.Add(link.Path)
		result, err := fileutil.EnsureSymlink(link.Path, link.Target)
		if err != nil {
			return stats, services.Wrap(services.ErrConfiguration, link.Path, "materialize link", "", err)
		}
		switch result {
		case fileutil.LinkUnchanged:
			stats.Unchanged++
			continue
		case fileutil.LinkCreated:
			stats.Created++
		case fileutil.LinkReplaced:
			stats.Replaced++
		}
		p.logger.Info("symlink "+result.String(),
			logging.String(logging.FieldEventType, "link_"+result.String()),
			logging.String("link", link.Path),
			logging.String("target", link.Target),
		)
	}
	return stats, nil
}
