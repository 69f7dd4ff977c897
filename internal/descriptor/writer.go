package descriptor

import (
	"log/slog"

	"mediamirror/internal/fileutil"
	"mediamirror/internal/logging"
	"mediamirror/internal/reflection"
	"mediamirror/internal/services"
)

// Writer stores rendered descriptors, skipping files whose content already
// matches byte for byte.
type Writer struct {
	logger *slog.Logger
}

// NewWriter returns a Writer that logs each rewrite with old and new content.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{logger: logging.NewComponentLogger(logger, "descriptor")}
}

// Write stores docs and records their paths in inspected. It returns the
// number of files that changed.
func (w *Writer) Write(docs []Document, inspected *reflection.Inspected) (int, error) {
	written := 0
	for _, doc := range docs {
		inspected.Add(doc.Path)
		changed, previous, err := fileutil.WriteFileIfChanged(doc.Path, doc.Content, 0o644)
		if err != nil {
			return written, services.Wrap(services.ErrConfiguration, doc.Path, "write descriptor", "", err)
		}
		if !changed {
			continue
		}
		written++
		w.logger.Info("descriptor written",
			logging.String(logging.FieldEventType, "descriptor_written"),
			logging.String("path", doc.Path),
			logging.String("previous", string(previous)),
			logging.String("current", string(doc.Content)),
		)
	}
	return written, nil
}
