package overlay

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Path returns the overlay file location for dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Read loads the overlay document of dir.
func Read(dir string) (*Document, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Write stores doc as the overlay of dir unless the file already holds an
// equal document. It reports whether the file changed and returns the
// previous content for logging.
func Write(dir string, doc *Document) (bool, []byte, error) {
	path := Path(dir)
	previous, err := os.ReadFile(path)
	switch {
	case err == nil:
		if current, parseErr := Parse(previous); parseErr == nil && current.Equal(doc) {
			return false, previous, nil
		}
	case errors.Is(err, fs.ErrNotExist):
		previous = nil
	default:
		return false, nil, fmt.Errorf("read overlay: %w", err)
	}

	data, err := Marshal(doc)
	if err != nil {
		return false, previous, fmt.Errorf("encode overlay: %w", err)
	}
	if bytes.Equal(previous, data) {
		return false, previous, nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, previous, fmt.Errorf("write overlay: %w", err)
	}
	return true, previous, nil
}

// ReadRootMarker returns the reflected root named by the marker in dir.
func ReadRootMarker(dir string) (string, bool, error) {
	data, err := os.ReadFile(filepath.Join(dir, RootMarkerName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return strings.TrimSpace(string(data)), true, nil
}

// untabify expands indentation tabs to two spaces each.
func untabify(data []byte) []byte {
	lines := bytes.Split(data, []byte("\n"))
	for i, line := range lines {
		n := 0
		for n < len(line) && line[n] == '\t' {
			n++
		}
		if n == 0 {
			continue
		}
		lines[i] = append(bytes.Repeat([]byte("  "), n), line[n:]...)
	}
	return bytes.Join(lines, []byte("\n"))
}

// tabify turns each pair of leading spaces into a tab.
func tabify(data []byte) []byte {
	lines := bytes.Split(data, []byte("\n"))
	for i, line := range lines {
		n := 0
		for n < len(line) && line[n] == ' ' {
			n++
		}
		if n < 2 {
			continue
		}
		prefix := append(bytes.Repeat([]byte("\t"), n/2), bytes.Repeat([]byte(" "), n%2)...)
		lines[i] = append(prefix, line[n:]...)
	}
	return bytes.Join(lines, []byte("\n"))
}
