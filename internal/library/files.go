package library

import (
	"os"
	"path/filepath"
	"slices"

	"mediamirror/internal/overlay"
	"mediamirror/internal/services"
)

// Filenames lists every entry name in the context's directory, sorted.
func (c *Context) Filenames() ([]string, error) {
	entries, err := os.ReadDir(c.path)
	if err != nil {
		return nil, &ConfigError{Context: c.String(), Op: "list directory", Marker: services.ErrConfiguration, Err: err}
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	slices.Sort(names)
	return names, nil
}

// RegularFilenames lists the regular files (following symlinks) in the
// context's directory, excluding the overlay document and root marker.
func (c *Context) RegularFilenames() ([]string, error) {
	names, err := c.Filenames()
	if err != nil {
		return nil, err
	}
	out := names[:0]
	for _, name := range names {
		if name == overlay.FileName || name == overlay.RootMarkerName {
			continue
		}
		info, err := os.Stat(filepath.Join(c.path, name))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

// MediaFilenames lists the regular files whose extension is a configured
// media extension, sorted.
func (c *Context) MediaFilenames() ([]string, error) {
	names, err := c.RegularFilenames()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		if c.opts.isMediaExtension(filepath.Ext(name)) {
			out = append(out, name)
		}
	}
	return out, nil
}

// MovieFilename returns the main movie file: the configured moviefilename,
// which must be present, or the single media file in the directory.
func (c *Context) MovieFilename() (string, error) {
	files, err := c.MediaFilenames()
	if err != nil {
		return "", err
	}
	if configured := c.GetSingleString("moviefilename"); configured != "" {
		if !slices.Contains(files, configured) {
			return "", validationErrorf(c, "movie file", "moviefilename %q is not among media files %q", configured, files)
		}
		return configured, nil
	}
	if len(files) != 1 {
		return "", validationErrorf(c, "movie file", "expected exactly one media file or a moviefilename, found %q", files)
	}
	return files[0], nil
}
