package library

import (
	"os"
	"path/filepath"
	"strings"

	"mediamirror/internal/overlay"
	"mediamirror/internal/services"
)

// Root returns the nearest ancestor directory (inclusive) that carries a root
// marker.
func (c *Context) Root() (string, error) {
	if root := FindRoot(c.path); root != "" {
		return root, nil
	}
	return "", configErrorf(c, "find root", "no %s marker in %s or any ancestor", overlay.RootMarkerName, c.path)
}

// FindRoot returns the nearest ancestor directory (inclusive) of dir that
// carries a root marker, or "" when there is none.
func FindRoot(dir string) string {
	dir = filepath.Clean(dir)
	for {
		if info, err := os.Stat(filepath.Join(dir, overlay.RootMarkerName)); err == nil && !info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// ReflectedRoot reads the root marker and returns the absolute directory it
// names. The directory must already exist.
func (c *Context) ReflectedRoot() (string, error) {
	root, err := c.Root()
	if err != nil {
		return "", err
	}
	target, _, err := overlay.ReadRootMarker(root)
	if err != nil {
		return "", &ConfigError{Context: c.String(), Op: "read root marker", Marker: services.ErrConfiguration, Err: err}
	}
	if target == "" || !filepath.IsAbs(target) {
		return "", configErrorf(c, "read root marker", "%s must contain an absolute path, got %q", filepath.Join(root, overlay.RootMarkerName), target)
	}
	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		return "", configErrorf(c, "read root marker", "reflected root %q is not an existing directory", target)
	}
	return filepath.Clean(target), nil
}

// RelativePath returns the context's path relative to its root.
func (c *Context) RelativePath() (string, error) {
	root, err := c.Root()
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, c.path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", configErrorf(c, "relative path", "%s is not below root %s", c.path, root)
	}
	return rel, nil
}

// ReflectedPath maps the context's directory into the reflected tree without
// touching the filesystem.
func (c *Context) ReflectedPath() (string, error) {
	reflected, err := c.ReflectedRoot()
	if err != nil {
		return "", err
	}
	rel, err := c.RelativePath()
	if err != nil {
		return "", err
	}
	return filepath.Join(reflected, rel), nil
}

// EnsureReflectedPath is ReflectedPath followed by creating the directory.
func (c *Context) EnsureReflectedPath() (string, error) {
	path, err := c.ReflectedPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", &ConfigError{Context: c.String(), Op: "create reflected directory", Marker: services.ErrConfiguration, Err: err}
	}
	return path, nil
}

// UnderRootPath returns the directory directly below the root that contains
// this context, or "" when the context is the root itself.
func (c *Context) UnderRootPath() (string, error) {
	root, err := c.Root()
	if err != nil {
		return "", err
	}
	rel, err := c.RelativePath()
	if err != nil || rel == "." {
		return "", err
	}
	first := strings.SplitN(rel, string(filepath.Separator), 2)[0]
	return filepath.Join(root, first), nil
}

// IsRightUnderRoot reports whether the context's directory sits directly
// below its root.
func (c *Context) IsRightUnderRoot() bool {
	under, err := c.UnderRootPath()
	return err == nil && under != "" && under == filepath.Clean(c.path)
}
