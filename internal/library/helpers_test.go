package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		writeFile(t, filepath.Join(dir, name), "")
	}
}

func collect(t *testing.T, root string) []*Context {
	t.Helper()
	contexts, err := Collect(context.Background(), root, DefaultOptions())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return contexts
}

func findContext(t *testing.T, contexts []*Context, base string) *Context {
	t.Helper()
	for _, c := range contexts {
		if filepath.Base(c.Path()) == base {
			return c
		}
	}
	t.Fatalf("no context for %q", base)
	return nil
}

// seriesTree builds root/Show (series) with root/Show/S1 (season) holding
// two recognisable episodes and returns root.
func seriesTree(t *testing.T, seasonInfo string) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Show", ".info"), "series:\n\tname: Show\n\ttvdb: 123\n")
	writeFile(t, filepath.Join(root, "Show", "S1", ".info"), seasonInfo)
	touch(t, filepath.Join(root, "Show", "S1"), "Show ep01.mkv", "Show ep02.mkv")
	return root
}
