package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	content := []byte("verified copy content")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFileVerified(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestCopyFileVerified_MissingSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "nonexistent")
	dst := filepath.Join(dir, "dst.bin")

	err := CopyFileVerified(src, dst)
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestEnsureSymlink(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "sub", "link.mkv")

	res, err := EnsureSymlink(link, "/src/a.mkv")
	if err != nil || res != LinkCreated {
		t.Fatalf("first call: %v, %v", res, err)
	}
	res, err = EnsureSymlink(link, "/src/a.mkv")
	if err != nil || res != LinkUnchanged {
		t.Fatalf("second call: %v, %v", res, err)
	}
	res, err = EnsureSymlink(link, "/src/b.mkv")
	if err != nil || res != LinkReplaced {
		t.Fatalf("retarget: %v, %v", res, err)
	}
	if got, _ := os.Readlink(link); got != "/src/b.mkv" {
		t.Fatalf("link target = %q", got)
	}

	if _, err := EnsureSymlink(dir, "/src/a.mkv"); err == nil {
		t.Fatal("expected error when a directory occupies the link path")
	}
}

func TestWriteFileIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "season.nfo")

	changed, previous, err := WriteFileIfChanged(path, []byte("one"), 0o644)
	if err != nil || !changed || previous != nil {
		t.Fatalf("create: changed=%v previous=%q err=%v", changed, previous, err)
	}
	changed, _, err = WriteFileIfChanged(path, []byte("one"), 0o644)
	if err != nil || changed {
		t.Fatalf("identical content should not be rewritten: changed=%v err=%v", changed, err)
	}
	changed, previous, err = WriteFileIfChanged(path, []byte("two"), 0o644)
	if err != nil || !changed || string(previous) != "one" {
		t.Fatalf("update: changed=%v previous=%q err=%v", changed, previous, err)
	}
}

func TestWriteFileIfChangedReplacesSymlink(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.nfo")
	if err := os.WriteFile(source, []byte("<user-authored/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "derived.nfo")
	if err := os.Symlink(source, path); err != nil {
		t.Fatal(err)
	}

	changed, previous, err := WriteFileIfChanged(path, []byte("<season/>"), 0o644)
	if err != nil || !changed || previous != nil {
		t.Fatalf("changed=%v previous=%q err=%v", changed, previous, err)
	}
	info, err := os.Lstat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !info.Mode().IsRegular() {
		t.Fatalf("derived path mode = %v, want regular file", info.Mode())
	}
	got, err := os.ReadFile(source)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "<user-authored/>" {
		t.Fatalf("link target rewritten: %q", got)
	}
}
