package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// DirMode is used for every directory the packager creates.
	DirMode os.FileMode = 0o755
	// ExecutableMode is applied to launchers and runtime binaries.
	ExecutableMode os.FileMode = 0o755
)

// EnsureDir creates path and its parents if absent.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, DirMode); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}

	return nil
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Lstat(path)

	return err == nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// CopyFile copies src to dst, replacing dst and keeping the source mode.
// Copying a file onto itself does nothing.
func CopyFile(src, dst string) error {
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}

	defer func() {
		_ = in.Close()
	}()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	if existing, statErr := os.Stat(dst); statErr == nil && os.SameFile(info, existing) {
		return nil
	}

	if err = EnsureDir(filepath.Dir(dst)); err != nil {
		return err
	}

	out, err := os.OpenFile(filepath.Clean(dst), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()

		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}

	if err = out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, err)
	}

	// OpenFile honours the umask, so set the mode explicitly.
	return os.Chmod(dst, info.Mode().Perm())
}

// CopyFileToDir copies src into dir keeping its base name and returns the new path.
func CopyFileToDir(src, dir string) (string, error) {
	dst := filepath.Join(dir, filepath.Base(src))

	return dst, CopyFile(src, dst)
}

// CopyDir copies the contents of src into dst. Existing files are overwritten,
// symlinks are recreated rather than followed.
func CopyDir(src, dst string) error {
	if !IsDir(src) {
		return fmt.Errorf("copy %s: %w", src, fs.ErrNotExist)
	}

	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		target := filepath.Join(dst, rel)

		switch {
		case entry.IsDir():
			return EnsureDir(target)
		case entry.Type()&fs.ModeSymlink != 0:
			return copySymlink(path, target)
		default:
			return CopyFile(path, target)
		}
	})
}

// CopyDirToDir copies the folder src as a child of dir and returns the new path.
func CopyDirToDir(src, dir string) (string, error) {
	dst := filepath.Join(dir, filepath.Base(src))

	return dst, CopyDir(src, dst)
}

// ReplaceDir removes dst and copies the contents of src into it.
func ReplaceDir(src, dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		return fmt.Errorf("remove %s: %w", dst, err)
	}

	return CopyDir(src, dst)
}

// MakeExecutable sets ExecutableMode on every regular file directly under dir.
// A missing dir has nothing to mark.
func MakeExecutable(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err = os.Chmod(path, ExecutableMode); err != nil {
			return fmt.Errorf("chmod %s: %w", path, err)
		}
	}

	return nil
}

// Concat returns the concatenated contents of the files, in order.
func Concat(paths ...string) ([]byte, error) {
	var contents []byte

	for _, path := range paths {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		contents = append(contents, data...)
	}

	return contents, nil
}

// Symlink creates link pointing at target, replacing an existing link.
func Symlink(target, link string) error {
	if err := os.Remove(link); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", link, err)
	}

	if err := EnsureDir(filepath.Dir(link)); err != nil {
		return err
	}

	if err := os.Symlink(target, link); err != nil {
		return fmt.Errorf("symlink %s -> %s: %w", link, target, err)
	}

	return nil
}

// copySymlink recreates the symlink at path as target.
func copySymlink(path, target string) error {
	dest, err := os.Readlink(path)
	if err != nil {
		return fmt.Errorf("readlink %s: %w", path, err)
	}

	return Symlink(dest, target)
}
