// Package fileutil provides file and directory helpers for writing the
// compiled course.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// Sentinel errors for file utility operations.
var (
	ErrDestinationExists = errors.New("destination already exists")
	ErrNotDirectory      = errors.New("not a directory")
)

// Permissions for generated files and directories.
const (
	DirPerm  = 0o755
	FilePerm = 0o644
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), FilePerm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// CopyFile copies a regular file, creating parent directories of dst.
func CopyFile(src, dst string) (err error) {
	in, err := os.Open(src) // #nosec G304 -- caller-controlled source tree
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), DirPerm); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, FilePerm) // #nosec G304 -- caller-controlled destination
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}

// CopyTree copies the directory src to dst. dst must not exist.
func CopyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, src)
	}
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("%w: %s", ErrDestinationExists, dst)
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, DirPerm)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return CopyFile(path, target)
	})
}

// CopyFigures copies the files of every directory under contentDir whose
// slash-separated relative path fully matches pattern into dest, flat.
// Later directories overwrite same-named files of earlier ones. It returns
// the copied destination paths in sorted order.
func CopyFigures(contentDir, dest, pattern string) ([]string, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, fmt.Errorf("figure pattern %q: %w", pattern, err)
	}
	if err := os.MkdirAll(dest, DirPerm); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dest, err)
	}

	seen := map[string]bool{}
	err = filepath.WalkDir(contentDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(contentDir, path)
		if err != nil {
			return err
		}
		if !re.MatchString(filepath.ToSlash(rel)) {
			return nil
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if !e.Type().IsRegular() {
				continue
			}
			target := filepath.Join(dest, e.Name())
			if err := CopyFile(filepath.Join(path, e.Name()), target); err != nil {
				return err
			}
			seen[target] = true
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("copying figures: %w", err)
	}

	copied := make([]string, 0, len(seen))
	for p := range seen {
		copied = append(copied, p)
	}
	sort.Strings(copied)
	return copied, nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
