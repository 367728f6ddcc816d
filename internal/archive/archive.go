// Package archive packs a directory tree into a gzip-compressed tarball.
package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"
)

// ErrArchive is returned when the tarball cannot be written.
var ErrArchive = errors.New("failed to create archive")

// entryTime is the modification time of every entry.
var entryTime = time.Unix(0, 0).UTC()

const (
	fileMode = 0o644
	dirMode  = 0o755
)

// TarGz writes every file and directory under srcDir to dest. Entry names
// are relative to srcDir and the root itself gets no entry, so the tree
// unpacks directly into the extraction directory. Entries are written in
// lexical order with fixed times, modes and owners, so the same tree always
// gives the same bytes.
func TarGz(srcDir, dest string) (err error) {
	info, err := os.Stat(srcDir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrArchive, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrArchive, srcDir)
	}

	f, err := os.Create(dest) // #nosec G304 -- destination chosen by the caller
	if err != nil {
		return fmt.Errorf("%w: %w", ErrArchive, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrArchive, cerr)
		}
		if err != nil {
			_ = os.Remove(dest)
		}
	}()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	if err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == srcDir {
			return nil
		}
		return addEntry(tw, srcDir, path, d)
	}); err != nil {
		return fmt.Errorf("%w: %w", ErrArchive, err)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrArchive, err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrArchive, err)
	}
	return nil
}

func addEntry(tw *tar.Writer, root, path string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() && !info.IsDir() {
		return nil
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return err
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = filepath.ToSlash(rel)
	hdr.Mode = fileMode
	if info.IsDir() {
		hdr.Name += "/"
		hdr.Mode = dirMode
	}
	hdr.ModTime = entryTime
	hdr.AccessTime, hdr.ChangeTime = time.Time{}, time.Time{}
	hdr.Uid, hdr.Gid = 0, 0
	hdr.Uname, hdr.Gname = "", ""
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if info.IsDir() {
		return nil
	}

	src, err := os.Open(path) // #nosec G304 -- path comes from walking root
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	_, err = io.Copy(tw, src)
	return err
}
