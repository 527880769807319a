// Package archive writes tar archives for the storage bulk-load endpoint.
//
// Only the operations the bulk loader needs are exposed: adding a file, adding
// an empty directory, adding a directory tree, and finalizing the archive.
// Archives can optionally be gzip-compressed.
package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Format is the archive encoding.
type Format int

const (
	FormatTar Format = iota
	FormatTarGz
)

// ErrClosed is returned when writing to a finalized archive.
var ErrClosed = errors.New("archive is closed")

// QueryValue returns the value for the extract-archive query parameter.
func (f Format) QueryValue() string {
	if f == FormatTarGz {
		return "tar.gz"
	}
	return "tar"
}

// Extension returns the conventional file extension, including the dot.
func (f Format) Extension() string {
	if f == FormatTarGz {
		return ".tar.gz"
	}
	return ".tar"
}

// FormatFromPath picks the format from a file name.
func FormatFromPath(name string) Format {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz") {
		return FormatTarGz
	}
	return FormatTar
}

// Writer adds entries to a tar stream.
type Writer struct {
	tw     *tar.Writer
	gz     *gzip.Writer
	file   *os.File
	closed bool
}

// NewWriter returns a Writer that encodes onto w. Closing the Writer does not
// close w.
func NewWriter(w io.Writer, format Format) *Writer {
	aw := &Writer{}
	if format == FormatTarGz {
		aw.gz = gzip.NewWriter(w)
		aw.tw = tar.NewWriter(aw.gz)
	} else {
		aw.tw = tar.NewWriter(w)
	}
	return aw
}

// Create creates the file at name and returns a Writer for it.
func Create(name string, format Format) (*Writer, error) {
	f, err := os.Create(filepath.Clean(name))
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}
	w := NewWriter(f, format)
	w.file = f
	return w, nil
}

// AddFile copies the local file src into the archive as name.
// An empty name uses the base name of src.
func (w *Writer) AddFile(src, name string) error {
	if w.closed {
		return ErrClosed
	}
	if name == "" {
		name = filepath.Base(src)
	}

	f, err := os.Open(src) //#nosec G304 -- src is supplied by the caller
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("add %s: not a regular file", src)
	}

	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     entryName(name),
		Size:     info.Size(),
		Mode:     int64(info.Mode().Perm()),
		ModTime:  info.ModTime(),
	}
	if err := w.tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := io.Copy(w.tw, f); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	return nil
}

// AddEmptyDir adds a directory entry.
func (w *Writer) AddEmptyDir(name string) error {
	if w.closed {
		return ErrClosed
	}

	hdr := &tar.Header{
		Typeflag: tar.TypeDir,
		Name:     entryName(name) + "/",
		Mode:     0o755,
	}
	if err := w.tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

// AddDirectory adds the contents of root recursively. Entry names are
// relative to root; every subdirectory becomes an empty-dir entry.
func (w *Writer) AddDirectory(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return fmt.Errorf("calculate relative path: %w", err)
		}
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			return w.AddEmptyDir(rel)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return w.AddFile(p, rel)
	})
}

// Close finalizes the archive and closes the underlying file if the Writer
// was created with Create.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	errs := []error{w.tw.Close()}
	if w.gz != nil {
		errs = append(errs, w.gz.Close())
	}
	if w.file != nil {
		errs = append(errs, w.file.Close())
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}

func entryName(name string) string {
	name = path.Clean(filepath.ToSlash(name))
	return strings.TrimPrefix(name, "/")
}
