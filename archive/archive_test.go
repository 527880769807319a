package archive_test

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/sagarc03/selcdn/archive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	name    string
	dir     bool
	content string
}

func readEntries(t *testing.T, r io.Reader) []entry {
	t.Helper()

	var entries []entry
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)

		data, err := io.ReadAll(tr)
		require.NoError(t, err)

		entries = append(entries, entry{
			name:    hdr.Name,
			dir:     hdr.Typeflag == tar.TypeDir,
			content: string(data),
		})
	}
	return entries
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		name string
		want archive.Format
	}{
		{"site.tar", archive.FormatTar},
		{"site.TAR.GZ", archive.FormatTarGz},
		{"site.tgz", archive.FormatTarGz},
		{"site", archive.FormatTar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, archive.FormatFromPath(tt.name))
		})
	}

	assert.Equal(t, "tar", archive.FormatTar.QueryValue())
	assert.Equal(t, "tar.gz", archive.FormatTarGz.QueryValue())
	assert.Equal(t, ".tar.gz", archive.FormatTarGz.Extension())
}

func TestWriter_AddFileAndDir(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.txt")
	writeFile(t, src, "alpha")

	var buf bytes.Buffer
	w := archive.NewWriter(&buf, archive.FormatTar)
	require.NoError(t, w.AddEmptyDir("docs"))
	require.NoError(t, w.AddFile(src, "docs/a.txt"))
	require.NoError(t, w.AddFile(src, ""))
	require.NoError(t, w.Close())

	assert.Equal(t, []entry{
		{name: "docs/", dir: true},
		{name: "docs/a.txt", content: "alpha"},
		{name: "a.txt", content: "alpha"},
	}, readEntries(t, &buf))
}

func TestWriter_AddDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"), "<html>")
	writeFile(t, filepath.Join(root, "css", "site.css"), "body{}")
	writeFile(t, filepath.Join(root, "css", "vendor", "x.css"), "x")

	var buf bytes.Buffer
	w := archive.NewWriter(&buf, archive.FormatTar)
	require.NoError(t, w.AddDirectory(root))
	require.NoError(t, w.Close())

	// WalkDir visits entries in lexical order.
	assert.Equal(t, []entry{
		{name: "css/", dir: true},
		{name: "css/site.css", content: "body{}"},
		{name: "css/vendor/", dir: true},
		{name: "css/vendor/x.css", content: "x"},
		{name: "index.html", content: "<html>"},
	}, readEntries(t, &buf))
}

func TestCreate_Gzip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	writeFile(t, src, "alpha")

	archivePath := filepath.Join(dir, "out.tar.gz")
	w, err := archive.Create(archivePath, archive.FormatTarGz)
	require.NoError(t, err)
	require.NoError(t, w.AddFile(src, "a.txt"))
	require.NoError(t, w.Close())

	f, err := os.Open(archivePath)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)

	assert.Equal(t, []entry{{name: "a.txt", content: "alpha"}}, readEntries(t, gz))
}

func TestWriter_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		w := archive.NewWriter(io.Discard, archive.FormatTar)
		err := w.AddFile(filepath.Join(t.TempDir(), "missing"), "x")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("directory is not a file", func(t *testing.T) {
		w := archive.NewWriter(io.Discard, archive.FormatTar)
		assert.Error(t, w.AddFile(t.TempDir(), "x"))
	})

	t.Run("closed writer", func(t *testing.T) {
		w := archive.NewWriter(io.Discard, archive.FormatTar)
		require.NoError(t, w.Close())
		require.NoError(t, w.Close())

		assert.ErrorIs(t, w.AddEmptyDir("d"), archive.ErrClosed)
		assert.ErrorIs(t, w.AddFile("x", "x"), archive.ErrClosed)
	})
}
