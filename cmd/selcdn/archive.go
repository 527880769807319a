package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sagarc03/selcdn/archive"
	"github.com/sagarc03/selcdn/clientcli"
)

var uploadArchiveGzip bool

var uploadArchiveCmd = &cobra.Command{
	Use:   "upload-archive <archive|directory> [container]",
	Short: "Bulk upload through server-side archive extraction",
	Long: `Upload a tar or tar.gz archive that the service unpacks into objects.

A directory is packed into a temporary archive first; --gzip compresses it.
For an existing archive the format follows the extension (.tar.gz and .tgz
are compressed).

Without a container the archive's top-level directories name the containers.

Examples:
  selcdn upload-archive ./site.tar web
  selcdn upload-archive --gzip ./public web
  selcdn upload-archive ./containers.tar.gz`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runUploadArchive,
}

func init() {
	uploadArchiveCmd.Flags().BoolVarP(&uploadArchiveGzip, "gzip", "z", false, "gzip the archive built from a directory")
}

func runUploadArchive(cmd *cobra.Command, args []string) error {
	source := args[0]
	container := ""
	if len(args) > 1 {
		container = args[1]
	}

	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("stat %s: %w", source, err)
	}

	storage, err := getStorage(cmd)
	if err != nil {
		return err
	}

	archivePath := source
	if info.IsDir() {
		format := archive.FormatTar
		if uploadArchiveGzip {
			format = archive.FormatTarGz
		}

		tmpDir, err := os.MkdirTemp("", "selcdn-archive-")
		if err != nil {
			return fmt.Errorf("create temp dir: %w", err)
		}
		defer func() { _ = os.RemoveAll(tmpDir) }()

		archivePath = filepath.Join(tmpDir, filepath.Base(filepath.Clean(source))+format.Extension())
		if err := packDirectory(source, archivePath, format); err != nil {
			return err
		}
		slog.Debug("packed directory", "dir", source, "archive", archivePath)
	}

	result, err := storage.LoadArchive(cmd.Context(), archivePath, container)
	if err != nil {
		return err
	}

	out := &clientcli.ArchiveUploadResult{
		Source:    source,
		Container: container,
		Format:    archive.FormatFromPath(archivePath).QueryValue(),
		Result:    result,
	}
	if err := getFormatter().FormatArchive(os.Stdout, out); err != nil {
		return err
	}

	if len(result.Errors) > 0 {
		return &exitError{code: 1}
	}
	return nil
}

func packDirectory(dir, dest string, format archive.Format) error {
	w, err := archive.Create(dest, format)
	if err != nil {
		return err
	}

	if err := w.AddDirectory(dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("pack %s: %w", dir, err)
	}

	return w.Close()
}
