package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sagarc03/selcdn"
	"github.com/sagarc03/selcdn/clientcli"
)

var (
	uploadContentType string
	uploadDeleteAt    int64
	uploadDeleteAfter int64
)

var uploadCmd = &cobra.Command{
	Use:   "upload <container> <local-file> [remote-path]",
	Short: "Upload a file",
	Long: `Upload a single file into a container.

The remote path defaults to the file's base name. The content type is
detected from the extension unless --content-type is given.

An object can expire: --delete-at takes a Unix timestamp, --delete-after a
lifetime in seconds. When both are given only --delete-at is sent.

Examples:
  selcdn upload images ./cat.jpg
  selcdn upload images ./cat.jpg pets/cat.jpg
  selcdn upload tmp ./build.log --delete-after 3600`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadContentType, "content-type", "t", "", "override content-type")
	uploadCmd.Flags().Int64Var(&uploadDeleteAt, "delete-at", 0, "expire the object at this Unix time")
	uploadCmd.Flags().Int64Var(&uploadDeleteAfter, "delete-after", 0, "expire the object after this many seconds")
}

func runUpload(cmd *cobra.Command, args []string) error {
	container, localPath := args[0], args[1]

	remotePath := filepath.Base(localPath)
	if len(args) > 2 {
		remotePath = selcdn.NormalizeObjectName(args[2])
		if remotePath == "" {
			return fmt.Errorf("remote path %q: %w", args[2], clientcli.ErrEmptyPath)
		}
	}

	info, err := os.Stat(localPath)
	if err != nil {
		return fmt.Errorf("stat %s: %w", localPath, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, use upload-archive", localPath)
	}

	storage, err := getStorage(cmd)
	if err != nil {
		return err
	}

	result := clientcli.UploadResult{
		Container:   container,
		LocalPath:   localPath,
		RemotePath:  remotePath,
		ContentType: uploadContentType,
		Size:        info.Size(),
		DeleteAt:    uploadDeleteAt,
	}
	if uploadDeleteAt == 0 {
		result.DeleteAfter = uploadDeleteAfter
	}

	result.Err = storage.LoadFile(cmd.Context(), container, localPath, selcdn.LoadFileOptions{
		DestPath:    remotePath,
		DeleteAt:    uploadDeleteAt,
		DeleteAfter: uploadDeleteAfter,
		ContentType: uploadContentType,
	})

	if err := getFormatter().FormatUpload(os.Stdout, []clientcli.UploadResult{result}); err != nil {
		return err
	}

	if result.Err != nil {
		return &exitError{code: 1}
	}
	return nil
}
