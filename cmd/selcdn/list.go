package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/selcdn/clientcli"
)

var lsCmd = &cobra.Command{
	Use:   "ls <container> [folder]",
	Short: "List objects in a container or folder",
	Long: `List objects in a container.

With a folder, only the folder's immediate children are listed. Virtual
folders are shown with a trailing "/".

Examples:
  selcdn ls images
  selcdn ls images pets
  selcdn ls images pets --json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	container := args[0]
	folder := ""
	if len(args) > 1 {
		folder = args[1]
	}

	storage, err := getStorage(cmd)
	if err != nil {
		return err
	}

	entries, err := storage.FilesList(cmd.Context(), container, folder)
	if err != nil {
		return err
	}

	return getFormatter().FormatList(os.Stdout, &clientcli.ListResult{
		Container: container,
		Folder:    folder,
		Items:     entries,
	})
}
