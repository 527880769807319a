package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/selcdn/clientcli"
)

var rmRecursive bool

var rmCmd = &cobra.Command{
	Use:     "rm <container> <path> [path...]",
	Aliases: []string{"delete"},
	Short:   "Delete objects or folders",
	Long: `Delete one or more objects from a container.

With -r each path is treated as a virtual folder: everything below it is
deleted depth-first, then the folder marker itself. Deletion stops at the
first failure inside a folder; objects already removed stay removed.

Examples:
  selcdn rm images pets/cat.jpg
  selcdn rm images a.txt b.txt c.txt
  selcdn rm -r images pets`,
	Args: cobra.MinimumNArgs(2),
	RunE: runDelete,
}

func init() {
	rmCmd.Flags().BoolVarP(&rmRecursive, "recursive", "r", false, "delete virtual folders recursively")
}

func runDelete(cmd *cobra.Command, args []string) error {
	container, paths := args[0], args[1:]

	storage, err := getStorage(cmd)
	if err != nil {
		return err
	}

	results := make([]clientcli.DeleteResult, 0, len(paths))
	failed := false
	for _, path := range paths {
		r := clientcli.DeleteResult{Container: container, Path: path, Recursive: rmRecursive}
		if rmRecursive {
			r.Err = storage.DeleteFolder(cmd.Context(), container, path)
		} else {
			r.Err = storage.DeleteFile(cmd.Context(), container, path)
		}
		r.Deleted = r.Err == nil
		failed = failed || r.Err != nil
		results = append(results, r)
	}

	if err := getFormatter().FormatDelete(os.Stdout, results); err != nil {
		return err
	}

	if failed {
		return &exitError{code: 1}
	}
	return nil
}
