package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/selcdn/clientcli"
)

var existsCmd = &cobra.Command{
	Use:   "exists <container> <path>",
	Short: "Check whether an object exists",
	Long: `Check whether an object exists.

Exits 0 when the object exists and 1 when it does not, so it can be used in
scripts:

  selcdn exists -q images pets/cat.jpg && echo present`,
	Args: cobra.ExactArgs(2),
	RunE: runExists,
}

func runExists(cmd *cobra.Command, args []string) error {
	storage, err := getStorage(cmd)
	if err != nil {
		return err
	}

	exists, err := storage.IsExistFile(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	result := clientcli.ExistsResult{Container: args[0], Path: args[1], Exists: exists}
	if err := getFormatter().FormatExists(os.Stdout, result); err != nil {
		return err
	}

	if !exists {
		return &exitError{code: 1}
	}
	return nil
}
