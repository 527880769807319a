package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/selcdn/clientcli"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show account usage",
	Long: `Show the number of containers and objects and the bytes used by the account.

Examples:
  selcdn info
  selcdn info --json`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

var containersCmd = &cobra.Command{
	Use:     "containers",
	Aliases: []string{"lsc"},
	Short:   "List containers",
	Args:    cobra.NoArgs,
	RunE:    runContainers,
}

var containerCmd = &cobra.Command{
	Use:   "container <name>",
	Short: "Show a container's usage, type, and domains",
	Long: `Show a container's object count, bytes used, type, and bound domains.

The service's status is not checked: a missing container shows zero counters.`,
	Args: cobra.ExactArgs(1),
	RunE: runContainer,
}

func runInfo(cmd *cobra.Command, _ []string) error {
	storage, err := getStorage(cmd)
	if err != nil {
		return err
	}

	info, err := storage.StorageInfo(cmd.Context())
	if err != nil {
		return err
	}

	return getFormatter().FormatStorageInfo(os.Stdout, info)
}

func runContainers(cmd *cobra.Command, _ []string) error {
	storage, err := getStorage(cmd)
	if err != nil {
		return err
	}

	containers, err := storage.ContainersList(cmd.Context())
	if err != nil {
		return err
	}

	return getFormatter().FormatContainers(os.Stdout, containers)
}

func runContainer(cmd *cobra.Command, args []string) error {
	storage, err := getStorage(cmd)
	if err != nil {
		return err
	}

	info, err := storage.ContainerInfo(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	return getFormatter().FormatContainer(os.Stdout, clientcli.ContainerResult{Name: args[0], Info: info})
}
