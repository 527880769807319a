package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sagarc03/selcdn/auth"
	"github.com/sagarc03/selcdn/clientcli"
	"github.com/sagarc03/selcdn/transport"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Manage account profiles",
	Long: `Keep credentials for several storage accounts in ~/.selcdn/config.yaml
(or $SELCDN_CONFIG) and pick one per run with --profile or $SELCDN_PROFILE.`,
}

var configureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles, marking the default with *",
	Args: cobra.NoArgs,
	RunE: runConfigureList,
}

var configureAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add or update a profile",
	Long: `Prompt for the auth URL, login and password of an account and store
them under <name>. The credentials are tried against the auth endpoint first;
a failed login asks before saving.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigureAdd,
}

var configureRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a profile",
	Args:    cobra.ExactArgs(1),
	RunE:    runConfigureRemove,
}

var configureSetDefaultCmd = &cobra.Command{
	Use:   "set-default <name>",
	Short: "Set the default profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigureSetDefault,
}

var configureShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show profile details",
	Long: `Print one profile, the default when no name is given. The password is
masked unless --show-secrets is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigureShow,
}

var showSecrets bool

func init() {
	configureCmd.AddCommand(configureListCmd)
	configureCmd.AddCommand(configureAddCmd)
	configureCmd.AddCommand(configureRemoveCmd)
	configureCmd.AddCommand(configureSetDefaultCmd)
	configureCmd.AddCommand(configureShowCmd)

	configureShowCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show passwords")
	configureListCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show passwords")
}

// editProfiles loads the profile file, applies edit and saves the result.
// A missing file starts empty when create is set.
func editProfiles(create bool, edit func(*clientcli.ConfigFile) error) error {
	path := getConfigPath()

	load := clientcli.LoadConfigFile
	if create {
		load = clientcli.LoadOrEmpty
	}
	file, err := load(path)
	if err != nil {
		return err
	}

	if err := edit(file); err != nil {
		return err
	}
	return file.Save(path)
}

// errCancelled stops an edit without saving; the command still succeeds.
var errCancelled = errors.New("cancelled")

func confirm(label string) bool {
	_, err := (&promptui.Prompt{Label: label, IsConfirm: true}).Run()
	return err == nil
}

func runConfigureList(_ *cobra.Command, _ []string) error {
	file, err := clientcli.LoadOrEmpty(getConfigPath())
	if err != nil {
		return err
	}

	if len(file.Profiles) == 0 {
		fmt.Println("No profiles yet. Create one with 'selcdn configure add <name>'.")
		return nil
	}
	return getFormatter().FormatProfileList(os.Stdout, file.Profiles, file.DefaultName(), showSecrets)
}

// askCredentials prompts for the account fields, offering the values of
// current as defaults.
func askCredentials(current clientcli.Profile) (clientcli.Profile, error) {
	if current.AuthURL == "" {
		current.AuthURL = auth.DefaultAuthURL
	}

	fields := []struct {
		prompt promptui.Prompt
		dest   *string
	}{
		{promptui.Prompt{Label: "Auth URL", Default: current.AuthURL, Validate: validateAuthURL}, &current.AuthURL},
		{promptui.Prompt{Label: "Login", Default: current.Login, Validate: requireValue("login")}, &current.Login},
		{promptui.Prompt{Label: "Password", Mask: '*', Validate: requireValue("password")}, &current.Password},
	}

	for _, f := range fields {
		v, err := f.prompt.Run()
		if err != nil {
			return current, handlePromptError(err)
		}
		*f.dest = v
	}
	return current, nil
}

func requireValue(field string) func(string) error {
	return func(input string) error {
		if input == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func runConfigureAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	var replaced bool

	err := editProfiles(true, func(file *clientcli.ConfigFile) error {
		current := clientcli.Profile{Name: name}
		if p, err := file.GetProfile(name); err == nil {
			if !confirm(fmt.Sprintf("Profile %q exists, overwrite", name)) {
				return errCancelled
			}
			current = *p
		}

		profile, err := askCredentials(current)
		if err != nil {
			return err
		}

		fmt.Fprint(os.Stderr, "Logging in... ")
		if err := checkCredentials(cmd.Context(), profile.AuthURL, profile.Login, profile.Password); err != nil {
			fmt.Fprintf(os.Stderr, "failed: %v\n", err)
			if !confirm("Keep the profile anyway") {
				return errCancelled
			}
		} else {
			fmt.Fprintln(os.Stderr, "ok")
		}

		replaced, err = file.PutProfile(profile)
		if err != nil {
			return err
		}

		makeDefault := len(file.Profiles) == 1
		if !makeDefault && file.DefaultName() != name {
			makeDefault = confirm("Use it as the default profile")
		}
		if makeDefault {
			return file.SetDefault(name)
		}
		return nil
	})
	switch {
	case errors.Is(err, errCancelled):
		fmt.Println("Nothing changed.")
		return nil
	case err != nil:
		return err
	}

	verb := "Added"
	if replaced {
		verb = "Updated"
	}
	fmt.Printf("%s profile %q.\n", verb, name)
	return nil
}

func runConfigureRemove(_ *cobra.Command, args []string) error {
	name := args[0]

	err := editProfiles(false, func(file *clientcli.ConfigFile) error {
		if _, err := file.GetProfile(name); err != nil {
			return err
		}
		if !confirm(fmt.Sprintf("Delete profile %q", name)) {
			return errCancelled
		}
		return file.RemoveProfile(name)
	})
	switch {
	case errors.Is(err, errCancelled):
		fmt.Println("Nothing changed.")
		return nil
	case err != nil:
		return err
	}

	fmt.Printf("Removed profile %q.\n", name)
	return nil
}

func runConfigureSetDefault(_ *cobra.Command, args []string) error {
	name := args[0]

	err := editProfiles(false, func(file *clientcli.ConfigFile) error {
		return file.SetDefault(name)
	})
	if err != nil {
		return err
	}

	fmt.Printf("Default profile is now %q.\n", name)
	return nil
}

func runConfigureShow(_ *cobra.Command, args []string) error {
	file, err := clientcli.LoadConfigFile(getConfigPath())
	if err != nil {
		return err
	}

	var name string
	if len(args) == 1 {
		name = args[0]
	}

	p, err := file.GetProfile(name)
	if err != nil {
		return err
	}
	return getFormatter().FormatProfileShow(os.Stdout, *p, p.Name == file.DefaultName(), showSecrets)
}

func validateAuthURL(input string) error {
	if input == "" {
		return errors.New("auth URL is required")
	}
	parsed, err := url.Parse(input)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}
	return nil
}

// checkCredentials runs the auth handshake once.
func checkCredentials(ctx context.Context, authURL, login, password string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	session := auth.New(login, password,
		auth.WithAuthURL(authURL),
		auth.WithClient(transport.NewClient(transport.WithTimeout(10*time.Second))),
	)
	_, err := session.Token(ctx)
	return err
}

// handlePromptError turns Ctrl-C and Ctrl-D at a prompt into errCancelled.
func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrEOF) {
		return errCancelled
	}
	return err
}
