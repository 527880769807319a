// Package clientcli holds the pieces of the selcdn command line that are not
// commands themselves: the profile file and the output formatters.
//
// # Profile Configuration
//
// Profiles keep credentials for several storage accounts in one YAML file,
// by default ~/.selcdn/config.yaml:
//
//	profiles:
//	  - name: prod
//	    auth_url: https://auth.selcdn.ru/
//	    login: "12345"
//	    password: secret
//	    default: true
//
// Load a profile and hand it to the config package:
//
//	configFile, err := clientcli.LoadConfigFile(clientcli.DefaultConfigPath())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	profile, err := configFile.GetProfile("prod")
//
// # Output Formatting
//
// Every command renders its result through a Formatter, either human-readable
// tables or indented JSON:
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatList(os.Stdout, &clientcli.ListResult{Container: "images", Items: entries})
//
// Passwords are masked in profile output unless explicitly requested.
package clientcli
