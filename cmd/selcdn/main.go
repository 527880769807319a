package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/sagarc03/selcdn"
	"github.com/sagarc03/selcdn/auth"
	"github.com/sagarc03/selcdn/clientcli"
	"github.com/sagarc03/selcdn/config"
	"github.com/sagarc03/selcdn/transport"
)

var (
	version = "dev"

	cfgFile     string
	profileName string
	jsonOutput  bool
	quiet       bool
	metricsFile string

	// metricsRegistry is set once a storage client has been built.
	metricsRegistry *prometheus.Registry
)

var rootCmd = &cobra.Command{
	Use:     "selcdn",
	Version: version,
	Short:   "Client for Selectel Cloud Storage",
	Long: `selcdn - Client for Swift-style object storage (Selectel Cloud Storage)

Credentials come from a profile (see 'selcdn configure'), SELCDN_* environment
variables, or flags, in increasing order of precedence.

Virtual folders are objects with content type application/directory;
'selcdn rm -r' removes a folder and everything below it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "profile file (default: ~/.selcdn/config.yaml, env: SELCDN_CONFIG)")
	pf.StringVarP(&profileName, "profile", "p", "", "profile name (env: SELCDN_PROFILE)")
	pf.String("auth-url", "", "auth endpoint URL (env: SELCDN_AUTH_URL)")
	pf.StringP("login", "u", "", "account login (env: SELCDN_AUTH_LOGIN)")
	pf.String("password", "", "account password (env: SELCDN_AUTH_PASSWORD)")
	pf.Duration("timeout", 0, "HTTP timeout per request (default: 30s)")
	pf.Float64("rate-limit", 0, "maximum storage requests per second, 0 for unlimited")
	pf.Int("rate-burst", 0, "rate limiter burst size (default: 1)")
	pf.String("log-level", "", "log level: debug, info, warn, error (default: warn)")
	pf.String("log-format", "", "log format: text or json (default: text)")
	pf.StringVar(&metricsFile, "metrics-file", "", "write request metrics in Prometheus text format to this file on exit")
	pf.BoolVar(&jsonOutput, "json", false, "output as JSON")
	pf.BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(containersCmd)
	rootCmd.AddCommand(containerCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(uploadArchiveCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(existsCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	if mErr := writeMetrics(); mErr != nil {
		slog.Warn("failed to write metrics", "file", metricsFile, "err", mErr)
	}
	stop()

	if err == nil {
		return
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.code)
	}

	_ = getFormatter().FormatError(os.Stderr, err)
	os.Exit(1)
}

// exitError is returned when we want to exit with a specific code
// without printing an error message.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

// getConfigPath returns the profile file path from flag, env, or default.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := clientcli.ConfigPathFromEnv(); p != "" {
		return p
	}
	return clientcli.DefaultConfigPath()
}

// selectProfile picks the profile to run with. An empty or missing profile
// file is only an error when a profile was requested by name.
func selectProfile() (*clientcli.Profile, error) {
	name := profileName
	if name == "" {
		name = clientcli.ProfileFromEnv()
	}
	cfgPath := getConfigPath()
	if cfgPath == "" {
		return nil, nil
	}

	file, err := clientcli.LoadOrEmpty(cfgPath)
	if err != nil {
		return nil, err
	}

	profile, err := file.GetProfile(name)
	if err != nil {
		if errors.Is(err, clientcli.ErrNoProfiles) && name == "" {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}

// loadConfig resolves configuration for cmd and installs the logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	profile, err := selectProfile()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(profile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	setupLogging(cfg.Log)
	cmd.SetContext(config.WithContext(cmd.Context(), cfg))
	return cfg, nil
}

// getStorage builds a storage client from the resolved configuration.
func getStorage(cmd *cobra.Command) (*selcdn.Storage, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	metricsRegistry = prometheus.NewRegistry()
	client := transport.NewClient(
		transport.WithTimeout(cfg.HTTP.Timeout),
		transport.WithLogger(slog.Default()),
		transport.WithMetrics(transport.NewMetrics(metricsRegistry)),
	)

	session := auth.New(cfg.Auth.Login, cfg.Auth.Password,
		auth.WithAuthURL(cfg.Auth.URL),
		auth.WithClient(client),
	)

	opts := []selcdn.Option{
		selcdn.WithClient(client),
		selcdn.WithLogger(slog.Default()),
	}
	if cfg.RateLimit.QPS > 0 {
		burst := max(cfg.RateLimit.Burst, 1)
		opts = append(opts, selcdn.WithRateLimiter(rate.NewLimiter(rate.Limit(cfg.RateLimit.QPS), burst)))
	}

	return selcdn.New(session, opts...), nil
}

// writeMetrics dumps the request metrics when --metrics-file is set.
func writeMetrics() error {
	if metricsFile == "" || metricsRegistry == nil {
		return nil
	}
	return prometheus.WriteToTextfile(metricsFile, metricsRegistry)
}
