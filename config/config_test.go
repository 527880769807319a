package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/selcdn/clientcli"
	"github.com/sagarc03/selcdn/config"
)

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("auth-url", "", "")
	flags.String("login", "", "")
	flags.String("password", "", "")
	flags.Duration("timeout", 0, "")
	flags.Float64("rate-limit", 0, "")
	flags.Int("rate-burst", 0, "")
	flags.String("log-level", "", "")
	flags.String("log-format", "", "")
	flags.Bool("json", false, "")
	return flags
}

func TestLoad_ProfileOverDefaults(t *testing.T) {
	cfg, err := config.Load(&clientcli.Profile{Name: "p", Login: "user", Password: "secret"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://auth.selcdn.ru/", cfg.Auth.URL)
	assert.Equal(t, "user", cfg.Auth.Login)
	assert.Equal(t, "secret", cfg.Auth.Password)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Zero(t, cfg.RateLimit.QPS)
	assert.Equal(t, 1, cfg.RateLimit.Burst)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_ProfileAuthURL(t *testing.T) {
	cfg, err := config.Load(&clientcli.Profile{AuthURL: "http://localhost:8080/auth/", Login: "u", Password: "p"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/auth/", cfg.Auth.URL)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("SELCDN_AUTH_LOGIN", "env-user")
	t.Setenv("SELCDN_AUTH_PASSWORD", "env-secret")
	t.Setenv("SELCDN_HTTP_TIMEOUT", "5s")
	t.Setenv("SELCDN_RATE_LIMIT_QPS", "2.5")
	t.Setenv("SELCDN_LOG_LEVEL", "debug")

	cfg, err := config.Load(&clientcli.Profile{Login: "profile-user", Password: "profile-secret"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "env-user", cfg.Auth.Login)
	assert.Equal(t, "env-secret", cfg.Auth.Password)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.InDelta(t, 2.5, cfg.RateLimit.QPS, 0.0001)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_FlagsOverEnv(t *testing.T) {
	t.Setenv("SELCDN_AUTH_LOGIN", "env-user")

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--login", "flag-user", "--password", "flag-secret", "--log-format", "json", "--timeout", "1m", "--json"}))

	cfg, err := config.Load(nil, flags)
	require.NoError(t, err)

	assert.Equal(t, "flag-user", cfg.Auth.Login)
	assert.Equal(t, "flag-secret", cfg.Auth.Password)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, time.Minute, cfg.HTTP.Timeout)
}

func TestLoad_UnchangedFlagsDoNotOverride(t *testing.T) {
	flags := testFlags()
	require.NoError(t, flags.Parse(nil))

	cfg, err := config.Load(&clientcli.Profile{Login: "u", Password: "p"}, flags)
	require.NoError(t, err)

	assert.Equal(t, "u", cfg.Auth.Login)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing credentials", nil},
		{"invalid auth url", []string{"--login", "u", "--password", "p", "--auth-url", "not a url"}},
		{"invalid log level", []string{"--login", "u", "--password", "p", "--log-level", "loud"}},
		{"invalid log format", []string{"--login", "u", "--password", "p", "--log-format", "xml"}},
		{"negative rate", []string{"--login", "u", "--password", "p", "--rate-limit=-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := testFlags()
			require.NoError(t, flags.Parse(tt.args))

			_, err := config.Load(nil, flags)
			assert.ErrorContains(t, err, "validate config")
		})
	}
}

func TestContext(t *testing.T) {
	_, err := config.FromContext(context.Background())
	assert.Error(t, err)

	cfg := &config.Config{Auth: config.AuthConfig{Login: "u"}}
	got, err := config.FromContext(config.WithContext(context.Background(), cfg))
	require.NoError(t, err)
	assert.Same(t, cfg, got)
}
