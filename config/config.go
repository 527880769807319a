package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/selcdn/auth"
	"github.com/sagarc03/selcdn/clientcli"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the resolved client configuration.
type Config struct {
	Auth      AuthConfig      `mapstructure:"auth"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

// AuthConfig holds the account credentials.
type AuthConfig struct {
	URL      string `mapstructure:"url" validate:"required,url"`
	Login    string `mapstructure:"login" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
}

// HTTPConfig holds transport settings.
type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout" validate:"min=0"`
}

// RateLimitConfig paces storage requests. Zero QPS disables pacing.
type RateLimitConfig struct {
	QPS   float64 `mapstructure:"qps" validate:"min=0"`
	Burst int     `mapstructure:"burst" validate:"min=0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"auth-url":   "auth.url",
	"login":      "auth.login",
	"password":   "auth.password",
	"timeout":    "http.timeout",
	"rate-limit": "rate_limit.qps",
	"rate-burst": "rate_limit.burst",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// bindFlags binds explicitly set CLI flags that map to configuration keys.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		viperKey, ok := flagToViperKey[f.Name]
		if !ok {
			return
		}

		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
// Every key gets a default so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("auth.url", auth.DefaultAuthURL)
	v.SetDefault("auth.login", "")
	v.SetDefault("auth.password", "")

	v.SetDefault("http.timeout", 30*time.Second)

	v.SetDefault("rate_limit.qps", 0)
	v.SetDefault("rate_limit.burst", 1)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
}

// profileValues converts a profile into a config layer. Empty fields are
// left out so they do not mask defaults.
func profileValues(p *clientcli.Profile) map[string]any {
	values := map[string]any{}
	if p == nil {
		return values
	}

	authValues := map[string]any{}
	if p.AuthURL != "" {
		authValues["url"] = p.AuthURL
	}
	if p.Login != "" {
		authValues["login"] = p.Login
	}
	if p.Password != "" {
		authValues["password"] = p.Password
	}
	if len(authValues) > 0 {
		values["auth"] = authValues
	}
	return values
}

// Load resolves configuration and returns a validated Config.
// Order of precedence (highest to lowest): flags > env > profile > defaults
//
// Parameters:
//   - profile: the selected profile (can be nil)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(profile *clientcli.Profile, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Profile acts as the config file layer
	if err := v.MergeConfigMap(profileValues(profile)); err != nil {
		return nil, fmt.Errorf("merge profile: %w", err)
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("SELCDN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
