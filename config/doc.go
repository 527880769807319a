// Package config resolves the settings the selcdn command line runs with.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. The selected profile from the profile file
//  3. Environment variables (SELCDN_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load(profile, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx = config.WithContext(ctx, cfg)
//
// # Environment Variables
//
// All config keys map to environment variables with SELCDN_ prefix:
//   - auth.login → SELCDN_AUTH_LOGIN
//   - http.timeout → SELCDN_HTTP_TIMEOUT
//   - rate_limit.qps → SELCDN_RATE_LIMIT_QPS
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Auth URL must be a URL; login and password are required
//   - Timeout, QPS and burst must not be negative
//   - Log level must be debug, info, warn, or error; format text or json
package config
