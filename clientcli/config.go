package clientcli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Environment variables read by the command line.
const (
	EnvProfile    = "SELCDN_PROFILE"
	EnvConfigPath = "SELCDN_CONFIG"
)

// Profile holds the credentials for one storage account.
type Profile struct {
	Name     string `yaml:"name"`
	AuthURL  string `yaml:"auth_url,omitempty"`
	Login    string `yaml:"login,omitempty"`
	Password string `yaml:"password,omitempty"`
	Default  bool   `yaml:"default,omitempty"`
}

// ConfigFile is the profile file: a list of named accounts, at most one of
// them marked default.
type ConfigFile struct {
	Profiles []Profile `yaml:"profiles"`
}

func (c *ConfigFile) index(name string) int {
	return slices.IndexFunc(c.Profiles, func(p Profile) bool { return p.Name == name })
}

func notFound(name string) error {
	return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// GetProfile looks a profile up by name. An empty name selects the default.
func (c *ConfigFile) GetProfile(name string) (*Profile, error) {
	if name == "" {
		return c.GetDefaultProfile()
	}
	if len(c.Profiles) == 0 {
		return nil, ErrNoProfiles
	}

	i := c.index(name)
	if i < 0 {
		return nil, notFound(name)
	}
	return &c.Profiles[i], nil
}

// GetDefaultProfile returns the profile marked default. Without a marked
// profile the first one wins.
func (c *ConfigFile) GetDefaultProfile() (*Profile, error) {
	if len(c.Profiles) == 0 {
		return nil, ErrNoProfiles
	}

	i := slices.IndexFunc(c.Profiles, func(p Profile) bool { return p.Default })
	return &c.Profiles[max(i, 0)], nil
}

// AddProfile appends p. The name must be set and unused.
func (c *ConfigFile) AddProfile(p Profile) error {
	if p.Name == "" {
		return ErrProfileNameRequired
	}
	if c.index(p.Name) >= 0 {
		return fmt.Errorf("%w: %s", ErrProfileExists, p.Name)
	}

	c.Profiles = append(c.Profiles, p)
	return nil
}

// PutProfile adds p or replaces the profile of the same name, keeping its
// default mark. It reports whether a profile was replaced.
func (c *ConfigFile) PutProfile(p Profile) (bool, error) {
	i := c.index(p.Name)
	if i < 0 {
		return false, c.AddProfile(p)
	}

	p.Default = c.Profiles[i].Default
	c.Profiles[i] = p
	return true, nil
}

// RemoveProfile deletes a profile by name.
func (c *ConfigFile) RemoveProfile(name string) error {
	i := c.index(name)
	if i < 0 {
		return notFound(name)
	}

	c.Profiles = slices.Delete(c.Profiles, i, i+1)
	return nil
}

// SetDefault moves the default mark to name.
func (c *ConfigFile) SetDefault(name string) error {
	if c.index(name) < 0 {
		return notFound(name)
	}

	for i := range c.Profiles {
		c.Profiles[i].Default = c.Profiles[i].Name == name
	}
	return nil
}

// DefaultName is the name of the default profile, or "" for an empty file.
func (c *ConfigFile) DefaultName() string {
	if p, err := c.GetDefaultProfile(); err == nil {
		return p.Name
	}
	return ""
}

// Save writes the file owner-only. The old file is replaced by rename, never
// truncated in place.
func (c *ConfigFile) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode profiles: %w", err)
	}

	dir := filepath.Dir(filepath.Clean(path))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create profile directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".selcdn-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp profile file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write profiles: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write profiles: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("restrict profile file: %w", err)
	}

	return os.Rename(tmp.Name(), filepath.Clean(path))
}

// LoadConfigFile reads the profile file at path. Unknown keys are rejected
// so a misspelled field does not silently drop a credential. An empty file
// holds no profiles.
func LoadConfigFile(path string) (*ConfigFile, error) {
	data, err := os.ReadFile(filepath.Clean(path)) //#nosec G304 -- path is user-provided config file
	if err != nil {
		return nil, fmt.Errorf("read profile file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg ConfigFile
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse profile file %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadOrEmpty is LoadConfigFile treating a missing file as empty.
func LoadOrEmpty(path string) (*ConfigFile, error) {
	cfg, err := LoadConfigFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ConfigFile{}, nil
	}
	return cfg, err
}

// DefaultConfigPath is ~/.selcdn/config.yaml, or "" without a home directory.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".selcdn", "config.yaml")
}

// ProfileFromEnv returns $SELCDN_PROFILE.
func ProfileFromEnv() string {
	return os.Getenv(EnvProfile)
}

// ConfigPathFromEnv returns $SELCDN_CONFIG.
func ConfigPathFromEnv() string {
	return os.Getenv(EnvConfigPath)
}
