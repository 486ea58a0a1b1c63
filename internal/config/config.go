// Package config provides configuration loading for the deploywatch
// daemon.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for deploywatch environment variables.
const EnvPrefix = "DEPLOYWATCH"

// defaultRelPath is the config file location under the XDG config home.
const defaultRelPath = "deploywatch/config.yaml"

// Default polling intervals. The active interval keeps running builds
// near real time; the idle interval keeps background traffic negligible.
const (
	DefaultActiveInterval     = 10 * time.Second
	DefaultRecentInterval     = 30 * time.Second
	DefaultIdleInterval       = 5 * time.Minute
	DefaultRecentChangeWindow = 3 * time.Minute
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		// Validate the path to prevent path traversal attacks
		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	Polling       PollingConfig       `yaml:"polling,omitempty"`
	Notifications NotificationsConfig `yaml:"notifications,omitempty"`

	// HTTPTimeout bounds each provider API request (e.g., "30s")
	HTTPTimeout time.Duration `yaml:"-"`

	// DeploymentsPerProject is the number of recent deployments kept per
	// project
	DeploymentsPerProject int `yaml:"deploymentsPerProject,omitempty"`

	// HTTPTimeoutRaw is the YAML-facing duration string for HTTPTimeout.
	HTTPTimeoutRaw string `yaml:"httpTimeout,omitempty"`
}

// PollingConfig defines the adaptive scheduler intervals
type PollingConfig struct {
	// ActiveInterval is used while at least one build is in progress
	ActiveInterval time.Duration `yaml:"-"`

	// RecentInterval is used after a recent status transition
	RecentInterval time.Duration `yaml:"-"`

	// IdleInterval is used when nothing is happening
	IdleInterval time.Duration `yaml:"-"`

	// RecentChangeWindow is how long a transition counts as recent
	RecentChangeWindow time.Duration `yaml:"-"`
}

// UnmarshalYAML parses interval fields from duration strings ("10s",
// "5m") since yaml.v3 has no native time.Duration support.
func (p *PollingConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		ActiveInterval     string `yaml:"activeInterval"`
		RecentInterval     string `yaml:"recentInterval"`
		IdleInterval       string `yaml:"idleInterval"`
		RecentChangeWindow string `yaml:"recentChangeWindow"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	fields := []struct {
		name string
		src  string
		dst  *time.Duration
	}{
		{"activeInterval", raw.ActiveInterval, &p.ActiveInterval},
		{"recentInterval", raw.RecentInterval, &p.RecentInterval},
		{"idleInterval", raw.IdleInterval, &p.IdleInterval},
		{"recentChangeWindow", raw.RecentChangeWindow, &p.RecentChangeWindow},
	}
	for _, f := range fields {
		if f.src == "" {
			continue
		}
		parsed, err := time.ParseDuration(f.src)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", f.name, err)
		}
		*f.dst = parsed
	}
	return nil
}

// NotificationsConfig gates deployment event notifications
type NotificationsConfig struct {
	Enabled        *bool `yaml:"enabled,omitempty"`
	OnBuildStart   *bool `yaml:"onBuildStart,omitempty"`
	OnBuildSuccess *bool `yaml:"onBuildSuccess,omitempty"`
	OnBuildFailure *bool `yaml:"onBuildFailure,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	enabled := true
	return &Config{
		Polling: PollingConfig{
			ActiveInterval:     DefaultActiveInterval,
			RecentInterval:     DefaultRecentInterval,
			IdleInterval:       DefaultIdleInterval,
			RecentChangeWindow: DefaultRecentChangeWindow,
		},
		Notifications: NotificationsConfig{
			Enabled:        &enabled,
			OnBuildStart:   &enabled,
			OnBuildSuccess: &enabled,
			OnBuildFailure: &enabled,
		},
		HTTPTimeout:           30 * time.Second,
		DeploymentsPerProject: 5,
	}
}

// DefaultPath returns the config file path under the XDG config home.
// The file does not have to exist.
func DefaultPath() string {
	path, err := xdg.ConfigFile(defaultRelPath)
	if err != nil {
		return ""
	}
	return path
}

// LoadConfig loads and parses configuration from a YAML file. Without a
// WithConfigPath option it returns Default().
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.HTTPTimeoutRaw != "" {
		timeout, err := time.ParseDuration(cfg.HTTPTimeoutRaw)
		if err != nil {
			return nil, fmt.Errorf("invalid httpTimeout: %w", err)
		}
		cfg.HTTPTimeout = timeout
	}
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fillDefaults replaces zero-valued fields with their defaults so a
// partial config file stays usable.
func (c *Config) fillDefaults() {
	defaults := Default()
	if c.Polling.ActiveInterval <= 0 {
		c.Polling.ActiveInterval = defaults.Polling.ActiveInterval
	}
	if c.Polling.RecentInterval <= 0 {
		c.Polling.RecentInterval = defaults.Polling.RecentInterval
	}
	if c.Polling.IdleInterval <= 0 {
		c.Polling.IdleInterval = defaults.Polling.IdleInterval
	}
	if c.Polling.RecentChangeWindow <= 0 {
		c.Polling.RecentChangeWindow = defaults.Polling.RecentChangeWindow
	}
	if c.Notifications.Enabled == nil {
		c.Notifications.Enabled = defaults.Notifications.Enabled
	}
	if c.Notifications.OnBuildStart == nil {
		c.Notifications.OnBuildStart = defaults.Notifications.OnBuildStart
	}
	if c.Notifications.OnBuildSuccess == nil {
		c.Notifications.OnBuildSuccess = defaults.Notifications.OnBuildSuccess
	}
	if c.Notifications.OnBuildFailure == nil {
		c.Notifications.OnBuildFailure = defaults.Notifications.OnBuildFailure
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = defaults.HTTPTimeout
	}
	if c.DeploymentsPerProject <= 0 {
		c.DeploymentsPerProject = defaults.DeploymentsPerProject
	}
}

// Validate checks interval ordering: active must be the shortest and idle
// the longest, otherwise the adaptive scheduler degenerates.
func (c *Config) Validate() error {
	if c.Polling.ActiveInterval > c.Polling.RecentInterval {
		return fmt.Errorf("activeInterval (%s) must not exceed recentInterval (%s)",
			c.Polling.ActiveInterval, c.Polling.RecentInterval)
	}
	if c.Polling.RecentInterval > c.Polling.IdleInterval {
		return fmt.Errorf("recentInterval (%s) must not exceed idleInterval (%s)",
			c.Polling.RecentInterval, c.Polling.IdleInterval)
	}
	return nil
}
