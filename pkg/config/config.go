// Package config provides configuration management for apkg.
// It handles loading, validating and saving the YAML configuration file, applies
// environment overrides and supplies defaults for every source adapter.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cperrin88/apkg/pkg/adapter/aur"
	"github.com/cperrin88/apkg/pkg/adapter/debian"
	"github.com/cperrin88/apkg/pkg/adapter/flatpak"
	"github.com/cperrin88/apkg/pkg/errors"
	"github.com/cperrin88/apkg/pkg/fsutil"
	apkghttp "github.com/cperrin88/apkg/pkg/http"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// General settings
	Settings Settings `yaml:"settings"`

	// Upstream sources
	Sources Sources `yaml:"sources"`

	// Sync scripts
	Hooks HooksConfig `yaml:"hooks"`
}

// Settings represents general application settings.
type Settings struct {
	CacheDir    string        `yaml:"cache_dir"`
	LogLevel    string        `yaml:"log_level"`  // debug, info, warn, error
	LogFormat   string        `yaml:"log_format"` // text, json
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	UserAgent   string        `yaml:"user_agent"`
}

// Sources groups the per-adapter settings.
type Sources struct {
	AUR     AURConfig     `yaml:"aur"`
	Debian  DebianConfig  `yaml:"debian"`
	Flatpak FlatpakConfig `yaml:"flatpak"`
}

// AURConfig configures the AUR RPC adapter. AUR is always synced.
type AURConfig struct {
	BaseURL         string        `yaml:"base_url"`
	SearchTerms     []string      `yaml:"search_terms"`
	RequestInterval time.Duration `yaml:"request_interval"`
}

// DebianConfig configures the Debian archive adapter.
type DebianConfig struct {
	Enabled    bool     `yaml:"enabled"`
	Mirror     string   `yaml:"mirror"`
	Suites     []string `yaml:"suites"`
	Components []string `yaml:"components"`
}

// FlatpakConfig configures the Flatpak remote adapter.
type FlatpakConfig struct {
	Enabled bool     `yaml:"enabled"`
	Command string   `yaml:"command"`
	Remotes []string `yaml:"remotes"`
}

// HooksConfig points at optional Tengo scripts run around a sync.
type HooksConfig struct {
	PreSync  string `yaml:"pre_sync,omitempty"`
	PostSync string `yaml:"post_sync,omitempty"`
}

// Default configuration values.
const (
	// DefaultCacheDir holds the package snapshot.
	DefaultCacheDir = "/var/cache/apkg"

	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// DefaultLogFormat is used when no format is configured.
	DefaultLogFormat = "text"

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{
			CacheDir:    DefaultCacheDir,
			LogLevel:    DefaultLogLevel,
			LogFormat:   DefaultLogFormat,
			HTTPTimeout: DefaultHTTPTimeout,
			UserAgent:   apkghttp.DefaultUserAgent,
		},
		Sources: Sources{
			AUR: AURConfig{
				BaseURL:         aur.DefaultURL,
				SearchTerms:     append([]string(nil), aur.DefaultSearchTerms...),
				RequestInterval: aur.DefaultRequestInterval,
			},
			Debian: DebianConfig{
				Enabled:    false,
				Mirror:     debian.DefaultMirror,
				Suites:     []string{debian.DefaultSuite},
				Components: append([]string(nil), debian.DefaultComponents...),
			},
			Flatpak: FlatpakConfig{
				Enabled: true,
				Command: flatpak.DefaultCommand,
				Remotes: []string{flatpak.DefaultRemote},
			},
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
// Keys absent from the document keep their default values.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrConfigParse, err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig writes the configuration to path, replacing any existing file atomically.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := fsutil.EnsureDir(filepath.Dir(absPath)); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	err = fsutil.WriteFileAtomic(absPath, fsutil.FileModeDefault, func(w io.Writer) error {
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(YAMLIndent)
		if err := encoder.Encode(c); err != nil {
			return fmt.Errorf("%w: %w", errors.ErrConfigEncode, err)
		}
		return encoder.Close()
	})
	if err != nil {
		return errors.Wrap(err, "failed to save config")
	}
	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrConfigEncode, err)
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if err := validateSettings(c.Settings); err != nil {
		return err
	}
	return validateSources(c.Sources)
}

func validateSettings(s Settings) error {
	if s.CacheDir == "" {
		return errors.Wrap(errors.ErrConfigValidation, "cache_dir cannot be empty")
	}
	if s.HTTPTimeout < 0 {
		return errors.Wrap(errors.ErrConfigValidation, "http_timeout cannot be negative")
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return errors.ErrInvalidLogLevelWithDetails(s.LogLevel)
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(s.LogFormat)] {
		return errors.ErrInvalidLogFormatWithDetails(s.LogFormat)
	}
	return nil
}

func validateSources(s Sources) error {
	if s.AUR.RequestInterval < 0 {
		return errors.Wrap(errors.ErrConfigValidation, "aur.request_interval cannot be negative")
	}
	for i, term := range s.AUR.SearchTerms {
		if strings.TrimSpace(term) == "" {
			return errors.Wrapf(errors.ErrConfigValidation, "aur.search_terms[%d] cannot be empty", i)
		}
	}
	for i, remote := range s.Flatpak.Remotes {
		if strings.TrimSpace(remote) == "" {
			return errors.Wrapf(errors.ErrConfigValidation, "flatpak.remotes[%d] cannot be empty", i)
		}
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "apkg", "config.yaml"), nil
}

// GetCacheDir returns the base cache directory from settings.
func (c *Config) GetCacheDir() string {
	return c.Settings.CacheDir
}

// applyDefaults fills in values a document explicitly cleared.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Settings.CacheDir == "" {
		c.Settings.CacheDir = defaults.Settings.CacheDir
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
	if c.Settings.LogFormat == "" {
		c.Settings.LogFormat = defaults.Settings.LogFormat
	}
	if c.Settings.HTTPTimeout == 0 {
		c.Settings.HTTPTimeout = defaults.Settings.HTTPTimeout
	}
	if c.Settings.UserAgent == "" {
		c.Settings.UserAgent = defaults.Settings.UserAgent
	}
	if c.Sources.AUR.BaseURL == "" {
		c.Sources.AUR.BaseURL = defaults.Sources.AUR.BaseURL
	}
	if len(c.Sources.AUR.SearchTerms) == 0 {
		c.Sources.AUR.SearchTerms = defaults.Sources.AUR.SearchTerms
	}
	if c.Sources.Debian.Mirror == "" {
		c.Sources.Debian.Mirror = defaults.Sources.Debian.Mirror
	}
	if len(c.Sources.Debian.Suites) == 0 {
		c.Sources.Debian.Suites = defaults.Sources.Debian.Suites
	}
	if len(c.Sources.Debian.Components) == 0 {
		c.Sources.Debian.Components = defaults.Sources.Debian.Components
	}
	if c.Sources.Flatpak.Command == "" {
		c.Sources.Flatpak.Command = defaults.Sources.Flatpak.Command
	}
	if len(c.Sources.Flatpak.Remotes) == 0 {
		c.Sources.Flatpak.Remotes = defaults.Sources.Flatpak.Remotes
	}
}
