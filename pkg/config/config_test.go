package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cperrin88/apkg/pkg/errors"
	"github.com/cperrin88/apkg/pkg/fsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "/var/cache/apkg", cfg.Settings.CacheDir)
	assert.Equal(t, "info", cfg.Settings.LogLevel)
	assert.Equal(t, "text", cfg.Settings.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.Settings.HTTPTimeout)
	assert.Equal(t, "https://aur.archlinux.org", cfg.Sources.AUR.BaseURL)
	assert.Equal(t, []string{"rust", "gui", "terminal", "system"}, cfg.Sources.AUR.SearchTerms)
	assert.Equal(t, 100*time.Millisecond, cfg.Sources.AUR.RequestInterval)
	assert.False(t, cfg.Sources.Debian.Enabled)
	assert.Equal(t, []string{"main", "contrib", "non-free"}, cfg.Sources.Debian.Components)
	assert.True(t, cfg.Sources.Flatpak.Enabled)
	assert.Equal(t, []string{"flathub"}, cfg.Sources.Flatpak.Remotes)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	configContent := `settings:
  cache_dir: /tmp/apkg
  log_level: debug
  http_timeout: 5s
sources:
  aur:
    search_terms: [vim, emacs]
    request_interval: 250ms
  debian:
    enabled: true
    suites: [bookworm]
hooks:
  post_sync: /etc/apkg/post.tengo`

	err := os.WriteFile(configPath, []byte(configContent), fsutil.FileModeDefault)
	require.NoError(t, err)

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "/tmp/apkg", cfg.Settings.CacheDir)
	assert.Equal(t, "debug", cfg.Settings.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.Settings.HTTPTimeout)
	assert.Equal(t, []string{"vim", "emacs"}, cfg.Sources.AUR.SearchTerms)
	assert.Equal(t, 250*time.Millisecond, cfg.Sources.AUR.RequestInterval)
	assert.True(t, cfg.Sources.Debian.Enabled)
	assert.Equal(t, []string{"bookworm"}, cfg.Sources.Debian.Suites)
	assert.Equal(t, "/etc/apkg/post.tengo", cfg.Hooks.PostSync)

	// untouched keys keep their defaults
	assert.Equal(t, "text", cfg.Settings.LogFormat)
	assert.Equal(t, "https://aur.archlinux.org", cfg.Sources.AUR.BaseURL)
	assert.True(t, cfg.Sources.Flatpak.Enabled)
	assert.Equal(t, []string{"main", "contrib", "non-free"}, cfg.Sources.Debian.Components)
}

func TestLoadConfig_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.ErrorIs(t, err, errors.ErrEmptyConfigPath)
}

func TestLoadConfigFromReader_Errors(t *testing.T) {
	_, err := LoadConfigFromReader(strings.NewReader("settings: [not, a, map]"))
	assert.ErrorIs(t, err, errors.ErrConfigParse)

	_, err = LoadConfigFromReader(strings.NewReader("settings:\n  log_level: loud\n"))
	assert.ErrorIs(t, err, errors.ErrConfigValidation)
}

func TestSaveConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Settings.LogLevel = "debug"
	cfg.Sources.Flatpak.Remotes = []string{"flathub", "gnome-nightly"}

	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	err := cfg.SaveConfig(configPath)
	require.NoError(t, err)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "log_level: debug")
	assert.Contains(t, string(data), "http_timeout: 30s")

	loadedCfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, cfg, loadedCfg)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Settings.LogLevel = "verbose" },
			wantErr: true,
			errMsg:  "invalid log level",
		},
		{
			name:    "invalid log format",
			mutate:  func(c *Config) { c.Settings.LogFormat = "xml" },
			wantErr: true,
			errMsg:  "invalid log format",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Settings.HTTPTimeout = -time.Second },
			wantErr: true,
			errMsg:  "http_timeout",
		},
		{
			name:    "empty cache dir",
			mutate:  func(c *Config) { c.Settings.CacheDir = "" },
			wantErr: true,
			errMsg:  "cache_dir",
		},
		{
			name:    "blank search term",
			mutate:  func(c *Config) { c.Sources.AUR.SearchTerms = []string{"rust", " "} },
			wantErr: true,
			errMsg:  "aur.search_terms[1]",
		},
		{
			name:    "blank remote",
			mutate:  func(c *Config) { c.Sources.Flatpak.Remotes = []string{""} },
			wantErr: true,
			errMsg:  "flatpak.remotes[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrConfigValidation)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvCacheDir:       "/srv/apkg",
		EnvLogLevel:       "warn",
		EnvLogFormat:      "json",
		EnvDebianEnabled:  "true",
		EnvFlatpakEnabled: "0",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(lookup))

	assert.Equal(t, "/srv/apkg", cfg.Settings.CacheDir)
	assert.Equal(t, "warn", cfg.Settings.LogLevel)
	assert.Equal(t, "json", cfg.Settings.LogFormat)
	assert.True(t, cfg.Sources.Debian.Enabled)
	assert.False(t, cfg.Sources.Flatpak.Enabled)

	env[EnvDebianEnabled] = "sometimes"
	err := DefaultConfig().ApplyEnv(lookup)
	assert.ErrorIs(t, err, errors.ErrConfigValidation)
	assert.Contains(t, err.Error(), EnvDebianEnabled)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, LoadDotEnv(filepath.Join(dir, ".env")))

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("APKG_TEST_DOTENV=from-file\n"), fsutil.FileModeDefault))
	t.Setenv("APKG_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("APKG_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("APKG_TEST_DOTENV"))
}

func TestGetValueAndToMap(t *testing.T) {
	cfg := DefaultConfig()

	v, err := cfg.GetValue("aur.search_terms")
	require.NoError(t, err)
	assert.Equal(t, "rust,gui,terminal,system", v)

	v, err = cfg.GetValue("flatpak.enabled")
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	_, err = cfg.GetValue("nope")
	assert.ErrorIs(t, err, errors.ErrConfigKeyUnknown)

	keys := cfg.Keys()
	assert.Len(t, keys, len(cfg.ToMap()))
	assert.Equal(t, "aur.base_url", keys[0])
}

func TestGetDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	path, err := GetDefaultConfigPath()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, filepath.Join("apkg", "config.yaml")))
}
