package config

import (
	"os"
	"strconv"

	"github.com/cperrin88/apkg/pkg/errors"
	"github.com/joho/godotenv"
)

// Environment variables that override file settings.
const (
	EnvCacheDir       = "APKG_CACHE_DIR"
	EnvLogLevel       = "APKG_LOG_LEVEL"
	EnvLogFormat      = "APKG_LOG_FORMAT"
	EnvDebianEnabled  = "APKG_DEBIAN_ENABLED"
	EnvFlatpakEnabled = "APKG_FLATPAK_ENABLED"
)

// LoadDotEnv exports the variables in a .env file. Variables already set in the
// process environment win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(errors.ErrConfigParse, "%s: %v", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from lookup (usually os.LookupEnv) and re-validates.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvCacheDir); ok && v != "" {
		c.Settings.CacheDir = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Settings.LogLevel = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Settings.LogFormat = v
	}
	if err := envBool(lookup, EnvDebianEnabled, &c.Sources.Debian.Enabled); err != nil {
		return err
	}
	if err := envBool(lookup, EnvFlatpakEnabled, &c.Sources.Flatpak.Enabled); err != nil {
		return err
	}
	return c.Validate()
}

func envBool(lookup func(string) (string, bool), name string, dst *bool) error {
	v, ok := lookup(name)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return errors.Wrapf(errors.ErrConfigValidation, "%s: invalid boolean %q", name, v)
	}
	*dst = b
	return nil
}
