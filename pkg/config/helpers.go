package config

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cperrin88/apkg/pkg/errors"
)

// ToMap flattens the configuration into dotted keys.
// This is useful for displaying the configuration.
func (c *Config) ToMap() map[string]string {
	return map[string]string{
		"cache_dir":            c.Settings.CacheDir,
		"log_level":            c.Settings.LogLevel,
		"log_format":           c.Settings.LogFormat,
		"http_timeout":         c.Settings.HTTPTimeout.String(),
		"user_agent":           c.Settings.UserAgent,
		"aur.base_url":         c.Sources.AUR.BaseURL,
		"aur.search_terms":     strings.Join(c.Sources.AUR.SearchTerms, ","),
		"aur.request_interval": c.Sources.AUR.RequestInterval.String(),
		"debian.enabled":       strconv.FormatBool(c.Sources.Debian.Enabled),
		"debian.mirror":        c.Sources.Debian.Mirror,
		"debian.suites":        strings.Join(c.Sources.Debian.Suites, ","),
		"debian.components":    strings.Join(c.Sources.Debian.Components, ","),
		"flatpak.enabled":      strconv.FormatBool(c.Sources.Flatpak.Enabled),
		"flatpak.command":      c.Sources.Flatpak.Command,
		"flatpak.remotes":      strings.Join(c.Sources.Flatpak.Remotes, ","),
		"hooks.pre_sync":       c.Hooks.PreSync,
		"hooks.post_sync":      c.Hooks.PostSync,
	}
}

// Keys returns the sorted list of keys accepted by GetValue.
func (c *Config) Keys() []string {
	m := c.ToMap()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetValue returns the value for a dotted key as a string.
func (c *Config) GetValue(key string) (string, error) {
	value, ok := c.ToMap()[key]
	if !ok {
		return "", errors.Wrapf(errors.ErrConfigKeyUnknown, "%s", key)
	}
	return value, nil
}
