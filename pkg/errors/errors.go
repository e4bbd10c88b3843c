package errors

import "fmt"

// Common error types.
var (
	// Config errors.
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrConfigEncode      = fmt.Errorf("failed to encode config")
	ErrConfigDirectory   = fmt.Errorf("failed to create config directory")
	ErrConfigFileExists  = fmt.Errorf("configuration file already exists")
	ErrConfigKeyUnknown  = fmt.Errorf("unknown configuration key")

	// Cache errors.
	ErrCacheClean     = fmt.Errorf("failed to clean cache")
	ErrCacheInfo      = fmt.Errorf("failed to get cache info")
	ErrCacheDirectory = fmt.Errorf("cache directory cannot be empty")

	// Store errors.
	ErrPackageNotFound   = fmt.Errorf("package not found")
	ErrSnapshotDecode    = fmt.Errorf("failed to decode package snapshot")
	ErrSnapshotEncode    = fmt.Errorf("failed to encode package snapshot")
	ErrSnapshotWrite     = fmt.Errorf("failed to write package snapshot")
	ErrSnapshotFormat    = fmt.Errorf("unsupported snapshot format version")
	ErrInvalidPackage    = fmt.Errorf("invalid package record")
	ErrUnknownSourceKind = fmt.Errorf("unknown source kind")
	ErrUnknownBuildKind  = fmt.Errorf("unknown build type kind")

	// Sync errors.
	ErrSyncAborted       = fmt.Errorf("sync aborted")
	ErrSourceUnavailable = fmt.Errorf("source unavailable")
	ErrUpstreamResponse  = fmt.Errorf("unexpected upstream response")

	// CLI errors.
	ErrInvalidArguments = fmt.Errorf("invalid arguments")

	// Hook errors.
	ErrHookTypeEmpty = fmt.Errorf("hook type cannot be empty")
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")
	ErrHookLoad      = fmt.Errorf("failed to load hook")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// ErrInvalidLogLevelWithDetails reports a log level outside the supported set.
func ErrInvalidLogLevelWithDetails(level string) error {
	return fmt.Errorf("invalid log level %q (must be debug, info, warn or error): %w", level, ErrConfigValidation)
}

// ErrInvalidLogFormatWithDetails reports a log format outside the supported set.
func ErrInvalidLogFormatWithDetails(format string) error {
	return fmt.Errorf("invalid log format %q (must be text or json): %w", format, ErrConfigValidation)
}
