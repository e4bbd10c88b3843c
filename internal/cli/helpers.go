package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/cperrin88/apkg/internal/logger"
	"github.com/cperrin88/apkg/pkg/adapter/aur"
	"github.com/cperrin88/apkg/pkg/adapter/debian"
	"github.com/cperrin88/apkg/pkg/adapter/flatpak"
	"github.com/cperrin88/apkg/pkg/archive"
	"github.com/cperrin88/apkg/pkg/config"
	"github.com/cperrin88/apkg/pkg/database"
	"github.com/cperrin88/apkg/pkg/errors"
	"github.com/cperrin88/apkg/pkg/hooks"
	apkghttp "github.com/cperrin88/apkg/pkg/http"
	"github.com/cperrin88/apkg/pkg/orchestrator"
	"github.com/spf13/cobra"
)

// These variables will be set by the main package
var (
	ConfigPath *string
	Verbose    *bool
)

// flatpakRunner is replaced in tests.
var flatpakRunner flatpak.Runner = flatpak.ExecRunner{}

// loadConfig reads .env, the config file and the environment, then initializes logging.
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Settings.LogLevel
	if Verbose != nil && *Verbose {
		level = "debug"
	}
	logger.InitLogger(level, logger.OutputFormat(cfg.Settings.LogFormat))

	return cfg, nil
}

// openDatabase returns the store for cfg, loaded from its snapshot when one exists.
func openDatabase(cfg *config.Config) (*database.Database, error) {
	db := database.New(cfg.GetCacheDir())
	loaded, err := db.LoadIfExists(db.SnapshotPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load package database: %w", err)
	}
	logger.Debug("Opened package database", logger.Fields{
		"path":     db.SnapshotPath(),
		"loaded":   loaded,
		"packages": db.Len(),
	})
	return db, nil
}

// buildSteps wires the adapters enabled in cfg in sync order: AUR, Debian, Flatpak.
func buildSteps(cfg *config.Config) []orchestrator.Step {
	client := apkghttp.NewHTTPClient(cfg.Settings.HTTPTimeout, apkghttp.WithUserAgent(cfg.Settings.UserAgent))

	steps := []orchestrator.Step{{
		Adapter: aur.New(client,
			aur.WithBaseURL(cfg.Sources.AUR.BaseURL),
			aur.WithSearchTerms(cfg.Sources.AUR.SearchTerms),
			aur.WithRateLimiter(apkghttp.NewIntervalLimiter(cfg.Sources.AUR.RequestInterval)),
		),
		Policy: orchestrator.FailFast,
	}}

	if cfg.Sources.Debian.Enabled {
		fetcher := debian.NewMirrorFetcher(client, archive.NewManager(), cfg.Sources.Debian.Mirror)
		steps = append(steps, orchestrator.Step{
			Adapter: debian.New(fetcher, cfg.Sources.Debian.Suites, cfg.Sources.Debian.Components),
			Policy:  orchestrator.Continue,
		})
	}

	if cfg.Sources.Flatpak.Enabled {
		adapter := flatpak.New(flatpakRunner, cfg.Sources.Flatpak.Command, cfg.Sources.Flatpak.Remotes)
		steps = append(steps, orchestrator.Step{
			Adapter: adapter,
			Policy:  orchestrator.Continue,
			Probe:   adapter,
		})
	}

	return steps
}

// loadScripts registers the configured sync scripts. Nil means no scripts are configured.
func loadScripts(cfg *config.Config) (*hooks.TengoExecutor, error) {
	executor := hooks.NewTengoExecutor()
	if err := hooks.LoadScript(executor, hooks.PreSync, cfg.Hooks.PreSync); err != nil {
		return nil, err
	}
	if err := hooks.LoadScript(executor, hooks.PostSync, cfg.Hooks.PostSync); err != nil {
		return nil, err
	}
	if !executor.HasScript(hooks.PreSync) && !executor.HasScript(hooks.PostSync) {
		return nil, nil
	}
	return executor, nil
}

// logEvent translates orchestrator progress into log lines.
func logEvent(e orchestrator.Event) {
	fields := logger.Fields{"source": e.ID}
	switch e.Phase {
	case orchestrator.PhaseFailed:
		fields["error"] = e.Msg
		logger.Warn("Source sync failed", fields)
	case orchestrator.PhaseSkipped:
		fields["reason"] = e.Msg
		logger.Warn("Source skipped", fields)
	case orchestrator.PhaseSynced:
		fields["packages"] = e.Msg
		logger.Debug("Source synced", fields)
	case orchestrator.PhaseDone:
		logger.Debug("Sync finished", logger.Fields{"packages": e.Msg})
	default:
		logger.Debug("Sync progress", logger.Fields{"source": e.ID, "phase": e.Phase})
	}
}

func getConfigPath() string {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath
	}

	defaultPath, err := config.GetDefaultConfigPath()
	if err != nil {
		logger.Warn("Failed to get default config path, using empty path", logger.Fields{"error": err})
		return ""
	}
	return defaultPath
}

// exactArgsWithUsage accepts exactly n arguments. Otherwise it prints the
// command's usage line, e.g. "Usage: apkg search <query>", and fails.
func exactArgsWithUsage(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == n {
			return nil
		}
		placeholder := strings.TrimPrefix(cmd.Use, cmd.Name())
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Usage: %s%s\n", cmd.CommandPath(), placeholder)
		return fmt.Errorf("%w: %s expects %d argument(s), got %d", errors.ErrInvalidArguments, cmd.Name(), n, len(args))
	}
}
