package cli

import (
	"fmt"
	"io"

	"github.com/cperrin88/apkg/internal/logger"
	"github.com/cperrin88/apkg/pkg/database"
	"github.com/cperrin88/apkg/pkg/orchestrator"
	"github.com/spf13/cobra"
)

// NewSyncCmd creates the sync command.
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync all package databases",
		Long: `Fetch package metadata from the AUR and every enabled source
(Debian mirrors, Flatpak remotes), merge it into the local package
database and save the result.`,
		Args: cobra.NoArgs,
		RunE: runSync,
	}

	return cmd
}

func runSync(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}

	orch := &orchestrator.Orchestrator{
		CacheDir: cfg.GetCacheDir(),
		Hooks:    orchestrator.Hooks{OnEvent: logEvent},
	}
	scripts, err := loadScripts(cfg)
	if err != nil {
		return err
	}
	if scripts != nil {
		orch.Scripts = scripts
	}

	logger.Info("Syncing package databases...")
	report, syncErr := orch.Sync(cmd.Context(), db, buildSteps(cfg))
	if syncErr != nil {
		return fmt.Errorf("sync failed: %w", syncErr)
	}
	for name, n := range report.Counts {
		if _, failed := report.Failures[name]; !failed {
			logger.Info("Synced packages", logger.Fields{"source": name, "count": n})
		}
	}

	if err := db.Save(db.SnapshotPath()); err != nil {
		return err
	}
	logger.Success("Package database saved", logger.Fields{"path": db.SnapshotPath()})

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "Database Statistics:")
	printStats(out, db.Stats())
	return nil
}

func printStats(out io.Writer, stats database.Stats) {
	_, _ = fmt.Fprintf(out, "  Total: %d\n", stats.Total)
	_, _ = fmt.Fprintf(out, "  AUR: %d\n", stats.AUR)
	_, _ = fmt.Fprintf(out, "  Debian: %d\n", stats.Debian)
	_, _ = fmt.Fprintf(out, "  Flatpak: %d\n", stats.Flatpak)
	_, _ = fmt.Fprintf(out, "  Snap: %d\n", stats.Snap)
	_, _ = fmt.Fprintf(out, "  Nixpkgs: %d\n", stats.Nixpkgs)
	_, _ = fmt.Fprintf(out, "  Source: %d\n", stats.Source)
}
