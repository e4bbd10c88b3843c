package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/cperrin88/apkg/internal/logger"
	"github.com/cperrin88/apkg/pkg/config"
	"github.com/cperrin88/apkg/pkg/errors"
	"github.com/cperrin88/apkg/pkg/fsutil"
	"github.com/cperrin88/apkg/pkg/hooks"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command with subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  "View apkg configuration settings and create a default configuration file",
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigGetCmd(),
		newConfigInitCmd(),
	)

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration after environment overrides",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}

	return cmd
}

func newConfigGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Get a configuration value",
		Long:  "Get the value of a specific configuration key, e.g. aur.search_terms",
		Args:  cobra.ExactArgs(1),
		RunE:  runConfigGet,
	}

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force     bool
		withHooks bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file",
		Long: `Create a default configuration file. With --hooks, pre-sync and post-sync
script templates are written next to it and referenced from the configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, force, withHooks)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&withHooks, "hooks", false, "Also create sync script templates")

	return cmd
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tabWriter := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tabWriter, "SETTING\tVALUE")
	_, _ = fmt.Fprintln(tabWriter, "-------\t-----")

	settings := cfg.ToMap()
	for _, key := range cfg.Keys() {
		_, _ = fmt.Fprintf(tabWriter, "%s\t%s\n", key, settings[key])
	}

	return tabWriter.Flush()
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	value, err := cfg.GetValue(args[0])
	if err != nil {
		return fmt.Errorf("failed to get configuration value: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigInit(cmd *cobra.Command, force, withHooks bool) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists at %s (use --force to overwrite): %w", configPath, errors.ErrConfigFileExists)
	}

	cfg := config.DefaultConfig()
	if withHooks {
		scripts, err := writeHookTemplates(filepath.Dir(configPath), force)
		if err != nil {
			return err
		}
		cfg.Hooks.PreSync = scripts[hooks.PreSync]
		cfg.Hooks.PostSync = scripts[hooks.PostSync]
		for _, hookType := range []hooks.HookType{hooks.PreSync, hooks.PostSync} {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Hook script created at %s\n", scripts[hookType])
		}
	}

	if err := cfg.SaveConfig(configPath); err != nil {
		return fmt.Errorf("failed to save default configuration: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at %s\n", configPath)
	logger.Debug("Configuration file created", logger.Fields{"path": configPath})
	return nil
}

// writeHookTemplates writes one script template per hook type into dir and
// returns the paths by hook type. Existing scripts are only replaced with force.
func writeHookTemplates(dir string, force bool) (map[hooks.HookType]string, error) {
	hookTypes := []hooks.HookType{hooks.PreSync, hooks.PostSync}

	paths := make(map[hooks.HookType]string, len(hookTypes))
	for _, hookType := range hookTypes {
		path := filepath.Join(dir, hooks.ScriptFileName(hookType))
		if _, err := os.Stat(path); err == nil && !force {
			return nil, fmt.Errorf("hook script already exists at %s (use --force to overwrite): %w", path, errors.ErrConfigFileExists)
		}
		paths[hookType] = path
	}

	for _, hookType := range hookTypes {
		template := hooks.HookTemplate(hookType) + "\n"
		err := fsutil.WriteFileAtomic(paths[hookType], fsutil.FileModeDefault, func(w io.Writer) error {
			_, err := io.WriteString(w, template)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to write %s script: %w", hookType, err)
		}
	}
	return paths, nil
}
