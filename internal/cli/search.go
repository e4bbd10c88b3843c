package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search for packages",
		Long: `Search the local package database. The query matches package names
and descriptions case-insensitively; at most 20 matches are printed.`,
		Args: exactArgsWithUsage(1),
		RunE: runSearch,
	}

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}

	results := db.Search(args[0])
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Found %d packages:\n\n", len(results))
	for i, pkg := range results {
		if i == SearchLimit {
			break
		}
		_, _ = fmt.Fprintf(out, "%s %s - %s\n", pkg.Name, pkg.Version, pkg.Description)
	}

	return nil
}
