package cli

import (
	"fmt"
	"strings"

	"github.com/cperrin88/apkg/pkg/errors"
	"github.com/cperrin88/apkg/pkg/model"
	"github.com/spf13/cobra"
)

// NewInfoCmd creates the info command.
func NewInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <package>",
		Short: "Show package information",
		Args:  exactArgsWithUsage(1),
		RunE:  runInfo,
	}

	return cmd
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}

	name := args[0]
	pkg, ok := db.Get(name)
	if !ok {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Package not found: %s\n", name)
		return fmt.Errorf("%w: %s", errors.ErrPackageNotFound, name)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Name: %s\n", pkg.Name)
	_, _ = fmt.Fprintf(out, "Version: %s\n", pkg.Version)
	_, _ = fmt.Fprintf(out, "Description: %s\n", pkg.Description)
	_, _ = fmt.Fprintf(out, "Source: %s\n", pkg.Source)
	_, _ = fmt.Fprintf(out, "Dependencies: %s\n", model.QuoteList(pkg.Dependencies))
	_, _ = fmt.Fprintf(out, "Build Type: %s\n", pkg.BuildType)
	if pkg.Homepage != "" {
		_, _ = fmt.Fprintf(out, "Homepage: %s\n", pkg.Homepage)
	}
	_, _ = fmt.Fprintf(out, "License: %s\n", model.QuoteList(pkg.License))
	if nonSPDX := pkg.NonSPDXLicenses(); len(nonSPDX) > 0 {
		_, _ = fmt.Fprintf(out, "  (not SPDX: %s)\n", strings.Join(nonSPDX, ", "))
	}
	if pkg.Maintainer != "" {
		_, _ = fmt.Fprintf(out, "Maintainer: %s\n", pkg.Maintainer)
	}
	if purl := pkg.PURL(); purl != "" {
		_, _ = fmt.Fprintf(out, "PURL: %s\n", purl)
	}

	return nil
}
