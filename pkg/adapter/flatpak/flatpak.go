//go:generate mockgen -destination=./mocks/flatpak.go . Runner

// Package flatpak maps `flatpak remote-ls` listings to canonical records.
package flatpak

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/cperrin88/apkg/internal/logger"
	"github.com/cperrin88/apkg/pkg/errors"
	"github.com/cperrin88/apkg/pkg/model"
)

const (
	// Name identifies the adapter in sync reports.
	Name = "flatpak"

	// DefaultCommand is the flatpak executable looked up on PATH.
	DefaultCommand = "flatpak"

	// DefaultRemote is listed when no remotes are configured.
	DefaultRemote = "flathub"

	// DefaultRuntime is the runtime attached to every Flatpak record.
	DefaultRuntime = "org.freedesktop.Platform"

	minFields = 4
)

// Runner runs external commands.
type Runner interface {
	LookPath(file string) (string, error)
	Output(ctx context.Context, name string, args []string) ([]byte, error)
}

// Adapter lists applications of each configured remote.
type Adapter struct {
	runner  Runner
	command string
	remotes []string
}

// New creates a Flatpak adapter. Empty values fall back to the defaults.
func New(runner Runner, command string, remotes []string) *Adapter {
	if command == "" {
		command = DefaultCommand
	}
	if len(remotes) == 0 {
		remotes = []string{DefaultRemote}
	}
	return &Adapter{runner: runner, command: command, remotes: remotes}
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return Name
}

// Available reports whether the flatpak executable can be found.
func (a *Adapter) Available(_ context.Context) error {
	if _, err := a.runner.LookPath(a.command); err != nil {
		return fmt.Errorf("%w: %s: %w", errors.ErrSourceUnavailable, a.command, err)
	}
	return nil
}

// ListArgs returns the arguments used to list the applications of remote.
func ListArgs(remote string) []string {
	return []string{"remote-ls", remote, "--app", "--columns=application,version,branch,description"}
}

// List runs the listing command for remote and returns its raw output.
func (a *Adapter) List(ctx context.Context, remote string) (string, error) {
	out, err := a.runner.Output(ctx, a.command, ListArgs(remote))
	if err != nil {
		return "", errors.Wrapf(err, "flatpak: list remote %q", remote)
	}
	return string(out), nil
}

// Sync lists every remote in order. A failing remote does not stop the
// remaining ones; all failures are returned joined.
func (a *Adapter) Sync(ctx context.Context, sink model.Sink) (int, error) {
	var (
		count int
		errs  []error
	)
	for _, remote := range a.remotes {
		out, err := a.List(ctx, remote)
		if err != nil {
			logger.Warn("Flatpak remote listing failed", logger.Fields{"remote": remote, "error": err})
			errs = append(errs, err)
			continue
		}

		for _, pkg := range Parse(out, remote) {
			sink.Insert(pkg)
			count++
		}
	}
	return count, stderrors.Join(errs...)
}

// Parse converts listing output for remote. The first line is a header.
// Lines with fewer than four tab-separated fields are skipped.
func Parse(output, remote string) []*model.Package {
	lines := strings.Split(output, "\n")
	if len(lines) <= 1 {
		return nil
	}

	var pkgs []*model.Package
	for _, line := range lines[1:] {
		fields := strings.Split(strings.TrimSuffix(line, "\r"), "\t")
		if len(fields) < minFields || fields[0] == "" {
			continue
		}
		pkgs = append(pkgs, ToPackage(fields[0], fields[1], fields[2], fields[3], remote))
	}
	return pkgs
}

// ToPackage builds the record for one listed application.
func ToPackage(appID, version, branch, description, remote string) *model.Package {
	return &model.Package{
		Name:        appID,
		Version:     version,
		Description: description,
		Source: model.Flatpak{
			Remote:  remote,
			RefName: fmt.Sprintf("app/%s/%s", appID, branch),
		},
		Dependencies: []string{},
		BuildType:    model.Container{Runtime: DefaultRuntime},
		License:      []string{},
	}
}
