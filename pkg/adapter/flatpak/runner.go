package flatpak

import (
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"strings"
)

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// LookPath searches PATH for file.
func (ExecRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Output runs name with args and returns its stdout. A non-zero exit is an
// error carrying the command's stderr.
func (ExecRunner) Output(ctx context.Context, name string, args []string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			if msg := strings.TrimSpace(string(exitErr.Stderr)); msg != "" {
				return nil, fmt.Errorf("%s exited with code %d: %s", name, exitErr.ExitCode(), msg)
			}
			return nil, fmt.Errorf("%s exited with code %d", name, exitErr.ExitCode())
		}
		return nil, err
	}
	return out, nil
}
