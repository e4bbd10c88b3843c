package hooks

import (
	"github.com/cperrin88/apkg/pkg/errors"
)

// Common hook errors.
var (
	ErrHookTypeEmpty = errors.ErrHookTypeEmpty
	ErrHookExecution = errors.ErrHookExecution
	ErrHookScript    = errors.ErrHookScript
	ErrHookLoad      = errors.ErrHookLoad
)

// ErrUnsupportedHookType is returned when a script is registered for an unknown hook type.
func ErrUnsupportedHookType(hookType string) error {
	return errors.Wrapf(ErrHookLoad, "unsupported hook type: %s", hookType)
}
