package hooks

import (
	"os"

	"github.com/cperrin88/apkg/pkg/errors"
)

// LoadScript reads the script at path and registers it for hookType.
// An empty path registers nothing.
func LoadScript(executor *TengoExecutor, hookType HookType, path string) error {
	if path == "" {
		return nil
	}
	switch hookType {
	case PreSync, PostSync:
	case "":
		return ErrHookTypeEmpty
	default:
		return ErrUnsupportedHookType(string(hookType))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(ErrHookLoad, "reading %s: %v", path, err)
	}
	executor.AddScript(hookType, string(content))
	return nil
}

// ScriptFileName returns the file name used for a generated hookType script.
func ScriptFileName(hookType HookType) string {
	return string(hookType) + ".tengo"
}

// HookTemplate generates a template for a hook script.
func HookTemplate(hookType HookType) string {
	switch hookType {
	case PreSync:
		return `// Pre-sync hook
// Runs before any source is synced.
// Available variables:
// - hookType: string
// - cacheDir: string - directory holding the package snapshot
// - sources: array - names of the sources about to sync
// Set err to a non-empty string to report a failure.

err := ""

// Example: refuse to sync into a missing cache directory
/*
os := import("os")
if is_error(os.stat(cacheDir)) {
    err = "cache directory missing: " + cacheDir
}
*/`

	case PostSync:
		return `// Post-sync hook
// Runs after all sources finished.
// Available variables:
// - counts: map - records inserted per source
// - failures: map - error message per failed source
// - total: int - records in the store after the sync

// Example: print a summary
/*
fmt := import("fmt")
fmt.println("synced", total, "packages")
*/`

	default:
		return "// Unknown hook type: " + string(hookType)
	}
}
