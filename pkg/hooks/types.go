package hooks

// HookType represents the point of a sync at which a hook runs.
type HookType string

// Supported hook types.
const (
	PreSync  HookType = "pre-sync"
	PostSync HookType = "post-sync"
)

// HookContext contains information passed to hooks.
type HookContext struct {
	CacheDir string
	Sources  []string
	Counts   map[string]int
	Failures map[string]string
	Total    int
	Vars     map[string]interface{}
}
