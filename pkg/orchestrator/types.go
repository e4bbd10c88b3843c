//go:generate mockgen -destination=./mocks/orchestrator.go . Adapter,Probe,ScriptRunner

package orchestrator

import (
	"context"

	"github.com/cperrin88/apkg/pkg/hooks"
	"github.com/cperrin88/apkg/pkg/model"
)

// Adapter pulls one upstream source and writes canonical records into the sink.
type Adapter interface {
	Name() string
	Sync(ctx context.Context, sink model.Sink) (int, error)
}

// Probe reports whether a source can be synced on this host.
type Probe interface {
	Available(ctx context.Context) error
}

// ScriptRunner executes user scripts around a sync.
type ScriptRunner interface {
	Execute(hookType hooks.HookType, ctx hooks.HookContext) error
}

// Store is the subset of the aggregation store used by the orchestrator.
type Store interface {
	model.Sink
	Len() int
}

// Policy decides what an adapter failure does to the rest of the sync.
type Policy int

const (
	// FailFast aborts the whole sync on the first adapter error.
	FailFast Policy = iota
	// Continue records the failure and moves on to the next step.
	Continue
)

func (p Policy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	case Continue:
		return "continue"
	default:
		return "unknown"
	}
}

// Step is one adapter run. Probe is optional; a failing probe skips the step.
type Step struct {
	Adapter Adapter
	Policy  Policy
	Probe   Probe
}

// Orchestrator runs adapters in order and merges their records into a store.
type Orchestrator struct {
	Scripts  ScriptRunner // optional pre/post sync scripts
	CacheDir string       // exposed to scripts
	Hooks    Hooks        // Hooks for progress and event notifications
}

// Event represents a simple progress notification.
type Event struct {
	Phase string // probing|syncing|skipped|synced|failed|done
	ID    string // adapter name
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

// Report summarizes a sync run.
type Report struct {
	Counts   map[string]int
	Failures map[string]error
	Skipped  []string
}

// Total returns the number of records written by all adapters.
func (r *Report) Total() int {
	total := 0
	for _, n := range r.Counts {
		total += n
	}
	return total
}
