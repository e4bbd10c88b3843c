package orchestrator

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cperrin88/apkg/internal/logger"
	"github.com/cperrin88/apkg/pkg/errors"
	"github.com/cperrin88/apkg/pkg/hooks"
)

// Phases emitted through Hooks.OnEvent.
const (
	PhaseProbing = "probing"
	PhaseSyncing = "syncing"
	PhaseSkipped = "skipped"
	PhaseSynced  = "synced"
	PhaseFailed  = "failed"
	PhaseDone    = "done"
)

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// Sync runs every step in order against store. Records are merged as adapters produce them,
// so an aborted run keeps whatever was inserted before the failure.
// Only a FailFast step returns an error; Continue failures are collected in the report.
func (o *Orchestrator) Sync(ctx context.Context, store Store, steps []Step) (*Report, error) {
	report := &Report{
		Counts:   make(map[string]int, len(steps)),
		Failures: make(map[string]error),
	}

	o.runScript(hooks.PreSync, hooks.HookContext{
		CacheDir: o.CacheDir,
		Sources:  stepNames(steps),
	})

	for _, step := range steps {
		if step.Adapter == nil {
			continue
		}
		name := step.Adapter.Name()

		if step.Probe != nil {
			emit(o.Hooks, Event{Phase: PhaseProbing, ID: name})
			if err := step.Probe.Available(ctx); err != nil {
				report.Skipped = append(report.Skipped, name)
				emit(o.Hooks, Event{Phase: PhaseSkipped, ID: name, Msg: err.Error()})
				continue
			}
		}

		emit(o.Hooks, Event{Phase: PhaseSyncing, ID: name})
		n, err := step.Adapter.Sync(ctx, store)
		report.Counts[name] = n
		if err != nil {
			report.Failures[name] = err
			emit(o.Hooks, Event{Phase: PhaseFailed, ID: name, Msg: err.Error()})
			if step.Policy == FailFast {
				return report, fmt.Errorf("%w: %s: %w", errors.ErrSyncAborted, name, err)
			}
			continue
		}
		emit(o.Hooks, Event{Phase: PhaseSynced, ID: name, Msg: strconv.Itoa(n)})
	}

	failures := make(map[string]string, len(report.Failures))
	for name, err := range report.Failures {
		failures[name] = err.Error()
	}
	o.runScript(hooks.PostSync, hooks.HookContext{
		CacheDir: o.CacheDir,
		Sources:  stepNames(steps),
		Counts:   report.Counts,
		Failures: failures,
		Total:    store.Len(),
	})

	emit(o.Hooks, Event{Phase: PhaseDone, Msg: strconv.Itoa(report.Total())})
	return report, nil
}

// runScript executes a sync script; failures are logged and never stop the sync.
func (o *Orchestrator) runScript(hookType hooks.HookType, hc hooks.HookContext) {
	if o.Scripts == nil {
		return
	}
	if err := o.Scripts.Execute(hookType, hc); err != nil {
		logger.Warn("Sync script failed", logger.Fields{
			"hook":  string(hookType),
			"error": err.Error(),
		})
	}
}

func stepNames(steps []Step) []string {
	names := make([]string, 0, len(steps))
	for _, step := range steps {
		if step.Adapter != nil {
			names = append(names, step.Adapter.Name())
		}
	}
	return names
}
