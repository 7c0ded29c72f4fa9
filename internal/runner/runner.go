// Package runner drives reconcile-then-generate batches off the
// caller's goroutine. One batch runs at a time; callers observe it
// only through the event channel and the status snapshot.
package runner

import (
	"context"
	"errors"
	"sync"

	"media-catalog/internal/logging"
	"media-catalog/internal/reconcile"
	"media-catalog/internal/thumbs"
)

// ErrBusy is returned when a batch is already in flight. An in-flight
// batch always runs to completion.
var ErrBusy = errors.New("runner: batch already running")

// Reconciler is the diffing half of a batch.
type Reconciler interface {
	Reconcile(ctx context.Context, root string) (*reconcile.Result, error)
	State() reconcile.State
}

// Generator renders and catalogs the additions a pass found.
type Generator interface {
	Generate(ctx context.Context, root string, paths []string) <-chan thumbs.Event
}

// Runner serializes batches over a single media root.
type Runner struct {
	engine   Reconciler
	pipeline Generator

	mu      sync.Mutex
	running bool
	last    *reconcile.Result
}

// Status is a point-in-time snapshot for the status surface.
type Status struct {
	Running    bool     `json:"running"`
	Phase      string   `json:"phase"`
	LastTags   []string `json:"last_tags,omitempty"`
	LastResult *Summary `json:"last_result,omitempty"`
}

// Summary condenses the last completed pass.
type Summary struct {
	Additions int  `json:"additions"`
	Removals  int  `json:"removals"`
	FastPath  bool `json:"fast_path"`
}

// New returns a runner around the given engine and pipeline.
func New(engine Reconciler, pipeline Generator) *Runner {
	return &Runner{engine: engine, pipeline: pipeline}
}

// Trigger starts a batch for root and returns its event channel. The
// caller must drain the channel; it closes after the terminal event.
// Returns ErrBusy while a previous batch is still in flight.
func (r *Runner) Trigger(root string) (<-chan thumbs.Event, error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil, ErrBusy
	}
	r.running = true
	r.mu.Unlock()

	events := make(chan thumbs.Event, 64)
	go r.run(root, events)
	return events, nil
}

// TriggerBackground starts a batch and drains its events into the log.
// Used by the HTTP trigger, where no caller waits on the channel.
func (r *Runner) TriggerBackground(root string) error {
	events, err := r.Trigger(root)
	if err != nil {
		return err
	}
	go func() {
		for ev := range events {
			switch e := ev.(type) {
			case thumbs.FileFailed:
				logging.Warn("Background batch: %s failed: %v", e.SourcePath, e.Err)
			case thumbs.BatchFinished:
				if e.Err != nil {
					logging.Error("Background batch for %s failed: %v", e.Root, e.Err)
				} else {
					logging.Info("Background batch for %s finished", e.Root)
				}
			}
		}
	}()
	return nil
}

func (r *Runner) run(root string, out chan<- thumbs.Event) {
	defer close(out)
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	ctx := context.Background()

	res, err := r.engine.Reconcile(ctx, root)
	if err != nil {
		out <- thumbs.BatchFinished{Root: root, Err: err}
		return
	}

	r.mu.Lock()
	r.last = res
	r.mu.Unlock()

	if len(res.Additions) == 0 {
		out <- thumbs.BatchFinished{Root: root}
		return
	}

	for ev := range r.pipeline.Generate(ctx, root, res.Additions) {
		out <- ev
	}
}

// Busy reports whether a batch is in flight.
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Status returns the current snapshot.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := Status{
		Running: r.running,
		Phase:   r.engine.State().String(),
	}
	if r.last != nil {
		st.LastTags = r.last.Tags
		st.LastResult = &Summary{
			Additions: len(r.last.Additions),
			Removals:  len(r.last.Removals),
			FastPath:  r.last.FastPath,
		}
	}
	return st
}
