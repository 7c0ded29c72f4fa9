package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"media-catalog/internal/catalog"
	"media-catalog/internal/filesystem"
	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
	"media-catalog/internal/thumbs"
	"media-catalog/internal/walker"
)

// Result tags, surfaced so callers can react to what a pass changed.
const (
	TagNewFiles     = "new_files"
	TagDeletedFiles = "deleted_files"
)

// Engine compares the catalog against the filesystem and applies the
// difference. It only removes rows and artifacts itself; additions are
// returned for the thumbnail pipeline to render and insert.
type Engine struct {
	store    *catalog.Catalog
	walker   *walker.Walker
	thumbDir string
	state    atomic.Int32
}

// Result describes one reconciliation pass.
type Result struct {
	// Additions are on-disk media paths with no catalog row, sorted.
	Additions []string
	// Removals are cataloged paths no longer on disk, sorted.
	Removals []string
	// Tags is the subset of {new_files, deleted_files} that applies.
	Tags []string
	// FastPath is true when the count heuristic skipped the full diff.
	FastPath bool
}

// New returns an engine for the given store and artifact directory.
func New(store *catalog.Catalog, thumbDir string) *Engine {
	return &Engine{
		store:    store,
		walker:   walker.New(),
		thumbDir: thumbDir,
	}
}

// State returns the engine's current phase.
func (e *Engine) State() State {
	return State(e.state.Load())
}

func (e *Engine) setState(s State) {
	e.state.Store(int32(s))
	metrics.ReconcileState.Set(float64(s))
}

// Reconcile runs one pass over root. When the on-disk file count equals
// the count recorded by the previous pass, the full diff is skipped.
// That heuristic cannot see a deletion and an addition of equal size in
// the same window; the next differing count catches up.
func (e *Engine) Reconcile(ctx context.Context, root string) (*Result, error) {
	start := time.Now()
	metrics.ReconcileRunsTotal.Inc()
	defer e.setState(StateIdle)
	defer func() {
		metrics.ReconcileDuration.Observe(time.Since(start).Seconds())
	}()

	e.setState(StateScanning)
	current, err := e.walker.Scan(root)
	if err != nil {
		metrics.ReconcileErrors.Inc()
		return nil, fmt.Errorf("scan of %s failed: %w", root, err)
	}

	lastCount, known, err := e.store.LastFileCount(ctx)
	if err != nil {
		metrics.ReconcileErrors.Inc()
		return nil, fmt.Errorf("failed to read recorded file count: %w", err)
	}
	if known && lastCount == len(current) {
		logging.Debug("File count unchanged at %d, skipping diff for %s", lastCount, root)
		metrics.ReconcileFastPathTotal.Inc()
		return &Result{FastPath: true}, nil
	}

	e.setState(StateDiffing)
	stored, err := e.store.AllPaths(ctx)
	if err != nil {
		metrics.ReconcileErrors.Inc()
		return nil, fmt.Errorf("failed to list cataloged paths: %w", err)
	}

	additions := diff(current, stored)
	removals := diff(stored, current)

	e.setState(applyState(len(additions), len(removals)))
	if len(removals) > 0 {
		if err := e.applyRemovals(ctx, removals); err != nil {
			metrics.ReconcileErrors.Inc()
			return nil, err
		}
	}

	if err := e.store.SetLastFileCount(ctx, len(current)); err != nil {
		metrics.ReconcileErrors.Inc()
		return nil, fmt.Errorf("failed to record file count: %w", err)
	}

	metrics.ReconcileAdditions.Add(float64(len(additions)))
	metrics.ReconcileRemovals.Add(float64(len(removals)))

	result := &Result{Additions: additions, Removals: removals}
	if len(additions) > 0 {
		result.Tags = append(result.Tags, TagNewFiles)
	}
	if len(removals) > 0 {
		result.Tags = append(result.Tags, TagDeletedFiles)
	}

	logging.Info("Reconciled %s: %d additions, %d removals (%s)",
		root, len(additions), len(removals), strings.Join(result.Tags, ","))
	return result, nil
}

// applyRemovals deletes stale artifacts first, then the rows. A missing
// artifact is not an error; the shared audio surrogate is left alone
// because every audio row points at it.
func (e *Engine) applyRemovals(ctx context.Context, removals []string) error {
	surrogate := thumbs.AudioSurrogatePath(e.thumbDir)

	for _, path := range removals {
		previewPath, err := e.store.PreviewPathForPath(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to resolve artifact for %s: %w", path, err)
		}
		if previewPath == surrogate {
			continue
		}
		if err := filesystem.RemoveWithRetry(previewPath, filesystem.DefaultRetryConfig()); err != nil {
			logging.Warn("Failed to remove artifact %s: %v", previewPath, err)
		}
	}

	set := make(map[string]struct{}, len(removals))
	for _, path := range removals {
		set[path] = struct{}{}
	}
	if err := e.store.DeleteFiles(ctx, set); err != nil {
		return fmt.Errorf("failed to delete stale rows: %w", err)
	}
	return nil
}

// diff returns the members of a absent from b, sorted.
func diff(a, b map[string]struct{}) []string {
	var out []string
	for path := range a {
		if _, ok := b[path]; !ok {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}
