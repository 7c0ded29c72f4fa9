package thumbs

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"media-catalog/internal/catalog"
	"media-catalog/internal/logging"
	"media-catalog/internal/mediatypes"
	"media-catalog/internal/memory"
	"media-catalog/internal/metrics"
	"media-catalog/internal/workers"
)

// Pipeline renders preview artifacts for media files and records them
// in the catalog. Rendering fans out across a worker pool; catalog
// writes happen on the collecting goroutine so the store sees a single
// writer per batch.
type Pipeline struct {
	store          *catalog.Catalog
	thumbDir       string
	audioSurrogate string
	workerCount    int
	monitor        *memory.Monitor
}

// New returns a pipeline writing artifacts under thumbDir.
func New(store *catalog.Catalog, thumbDir string) *Pipeline {
	return &Pipeline{
		store:       store,
		thumbDir:    thumbDir,
		workerCount: workers.ForMixed(),
	}
}

// SetMemoryMonitor enables memory backpressure: render workers wait
// out critical heap pressure before decoding the next file.
func (p *Pipeline) SetMemoryMonitor(m *memory.Monitor) {
	p.monitor = m
}

type renderResult struct {
	sourcePath   string
	class        mediatypes.Class
	artifactPath string
	err          error
}

// Generate starts a batch over the given source paths and returns its
// event channel. The batch runs to completion once started; a file that
// fails to render is reported and skipped, while a catalog write
// failure stops dispatch of further files. The channel closes after the
// terminal BatchFinished event.
func (p *Pipeline) Generate(ctx context.Context, root string, paths []string) <-chan Event {
	events := make(chan Event, 64)
	go p.run(ctx, root, paths, events)
	return events
}

func (p *Pipeline) run(ctx context.Context, root string, paths []string, events chan<- Event) {
	defer close(events)

	metrics.PipelineRunning.Set(1)
	defer metrics.PipelineRunning.Set(0)

	start := time.Now()

	if err := p.prepare(); err != nil {
		logging.Error("Batch setup failed for %s: %v", root, err)
		metrics.PipelineBatchesTotal.WithLabelValues("error").Inc()
		events <- BatchFinished{Root: root, Err: err}
		return
	}

	total := len(paths)
	logging.Info("Generating previews for %d files under %s with %d workers", total, root, p.workerCount)

	jobs := make(chan string)
	results := make(chan renderResult)

	var wg sync.WaitGroup
	for i := 0; i < p.workerCount; i++ {
		wg.Add(1)
		go p.renderWorker(jobs, results, &wg)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	// Dispatched files always run to completion; abort only stops
	// handing out new work after a store failure.
	var abort atomic.Bool
	go func() {
		defer close(jobs)
		for _, path := range paths {
			if abort.Load() {
				return
			}
			jobs <- path
		}
	}()

	done := 0
	var batchErr error
	for res := range results {
		done++
		p.collect(ctx, res, events, &abort, &batchErr)
		events <- Progress{Done: done, Total: total}
	}

	status := "ok"
	if batchErr != nil {
		status = "error"
	}
	metrics.PipelineBatchesTotal.WithLabelValues(status).Inc()

	logging.Info("Batch for %s finished: %d/%d files in %v", root, done, total, time.Since(start).Round(time.Millisecond))
	events <- BatchFinished{Root: root, Err: batchErr}
}

// prepare creates the artifact directory and the shared audio surrogate.
func (p *Pipeline) prepare() error {
	if err := ensureThumbDir(p.thumbDir); err != nil {
		return err
	}
	surrogate, err := ensureAudioSurrogate(p.thumbDir)
	if err != nil {
		return err
	}
	p.audioSurrogate = surrogate
	return nil
}

func (p *Pipeline) renderWorker(jobs <-chan string, results chan<- renderResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for path := range jobs {
		if p.monitor != nil {
			p.monitor.WaitIfPaused()
		}

		class := mediatypes.Classify(filepath.Ext(path))

		start := time.Now()
		artifact, err := p.renderFile(path, class)
		if err == nil {
			metrics.PipelineRenderDuration.WithLabelValues(string(class)).Observe(time.Since(start).Seconds())
		}

		results <- renderResult{
			sourcePath:   path,
			class:        class,
			artifactPath: artifact,
			err:          err,
		}
	}
}

// collect records one render result: failed renders are reported and
// skipped, successful ones are inserted with their reserved tag. A
// store error flips the abort flag so no further files are dispatched.
func (p *Pipeline) collect(ctx context.Context, res renderResult, events chan<- Event, abort *atomic.Bool, batchErr *error) {
	if res.err != nil {
		logging.Warn("Preview generation failed for %s: %v", res.sourcePath, res.err)
		metrics.PipelineFilesProcessed.WithLabelValues(string(res.class), "failed").Inc()
		events <- FileFailed{SourcePath: res.sourcePath, Err: res.err}
		return
	}

	name := filepath.Base(res.sourcePath)
	tag := mediatypes.ReservedTag(res.class)

	if err := p.storeFile(ctx, name, res.sourcePath, res.artifactPath, tag); err != nil {
		logging.Error("Catalog write failed for %s: %v", res.sourcePath, err)
		metrics.PipelineFilesProcessed.WithLabelValues(string(res.class), "failed").Inc()
		events <- FileFailed{SourcePath: res.sourcePath, Err: err}
		if *batchErr == nil {
			*batchErr = err
		}
		abort.Store(true)
		return
	}

	metrics.PipelineFilesProcessed.WithLabelValues(string(res.class), "ok").Inc()
	events <- FileReady{
		Name:         name,
		SourcePath:   res.sourcePath,
		ArtifactPath: res.artifactPath,
		Tags:         []string{tag},
	}
}

func (p *Pipeline) storeFile(ctx context.Context, name, path, artifactPath, tag string) error {
	err := p.store.InsertFile(ctx, name, path, artifactPath)
	if err != nil && !errors.Is(err, catalog.ErrDuplicatePath) {
		return err
	}
	// Already-cataloged files keep their row; the refreshed artifact is
	// enough. Tag assignment is idempotent either way.
	return p.store.AssignTags(ctx, path, []string{tag})
}
