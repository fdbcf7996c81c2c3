package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"stillgen/internal/clip"
	"stillgen/internal/config"
	"stillgen/internal/fileutil"
	"stillgen/internal/logging"
	"stillgen/internal/metadata"
	"stillgen/internal/naming"
	"stillgen/internal/ocio"
	"stillgen/internal/oiio"
)

// Orchestrator discovers source frames, plans jobs and dispatches them to a
// bounded worker pool. The metadata indexes are loaded once and shared
// read-only; everything mutable lives in per-worker caches.
type Orchestrator struct {
	cfg      *config.Config
	store    *metadata.Store
	frames   *metadata.FrameLoader
	template *ocio.Template
	engine   oiio.Client
	logger   *slog.Logger

	// Progress, when set, receives each job result from the aggregation
	// goroutine. It is never called concurrently.
	Progress func(Result)
}

// New wires an orchestrator. The engine is injected so tests can run the
// full dispatch path without a real oiiotool installation.
func New(cfg *config.Config, store *metadata.Store, frames *metadata.FrameLoader, template *ocio.Template, engine oiio.Client, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		cfg:      cfg,
		store:    store,
		frames:   frames,
		template: template,
		engine:   engine,
		logger:   logging.NewComponentLogger(logger, "batch"),
	}
}

// Plan is the resolved work list for one run.
type Plan struct {
	Jobs    []Job
	Skipped []Skip
	Resumed int
}

// Plan scans the input folder and builds the job list: parse each filename
// into a clip identity, resolve the merged metadata record and destination
// name, then drop jobs whose deliverable already exists when resuming.
// Unparseable filenames are reported, not fatal.
func (o *Orchestrator) Plan() (*Plan, error) {
	sources, err := fileutil.FindTIFFs(o.cfg.Paths.InputDir)
	if err != nil {
		return nil, fmt.Errorf("batch: scan input folder: %w", err)
	}

	plan := &Plan{}
	for _, source := range sources {
		identity, err := clip.ParseIdentity(source)
		if err != nil {
			o.logger.Warn("skipping file",
				logging.String(logging.FieldSource, source),
				logging.Error(err))
			plan.Skipped = append(plan.Skipped, Skip{SourcePath: source, Reason: err.Error()})
			continue
		}

		record, provenance := o.store.Get(identity.Name, identity.Timecode.Key(), o.frames)
		outputName := naming.OutputName(record, identity.Timecode)
		outputPath := filepath.Join(o.cfg.Paths.OutputDir, outputName+".tiff")

		job := Job{
			SourcePath: source,
			Identity:   identity,
			Profile:    clip.ResolveProfile(identity),
			Record:     record,
			Provenance: provenance,
			OutputPath: outputPath,
		}
		if o.cfg.ELZone.Enabled {
			job.PanelPath = strings.TrimSuffix(outputPath, ".tiff") + panelSuffix
		}

		if o.cfg.Processing.Resume {
			if _, err := os.Stat(outputPath); err == nil {
				plan.Resumed++
				continue
			}
		}
		plan.Jobs = append(plan.Jobs, job)
	}

	o.logger.Info("planned run",
		logging.Int("jobs", len(plan.Jobs)),
		logging.Int("skipped", len(plan.Skipped)),
		logging.Int("resumed", plan.Resumed))
	return plan, nil
}

// Run dispatches the planned jobs in batches to the worker pool and blocks
// until every batch completes or the context is cancelled. Cancellation is
// honored between batches; a worker finishes the batch it holds.
func (o *Orchestrator) Run(ctx context.Context, plan *Plan) (*Summary, error) {
	start := time.Now()
	summary := &Summary{}
	if len(plan.Jobs) == 0 {
		summary.Elapsed = time.Since(start)
		return summary, nil
	}

	tempDir, err := os.MkdirTemp("", "stillgen-run-*")
	if err != nil {
		return nil, fmt.Errorf("batch: create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	batches := splitBatches(plan.Jobs, o.cfg.Processing.BatchSize)
	workerCount := o.cfg.Processing.Workers
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	if workerCount > len(batches) {
		workerCount = len(batches)
	}

	o.logger.Info("dispatching",
		logging.Int("jobs", len(plan.Jobs)),
		logging.Int("batches", len(batches)),
		logging.Int("workers", workerCount))

	batchCh := make(chan []Job)
	resultCh := make(chan Result)

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		w, err := o.newWorker(i, tempDir)
		if err != nil {
			close(batchCh)
			return nil, err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.run(ctx, batchCh, resultCh)
		}()
	}

	go func() {
		defer close(batchCh)
		for _, batch := range batches {
			select {
			case batchCh <- batch:
			case <-ctx.Done():
				return
			}
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	for {
		select {
		case result := <-resultCh:
			if result.Err != nil {
				summary.Failed = append(summary.Failed, result)
			} else {
				summary.Processed++
			}
			if o.Progress != nil {
				o.Progress(result)
			}
		case <-done:
			summary.Elapsed = time.Since(start)
			return summary, ctx.Err()
		}
	}
}

// splitBatches chunks jobs preserving the discovery order.
func splitBatches(jobs []Job, size int) [][]Job {
	if size <= 0 {
		size = 1
	}
	var batches [][]Job
	for start := 0; start < len(jobs); start += size {
		end := start + size
		if end > len(jobs) {
			end = len(jobs)
		}
		batches = append(batches, jobs[start:end])
	}
	return batches
}
