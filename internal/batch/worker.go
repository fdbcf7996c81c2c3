package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"stillgen/internal/cdl"
	"stillgen/internal/clip"
	"stillgen/internal/elzone"
	"stillgen/internal/logging"
	"stillgen/internal/overlay"
	"stillgen/internal/pipeline"
)

const panelSuffix = elzone.Suffix

// worker owns one set of resolver caches. Nothing here is shared with other
// workers, so the CDL cache, font faces and logo decodes run lock-free.
type worker struct {
	id         int
	resolver   *cdl.Resolver
	executor   *pipeline.Executor
	compositor *overlay.Compositor
	analyzer   *elzone.Analyzer
	fallback   pipeline.Insets
	canvasW    int
	canvasH    int
	fast       bool
	logger     *slog.Logger
}

func (o *Orchestrator) newWorker(id int, tempDir string) (*worker, error) {
	sidecars, err := cdl.NewDiskCache(tempDir)
	if err != nil {
		return nil, err
	}

	// Caches log with the worker index baked in; per-job attributes travel
	// on the context instead.
	cacheLogger := o.logger.With(logging.Int(logging.FieldWorker, id))

	var analyzer *elzone.Analyzer
	if o.cfg.ELZone.Enabled {
		analyzer, err = elzone.NewAnalyzer(elzone.LogFormat(o.cfg.ELZone.LogFormat), cacheLogger)
		if err != nil {
			return nil, err
		}
	}

	layout := overlay.Layout{
		CanvasWidth:    o.cfg.Processing.OutputWidth,
		CanvasHeight:   o.cfg.Processing.OutputHeight,
		FontSizeSmall:  o.cfg.Overlay.FontSizeSmall,
		FontSizeMedium: o.cfg.Overlay.FontSizeMedium,
		FontSizeLarge:  o.cfg.Overlay.FontSizeLarge,
		TextMargin:     o.cfg.Overlay.TextMargin,
		TextYTop:       o.cfg.Overlay.TextYTop,
		TextYBottom:    o.cfg.Overlay.TextYBottom,
		LogoPadding:    o.cfg.Overlay.LogoPadding,
		LogoMaxHeight:  o.cfg.Overlay.LogoMaxHeight,
		LogoSpacing:    o.cfg.Overlay.LogoSpacing,
		LogoImage:      o.cfg.Resources.LogoImage,
		ToolImage:      o.cfg.Resources.ToolImage,
	}

	return &worker{
		id:         id,
		resolver:   cdl.NewResolver(cacheLogger),
		executor:   pipeline.NewExecutor(o.engine, o.template, sidecars, o.cfg.Resources.LUTDir, tempDir, cacheLogger),
		compositor: overlay.NewCompositor(layout, o.cfg.Resources.Font, cacheLogger),
		analyzer:   analyzer,
		fallback: pipeline.Insets{
			Left:   o.cfg.Processing.CropLeft,
			Right:  o.cfg.Processing.CropRight,
			Top:    o.cfg.Processing.CropTop,
			Bottom: o.cfg.Processing.CropBottom,
		},
		canvasW: o.cfg.Processing.OutputWidth,
		canvasH: o.cfg.Processing.OutputHeight,
		fast:    o.cfg.Processing.Profile.FastResize(),
		logger:  o.logger,
	}, nil
}

// run drains batches until the channel closes or the context is cancelled.
func (w *worker) run(ctx context.Context, batches <-chan []Job, results chan<- Result) {
	ctx = logging.WithWorker(ctx, w.id)
	for batch := range batches {
		for _, job := range batch {
			start := time.Now()
			err := w.process(ctx, job)
			results <- Result{Job: job, Err: err, Duration: time.Since(start)}
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// process runs one job end to end: grade, crop and letterbox, overlay,
// atomic save, then the optional exposure panel. Panel failures are logged
// and never fail the job that owns them.
func (w *worker) process(ctx context.Context, job Job) error {
	ctx = logging.WithClip(ctx, job.Identity.Name)
	ctx = logging.WithFrame(ctx, job.Identity.Timecode.String())
	logger := logging.WithContext(ctx, w.logger)
	start := time.Now()

	grade := w.resolver.Resolve(job.Identity.Name, job.Record)

	gradedPath, cleanup, err := w.executor.Grade(ctx, pipeline.GradeRequest{
		SourcePath: job.SourcePath,
		Profile:    job.Profile,
		Grade:      grade.Values,
	})
	if err != nil {
		return fmt.Errorf("grade %s: %w", job.Identity.Name, err)
	}
	defer cleanup()

	graded, err := pipeline.LoadTIFF(gradedPath)
	if err != nil {
		return fmt.Errorf("load graded frame: %w", err)
	}

	// Unknown cameras carry no sensor geometry, so the configured fixed
	// crop does not apply to them.
	fallback := w.fallback
	if job.Profile.Family == clip.FamilyUnknown {
		fallback = pipeline.Insets{}
	}
	insets := pipeline.CropInsets(w.extraction(job, logger), fallback)
	canvas := pipeline.Compose(graded, insets, w.canvasW, w.canvasH, w.fast)

	w.compositor.Render(canvas, job.Record)

	if err := pipeline.SaveTIFF(job.OutputPath, canvas); err != nil {
		return fmt.Errorf("save %s: %w", job.OutputPath, err)
	}

	logger.Info("processed",
		logging.String(logging.FieldSource, job.SourcePath),
		logging.String(logging.FieldDest, job.OutputPath),
		logging.Bool("identity_cdl", grade.Missing),
		logging.Duration("duration", time.Since(start)))

	w.renderPanel(job, logger)
	return nil
}

// extraction prefers the lab ALE geometry, then the camera profile default.
// Nil means the fallback insets apply.
func (w *worker) extraction(job Job, logger *slog.Logger) *clip.Extraction {
	if raw := job.Record.Value("", "Extraction"); raw != "" {
		if parsed, err := clip.ParseExtraction(raw); err == nil {
			return &parsed
		}
		logger.Warn("unusable extraction geometry, falling back",
			logging.String("extraction", raw))
	}
	return job.Profile.DefaultExtraction
}

// renderPanel builds the exposure analysis panel from the log-encoded source
// frame. It keeps its own skip-if-exists check so re-runs never repeat the
// analysis.
func (w *worker) renderPanel(job Job, logger *slog.Logger) {
	if w.analyzer == nil || job.PanelPath == "" {
		return
	}
	if _, err := os.Stat(job.PanelPath); err == nil {
		return
	}

	source, err := pipeline.LoadTIFF(job.SourcePath)
	if err != nil {
		logger.Warn("exposure panel skipped", logging.Error(err))
		return
	}
	panel := w.analyzer.Analyze(source)
	if err := w.analyzer.Write(job.PanelPath, panel); err != nil {
		logger.Warn("exposure panel skipped", logging.Error(err))
	}
}
