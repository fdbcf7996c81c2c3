package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"stillgen/internal/cdl"
	"stillgen/internal/clip"
	"stillgen/internal/logging"
	"stillgen/internal/ocio"
	"stillgen/internal/oiio"
)

// Executor assembles the ordered color transform chain for one frame and
// delegates pixel execution to the external engine. It performs no pixel
// arithmetic itself; its correctness is the order and parameterization of
// the steps.
type Executor struct {
	engine   oiio.Client
	template *ocio.Template
	sidecars *cdl.DiskCache
	lutDir   string
	tempDir  string
	logger   *slog.Logger
}

// NewExecutor wires an executor. tempDir holds per-job rendered configs and
// intermediate frames; callers share one across a run.
func NewExecutor(engine oiio.Client, template *ocio.Template, sidecars *cdl.DiskCache, lutDir, tempDir string, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Executor{
		engine:   engine,
		template: template,
		sidecars: sidecars,
		lutDir:   lutDir,
		tempDir:  tempDir,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
	}
}

// GradeRequest carries the inputs of one color pass.
type GradeRequest struct {
	SourcePath string
	Profile    clip.Profile
	Grade      cdl.Values
}

// Grade applies the clip's color chain to the source frame and returns the
// path of the graded intermediate plus a cleanup func for the job's temp
// files. Engine failures surface as per-job errors.
func (e *Executor) Grade(ctx context.Context, req GradeRequest) (string, func(), error) {
	noop := func() {}
	sidecarPath, err := e.sidecars.Path(req.Grade)
	if err != nil {
		return "", noop, err
	}

	configPath, err := e.template.WriteConfig(e.tempDir, sidecarPath, e.lutDir)
	if err != nil {
		return "", noop, err
	}

	graded, err := os.CreateTemp(e.tempDir, "graded-*"+filepath.Ext(req.SourcePath))
	if err != nil {
		os.Remove(configPath)
		return "", noop, fmt.Errorf("pipeline: create intermediate: %w", err)
	}
	gradedPath := graded.Name()
	graded.Close()

	cleanup := func() {
		os.Remove(configPath)
		os.Remove(gradedPath)
	}

	if req.Profile.InputColorspace == "" {
		// No recognized camera log curve. The frame is treated as already
		// scene linear, so a single pass applies the grade and output look.
		e.logger.Debug("linear chain",
			logging.String(logging.FieldSource, req.SourcePath),
			logging.String("family", string(req.Profile.Family)))
		err = e.engine.ColorConvert(ctx, oiio.ConvertRequest{
			InputPath:  req.SourcePath,
			OutputPath: gradedPath,
			FromSpace:  ocio.ColorspaceLinear,
			ToSpace:    ocio.ColorspaceOutput,
			ConfigPath: configPath,
		})
		if err != nil {
			cleanup()
			return "", noop, err
		}
		return gradedPath, cleanup, nil
	}

	if req.Profile.UsesInputLUT {
		// The input LUT is baked into the source colorspace definition, so
		// one conversion covers decode, grade and output look.
		e.logger.Debug("input LUT chain",
			logging.String(logging.FieldSource, req.SourcePath),
			logging.String("colorspace", req.Profile.InputColorspace))
		err = e.engine.ColorConvert(ctx, oiio.ConvertRequest{
			InputPath:  req.SourcePath,
			OutputPath: gradedPath,
			FromSpace:  req.Profile.InputColorspace,
			ToSpace:    ocio.ColorspaceOutput,
			ConfigPath: configPath,
		})
		if err != nil {
			cleanup()
			return "", noop, err
		}
		return gradedPath, cleanup, nil
	}

	// Standard chain: decode to scene linear first, then grade and output
	// look in a second pass over the intermediate.
	e.logger.Debug("standard chain",
		logging.String(logging.FieldSource, req.SourcePath),
		logging.String("colorspace", req.Profile.InputColorspace))
	err = e.engine.ColorConvert(ctx, oiio.ConvertRequest{
		InputPath:  req.SourcePath,
		OutputPath: gradedPath,
		FromSpace:  req.Profile.InputColorspace,
		ToSpace:    ocio.ColorspaceLinear,
		ConfigPath: configPath,
	})
	if err != nil {
		cleanup()
		return "", noop, err
	}

	err = e.engine.ColorConvert(ctx, oiio.ConvertRequest{
		InputPath:  gradedPath,
		OutputPath: gradedPath,
		FromSpace:  ocio.ColorspaceLinear,
		ToSpace:    ocio.ColorspaceOutput,
		ConfigPath: configPath,
	})
	if err != nil {
		cleanup()
		return "", noop, err
	}
	return gradedPath, cleanup, nil
}
