package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"stillgen/internal/batch"
	"stillgen/internal/config"
	"stillgen/internal/deps"
	"stillgen/internal/logging"
	"stillgen/internal/metadata"
	"stillgen/internal/ocio"
	"stillgen/internal/oiio"
	"stillgen/internal/runlog"
)

// dryRunPreview bounds how many planned jobs the dry-run listing shows.
const dryRunPreview = 10

const summaryRounding = 10 * time.Millisecond

func runProcess(cmd *cobra.Command, args []string, flags *runFlags) error {
	cfg, err := loadRunConfig(args, flags)
	if err != nil {
		return err
	}

	logPaths := []string{"stderr"}
	if cfg.Paths.LogDir != "" {
		logPaths = append(logPaths, filepath.Join(cfg.Paths.LogDir, "stillgen.log"))
	}
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: logPaths,
		Verbose:     flags.verbose,
	})
	if err != nil {
		return err
	}

	if !flags.dryRun {
		if err := checkDependencies(cmd, cfg); err != nil {
			return err
		}
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	// One run per output folder. A stale lock from a crashed run is removed
	// by hand.
	runLock := flock.New(filepath.Join(cfg.Paths.OutputDir, ".stillgen.lock"))
	locked, err := runLock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another stillgen run owns %s", cfg.Paths.OutputDir)
	}
	defer runLock.Unlock()

	logger.Info("loading metadata sources")
	ale := metadata.LoadALEDir(cfg.Paths.LabALEDir, logger)
	silverstack := metadata.LoadSilverstackDir(cfg.Paths.SilverstackCSVDir, logger)
	store := metadata.NewStore(ale, silverstack, logger)
	frames := metadata.NewFrameLoader(cfg.Paths.FrameCSVDir)

	template, err := ocio.LoadTemplate(cfg.Resources.OCIOTemplate)
	if err != nil {
		return err
	}

	engine := oiio.NewCLI(oiio.WithBinary(cfg.OiiotoolBinary()))
	orch := batch.New(cfg, store, frames, template, engine, logger)

	plan, err := orch.Plan()
	if err != nil {
		return err
	}

	if flags.dryRun {
		printDryRun(cmd, plan)
		return nil
	}

	ledgerDir := cfg.Paths.LogDir
	if ledgerDir == "" {
		ledgerDir = cfg.Paths.OutputDir
	}
	ledger, err := runlog.Open(ledgerDir)
	if err != nil {
		return err
	}
	defer ledger.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID, err := ledger.BeginRun(ctx, string(cfg.Processing.Profile),
		cfg.Paths.InputDir, cfg.Paths.OutputDir,
		len(plan.Jobs), len(plan.Skipped), plan.Resumed)
	if err != nil {
		return err
	}
	logger.Info("run started", logging.String(logging.FieldRunID, runID))

	bar := newProgressBar(len(plan.Jobs))
	orch.Progress = func(result batch.Result) {
		if bar != nil {
			_ = bar.Add(1)
		}
		outcome := runlog.Outcome{
			Clip:       result.Job.Identity.Name,
			SourcePath: result.Job.SourcePath,
			OutputPath: result.Job.OutputPath,
			Duration:   result.Duration,
		}
		if result.Err != nil {
			outcome.Error = result.Err.Error()
		}
		// The audit trail outlives an interrupt, so ledger writes do not
		// ride the cancellable run context.
		if err := ledger.RecordOutcome(context.Background(), runID, outcome); err != nil {
			logger.Warn("run ledger write failed", logging.Error(err))
		}
	}

	summary, runErr := orch.Run(ctx, plan)
	if bar != nil {
		_ = bar.Finish()
	}

	if err := ledger.FinishRun(context.Background(), runID, summary.Processed, summary.Failures()); err != nil {
		logger.Warn("run ledger close failed", logging.Error(err))
	}
	if reportPath, err := ledger.ExportReport(context.Background(), runID, cfg.Paths.OutputDir); err != nil {
		logger.Warn("processing report failed", logging.Error(err))
	} else {
		logger.Info("processing report written", logging.String("report", reportPath))
	}

	printSummary(cmd, plan, summary)

	if runErr != nil {
		return runErr
	}
	if failures := summary.Failures(); failures > 0 {
		return fmt.Errorf("%d of %d stills failed", failures, len(plan.Jobs))
	}
	return nil
}

// loadRunConfig layers positional folders and explicit flags over the file
// and environment configuration, then revalidates.
func loadRunConfig(args []string, flags *runFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configFile)
	if err != nil {
		return nil, err
	}

	folders := []*string{
		&cfg.Paths.InputDir,
		&cfg.Paths.OutputDir,
		&cfg.Paths.FrameCSVDir,
		&cfg.Paths.LabALEDir,
		&cfg.Paths.SilverstackCSVDir,
	}
	for i, arg := range args {
		expanded, err := config.ExpandPath(arg)
		if err != nil {
			return nil, err
		}
		*folders[i] = expanded
	}

	if flags.profile != "" {
		profile, err := config.ParseProfile(flags.profile)
		if err != nil {
			return nil, err
		}
		cfg.Processing.Profile = profile
	}
	if flags.workers > 0 {
		cfg.Processing.Workers = flags.workers
	}
	if flags.batchSize > 0 {
		cfg.Processing.BatchSize = flags.batchSize
	}
	if flags.resume {
		cfg.Processing.Resume = true
	}
	if flags.elZone {
		cfg.ELZone.Enabled = true
	}
	if flags.elZoneLog != "" {
		cfg.ELZone.LogFormat = flags.elZoneLog
	}
	if flags.verbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func checkDependencies(cmd *cobra.Command, cfg *config.Config) error {
	statuses := deps.Check(deps.ForConfig(cfg))
	missing := deps.MissingRequired(statuses)
	if len(missing) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(missing))
	for _, status := range missing {
		rows = append(rows, []string{status.Name, status.Detail})
	}
	fmt.Fprintln(cmd.ErrOrStderr(), renderTable(
		[]string{"Missing requirement", "Detail"}, rows, nil))
	return fmt.Errorf("%d required dependencies missing", len(missing))
}

func newProgressBar(total int) *progressbar.ProgressBar {
	if total == 0 || !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("processing stills"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func printDryRun(cmd *cobra.Command, plan *batch.Plan) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Dry run: %d stills would be processed (%d skipped, %d already done)\n",
		len(plan.Jobs), len(plan.Skipped), plan.Resumed)

	rows := make([][]string, 0, dryRunPreview)
	for i, job := range plan.Jobs {
		if i == dryRunPreview {
			break
		}
		rows = append(rows, []string{
			job.Identity.Name,
			job.Identity.Timecode.String(),
			string(job.Profile.Family),
			filepath.Base(job.OutputPath),
		})
	}
	if len(rows) > 0 {
		fmt.Fprintln(out, renderTable([]string{"Clip", "Timecode", "Camera", "Output"}, rows, nil))
	}
	if remaining := len(plan.Jobs) - dryRunPreview; remaining > 0 {
		fmt.Fprintf(out, "... and %d more\n", remaining)
	}
}

func printSummary(cmd *cobra.Command, plan *batch.Plan, summary *batch.Summary) {
	out := cmd.OutOrStdout()
	rows := [][]string{
		{"Processed", strconv.Itoa(summary.Processed)},
		{"Failed", strconv.Itoa(summary.Failures())},
		{"Skipped files", strconv.Itoa(len(plan.Skipped))},
		{"Already done", strconv.Itoa(plan.Resumed)},
		{"Elapsed", summary.Elapsed.Round(summaryRounding).String()},
	}
	fmt.Fprintln(out, renderTable([]string{"Run", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))

	if len(summary.Failed) == 0 {
		return
	}
	failureRows := make([][]string, 0, len(summary.Failed))
	for i, result := range summary.Failed {
		if i == dryRunPreview {
			failureRows = append(failureRows, []string{"...", fmt.Sprintf("and %d more", len(summary.Failed)-i)})
			break
		}
		failureRows = append(failureRows, []string{result.Job.Identity.Name, result.Err.Error()})
	}
	fmt.Fprintln(out, renderTable([]string{"Failed clip", "Error"}, failureRows, nil))
}
