package runlog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Report is the JSON processing report written beside the deliverables at
// the end of a run.
type Report struct {
	RunID          string              `json:"run_id"`
	Timestamp      string              `json:"timestamp"`
	ProcessedCount int                 `json:"processed_count"`
	ErrorCount     int                 `json:"error_count"`
	SkippedCount   int                 `json:"skipped_count"`
	ResumedCount   int                 `json:"resumed_count"`
	Configuration  ReportConfiguration `json:"configuration"`
	Errors         []ReportError       `json:"errors"`
}

// ReportConfiguration echoes the run settings an operator needs to reproduce
// the run.
type ReportConfiguration struct {
	InputFolder  string `json:"input_folder"`
	OutputFolder string `json:"output_folder"`
	Profile      string `json:"profile"`
}

// ReportError is one failed job.
type ReportError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// ExportReport renders the run's report from the ledger and writes it to dir
// as processing_report_<timestamp>.json. The written path is returned.
func (s *Store) ExportReport(ctx context.Context, runID, dir string) (string, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return "", err
	}
	failed, err := s.FailedOutcomes(ctx, runID)
	if err != nil {
		return "", err
	}

	report := Report{
		RunID:          run.ID,
		Timestamp:      time.Now().Format(time.RFC3339),
		ProcessedCount: run.Processed,
		ErrorCount:     run.Failed,
		SkippedCount:   run.Skipped,
		ResumedCount:   run.Resumed,
		Configuration: ReportConfiguration{
			InputFolder:  run.InputDir,
			OutputFolder: run.OutputDir,
			Profile:      run.Profile,
		},
		Errors: make([]ReportError, 0, len(failed)),
	}
	for _, outcome := range failed {
		report.Errors = append(report.Errors, ReportError{File: outcome.SourcePath, Error: outcome.Error})
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("runlog: encode report: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("processing_report_%s.json", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("runlog: write report: %w", err)
	}
	return path, nil
}
