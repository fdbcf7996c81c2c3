package batch

import (
	"time"

	"stillgen/internal/clip"
	"stillgen/internal/metadata"
)

// Job is one still frame scheduled for processing, with the identity and
// metadata resolved at planning time so workers need only the per-frame
// pixel work.
type Job struct {
	SourcePath string
	Identity   clip.Identity
	Profile    clip.Profile
	Record     metadata.Fields
	Provenance metadata.Provenance

	// OutputPath is the graded deliverable. Its existence is the resume
	// ledger: a prior run that produced it completed this job.
	OutputPath string

	// PanelPath is the exposure analysis sidecar, empty when analysis is
	// disabled.
	PanelPath string
}

// Skip records a discovered file that never became a job.
type Skip struct {
	SourcePath string
	Reason     string
}

// Result is the outcome of one dispatched job.
type Result struct {
	Job      Job
	Err      error
	Duration time.Duration
}

// Summary aggregates a run after all workers drain.
type Summary struct {
	Processed int
	Failed    []Result
	Elapsed   time.Duration
}

// Failures reports how many jobs ended in error.
func (s *Summary) Failures() int { return len(s.Failed) }
