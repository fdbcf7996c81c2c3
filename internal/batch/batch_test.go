package batch

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/tiff"

	"stillgen/internal/clip"
	"stillgen/internal/metadata"
	"stillgen/internal/ocio"
	"stillgen/internal/oiio"
	"stillgen/internal/testsupport"
)

func testTemplate(t *testing.T) *ocio.Template {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config_template.ocio")
	testsupport.WriteOCIOTemplate(t, path)
	tpl, err := ocio.LoadTemplate(path)
	if err != nil {
		t.Fatalf("LoadTemplate() error = %v", err)
	}
	return tpl
}

// fakeEngine simulates oiiotool: it writes a decodable TIFF to the requested
// output, or reports an engine failure for the poisoned clip.
type fakeEngine struct {
	failClip string
}

func (f *fakeEngine) ColorConvert(_ context.Context, req oiio.ConvertRequest) error {
	if f.failClip != "" && strings.Contains(filepath.Base(req.InputPath), f.failClip) {
		return errors.New("oiiotool exited with status 1")
	}
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	out, err := os.Create(req.OutputPath)
	if err != nil {
		return err
	}
	defer out.Close()
	return tiff.Encode(out, img, nil)
}

func testStore() *metadata.Store {
	ale := metadata.ClipIndex{
		"a001c001": {"Name": "A001C001", "Tape": "A001", "ASC_SOP": "(1 1 1)(0 0 0)(1 1 1)", "ASC_SAT": "1"},
		"a001c002": {"Name": "A001C002", "Tape": "A001", "ASC_SOP": "(1 1 1)(0 0 0)(1 1 1)", "ASC_SAT": "1"},
		"a001c003": {"Name": "A001C003", "Tape": "A001"},
	}
	return metadata.NewStore(ale, nil, nil)
}

func TestPlanBuildsJobsAndReportsSkips(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteTIFF(t, filepath.Join(cfg.Paths.InputDir, "A001C001-00_01_02_03.tiff"), 8, 8)
	testsupport.WriteTIFF(t, filepath.Join(cfg.Paths.InputDir, "IMG_0001.tiff"), 8, 8)

	orch := New(cfg, testStore(), metadata.NewFrameLoader(cfg.Paths.FrameCSVDir), testTemplate(t), &fakeEngine{}, nil)

	plan, err := orch.Plan()
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(plan.Jobs) != 1 {
		t.Fatalf("got %d jobs, want 1", len(plan.Jobs))
	}
	if len(plan.Skipped) != 1 {
		t.Fatalf("got %d skips, want 1", len(plan.Skipped))
	}
	job := plan.Jobs[0]
	if job.Identity.Name != "A001C001" {
		t.Errorf("identity name = %q", job.Identity.Name)
	}
	if job.Profile.InputColorspace == "" {
		t.Error("expected a camera profile with an input colorspace")
	}
	if !strings.HasSuffix(job.OutputPath, ".tiff") {
		t.Errorf("output path %q missing .tiff suffix", job.OutputPath)
	}
	if job.PanelPath != "" {
		t.Errorf("panel path %q set while analysis disabled", job.PanelPath)
	}
}

func TestPlanResumeDropsFinishedJobs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteTIFF(t, filepath.Join(cfg.Paths.InputDir, "A001C001-00_01_02_03.tiff"), 8, 8)

	orch := New(cfg, testStore(), metadata.NewFrameLoader(cfg.Paths.FrameCSVDir), testTemplate(t), &fakeEngine{}, nil)

	plan, err := orch.Plan()
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Jobs) != 1 {
		t.Fatalf("got %d jobs, want 1", len(plan.Jobs))
	}

	// A prior run left the deliverable behind.
	if err := os.WriteFile(plan.Jobs[0].OutputPath, []byte("done"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.Processing.Resume = true

	resumed, err := orch.Plan()
	if err != nil {
		t.Fatal(err)
	}
	if len(resumed.Jobs) != 0 {
		t.Errorf("got %d jobs after resume, want 0", len(resumed.Jobs))
	}
	if resumed.Resumed != 1 {
		t.Errorf("resumed = %d, want 1", resumed.Resumed)
	}
}

func TestRunIsolatesJobFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	for _, name := range []string{
		"A001C001-00_01_02_03.tiff",
		"A001C002-00_01_02_04.tiff",
		"A001C003-00_01_02_05.tiff",
	} {
		testsupport.WriteTIFF(t, filepath.Join(cfg.Paths.InputDir, name), 8, 8)
	}

	engine := &fakeEngine{failClip: "A001C002"}
	orch := New(cfg, testStore(), metadata.NewFrameLoader(cfg.Paths.FrameCSVDir), testTemplate(t), engine, nil)

	var progressed int
	orch.Progress = func(Result) { progressed++ }

	plan, err := orch.Plan()
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Jobs) != 3 {
		t.Fatalf("got %d jobs, want 3", len(plan.Jobs))
	}

	summary, err := orch.Run(context.Background(), plan)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Processed != 2 {
		t.Errorf("processed = %d, want 2", summary.Processed)
	}
	if summary.Failures() != 1 {
		t.Fatalf("failures = %d, want 1", summary.Failures())
	}
	if got := summary.Failed[0].Job.Identity.Name; got != "A001C002" {
		t.Errorf("failed clip = %q, want A001C002", got)
	}
	if progressed != 3 {
		t.Errorf("progress callbacks = %d, want 3", progressed)
	}

	for _, job := range plan.Jobs {
		_, statErr := os.Stat(job.OutputPath)
		if job.Identity.Name == "A001C002" {
			if statErr == nil {
				t.Errorf("failed job left a deliverable at %s", job.OutputPath)
			}
			continue
		}
		if statErr != nil {
			t.Errorf("missing deliverable for %s: %v", job.Identity.Name, statErr)
		}
	}
}

func TestRunProcessesUnknownCamera(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteTIFF(t, filepath.Join(cfg.Paths.InputDir, "x9clip-00_01_02_03.tiff"), 8, 8)

	orch := New(cfg, testStore(), metadata.NewFrameLoader(cfg.Paths.FrameCSVDir), testTemplate(t), &fakeEngine{}, nil)

	plan, err := orch.Plan()
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Jobs) != 1 {
		t.Fatalf("got %d jobs, want 1", len(plan.Jobs))
	}
	if got := plan.Jobs[0].Profile.Family; got != clip.FamilyUnknown {
		t.Fatalf("family = %q, want unknown", got)
	}

	// A clip from an unrecognized camera still renders: treated as linear,
	// no fixed crop, default output framing.
	summary, err := orch.Run(context.Background(), plan)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Failures() != 0 {
		t.Fatalf("failures = %d, want 0: %v", summary.Failures(), summary.Failed[0].Err)
	}
	if summary.Processed != 1 {
		t.Errorf("processed = %d, want 1", summary.Processed)
	}
	if _, err := os.Stat(plan.Jobs[0].OutputPath); err != nil {
		t.Errorf("missing deliverable: %v", err)
	}
}

func TestRunEmptyPlan(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	orch := New(cfg, testStore(), metadata.NewFrameLoader(cfg.Paths.FrameCSVDir), testTemplate(t), &fakeEngine{}, nil)

	summary, err := orch.Run(context.Background(), &Plan{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Processed != 0 || summary.Failures() != 0 {
		t.Errorf("unexpected summary for empty plan: %+v", summary)
	}
}

func TestSplitBatches(t *testing.T) {
	jobs := make([]Job, 7)
	batches := splitBatches(jobs, 3)
	if len(batches) != 3 {
		t.Fatalf("got %d batches, want 3", len(batches))
	}
	if len(batches[2]) != 1 {
		t.Errorf("last batch has %d jobs, want 1", len(batches[2]))
	}
}
