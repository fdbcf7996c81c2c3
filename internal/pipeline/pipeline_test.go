package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"stillgen/internal/cdl"
	"stillgen/internal/clip"
	"stillgen/internal/logging"
	"stillgen/internal/ocio"
	"stillgen/internal/oiio"
)

type fakeEngine struct {
	calls []oiio.ConvertRequest
	fail  bool
}

func (f *fakeEngine) ColorConvert(_ context.Context, req oiio.ConvertRequest) error {
	f.calls = append(f.calls, req)
	if f.fail {
		return errors.New("engine exploded")
	}
	return os.WriteFile(req.OutputPath, []byte("tiff"), 0o644)
}

func newTestExecutor(t *testing.T, engine oiio.Client) *Executor {
	t.Helper()
	dir := t.TempDir()

	templatePath := filepath.Join(dir, "template.ocio")
	template := "search_path: luts\ntransform: {src: cd.cdl}\n"
	if err := os.WriteFile(templatePath, []byte(template), 0o644); err != nil {
		t.Fatal(err)
	}
	tmpl, err := ocio.LoadTemplate(templatePath)
	if err != nil {
		t.Fatal(err)
	}

	sidecars, err := cdl.NewDiskCache(filepath.Join(dir, "cdl"))
	if err != nil {
		t.Fatal(err)
	}

	return NewExecutor(engine, tmpl, sidecars, "/resources/luts", dir, logging.NewNop())
}

func TestGradeStandardChain(t *testing.T) {
	engine := &fakeEngine{}
	executor := newTestExecutor(t, engine)

	profile := clip.ResolveProfile(clip.Identity{Name: "A001C002", Family: clip.Classify("A001C002")})
	graded, cleanup, err := executor.Grade(context.Background(), GradeRequest{
		SourcePath: "/input/A001C002-01_00_00_00.tiff",
		Profile:    profile,
		Grade:      cdl.Identity(),
	})
	if err != nil {
		t.Fatalf("Grade() error = %v", err)
	}
	defer cleanup()

	if len(engine.calls) != 2 {
		t.Fatalf("engine calls = %d, want 2 for the standard chain", len(engine.calls))
	}
	first, second := engine.calls[0], engine.calls[1]
	if first.FromSpace != "Arri LogC4" || first.ToSpace != ocio.ColorspaceLinear {
		t.Errorf("first pass %s to %s, want Arri LogC4 to linear", first.FromSpace, first.ToSpace)
	}
	if second.FromSpace != ocio.ColorspaceLinear || second.ToSpace != ocio.ColorspaceOutput {
		t.Errorf("second pass %s to %s, want linear to output look", second.FromSpace, second.ToSpace)
	}
	if second.InputPath != graded || second.OutputPath != graded {
		t.Error("second pass should rewrite the intermediate in place")
	}
	if first.ConfigPath == "" || first.ConfigPath != second.ConfigPath {
		t.Error("both passes should share one rendered config")
	}
	if _, err := os.Stat(graded); err != nil {
		t.Errorf("graded intermediate missing: %v", err)
	}
}

func TestGradeInputLUTChain(t *testing.T) {
	engine := &fakeEngine{}
	executor := newTestExecutor(t, engine)

	profile := clip.ResolveProfile(clip.Identity{Name: "U001C002", Family: clip.Classify("U001C002")})
	_, cleanup, err := executor.Grade(context.Background(), GradeRequest{
		SourcePath: "/input/U001C002-01_00_00_00.tiff",
		Profile:    profile,
		Grade:      cdl.Identity(),
	})
	if err != nil {
		t.Fatalf("Grade() error = %v", err)
	}
	defer cleanup()

	if len(engine.calls) != 1 {
		t.Fatalf("engine calls = %d, want 1 for the input LUT chain", len(engine.calls))
	}
	call := engine.calls[0]
	if call.FromSpace != "REDLog3" || call.ToSpace != ocio.ColorspaceOutput {
		t.Errorf("pass %s to %s, want REDLog3 straight to output look", call.FromSpace, call.ToSpace)
	}
}

func TestGradeEngineFailure(t *testing.T) {
	executor := newTestExecutor(t, &fakeEngine{fail: true})

	profile := clip.ResolveProfile(clip.Identity{Name: "A001C002", Family: clip.Classify("A001C002")})
	_, _, err := executor.Grade(context.Background(), GradeRequest{
		SourcePath: "/input/A001C002-01_00_00_00.tiff",
		Profile:    profile,
		Grade:      cdl.Identity(),
	})
	if err == nil {
		t.Fatal("Grade() expected engine failure to propagate")
	}
}

func TestGradeLinearChainForUnknownFamily(t *testing.T) {
	engine := &fakeEngine{}
	executor := newTestExecutor(t, engine)

	_, cleanup, err := executor.Grade(context.Background(), GradeRequest{
		SourcePath: "/input/x9clip-00_01_02_03.tiff",
		Profile:    clip.ResolveProfile(clip.Identity{Name: "x9clip", Family: clip.FamilyUnknown}),
		Grade:      cdl.Identity(),
	})
	if err != nil {
		t.Fatalf("Grade() error = %v", err)
	}
	defer cleanup()

	// Unrecognized cameras have no log curve, so the frame is taken as
	// already linear and graded in a single pass.
	if len(engine.calls) != 1 {
		t.Fatalf("engine calls = %d, want 1 for the linear chain", len(engine.calls))
	}
	call := engine.calls[0]
	if call.FromSpace != ocio.ColorspaceLinear || call.ToSpace != ocio.ColorspaceOutput {
		t.Errorf("pass %s to %s, want linear straight to output look", call.FromSpace, call.ToSpace)
	}
}

func TestComposeLetterbox(t *testing.T) {
	// A 400x300 source cropped by 50 on each side leaves 300x200.
	src := image.NewRGBA(image.Rect(0, 0, 400, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 400; x++ {
			src.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}

	insets := Insets{Left: 50, Right: 50, Top: 50, Bottom: 50}
	canvas := Compose(src, insets, 600, 600, true)

	if got := canvas.Bounds(); got.Dx() != 600 || got.Dy() != 600 {
		t.Fatalf("canvas = %v, want 600x600", got)
	}

	// 300x200 scaled to width 600 is 600x400, centered at y=100. The bars
	// above and below are opaque black, the picture carries source color.
	if got := canvas.RGBAAt(300, 99); got.R != 0 || got.A != 255 {
		t.Errorf("top bar pixel = %v, want opaque black", got)
	}
	if got := canvas.RGBAAt(300, 500); got.R != 0 || got.A != 255 {
		t.Errorf("bottom bar pixel = %v, want opaque black", got)
	}
	if got := canvas.RGBAAt(300, 100); got.R == 0 {
		t.Error("first picture row should carry source color")
	}
	if got := canvas.RGBAAt(300, 499); got.R == 0 {
		t.Error("last picture row should carry source color")
	}
}

func TestComposeHeightConstrained(t *testing.T) {
	// A tall source must fit by height and center horizontally, leaving
	// pillarbox bars on a 100x400 picture inside a 400x400 canvas.
	src := image.NewRGBA(image.Rect(0, 0, 100, 400))
	for y := 0; y < 400; y++ {
		for x := 0; x < 100; x++ {
			src.Set(x, y, color.RGBA{G: 180, A: 255})
		}
	}

	canvas := Compose(src, Insets{}, 400, 400, true)

	if got := canvas.RGBAAt(149, 200); got.G != 0 || got.A != 255 {
		t.Errorf("left bar pixel = %v, want opaque black", got)
	}
	if got := canvas.RGBAAt(250, 200); got.G != 0 || got.A != 255 {
		t.Errorf("right bar pixel = %v, want opaque black", got)
	}
	if got := canvas.RGBAAt(150, 200); got.G == 0 {
		t.Error("first picture column should carry source color")
	}
	if got := canvas.RGBAAt(249, 200); got.G == 0 {
		t.Error("last picture column should carry source color")
	}
}

func TestCropInsetsPrefersExtraction(t *testing.T) {
	extraction, err := clip.ParseExtraction("A35_4608x3164_SPH_2.39_95")
	if err != nil {
		t.Fatal(err)
	}

	fallback := Insets{Left: 115, Right: 115, Top: 665, Bottom: 665}
	insets := CropInsets(&extraction, fallback)
	if insets == fallback {
		t.Error("extraction-derived insets should differ from the fixed fallback")
	}

	window := extraction.CropWindow()
	if insets.Left != window.Left || insets.Top != window.Top {
		t.Errorf("insets = %+v, want extraction window %+v", insets, window)
	}

	if got := CropInsets(nil, fallback); got != fallback {
		t.Errorf("nil extraction should fall back, got %+v", got)
	}
}

func TestSaveAndLoadTIFFRoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	img.Set(3, 2, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	path := filepath.Join(t.TempDir(), "out", "frame.tiff")
	if err := SaveTIFF(path, img); err != nil {
		t.Fatalf("SaveTIFF() error = %v", err)
	}

	loaded, err := LoadTIFF(path)
	if err != nil {
		t.Fatalf("LoadTIFF() error = %v", err)
	}
	if got := loaded.Bounds(); got.Dx() != 8 || got.Dy() != 4 {
		t.Fatalf("loaded bounds = %v, want 8x4", got)
	}
	r, g, b, _ := loaded.At(3, 2).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("pixel = (%d,%d,%d), want (10,20,30)", r>>8, g>>8, b>>8)
	}
}
