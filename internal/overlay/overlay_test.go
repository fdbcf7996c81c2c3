package overlay

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"stillgen/internal/logging"
	"stillgen/internal/metadata"
)

func testLayout(logoDir string) Layout {
	return Layout{
		CanvasWidth:    960,
		CanvasHeight:   540,
		FontSizeSmall:  10,
		FontSizeMedium: 12,
		FontSizeLarge:  18,
		TextMargin:     20,
		TextYTop:       10,
		TextYBottom:    60,
		LogoPadding:    12,
		LogoMaxHeight:  60,
		LogoSpacing:    6,
		LogoImage:      filepath.Join(logoDir, "logo.png"),
		ToolImage:      filepath.Join(logoDir, "tool.png"),
	}
}

func writeLogo(t *testing.T, path string, w, h int, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		t.Fatal(err)
	}
}

func newCanvas(layout Layout) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, layout.CanvasWidth, layout.CanvasHeight))
	for i := 3; i < len(canvas.Pix); i += 4 {
		canvas.Pix[i] = 255
	}
	return canvas
}

func countNonBlack(canvas *image.RGBA) int {
	count := 0
	for i := 0; i < len(canvas.Pix); i += 4 {
		if canvas.Pix[i] != 0 || canvas.Pix[i+1] != 0 || canvas.Pix[i+2] != 0 {
			count++
		}
	}
	return count
}

func TestRenderDrawsTextAndLogos(t *testing.T) {
	dir := t.TempDir()
	layout := testLayout(dir)
	writeLogo(t, layout.LogoImage, 80, 40, color.RGBA{R: 255, A: 255})
	writeLogo(t, layout.ToolImage, 80, 40, color.RGBA{G: 255, A: 255})

	compositor := NewCompositor(layout, "", logging.NewNop())
	canvas := newCanvas(layout)

	compositor.Render(canvas, metadata.Fields{
		"Name":            "A001C002_240115_R1AB",
		"Tape":            "A001C002",
		"ISO":             "800",
		"Look Name":       "DAY_EXT",
		"Director":        "R. Deakins",
		"Cinematographer": "G. Fraser",
	})

	if countNonBlack(canvas) == 0 {
		t.Fatal("render left the canvas untouched")
	}

	// The logo block sits bottom left inside the padding.
	logoProbe := canvas.RGBAAt(layout.LogoPadding+5, layout.CanvasHeight-layout.LogoPadding-5)
	if logoProbe.R == 0 && logoProbe.G == 0 {
		t.Error("logo area not painted")
	}
}

func TestRenderSucceedsWithBlankRecord(t *testing.T) {
	dir := t.TempDir()
	layout := testLayout(dir)
	// No logo files on disk at all.

	compositor := NewCompositor(layout, "", logging.NewNop())
	canvas := newCanvas(layout)

	compositor.Render(canvas, metadata.Fields{})

	// Placeholder text still renders in the header strip.
	if countNonBlack(canvas) == 0 {
		t.Fatal("blank record should still render placeholder text")
	}
}

func TestRenderSkipsCrewLineWithoutNames(t *testing.T) {
	dir := t.TempDir()
	layout := testLayout(dir)

	compositor := NewCompositor(layout, "", logging.NewNop())
	withCrew := newCanvas(layout)
	withoutCrew := newCanvas(layout)

	compositor.Render(withCrew, metadata.Fields{"Director": "R. Deakins"})
	compositor.Render(withoutCrew, metadata.Fields{})

	if countNonBlack(withCrew) <= countNonBlack(withoutCrew) {
		t.Error("record with a director should draw more text than a blank one")
	}
}

func TestFontCacheFallsBackToBuiltin(t *testing.T) {
	cache := NewFontCache(filepath.Join(t.TempDir(), "missing.ttf"), logging.NewNop())
	face := cache.Face(14)
	if face == nil {
		t.Fatal("Face() returned nil")
	}
	// Same size returns the identical cached face.
	if cache.Face(14) != face {
		t.Error("faces should be cached per size")
	}
}

func TestLogoCacheCachesFailures(t *testing.T) {
	cache := NewLogoCache(logging.NewNop())
	missing := filepath.Join(t.TempDir(), "missing.png")

	if cache.Load(missing) != nil {
		t.Fatal("missing logo should load as nil")
	}
	// A second load must not retry the disk read path differently.
	if cache.Load(missing) != nil {
		t.Fatal("cached failure should stay nil")
	}
	if cache.Load("") != nil {
		t.Fatal("empty path should load as nil")
	}
}
