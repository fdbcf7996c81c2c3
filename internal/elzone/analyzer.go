package elzone

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"stillgen/internal/logging"
)

const (
	// PanelWidth and PanelHeight fix the four-quadrant canvas.
	PanelWidth  = 1920
	PanelHeight = 1080

	// Suffix distinguishes the analysis panel from the graded deliverable.
	Suffix = "_exp_tool.jpg"

	jpegQuality = 95
)

// Analyzer produces the exposure analysis panel for log-encoded source
// frames: false-color zone map, vectorscope and waveform beside a source
// thumbnail.
type Analyzer struct {
	format LogFormat
	decode DecodeFunc
	logger *slog.Logger
}

// NewAnalyzer builds an analyzer for one log format.
func NewAnalyzer(format LogFormat, logger *slog.Logger) (*Analyzer, error) {
	decode, err := DecoderFor(format)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Analyzer{
		format: format,
		decode: decode,
		logger: logging.NewComponentLogger(logger, "elzone"),
	}, nil
}

// Analyze renders the four-quadrant panel: source thumbnail top left, zone
// map top right, vectorscope bottom left, waveform bottom right. Each
// quadrant scales to the source aspect ratio rather than stretching.
func (a *Analyzer) Analyze(src image.Image) *image.RGBA {
	zones := zoneMap(src, a.decode)
	scope := vectorscope(src)
	wave := waveform(src)

	panel := opaqueBlack(PanelWidth, PanelHeight)
	quadWidth := PanelWidth / 2

	topHeight := fillWidthHeight(src.Bounds(), quadWidth)
	if maxTop := PanelHeight - 80; topHeight > maxTop {
		topHeight = maxTop
	}

	scaleInto(panel, src, image.Rect(0, 0, quadWidth, topHeight))
	scaleInto(panel, zones, image.Rect(quadWidth, 0, PanelWidth, topHeight))

	bottom := image.Rect(0, topHeight, quadWidth, PanelHeight)
	fitInto(panel, scope, bottom)
	fitInto(panel, wave, image.Rect(quadWidth, topHeight, PanelWidth, PanelHeight))

	drawLabel(panel, "Original Log", 10, topHeight-25)
	drawLabel(panel, "EL Zone System", quadWidth+10, topHeight-25)
	drawLabel(panel, "Vectorscope", 10, PanelHeight-25)
	drawLabel(panel, "Waveform", quadWidth+10, PanelHeight-25)

	return panel
}

// Write encodes the panel as a compressed JPEG next to the destination and
// renames it into place.
func (a *Analyzer) Write(path string, panel image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("elzone: create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("elzone: create output: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := jpeg.Encode(tmp, panel, &jpeg.Options{Quality: jpegQuality}); err != nil {
		tmp.Close()
		return fmt.Errorf("elzone: encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("elzone: close output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("elzone: finalize %s: %w", path, err)
	}
	return nil
}

// fillWidthHeight is the height of a source scaled to exactly targetWidth.
func fillWidthHeight(bounds image.Rectangle, targetWidth int) int {
	if bounds.Dx() == 0 {
		return 0
	}
	return bounds.Dy() * targetWidth / bounds.Dx()
}

// scaleInto fills the target rectangle with the source, stretched to the
// rectangle the caller sized for the source aspect.
func scaleInto(dst *image.RGBA, src image.Image, target image.Rectangle) {
	draw.CatmullRom.Scale(dst, target, src, src.Bounds(), draw.Src, nil)
}

// fitInto scales the source to fit inside the target preserving aspect,
// centered on black.
func fitInto(dst *image.RGBA, src image.Image, target image.Rectangle) {
	srcW, srcH := src.Bounds().Dx(), src.Bounds().Dy()
	if srcW == 0 || srcH == 0 || target.Empty() {
		return
	}

	scaledW := target.Dx()
	scaledH := srcH * target.Dx() / srcW
	if scaledH > target.Dy() {
		scaledH = target.Dy()
		scaledW = srcW * target.Dy() / srcH
	}

	offsetX := target.Min.X + (target.Dx()-scaledW)/2
	offsetY := target.Min.Y + (target.Dy()-scaledH)/2
	placed := image.Rect(offsetX, offsetY, offsetX+scaledW, offsetY+scaledH)
	draw.CatmullRom.Scale(dst, placed, src, src.Bounds(), draw.Src, nil)
}

func drawLabel(dst *image.RGBA, text string, x, y int) {
	drawer := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y+basicfont.Face7x13.Ascent),
	}
	drawer.DrawString(text)
}
