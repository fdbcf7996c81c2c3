package overlay

import (
	"image"
	"image/color"
	"log/slog"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"stillgen/internal/logging"
	"stillgen/internal/metadata"
)

// Layout fixes the overlay geometry for one canvas size, so preview and
// final profiles both produce a legible frame.
type Layout struct {
	CanvasWidth  int
	CanvasHeight int

	FontSizeSmall  int
	FontSizeMedium int
	FontSizeLarge  int

	TextMargin  int
	TextYTop    int
	TextYBottom int

	LogoPadding   int
	LogoMaxHeight int
	LogoSpacing   int

	LogoImage string
	ToolImage string
}

// Compositor renders metadata text and branding onto graded frames. Given
// any record, including the all-blank default, rendering succeeds; missing
// fields draw as placeholders rather than erroring.
type Compositor struct {
	layout Layout
	fonts  *FontCache
	logos  *LogoCache
	logger *slog.Logger
}

// NewCompositor builds a compositor with its own font and logo caches.
func NewCompositor(layout Layout, fontPath string, logger *slog.Logger) *Compositor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Compositor{
		layout: layout,
		fonts:  NewFontCache(fontPath, logger),
		logos:  NewLogoCache(logger),
		logger: logging.NewComponentLogger(logger, "overlay"),
	}
}

var textColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Render draws all overlay regions onto the canvas in place.
func (c *Compositor) Render(canvas *image.RGBA, record metadata.Fields) {
	logoWidth := c.drawLogos(canvas)
	c.drawTopColumns(canvas, record)
	c.drawBottomCenter(canvas, record)
	c.drawBottomRight(canvas, record)
	c.drawBottomLeft(canvas, record, logoWidth)
}

// topColumns builds the seven column texts of the header strip. Every value
// degrades to a placeholder, never an error.
func topColumns(record metadata.Fields) []string {
	value := func(fallback string, keys ...string) string {
		return record.Value(fallback, keys...)
	}
	return []string{
		"Look Name: " + value("N/A", "Look Name") + "\nISO: " + value("N/A", "Iso", "ISO"),
		"WB: " + value("N/A", "White balance", "White Balance") +
			"\nTint: " + value("N/A", "White balance tint", "White Balance Tint"),
		"Shutter Angle: " + value("N/A", "Shutter Angle", "Shutter") +
			"\nSensor FPS: " + value("N/A", "Sensor fps", "Sensor FPS"),
		"Focus Distance: " + value("N/A", "Focus Distance", "Focus Distance (ft)") +
			"\nAperture: " + value("N/A", "Aperture", "F-Stop"),
		"Lens: " + value("N/A", "Lens Model", "Lens") +
			"\nFocal Length: " + value("N/A", "Focal Length", "Focal Length (mm)"),
		"ND Filter: " + value("- -", "ND Filter") +
			"\nLens Filter: " + value("N/F", "Lens Filter"),
		"Camera Tilt: " + value("N/A", "Camera tilt", "Camera Tilt", "Tilt") +
			"\nCamera Roll: " + value("N/A", "Camera roll", "Camera Roll", "Roll"),
	}
}

func (c *Compositor) drawTopColumns(canvas *image.RGBA, record metadata.Fields) {
	face := c.fonts.Face(c.layout.FontSizeMedium)
	columns := topColumns(record)

	margin := c.layout.TextMargin
	usable := c.layout.CanvasWidth - 2*margin
	segment := usable / len(columns)

	for i, text := range columns {
		width := measureMultiline(face, text)
		x := margin + i*segment + (segment-width)/2
		drawMultiline(canvas, face, text, x, c.layout.TextYTop)
	}
}

func (c *Compositor) drawBottomCenter(canvas *image.RGBA, record metadata.Fields) {
	face := c.fonts.Face(c.layout.FontSizeLarge)
	text := record.Value("", "Name", "Clip Name", "Tape")
	if text == "" {
		return
	}

	width := measureMultiline(face, text)
	x := (c.layout.CanvasWidth - width) / 2
	y := c.layout.CanvasHeight - c.layout.TextYBottom
	drawMultiline(canvas, face, text, x, y)
}

func (c *Compositor) drawBottomRight(canvas *image.RGBA, record metadata.Fields) {
	face := c.fonts.Face(c.layout.FontSizeSmall)

	col1 := "Tape: " + record.Value("N/A", "Tape", "Reel") +
		"\n\nTimecode: " + record.Value("N/A", "Timecode", "TC")

	col2 := "Shoot Date: " + record.Value("N/A", "Shoot Date", "Shoot date") +
		"\n\nShoot Day: " + record.Value("N/A", "Shoot day", "Shoot Day", "Shooting Day")
	if unit := record.Value("", "Crew Unit", "Unit"); unit != "" && unit != "N/A" {
		col2 += "_" + unit
	}

	const columnSpacing = 100
	margin := c.layout.LogoPadding
	col2X := c.layout.CanvasWidth - measureMultiline(face, col2) - margin
	col1X := col2X - measureMultiline(face, col1) - columnSpacing
	y := c.layout.CanvasHeight - c.layout.TextYBottom

	drawMultiline(canvas, face, col1, col1X, y)
	drawMultiline(canvas, face, col2, col2X, y)
}

func (c *Compositor) drawBottomLeft(canvas *image.RGBA, record metadata.Fields, logoWidth int) {
	director := record.Value("", "Director")
	dop := record.Value("", "Cinematographer", "DP", "DOP")
	if director == "" && dop == "" {
		return
	}
	if director == "" {
		director = "N/A"
	}
	if dop == "" {
		dop = "N/A"
	}

	face := c.fonts.Face(c.layout.FontSizeMedium)
	text := "Director: " + director + "\n \nCinematographer: " + dop

	x := c.layout.LogoPadding + logoWidth + 20
	y := c.layout.CanvasHeight - c.layout.LogoPadding - 160
	drawMultiline(canvas, face, text, x, y)
}

// drawLogos stacks the two logo slots bottom left, scaled to the configured
// height budget, and returns the scaled logo width for text placement.
func (c *Compositor) drawLogos(canvas *image.RGBA) int {
	logo := c.logos.Load(c.layout.LogoImage)
	tool := c.logos.Load(c.layout.ToolImage)
	if logo == nil || tool == nil {
		c.logger.Warn("logo images unavailable, skipping logo overlay")
		return 0
	}

	available := c.layout.LogoMaxHeight - c.layout.LogoSpacing
	combined := logo.Bounds().Dy() + tool.Bounds().Dy()
	scale := 1.0
	if combined > 0 && available < combined {
		scale = float64(available) / float64(combined)
	}

	logoW := int(float64(logo.Bounds().Dx()) * scale)
	logoH := int(float64(logo.Bounds().Dy()) * scale)
	toolW := int(float64(tool.Bounds().Dx()) * scale)
	toolH := int(float64(tool.Bounds().Dy()) * scale)

	padding := c.layout.LogoPadding
	toolY := c.layout.CanvasHeight - toolH - padding
	logoY := toolY - logoH - c.layout.LogoSpacing

	pasteScaled(canvas, logo, image.Rect(padding, logoY, padding+logoW, logoY+logoH))
	pasteScaled(canvas, tool, image.Rect(padding, toolY, padding+toolW, toolY+toolH))
	return logoW
}

func pasteScaled(dst *image.RGBA, src image.Image, target image.Rectangle) {
	draw.CatmullRom.Scale(dst, target, src, src.Bounds(), draw.Over, nil)
}

func measureMultiline(face font.Face, text string) int {
	widest := 0
	for _, line := range strings.Split(text, "\n") {
		if w := font.MeasureString(face, line).Ceil(); w > widest {
			widest = w
		}
	}
	return widest
}

func drawMultiline(dst *image.RGBA, face font.Face, text string, x, y int) {
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	baseline := y + metrics.Ascent.Ceil()

	drawer := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(textColor),
		Face: face,
	}
	for i, line := range strings.Split(text, "\n") {
		drawer.Dot = fixed.P(x, baseline+i*lineHeight)
		drawer.DrawString(line)
	}
}
