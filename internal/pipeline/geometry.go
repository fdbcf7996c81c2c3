package pipeline

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"stillgen/internal/clip"
)

// Insets is a pixel crop measured inward from each edge of the source frame.
type Insets struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

// CropInsets prefers the lab extraction's centered window over the fixed
// configured crop.
func CropInsets(extraction *clip.Extraction, fallback Insets) Insets {
	if extraction == nil {
		return fallback
	}
	window := extraction.CropWindow()
	return Insets{
		Left:   window.Left,
		Right:  window.Right,
		Top:    window.Top,
		Bottom: window.Bottom,
	}
}

// Compose crops the graded frame, scales it to fit the canvas preserving
// aspect ratio and centers it on black. fast selects the cheap preview
// scaler.
func Compose(src image.Image, insets Insets, canvasWidth, canvasHeight int, fast bool) *image.RGBA {
	srcBounds := src.Bounds()
	cropRect := image.Rect(
		srcBounds.Min.X+insets.Left,
		srcBounds.Min.Y+insets.Top,
		srcBounds.Max.X-insets.Right,
		srcBounds.Max.Y-insets.Bottom,
	)
	cropRect = cropRect.Intersect(srcBounds)
	if cropRect.Empty() {
		cropRect = srcBounds
	}

	cropWidth := cropRect.Dx()
	cropHeight := cropRect.Dy()

	scaledWidth := canvasWidth
	scaledHeight := cropHeight * canvasWidth / cropWidth
	if scaledHeight > canvasHeight {
		scaledHeight = canvasHeight
		scaledWidth = cropWidth * canvasHeight / cropHeight
	}

	offsetX := (canvasWidth - scaledWidth) / 2
	offsetY := (canvasHeight - scaledHeight) / 2

	canvas := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	target := image.Rect(offsetX, offsetY, offsetX+scaledWidth, offsetY+scaledHeight)
	scalerFor(fast).Scale(canvas, target, src, cropRect, draw.Src, nil)

	return canvas
}

func scalerFor(fast bool) draw.Scaler {
	if fast {
		return draw.NearestNeighbor
	}
	return draw.CatmullRom
}
