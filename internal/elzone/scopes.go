package elzone

import (
	"image"
	"image/color"
	"math"
)

// Scopes work on the log-domain samples directly, matching what an on-set
// monitor fed the camera signal would show.

const (
	scopeWidth  = 480
	scopeHeight = 540
)

func normalizedRGB(src image.Image, x, y int) (float64, float64, float64) {
	r, g, b, _ := src.At(x, y).RGBA()
	return float64(r) / 65535, float64(g) / 65535, float64(b) / 65535
}

func addRGB(canvas *image.RGBA, x, y int, dr, dg, db int) {
	c := canvas.RGBAAt(x, y)
	c.R = uint8(min(255, int(c.R)+dr))
	c.G = uint8(min(255, int(c.G)+dg))
	c.B = uint8(min(255, int(c.B)+db))
	c.A = 255
	canvas.SetRGBA(x, y, c)
}

// vectorscope projects sampled chroma onto the classic U/V polar display with
// a graticule and the six broadcast hue targets.
func vectorscope(src image.Image) *image.RGBA {
	canvas := opaqueBlack(scopeWidth, scopeHeight)

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		drawVectorscopeGraticule(canvas)
		return canvas
	}

	centerX, centerY := scopeWidth/2, scopeHeight/2
	scale := min(scopeWidth, scopeHeight) / 3

	stepX := max(1, w/50)
	stepY := max(1, h/50)

	for sy := 0; sy < h; sy += stepY {
		for sx := 0; sx < w; sx += stepX {
			r, g, b := normalizedRGB(src, bounds.Min.X+sx, bounds.Min.Y+sy)

			luma := 0.299*r + 0.587*g + 0.114*b
			if luma <= 0.01 {
				continue
			}
			u := -0.14713*r - 0.28886*g + 0.436*b
			v := 0.615*r - 0.51499*g - 0.10001*b

			x := clampInt(centerX+int(v*float64(scale)), 0, scopeWidth-1)
			y := clampInt(centerY-int(u*float64(scale)), 0, scopeHeight-1)
			addRGB(canvas, x, y, 80, 80, 80)
		}
	}

	drawVectorscopeGraticule(canvas)
	return canvas
}

func drawVectorscopeGraticule(canvas *image.RGBA) {
	centerX, centerY := scopeWidth/2, scopeHeight/2
	scale := min(scopeWidth, scopeHeight) / 3
	gray := color.RGBA{R: 64, G: 64, B: 64, A: 255}
	axis := color.RGBA{R: 96, G: 96, B: 96, A: 255}

	drawCircle(canvas, centerX, centerY, int(float64(scale)*0.75), gray)
	drawCircle(canvas, centerX, centerY, scale, gray)

	// I axis (the skin tone line) and Q axis.
	drawDiameter(canvas, centerX, centerY, scale, 33, axis)
	drawDiameter(canvas, centerX, centerY, scale, 123, axis)

	// The six hue targets at 75% saturation radius.
	targets := []struct {
		angle float64
		c     color.RGBA
	}{
		{0, color.RGBA{R: 255, A: 255}},
		{120, color.RGBA{R: 255, G: 255, A: 255}},
		{240, color.RGBA{G: 255, A: 255}},
		{180, color.RGBA{G: 255, B: 255, A: 255}},
		{300, color.RGBA{B: 255, A: 255}},
		{60, color.RGBA{R: 255, B: 255, A: 255}},
	}
	ring := color.RGBA{R: 128, G: 128, B: 128, A: 255}
	for _, target := range targets {
		rad := (target.angle - 90) * math.Pi / 180
		x := centerX + int(float64(scale)*0.75*math.Cos(rad))
		y := centerY + int(float64(scale)*0.75*math.Sin(rad))
		fillCircle(canvas, x, y, 3, target.c)
		drawCircle(canvas, x, y, 4, ring)
	}
}

// waveform traces per-column log luminance on an IRE-style 0-100 scale.
func waveform(src image.Image) *image.RGBA {
	canvas := opaqueBlack(scopeWidth, scopeHeight)

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		drawWaveformGrid(canvas)
		return canvas
	}

	plotHeight := scopeHeight - 40
	sampleStep := max(1, h/200)

	for outX := 0; outX < scopeWidth; outX++ {
		imgX := outX * (w - 1) / max(1, scopeWidth-1)
		for sy := 0; sy < h; sy += sampleStep {
			r, g, b := normalizedRGB(src, bounds.Min.X+imgX, bounds.Min.Y+sy)
			luma := math.Min(math.Max(lumaRec709(r, g, b), 0), 1)

			y := clampInt(int((1-luma)*float64(plotHeight))+20, 0, scopeHeight-1)
			addRGB(canvas, outX, y, 16, 80, 16)
		}
	}

	drawWaveformGrid(canvas)
	return canvas
}

func drawWaveformGrid(canvas *image.RGBA) {
	plotHeight := scopeHeight - 40
	grid := color.RGBA{R: 48, G: 48, B: 48, A: 255}
	timing := color.RGBA{R: 32, G: 32, B: 32, A: 255}
	marker := color.RGBA{R: 160, G: 160, B: 160, A: 255}
	reference := color.RGBA{R: 96, G: 96, B: 96, A: 255}
	grayCard := color.RGBA{R: 80, G: 80, B: 80, A: 255}

	for _, percent := range []int{0, 25, 50, 75, 100} {
		y := plotHeight*(100-percent)/100 + 20
		drawHLine(canvas, y, grid)
	}
	for i := 1; i < 8; i++ {
		drawVLine(canvas, scopeWidth*i/8, timing)
	}

	drawHLine(canvas, 20, marker)
	drawHLine(canvas, 21, marker)
	drawHLine(canvas, plotHeight/4+20, reference)
	drawHLine(canvas, plotHeight/2+20, reference)
	drawHLine(canvas, plotHeight*82/100+20, grayCard)
	drawHLine(canvas, scopeHeight-21, marker)
	drawHLine(canvas, scopeHeight-22, marker)
}

func opaqueBlack(w, h int) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(canvas.Pix); i += 4 {
		canvas.Pix[i] = 255
	}
	return canvas
}

func drawHLine(canvas *image.RGBA, y int, c color.RGBA) {
	if y < 0 || y >= canvas.Bounds().Dy() {
		return
	}
	for x := 0; x < canvas.Bounds().Dx(); x++ {
		canvas.SetRGBA(x, y, c)
	}
}

func drawVLine(canvas *image.RGBA, x int, c color.RGBA) {
	if x < 0 || x >= canvas.Bounds().Dx() {
		return
	}
	for y := 0; y < canvas.Bounds().Dy(); y++ {
		canvas.SetRGBA(x, y, c)
	}
}

func drawCircle(canvas *image.RGBA, cx, cy, radius int, c color.RGBA) {
	steps := 8 * max(radius, 1)
	for i := 0; i < steps; i++ {
		angle := 2 * math.Pi * float64(i) / float64(steps)
		x := cx + int(float64(radius)*math.Cos(angle))
		y := cy + int(float64(radius)*math.Sin(angle))
		setIfInside(canvas, x, y, c)
	}
}

func fillCircle(canvas *image.RGBA, cx, cy, radius int, c color.RGBA) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				setIfInside(canvas, cx+dx, cy+dy, c)
			}
		}
	}
}

func drawDiameter(canvas *image.RGBA, cx, cy, radius int, angleDeg float64, c color.RGBA) {
	rad := angleDeg * math.Pi / 180
	dx := math.Cos(rad)
	dy := math.Sin(rad)
	for i := -radius; i <= radius; i++ {
		x := cx + int(float64(i)*dx)
		y := cy + int(float64(i)*dy)
		setIfInside(canvas, x, y, c)
	}
}

func setIfInside(canvas *image.RGBA, x, y int, c color.RGBA) {
	if x >= 0 && x < canvas.Bounds().Dx() && y >= 0 && y < canvas.Bounds().Dy() {
		canvas.SetRGBA(x, y, c)
	}
}

func clampInt(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
