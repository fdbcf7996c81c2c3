package elzone

import (
	"image"
)

// zoneMap renders the false-color exposure map of a log-encoded frame at the
// frame's own resolution.
func zoneMap(src image.Image, decode DecodeFunc) *image.RGBA {
	bounds := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := src.At(x, y).RGBA()
			lr := decode(float64(r) / 65535)
			lg := decode(float64(g) / 65535)
			lb := decode(float64(b) / 65535)
			out.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, zoneColor(lumaBT2020(lr, lg, lb)))
		}
	}
	return out
}
