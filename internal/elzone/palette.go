package elzone

import (
	"image/color"
	"math"
)

// The EL Zone convention: seventeen exposure zones in stops around 18% grey,
// each with a fixed published color.
var zoneStops = [17]float64{-7, -6, -5, -4, -3, -2, -1, -0.5, 0, 0.5, 1, 2, 3, 4, 5, 6, 7}

var zonePalette8 = [17][3]uint8{
	{3, 3, 3},       // near black
	{98, 71, 155},   // dark purple
	{158, 126, 184}, // purple
	{24, 116, 167},  // dark blue
	{39, 174, 228},  // blue
	{27, 168, 75},   // dark green
	{93, 187, 71},   // green
	{148, 200, 64},  // light green
	{144, 140, 135}, // 18% grey reference
	{251, 232, 0},   // yellow
	{255, 248, 166}, // light yellow
	{244, 112, 42},  // orange
	{247, 170, 71},  // light orange
	{239, 28, 38},   // red
	{229, 126, 140}, // pink
	{243, 190, 192}, // light pink
	{255, 255, 255}, // white
}

const (
	gray18   = 0.18
	expRange = 7
	// Outermost zones extend far past the nominal range so clipped values
	// still land in a zone.
	outerStops = 20
)

// zoneBounds are the linear luminance intervals [low, high) per zone,
// precomputed once so the mapping is bit-stable across runs.
var zoneBounds = computeZoneBounds()

// zoneDisplay is the palette pushed through the sRGB EOTF and a 1/2.4 display
// gamma, quantized once.
var zoneDisplay = computeZoneDisplay()

func computeZoneBounds() [17][2]float64 {
	var bounds [17][2]float64
	for idx, stops := range zoneStops {
		var low, high float64
		switch {
		case stops == -expRange:
			high = stops + (zoneStops[idx+1]-stops)/2
			low = -outerStops
		case stops == expRange:
			high = outerStops
			low = stops - (stops-zoneStops[idx-1])/2
		default:
			high = stops + (zoneStops[idx+1]-stops)/2
			low = stops - (stops-zoneStops[idx-1])/2
		}
		bounds[idx][0] = gray18 * math.Pow(2, low)
		bounds[idx][1] = gray18 * math.Pow(2, high)
	}
	return bounds
}

func srgbEOTF(x float64) float64 {
	if x <= 0.04045 {
		return x / 12.92
	}
	return math.Pow((x+0.055)/1.055, 2.4)
}

func computeZoneDisplay() [17]color.RGBA {
	var display [17]color.RGBA
	for idx, rgb := range zonePalette8 {
		var out [3]uint8
		for ch, v := range rgb {
			linear := srgbEOTF(float64(v) / 255)
			out[ch] = uint8(math.Round(math.Pow(linear, 1.0/2.4) * 255))
		}
		display[idx] = color.RGBA{R: out[0], G: out[1], B: out[2], A: 255}
	}
	return display
}

// zoneColor maps a scene-linear luminance to its zone's display color.
// Values outside every zone render black.
func zoneColor(linearY float64) color.RGBA {
	for idx := range zoneBounds {
		if linearY >= zoneBounds[idx][0] && linearY < zoneBounds[idx][1] {
			return zoneDisplay[idx]
		}
	}
	return color.RGBA{A: 255}
}

// lumaBT2020 weights scene-linear RGB per BT.2020 primaries.
func lumaBT2020(r, g, b float64) float64 {
	return r*0.2627 + g*0.6780 + b*0.0593
}

// lumaRec709 weights log-domain RGB per Rec.709, used by the scopes.
func lumaRec709(r, g, b float64) float64 {
	return r*0.2126 + g*0.7152 + b*0.0722
}
