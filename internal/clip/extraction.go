package clip

import (
	"fmt"
	"strconv"
	"strings"
)

// Extraction is the sensor window geometry recorded in the lab ALE, encoded
// as CAMERA_WIDTHxHEIGHT_FORMAT_ASPECT_CROP (e.g. A35_4608x3164_SPH_2.39_95).
type Extraction struct {
	CameraTag   string
	Width       int
	Height      int
	Format      string
	AspectRatio float64
	CropPercent int
}

// Crop is a pixel crop computed from an extraction, centered on the sensor.
type Crop struct {
	Left        int
	Right       int
	Top         int
	Bottom      int
	FinalWidth  int
	FinalHeight int
}

// ParseExtraction decodes an ALE extraction string.
func ParseExtraction(raw string) (Extraction, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Extraction{}, fmt.Errorf("extraction: empty value")
	}

	parts := strings.Split(raw, "_")
	if len(parts) < 5 {
		return Extraction{}, fmt.Errorf("extraction %q: expected 5 underscore-separated parts", raw)
	}

	widthStr, heightStr, found := strings.Cut(parts[1], "x")
	if !found {
		return Extraction{}, fmt.Errorf("extraction %q: bad resolution %q", raw, parts[1])
	}
	width, err := strconv.Atoi(widthStr)
	if err != nil {
		return Extraction{}, fmt.Errorf("extraction %q: width: %w", raw, err)
	}
	height, err := strconv.Atoi(heightStr)
	if err != nil {
		return Extraction{}, fmt.Errorf("extraction %q: height: %w", raw, err)
	}
	aspect, err := strconv.ParseFloat(parts[3], 64)
	if err != nil {
		return Extraction{}, fmt.Errorf("extraction %q: aspect: %w", raw, err)
	}
	cropPercent, err := strconv.Atoi(parts[4])
	if err != nil {
		return Extraction{}, fmt.Errorf("extraction %q: crop percent: %w", raw, err)
	}
	if width <= 0 || height <= 0 || aspect <= 0 || cropPercent <= 0 || cropPercent > 100 {
		return Extraction{}, fmt.Errorf("extraction %q: values out of range", raw)
	}

	return Extraction{
		CameraTag:   parts[0],
		Width:       width,
		Height:      height,
		Format:      parts[2],
		AspectRatio: aspect,
		CropPercent: cropPercent,
	}, nil
}

// CropWindow computes the centered crop that realizes the extraction's target
// aspect ratio at its crop percentage of the sensor area.
func (e Extraction) CropWindow() Crop {
	factor := float64(e.CropPercent) / 100.0
	croppedWidth := int(float64(e.Width) * factor)
	croppedHeight := int(float64(e.Height) * factor)

	finalWidth := croppedWidth
	finalHeight := int(float64(croppedWidth) / e.AspectRatio)
	if finalHeight > croppedHeight {
		finalWidth = int(float64(croppedHeight) * e.AspectRatio)
		finalHeight = croppedHeight
	}

	horizontal := e.Width - finalWidth
	vertical := e.Height - finalHeight
	left := horizontal / 2
	top := vertical / 2

	return Crop{
		Left:        left,
		Right:       horizontal - left,
		Top:         top,
		Bottom:      vertical - top,
		FinalWidth:  finalWidth,
		FinalHeight: finalHeight,
	}
}
