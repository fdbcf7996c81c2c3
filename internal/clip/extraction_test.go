package clip_test

import (
	"testing"

	"stillgen/internal/clip"
)

func TestParseExtraction(t *testing.T) {
	ext, err := clip.ParseExtraction("A35_4608x3164_SPH_2.39_95")
	if err != nil {
		t.Fatalf("ParseExtraction: %v", err)
	}
	if ext.CameraTag != "A35" || ext.Width != 4608 || ext.Height != 3164 {
		t.Fatalf("unexpected extraction: %+v", ext)
	}
	if ext.AspectRatio != 2.39 || ext.CropPercent != 95 {
		t.Fatalf("unexpected aspect/crop: %+v", ext)
	}
}

func TestParseExtractionErrors(t *testing.T) {
	cases := []string{
		"",
		"A35_4608x3164_SPH_2.39", // missing crop percent
		"A35_4608_SPH_2.39_95",   // no x in resolution
		"A35_axb_SPH_2.39_95",
		"A35_4608x3164_SPH_zero_95",
		"A35_4608x3164_SPH_2.39_150", // crop > 100
	}
	for _, raw := range cases {
		if _, err := clip.ParseExtraction(raw); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestCropWindowCentered(t *testing.T) {
	ext := clip.Extraction{Width: 6144, Height: 3240, AspectRatio: 2.39, CropPercent: 95}
	crop := ext.CropWindow()

	if crop.Left+crop.Right+crop.FinalWidth != ext.Width {
		t.Fatalf("horizontal crop does not partition width: %+v", crop)
	}
	if crop.Top+crop.Bottom+crop.FinalHeight != ext.Height {
		t.Fatalf("vertical crop does not partition height: %+v", crop)
	}
	if diff := crop.Right - crop.Left; diff < 0 || diff > 1 {
		t.Fatalf("crop not centered horizontally: %+v", crop)
	}
	fullWidth := 6144
	wantWidth := int(float64(fullWidth) * 0.95)
	if crop.FinalWidth != wantWidth {
		t.Fatalf("final width = %d, want %d", crop.FinalWidth, wantWidth)
	}
	wantHeight := int(float64(wantWidth) / 2.39)
	if crop.FinalHeight != wantHeight {
		t.Fatalf("final height = %d, want %d", crop.FinalHeight, wantHeight)
	}
}

func TestCropWindowHeightConstrained(t *testing.T) {
	// Wide sensor with a tall target: height limits the window.
	ext := clip.Extraction{Width: 4000, Height: 1000, AspectRatio: 1.0, CropPercent: 100}
	crop := ext.CropWindow()
	if crop.FinalHeight != 1000 || crop.FinalWidth != 1000 {
		t.Fatalf("expected 1000x1000 window, got %+v", crop)
	}
}
