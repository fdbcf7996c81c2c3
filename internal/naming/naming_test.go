package naming

import (
	"testing"

	"stillgen/internal/clip"
	"stillgen/internal/metadata"
)

func TestTransformSlate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"143", "43"},
		{"143A", "43-A"},
		{"143AB", "43-AB"},
		{"1X43", "43"},
		{"1A43", "43A"},
		{"1A43B", "43A-B"},
		{"1XA43B", "43A-B"},
		{"", ""},
		{"  ", ""},
		{"1", ""},
		{"1XYZ", ""},
		{"1AB", "AB"},
	}
	for _, tc := range cases {
		if got := TransformSlate(tc.in); got != tc.want {
			t.Errorf("TransformSlate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestOutputName(t *testing.T) {
	record := metadata.Fields{
		"Episode":      "EP101",
		"Slate":        "143A",
		"Take":         "2",
		"Camera":       "A",
		"Shoot Date":   "2024-01-15",
		"Shooting Day": "D05",
		"Crew Unit":    "MAIN",
		"Look Name":    "DAY_EXT",
		"Timecode":     "01:23:45:12",
	}
	tc := clip.Timecode{Hour: 1, Minute: 23, Second: 45, Frame: 12}

	got := OutputName(record, tc)
	want := "EP101-43-A-2-A_20240115_D05_MAIN_DAY_EXT_4512"
	if got != want {
		t.Errorf("OutputName() = %q, want %q", got, want)
	}
}

func TestOutputNameCollapsesEmptySegments(t *testing.T) {
	record := metadata.Fields{
		"Episode": "EP101",
		"Take":    "2",
	}
	tc := clip.Timecode{Second: 7, Frame: 3}

	got := OutputName(record, tc)
	want := "EP101-2_0703"
	if got != want {
		t.Errorf("OutputName() = %q, want %q", got, want)
	}
}

func TestOutputNameEmptyRecord(t *testing.T) {
	got := OutputName(metadata.Fields{}, clip.Timecode{Second: 7, Frame: 3})
	if got != "0703" {
		t.Errorf("OutputName() = %q, want bare timecode suffix", got)
	}
}

func TestOutputNameUnparseableDate(t *testing.T) {
	record := metadata.Fields{
		"Episode":    "EP101",
		"Shoot Date": "15.01.2024",
	}
	got := OutputName(record, clip.Timecode{Second: 1, Frame: 2})
	want := "EP101_15012024_0102"
	if got != want {
		t.Errorf("OutputName() = %q, want %q", got, want)
	}
}
