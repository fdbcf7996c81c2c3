package metadata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stillgen/internal/logging"
)

const sampleALE = "Heading\n" +
	"FIELD_DELIM\tTABS\n" +
	"VIDEO_FORMAT\t1080\n" +
	"\n" +
	"Column\n" +
	"Name\tTape\tScene\tTake\tLook\n" +
	"\n" +
	"Data\n" +
	"A001C002_240115_R1AB.mxf\tA001C002\t34A\t2\tDAY_EXT\n" +
	"B003C011_240116_R2CD.mxf\tB003C011\t34A\t3\t\n"

func TestParseALE(t *testing.T) {
	index, err := ParseALE(strings.NewReader(sampleALE))
	if err != nil {
		t.Fatalf("ParseALE() error = %v", err)
	}

	record, ok := index.FindClip("A001C002")
	if !ok {
		t.Fatal("FindClip(A001C002) not found")
	}
	if got := record.Value("", "Scene"); got != "34A" {
		t.Errorf("Scene = %q, want %q", got, "34A")
	}

	// Name column keys the same record.
	byName, ok := index.FindClip("A001C002_240115_R1AB.mxf")
	if !ok {
		t.Fatal("FindClip by Name not found")
	}
	if got := byName.Value("", "Take"); got != "2" {
		t.Errorf("Take = %q, want %q", got, "2")
	}
}

func TestParseALEDataBeforeColumn(t *testing.T) {
	if _, err := ParseALE(strings.NewReader("Data\nA001\tfoo\n")); err == nil {
		t.Fatal("ParseALE() expected error for data before column header")
	}
}

func TestFindClipFallbacks(t *testing.T) {
	index, err := ParseALE(strings.NewReader(sampleALE))
	if err != nil {
		t.Fatalf("ParseALE() error = %v", err)
	}

	// Base before suffix separators.
	if _, ok := index.FindClip("A001C002_240115_R1AB"); !ok {
		t.Error("FindClip base-name fallback failed")
	}
	if _, ok := index.FindClip("B003C011_240116"); !ok {
		t.Error("FindClip fallback to the Tape key failed")
	}
	if _, ok := index.FindClip("Z999C001"); ok {
		t.Error("FindClip matched an unrelated clip")
	}
}

func TestLoadALEDirWindows1252(t *testing.T) {
	dir := t.TempDir()
	ale := "Heading\nFIELD_DELIM\tTABS\n\nColumn\nName\tTape\tComments\n\nData\n" +
		"A001C002.mxf\tA001C002\tCaf\xe9 scene\n"
	if err := os.WriteFile(filepath.Join(dir, "day1.ale"), []byte(ale), 0o644); err != nil {
		t.Fatal(err)
	}

	index := LoadALEDir(dir, logging.NewNop())
	record, ok := index.FindClip("A001C002")
	if !ok {
		t.Fatal("FindClip(A001C002) not found")
	}
	if got := record.Value("", "Comments"); got != "Café scene" {
		t.Errorf("Comments = %q, want %q", got, "Café scene")
	}
}

func TestParseSilverstackCSV(t *testing.T) {
	csvData := "Name,Look Name,Episode,Empty\n" +
		"A001C002,DAY_INT_WARM,EP101,\n"
	index, err := ParseSilverstackCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ParseSilverstackCSV() error = %v", err)
	}

	record, ok := index.FindClip("A001C002")
	if !ok {
		t.Fatal("FindClip(A001C002) not found")
	}
	if got := record.Value("", "Look Name"); got != "DAY_INT_WARM" {
		t.Errorf("Look Name = %q, want %q", got, "DAY_INT_WARM")
	}
	if _, ok := record["Empty"]; ok {
		t.Error("empty cell should be dropped")
	}
}

func TestFieldsValueFuzzyLookup(t *testing.T) {
	record := Fields{"Camera Roll": "R1AB", "scene": "34A"}

	if got := record.Value("", "Scene"); got != "34A" {
		t.Errorf("case-insensitive lookup = %q, want %q", got, "34A")
	}
	if got := record.Value("", "Roll"); got != "R1AB" {
		t.Errorf("substring lookup = %q, want %q", got, "R1AB")
	}
	if got := record.Value("n/a", "Lens"); got != "n/a" {
		t.Errorf("fallback = %q, want %q", got, "n/a")
	}
}

func TestFrameLoader(t *testing.T) {
	dir := t.TempDir()
	csvData := "Timecode,T-Stop,Focus\n" +
		"01:23:45:12,T2.8,12ft\n" +
		"01:23:45:13,T2.8,14ft\n"
	if err := os.WriteFile(filepath.Join(dir, "A001C002.csv"), []byte(csvData), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := NewFrameLoader(dir)
	record := loader.Frame("A001C002", "01_23_45_12")
	if record == nil {
		t.Fatal("Frame() returned nil for present timecode")
	}
	if got := record.Value("", "T-Stop"); got != "T2.8" {
		t.Errorf("T-Stop = %q, want %q", got, "T2.8")
	}

	if loader.Frame("A001C002", "09_00_00_00") != nil {
		t.Error("Frame() should return nil for absent timecode")
	}
	if loader.Frame("MISSING_CLIP", "01_23_45_12") != nil {
		t.Error("Frame() should return nil for missing clip log")
	}
}

func TestStorePrecedence(t *testing.T) {
	ale, err := ParseALE(strings.NewReader("Heading\n\nColumn\nName\tTape\tLook\tScene\n\nData\n" +
		"A001C002_240115_R1AB.mxf\tA001C002\tALE_LOOK\t34A\n"))
	if err != nil {
		t.Fatal(err)
	}
	// Silverstack keyed by the ALE Tape value, not the clip file name.
	ss, err := ParseSilverstackCSV(strings.NewReader("Name,Look,Episode\nA001C002,SS_LOOK,EP101\n"))
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	frameCSV := "Timecode,Look\n01:23:45:12,FRAME_LOOK\n"
	if err := os.WriteFile(filepath.Join(dir, "A001C002_240115_R1AB.csv"), []byte(frameCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(ale, ss, logging.NewNop())

	// All three sources present: the frame-level value wins.
	merged, prov := store.Get("A001C002_240115_R1AB", "01_23_45_12", NewFrameLoader(dir))
	if !prov.ALE || !prov.Silverstack || !prov.Frame {
		t.Fatalf("provenance = %+v, want all sources", prov)
	}
	if got := merged.Value("", "Look"); got != "FRAME_LOOK" {
		t.Errorf("Look = %q, want frame-level value", got)
	}
	if got := merged.Value("", "Scene"); got != "34A" {
		t.Errorf("Scene = %q, ALE-only field should survive the merge", got)
	}
	if got := merged.Value("", "Episode"); got != "EP101" {
		t.Errorf("Episode = %q, Silverstack-only field should survive the merge", got)
	}

	// No frame log for this timecode: Silverstack wins.
	merged, prov = store.Get("A001C002_240115_R1AB", "09_00_00_00", NewFrameLoader(dir))
	if prov.Frame {
		t.Error("provenance claims a frame source that does not exist")
	}
	if got := merged.Value("", "Look"); got != "SS_LOOK" {
		t.Errorf("Look = %q, want Silverstack value", got)
	}

	// No Silverstack record either: the ALE value remains.
	store = NewStore(ale, ClipIndex{}, logging.NewNop())
	merged, _ = store.Get("A001C002_240115_R1AB", "09_00_00_00", NewFrameLoader(dir))
	if got := merged.Value("", "Look"); got != "ALE_LOOK" {
		t.Errorf("Look = %q, want ALE value", got)
	}
}

func TestStoreNoSources(t *testing.T) {
	store := NewStore(ClipIndex{}, ClipIndex{}, logging.NewNop())
	merged, prov := store.Get("A001C002", "00_00_00_00", nil)
	if merged != nil {
		t.Errorf("Get() = %v, want nil for unknown clip", merged)
	}
	if prov.ALE || prov.Silverstack || prov.Frame {
		t.Errorf("provenance = %+v, want empty", prov)
	}
}
