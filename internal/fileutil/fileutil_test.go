package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindTIFFs(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "A001")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{
		"b.tiff",
		"a.TIF",
		"notes.txt",
		filepath.Join("A001", "c.tif"),
	} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	found, err := FindTIFFs(root)
	if err != nil {
		t.Fatalf("FindTIFFs() error = %v", err)
	}
	if len(found) != 3 {
		t.Fatalf("found %d files, want 3: %v", len(found), found)
	}
	// Sorted, so the nested frame comes first.
	if filepath.Base(found[0]) != "c.tif" {
		t.Errorf("first entry = %q, want nested c.tif", found[0])
	}
}

func TestFindTIFFsMissingRoot(t *testing.T) {
	if _, err := FindTIFFs(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("FindTIFFs() expected error for missing folder")
	}
}
