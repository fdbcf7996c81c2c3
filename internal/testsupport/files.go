package testsupport

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/tiff"
)

// MkdirAll creates a directory tree or fails the test.
func MkdirAll(t testing.TB, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
}

// WriteTIFF encodes a blank frame of the requested size at path.
func WriteTIFF(t testing.TB, path string, width, height int) {
	t.Helper()

	MkdirAll(t, filepath.Dir(path))
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if err := tiff.Encode(f, img, nil); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

// WriteOCIOTemplate writes a minimal color config template carrying the
// sidecar and search-path placeholders the renderer substitutes.
func WriteOCIOTemplate(t testing.TB, path string) {
	t.Helper()

	const body = `ocio_profile_version: 2

search_path: luts

looks:
  - !<Look>
    name: grade
    process_space: linear
    transform: !<FileTransform> {src: cd.cdl, interpolation: best}
`
	MkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
