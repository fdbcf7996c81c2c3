package cdl

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Sidecar renders the grade as a ColorCorrection XML document, the sidecar
// form the color engine consumes through its config search path.
func Sidecar(v Values) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<ColorCorrection id="cc0001">
    <SOPNode>
        <Slope>%s</Slope>
        <Offset>%s</Offset>
        <Power>%s</Power>
    </SOPNode>
    <SatNode>
        <Saturation>%s</Saturation>
    </SatNode>
</ColorCorrection>
`,
		formatTriplet(v.Slope),
		formatTriplet(v.Offset),
		formatTriplet(v.Power),
		strconv.FormatFloat(v.Saturation, 'g', -1, 64))
}

// DiskCache materializes sidecar files on disk named by a content hash, so
// identical grades across clips share one file and repeated runs reuse it.
type DiskCache struct {
	dir   string
	paths map[string]string
}

// NewDiskCache creates the cache directory if needed.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cdl: create cache dir: %w", err)
	}
	return &DiskCache{dir: dir, paths: make(map[string]string)}, nil
}

// Path writes the grade's sidecar to the cache if absent and returns its
// absolute path.
func (c *DiskCache) Path(v Values) (string, error) {
	content := Sidecar(v)
	sum := sha256.Sum256([]byte(content))
	key := hex.EncodeToString(sum[:8])

	if path, ok := c.paths[key]; ok {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		delete(c.paths, key)
	}

	path := filepath.Join(c.dir, key+".cdl")
	if _, err := os.Stat(path); err != nil {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return "", fmt.Errorf("cdl: write sidecar: %w", err)
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	c.paths[key] = abs
	return abs, nil
}
