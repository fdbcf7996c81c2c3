package fileutil

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// FindTIFFs walks a folder tree and returns every TIFF frame, sorted for
// deterministic job ordering.
func FindTIFFs(root string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		if ext == ".tiff" || ext == ".tif" {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(found)
	return found, nil
}
