package metadata

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"stillgen/internal/logging"
)

// ParseSilverstackCSV reads a Silverstack per-clip export, indexing rows by
// the Name column. Empty cells are dropped so they never shadow values from a
// lower-precedence source during the merge.
func ParseSilverstackCSV(r io.Reader) (ClipIndex, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, err
	}
	for i, header := range headers {
		headers[i] = strings.TrimSpace(header)
	}

	index := ClipIndex{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		record := Fields{}
		var name string
		for i, value := range row {
			if i >= len(headers) {
				break
			}
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			record[headers[i]] = value
			if headers[i] == "Name" {
				name = value
			}
		}
		if name != "" {
			index[normalizeKey(name)] = record
		}
	}
	return index, nil
}

// LoadSilverstackDir parses every .csv in a folder into one combined index.
// Missing folders degrade to an empty index.
func LoadSilverstackDir(dir string, logger *slog.Logger) ClipIndex {
	logger = logging.NewComponentLogger(logger, "silverstack")
	combined := ClipIndex{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("Silverstack folder unavailable", logging.String("dir", dir), logging.Error(err))
		return combined
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		file, err := os.Open(path)
		if err != nil {
			logger.Warn("skipping unreadable CSV", logging.String("path", path), logging.Error(err))
			continue
		}
		index, err := ParseSilverstackCSV(file)
		file.Close()
		if err != nil {
			logger.Warn("skipping malformed CSV", logging.String("path", path), logging.Error(err))
			continue
		}
		for key, record := range index {
			combined[key] = record
		}
		logger.Debug("loaded Silverstack CSV", logging.String("path", path), logging.Int("clips", len(index)))
	}

	logger.Info("Silverstack index loaded", logging.Int("clips", len(combined)))
	return combined
}
