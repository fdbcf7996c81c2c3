package metadata

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"stillgen/internal/logging"
)

// ClipIndex maps normalized clip keys to their source record.
type ClipIndex map[string]Fields

// ParseALE reads an Avid Log Exchange file: a Heading section, a tab-delimited
// Column row, and one Data row per clip. Rows are indexed by both the Tape and
// Name columns because stills reference either depending on the lab.
func ParseALE(r io.Reader) (ClipIndex, error) {
	index := ClipIndex{}
	var headers []string
	section := ""

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		switch strings.TrimSpace(line) {
		case "Heading":
			section = "heading"
			continue
		case "Column":
			section = "column"
			continue
		case "Data":
			section = "data"
			continue
		}

		switch section {
		case "column":
			headers = splitALERow(line)
		case "data":
			if len(headers) == 0 {
				return nil, fmt.Errorf("ale: data row before column header")
			}
			values := splitALERow(line)
			for len(values) < len(headers) {
				values = append(values, "")
			}
			if len(values) != len(headers) {
				continue
			}

			record := make(Fields, len(headers))
			for i, header := range headers {
				record[header] = values[i]
			}

			tape := strings.TrimSpace(record["Tape"])
			name := strings.TrimSpace(record["Name"])
			if tape != "" {
				index[normalizeKey(tape)] = record
			}
			if name != "" && name != tape {
				index[normalizeKey(name)] = record
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ale: %w", err)
	}
	return index, nil
}

func splitALERow(line string) []string {
	parts := strings.Split(line, "\t")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

// LoadALEDir parses every .ale file in a folder into one combined index.
// A missing folder or unreadable file degrades to a partial (or empty)
// index; the gaps are logged, not fatal.
func LoadALEDir(dir string, logger *slog.Logger) ClipIndex {
	logger = logging.NewComponentLogger(logger, "ale")
	combined := ClipIndex{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("ALE folder unavailable", logging.String("dir", dir), logging.Error(err))
		return combined
	}

	files := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".ale") {
			continue
		}
		files++
		path := filepath.Join(dir, entry.Name())
		index, err := parseALEFile(path)
		if err != nil {
			logger.Warn("skipping unreadable ALE", logging.String("path", path), logging.Error(err))
			continue
		}
		for key, record := range index {
			combined[key] = record
		}
		logger.Debug("loaded ALE", logging.String("path", path), logging.Int("clips", len(index)))
	}

	if files == 0 {
		logger.Warn("no ALE files found", logging.String("dir", dir))
	} else {
		logger.Info("ALE index loaded", logging.Int("files", files), logging.Int("clips", len(combined)))
	}
	return combined
}

func parseALEFile(path string) (ClipIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Avid exports are frequently Windows-1252 rather than UTF-8.
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
		if err == nil {
			data = decoded
		}
	}

	return ParseALE(strings.NewReader(string(data)))
}

// FindClip resolves a clip in the index with the fallback strategies stills
// need: exact key, the base name before any dot or underscore suffix, then a
// mutual-prefix match.
func (idx ClipIndex) FindClip(name string) (Fields, bool) {
	key := normalizeKey(name)
	if record, ok := idx[key]; ok {
		return record, true
	}

	base := key
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	if i := strings.IndexByte(base, '_'); i > 0 {
		base = base[:i]
	}
	if record, ok := idx[base]; ok {
		return record, true
	}

	for candidate, record := range idx {
		if strings.HasPrefix(key, candidate) || strings.HasPrefix(candidate, key) {
			return record, true
		}
	}
	return nil, false
}
