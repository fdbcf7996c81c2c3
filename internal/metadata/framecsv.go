package metadata

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// frameCacheSize bounds the number of per-clip frame logs held in memory by
// one loader. A worker rarely touches more clips than this within a batch.
const frameCacheSize = 32

// FrameIndex maps HH_MM_SS_FF keys to per-frame records.
type FrameIndex map[string]Fields

// FrameLoader lazily loads per-frame CSV logs named <clip>.csv. Each worker
// owns its own loader, so no locking is needed; the cache benefit accrues
// within a worker across the jobs it happens to process.
type FrameLoader struct {
	dir   string
	cache map[string]FrameIndex
}

// NewFrameLoader creates a loader rooted at the per-frame CSV folder.
func NewFrameLoader(dir string) *FrameLoader {
	return &FrameLoader{dir: dir, cache: make(map[string]FrameIndex)}
}

// Frame returns the record for one frame of a clip, or nil when the clip has
// no frame log or the timecode is absent from it.
func (l *FrameLoader) Frame(clipName, tcKey string) Fields {
	index := l.clip(clipName)
	if index == nil {
		return nil
	}
	return index[tcKey]
}

func (l *FrameLoader) clip(clipName string) FrameIndex {
	key := normalizeKey(clipName)
	if index, ok := l.cache[key]; ok {
		return index
	}

	index := l.load(clipName)
	if len(l.cache) < frameCacheSize {
		l.cache[key] = index
	}
	return index
}

func (l *FrameLoader) load(clipName string) FrameIndex {
	path := filepath.Join(l.dir, clipName+".csv")
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	index, err := ParseFrameCSV(file)
	if err != nil {
		return nil
	}
	return index
}

// ParseFrameCSV reads a per-frame log, indexing rows by the Timecode column
// converted from HH:MM:SS:FF to the HH_MM_SS_FF key form.
func ParseFrameCSV(r io.Reader) (FrameIndex, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, err
	}
	for i, header := range headers {
		headers[i] = strings.TrimSpace(header)
	}

	index := FrameIndex{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		record := make(Fields, len(headers))
		for i, value := range row {
			if i >= len(headers) {
				break
			}
			record[headers[i]] = strings.TrimSpace(value)
		}

		tc := strings.TrimSpace(record["Timecode"])
		parts := strings.Split(tc, ":")
		if len(parts) != 4 {
			continue
		}
		index[strings.Join(parts, "_")] = record
	}
	return index, nil
}
