package metadata

import (
	"log/slog"

	"stillgen/internal/logging"
)

// Provenance records which sources contributed to a merged record.
type Provenance struct {
	ALE         bool
	Silverstack bool
	Frame       bool
}

// Store merges clip metadata from lab ALE files, Silverstack CSV exports and
// per-frame logs. The ALE and Silverstack indexes are shared read-only across
// workers; each worker supplies its own FrameLoader.
type Store struct {
	ale         ClipIndex
	silverstack ClipIndex
	logger      *slog.Logger
}

// NewStore builds a store over pre-loaded ALE and Silverstack indexes.
func NewStore(ale, silverstack ClipIndex, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{
		ale:         ale,
		silverstack: silverstack,
		logger:      logging.NewComponentLogger(logger, "metadata"),
	}
}

// Get resolves the merged metadata for one frame of a clip. Later sources win
// at field level: ALE supplies the base, Silverstack overlays it and the
// per-frame record overlays both. Silverstack lookup prefers the ALE Tape
// value and falls back to the clip name.
func (s *Store) Get(clipName, tcKey string, frames *FrameLoader) (Fields, Provenance) {
	merged := Fields{}
	var prov Provenance

	aleRecord, aleFound := s.ale.FindClip(clipName)
	if aleFound {
		merge(merged, aleRecord)
		prov.ALE = true
	}

	ssKey := clipName
	if aleFound {
		if tape := aleRecord.Value("", "Tape"); tape != "" {
			ssKey = tape
		}
	}
	ssRecord, ssFound := s.silverstack.FindClip(ssKey)
	if !ssFound && ssKey != clipName {
		ssRecord, ssFound = s.silverstack.FindClip(clipName)
	}
	if ssFound {
		merge(merged, ssRecord)
		prov.Silverstack = true
	}

	if frames != nil {
		if frameRecord := frames.Frame(clipName, tcKey); frameRecord != nil {
			merge(merged, frameRecord)
			prov.Frame = true
		}
	}

	if len(merged) == 0 {
		s.logger.Debug("no metadata found", logging.String(logging.FieldClip, clipName))
		return nil, prov
	}
	return merged, prov
}
