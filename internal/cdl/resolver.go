package cdl

import (
	"log/slog"

	"stillgen/internal/logging"
	"stillgen/internal/metadata"
)

// Resolution is the outcome of resolving a clip's grade. Missing grades are
// data, not errors: the job proceeds with the identity CDL and Reason records
// why no grade was applied.
type Resolution struct {
	Values  Values
	Missing bool
	Reason  string
}

// Resolver extracts grades from clip metadata and memoizes them per clip.
// Each worker owns its own resolver, so lookups need no locking; a miss
// computes once and every later lookup of that clip within the worker hits.
type Resolver struct {
	cache  map[string]Resolution
	logger *slog.Logger
}

// NewResolver returns an empty resolver. Tests may pre-seed the cache through
// resolved lookups on fabricated records.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{
		cache:  make(map[string]Resolution),
		logger: logging.NewComponentLogger(logger, "cdl"),
	}
}

// Resolve returns the grade for a clip, consulting the cache first. The
// record's ASC_SOP and ASC_SAT columns are the source of truth; a missing or
// malformed grade resolves to the identity CDL with the reason attached.
func (r *Resolver) Resolve(clipName string, record metadata.Fields) Resolution {
	if cached, ok := r.cache[clipName]; ok {
		return cached
	}

	resolution := r.extract(clipName, record)
	r.cache[clipName] = resolution
	return resolution
}

func (r *Resolver) extract(clipName string, record metadata.Fields) Resolution {
	ascSOP := record.Value("", "ASC_SOP")
	ascSAT := record.Value("", "ASC_SAT")

	if ascSOP == "" {
		r.logger.Warn("no grade for clip, using identity CDL",
			logging.String(logging.FieldClip, clipName))
		return Resolution{Values: Identity(), Missing: true, Reason: "no ASC_SOP column value"}
	}
	if ascSAT == "" {
		ascSAT = "1"
	}

	values, err := Parse(ascSOP, ascSAT)
	if err != nil {
		r.logger.Warn("unusable grade for clip, using identity CDL",
			logging.String(logging.FieldClip, clipName),
			logging.Error(err))
		return Resolution{Values: Identity(), Missing: true, Reason: err.Error()}
	}

	r.logger.Debug("resolved grade",
		logging.String(logging.FieldClip, clipName),
		logging.String("cdl", values.String()))
	return Resolution{Values: values}
}
