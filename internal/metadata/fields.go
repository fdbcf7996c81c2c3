package metadata

import "strings"

// Fields is one source record: a flat mapping of column name to value.
// Sources keep their original column names; lookups go through Value so
// heterogeneous manual exports with inconsistent casing still resolve.
type Fields map[string]string

// Value returns the first match for the candidate keys, trying exact, then
// case-insensitive, then substring matches. Empty values fall through to the
// next candidate; fallback is returned when nothing matches.
func (f Fields) Value(fallback string, keys ...string) string {
	if len(f) == 0 {
		return fallback
	}

	for _, key := range keys {
		if v, ok := f[key]; ok && v != "" {
			return v
		}
	}

	for _, key := range keys {
		lower := strings.ToLower(key)
		for k, v := range f {
			if strings.ToLower(k) == lower && v != "" {
				return v
			}
		}
	}

	for _, key := range keys {
		lower := strings.ToLower(key)
		for k, v := range f {
			if strings.Contains(strings.ToLower(k), lower) && v != "" {
				return v
			}
		}
	}

	return fallback
}

// merge overlays src onto dst field by field. Later sources win per field,
// never wholesale; empty source values do not clobber existing ones.
func merge(dst Fields, src Fields) {
	for k, v := range src {
		if strings.TrimSpace(v) == "" {
			continue
		}
		dst[k] = v
	}
}

// normalizeKey canonicalizes clip keys: trimmed and case-folded, because the
// three source files come from different manual export chains.
func normalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
