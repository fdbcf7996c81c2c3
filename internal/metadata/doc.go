// Package metadata loads clip and frame metadata from lab ALE deliveries,
// Silverstack CSV exports and per-frame DIT logs, and merges them with
// field-level precedence where more specific sources win.
package metadata
