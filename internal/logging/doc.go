// Package logging builds the slog loggers used across stillgen.
//
// It provides a console handler that renders compact single-line records, a
// JSON handler for machine-readable run logs, and helpers for attaching
// standardized clip/frame/worker fields carried through contexts. Workers log
// concurrently to the shared writers; the console handler serializes writes so
// interleaved records never corrupt each other.
package logging
