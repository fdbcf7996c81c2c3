package logging

import (
	"context"
	"log/slog"
)

type contextKey int

const (
	clipKey contextKey = iota
	frameKey
	workerKey
)

// WithClip stores a clip name on the context for downstream log enrichment.
func WithClip(ctx context.Context, clip string) context.Context {
	return context.WithValue(ctx, clipKey, clip)
}

// WithFrame stores a frame timecode key on the context.
func WithFrame(ctx context.Context, frame string) context.Context {
	return context.WithValue(ctx, frameKey, frame)
}

// WithWorker stores a worker index on the context.
func WithWorker(ctx context.Context, worker int) context.Context {
	return context.WithValue(ctx, workerKey, worker)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if clip, ok := ctx.Value(clipKey).(string); ok && clip != "" {
		fields = append(fields, slog.String(FieldClip, clip))
	}
	if frame, ok := ctx.Value(frameKey).(string); ok && frame != "" {
		fields = append(fields, slog.String(FieldFrame, frame))
	}
	if worker, ok := ctx.Value(workerKey).(int); ok {
		fields = append(fields, slog.Int(FieldWorker, worker))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	args := make([]any, 0, len(fields))
	for _, field := range fields {
		args = append(args, field)
	}
	return logger.With(args...)
}
