package logging

import (
	"context"
	"log/slog"

	"shuttle/internal/services"
)

// Standardized attribute keys. Using the constants keeps field names
// consistent across packages so log queries do not have to guess spellings.
const (
	FieldComponent     = "component"
	FieldCorrelationID = "correlation_id"
	FieldInputFile     = "input_file"
	FieldStage         = "stage"
	FieldEventType     = "event_type"
	FieldErrorHint     = "error_hint"
	FieldImpact        = "impact"
	FieldChunk         = "chunk"
	FieldChunkTotal    = "chunk_total"
	FieldAttempt       = "attempt"
	FieldSegments      = "segments"
	FieldBackend       = "backend"
	FieldModel         = "model"
	FieldSourceLang    = "source_lang"
	FieldTargetLang    = "target_lang"
)

// ContextFields extracts the pipeline identifiers carried on ctx as log
// attributes.
func ContextFields(ctx context.Context) []Attr {
	if ctx == nil {
		return nil
	}
	attrs := make([]Attr, 0, 3)
	if id, ok := services.RequestIDFromContext(ctx); ok {
		attrs = append(attrs, String(FieldCorrelationID, id))
	}
	if path, ok := services.InputFileFromContext(ctx); ok {
		attrs = append(attrs, String(FieldInputFile, path))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		attrs = append(attrs, String(FieldStage, stage))
	}
	return attrs
}

// WithContext returns a logger annotated with whatever pipeline identifiers
// the context carries.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
