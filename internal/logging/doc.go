// Package logging builds the slog loggers used across shuttle.
//
// Two output formats are supported. The console format renders compact
// single-line records with a leading timestamp, level label, and optional
// component prefix, suitable for interactive terminals. The json format
// emits one JSON object per record with ts, level, and msg keys for log
// shippers.
//
// Loggers write to stdout/stderr and, when a log directory is configured,
// to shuttle.log inside it. Derived loggers created with With share the
// underlying writer lock, so concurrent chunk workers can log through
// clones without interleaving records.
package logging
