// Package services holds the error taxonomy and context plumbing shared by
// the translation pipeline.
//
// Errors produced anywhere in the pipeline are tagged with one of the
// exported sentinel markers via Wrap so that callers can classify failures
// with errors.Is without inspecting message text. Classify collapses the
// markers into the journal status vocabulary.
//
// The context helpers carry the correlation identifier, input file, and
// pipeline stage so that loggers can stamp every record with the request
// they belong to.
package services
