// Package preflight provides readiness checks for external services
// and filesystem paths that Shuttle depends on.
//
// The CLI "shuttle preflight" command runs the full set via RunAll,
// renders the results as a table, and exits non-zero when any check
// fails, so a missing key or unwritable work directory surfaces before
// a long translation run is started.
//
// Each check is gated by its config toggle -- disabled features are skipped.
package preflight
