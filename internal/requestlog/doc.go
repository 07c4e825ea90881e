// Package requestlog persists a journal of backend requests and their
// outcomes.
//
// Every chunk attempt sent to a translation backend is recorded with a
// correlation id, and the matching response row records status, duration,
// and reply size. The journal is a SQLite database; a flock sidecar file
// serializes writers so concurrent shuttle processes cannot interleave
// migrations or writes. Readers open the database without the lock.
//
// The journal is an observability aid: callers are expected to log and
// swallow journal errors rather than fail the work being journaled.
package requestlog
