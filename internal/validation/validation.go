// Package validation gates translation replies with exact-set checks: a
// per-chunk gate before a reply is accepted and a whole-file gate before
// reconstruction. It also hosts the diagnostic analyzer that classifies
// mismatches for logging.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"shuttle/internal/chunking"
	"shuttle/internal/subtitles"
)

// Error reports a count or membership mismatch between the segment numbers
// a scope expected and the numbers a backend returned. It always carries
// both sorted lists so a failure is diagnosable without re-running the
// translation.
type Error struct {
	Scope    string
	Expected []int
	Actual   []int
	Missing  []int
	Extra    []int
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s validation failed: expected %d segments, received %d", e.Scope, len(e.Expected), len(e.Actual))
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ". Missing translations for segments: %s", joinNumbers(e.Missing))
	}
	if len(e.Extra) > 0 {
		fmt.Fprintf(&b, ". Unexpected segment numbers: %s", joinNumbers(e.Extra))
	}
	fmt.Fprintf(&b, ". Expected numbers: [%s]. Received numbers: [%s]", joinNumbers(e.Expected), joinNumbers(e.Actual))
	return b.String()
}

// ValidateChunk checks one backend reply against the chunk that produced
// it. Success is silent; any count or membership difference returns an
// *Error scoped to the chunk's position.
func ValidateChunk(chunk chunking.Chunk, entries []subtitles.Entry) error {
	return validate("chunk "+chunk.Label(), SegmentNumbers(chunk.Segments), EntryNumbers(entries))
}

// ValidateFile checks the merged result set against the full segment list
// after all chunks complete. It should never fail when per-chunk gating is
// correct.
func ValidateFile(segments []subtitles.Segment, entries []subtitles.Entry) error {
	return validate("file", SegmentNumbers(segments), EntryNumbers(entries))
}

func validate(scope string, expected, actual []int) error {
	sort.Ints(expected)
	sort.Ints(actual)
	missing, extra := lo.Difference(expected, actual)
	extra = lo.Uniq(extra)
	if len(actual) == len(expected) && len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	return &Error{
		Scope:    scope,
		Expected: expected,
		Actual:   actual,
		Missing:  missing,
		Extra:    extra,
	}
}

// SegmentNumbers lists the sequence numbers of segments in input order.
func SegmentNumbers(segments []subtitles.Segment) []int {
	return lo.Map(segments, func(s subtitles.Segment, _ int) int { return s.Sequence })
}

// EntryNumbers lists the numbers of reply entries in input order.
func EntryNumbers(entries []subtitles.Entry) []int {
	return lo.Map(entries, func(e subtitles.Entry, _ int) int { return e.Number })
}

func joinNumbers(numbers []int) string {
	parts := lo.Map(numbers, func(n int, _ int) string { return fmt.Sprintf("%d", n) })
	return strings.Join(parts, ", ")
}
