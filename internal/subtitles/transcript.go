package subtitles

import (
	"regexp"
	"strconv"
	"strings"
)

// Entry is a timing-free (number, text) pair: either the untranslated view
// of a segment or a backend's answer for one segment. Number must match a
// segment's Sequence to be usable downstream.
type Entry struct {
	Number int
	Text   string
}

// zeroTimestamp stamps rehydrated segments that only exist to carry
// sequence and text through the chunk planner.
const zeroTimestamp = "00:00:00,000"

var replyEntryLine = regexp.MustCompile(`^(\d+):\s*(.+)$`)

// ToTranscript maps segments 1:1 into timing-free entries.
func ToTranscript(segments []Segment) []Entry {
	entries := make([]Entry, 0, len(segments))
	for _, segment := range segments {
		entries = append(entries, Entry{Number: segment.Sequence, Text: segment.Text})
	}
	return entries
}

// SegmentsFromEntries rehydrates entries into dummy-timed segments so
// transcript-level callers can reuse the segment-based chunk planner.
func SegmentsFromEntries(entries []Entry) []Segment {
	segments := make([]Segment, 0, len(entries))
	for _, entry := range entries {
		segments = append(segments, Segment{
			Sequence: entry.Number,
			Start:    zeroTimestamp,
			End:      zeroTimestamp,
			Text:     entry.Text,
		})
	}
	return segments
}

// ParseReply reads the tolerant `number: text` reply grammar. A line
// matching `^(\d+):\s*(.+)$` starts an entry; every other line is appended
// to the most recently started entry so multi-line translations survive.
// Lines before the first entry are dropped. The parser absorbs free-form
// model output and never fails; garbled input just yields fewer entries for
// validation to reject.
func ParseReply(content string) []Entry {
	var entries []Entry
	content = strings.ReplaceAll(content, "\r\n", "\n")
	for _, line := range strings.Split(content, "\n") {
		if match := replyEntryLine.FindStringSubmatch(line); match != nil {
			number, err := strconv.Atoi(match[1])
			if err != nil {
				// Digit run too large for int; treat as continuation.
				if len(entries) > 0 {
					entries[len(entries)-1].Text += "\n" + line
				}
				continue
			}
			entries = append(entries, Entry{Number: number, Text: match[2]})
			continue
		}
		if len(entries) > 0 {
			entries[len(entries)-1].Text += "\n" + line
		}
	}
	for i := range entries {
		entries[i].Text = strings.TrimRight(entries[i].Text, " \t\n")
	}
	return entries
}
