package subtitles

import (
	"strconv"
	"strings"
)

// EncodeWire renders segments in the timing-free exchange format sent to
// translation backends: one `sequence\ntext` block per segment, blank-line
// separated.
func EncodeWire(segments []Segment) string {
	blocks := make([]string, 0, len(segments))
	for _, segment := range segments {
		blocks = append(blocks, strconv.Itoa(segment.Sequence)+"\n"+segment.Text)
	}
	return strings.TrimSpace(strings.Join(blocks, "\n\n"))
}

// DecodeWire parses wire-format text back into entries. A block needs at
// least two lines and an integer first line; malformed blocks are dropped
// just like Parse drops corrupt SRT blocks.
func DecodeWire(content string) []Entry {
	var entries []Entry
	for _, block := range splitBlocks(content) {
		lines := strings.Split(block, "\n")
		if len(lines) < 2 {
			continue
		}
		number, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Number: number,
			Text:   strings.TrimSpace(strings.Join(lines[1:], "\n")),
		})
	}
	return entries
}
