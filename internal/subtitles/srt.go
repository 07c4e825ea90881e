package subtitles

import (
	"regexp"
	"strconv"
	"strings"
)

var timingLine = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2},\d{3}) --> (\d{2}:\d{2}:\d{2},\d{3})$`)

// Parse splits SRT text into segments. Blocks are separated by blank lines;
// a block is kept only if it has at least three lines, an integer first
// line, and a valid timing line. Anything else is dropped, so parsing never
// fails on a corrupt file.
func Parse(content string) []Segment {
	var segments []Segment
	for _, block := range splitBlocks(content) {
		lines := strings.Split(block, "\n")
		if len(lines) < 3 {
			continue
		}
		sequence, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			continue
		}
		timing := timingLine.FindStringSubmatch(strings.TrimSpace(lines[1]))
		if timing == nil {
			continue
		}
		segments = append(segments, Segment{
			Sequence: sequence,
			Start:    timing[1],
			End:      timing[2],
			Text:     strings.TrimSpace(strings.Join(lines[2:], "\n")),
		})
	}
	return segments
}

// CountSegments reports how many well-formed segments the SRT text contains.
func CountSegments(content string) int {
	return len(Parse(content))
}

// Reconstruct renders SRT text from the original segments and their
// translations, preserving sequence numbers and timing verbatim. Every
// segment must have a translation; a gap yields a MissingTranslationError.
func Reconstruct(segments []Segment, entries []Entry) (string, error) {
	translations := make(map[int]string, len(entries))
	for _, entry := range entries {
		translations[entry.Number] = entry.Text
	}

	blocks := make([]string, 0, len(segments))
	for _, segment := range segments {
		text, ok := translations[segment.Sequence]
		if !ok {
			return "", &MissingTranslationError{Sequence: segment.Sequence, Text: segment.Text}
		}
		blocks = append(blocks, strconv.Itoa(segment.Sequence)+"\n"+segment.Start+" --> "+segment.End+"\n"+text)
	}
	return strings.TrimSpace(strings.Join(blocks, "\n\n")), nil
}

// splitBlocks normalizes line endings and splits on blank lines, returning
// trimmed non-empty blocks.
func splitBlocks(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	var blocks []string
	for _, block := range strings.Split(content, "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}
