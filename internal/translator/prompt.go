package translator

import (
	"fmt"
	"strings"

	"shuttle/internal/chunking"
	"shuttle/internal/subtitles"
)

// PromptBuilder renders the system and user prompts for a chunk request.
type PromptBuilder struct {
	Source string
	Target string
}

// System returns the instruction prompt shared by every chunk request.
func (b PromptBuilder) System() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a professional subtitle translator. Translate subtitle segments from %s to %s.\n\n", b.Source, b.Target)
	sb.WriteString("The input lists numbered segments. Each segment starts with its number on its own line, followed by the segment text, with a blank line between segments.\n\n")
	sb.WriteString("Reply with one line per segment in the form \"number: translation\", keeping the original segment numbers. ")
	sb.WriteString("Translate every segment. Never merge segments, never skip segments, and never invent new ones. ")
	sb.WriteString("Keep formatting tags such as <i>, </i>, and {\\an8} unchanged, and keep bracketed sound cues like [music playing] in place, translated. ")
	sb.WriteString("Reply with the translations only, no commentary.")
	return sb.String()
}

// User returns the chunk payload prompt. Context segments precede the work
// segments so the model sees the surrounding dialogue, and are marked so it
// does not translate them.
func (b PromptBuilder) User(chunk chunking.Chunk) string {
	var sb strings.Builder
	if len(chunk.Context) > 0 {
		sb.WriteString("Preceding segments for context only, do not translate:\n\n")
		sb.WriteString(subtitles.EncodeWire(chunk.Context))
		sb.WriteString("\n\n")
	}
	sb.WriteString("Translate these segments:\n\n")
	sb.WriteString(subtitles.EncodeWire(chunk.Segments))
	return sb.String()
}
