package translator

import (
	"strings"
	"testing"

	"shuttle/internal/chunking"
	"shuttle/internal/subtitles"
)

func TestSystemPromptNamesLanguages(t *testing.T) {
	b := PromptBuilder{Source: "English", Target: "Norwegian"}
	system := b.System()

	for _, fragment := range []string{"English", "Norwegian", "number: translation"} {
		if !strings.Contains(system, fragment) {
			t.Fatalf("expected %q in system prompt:\n%s", fragment, system)
		}
	}
}

func TestUserPromptCarriesWirePayload(t *testing.T) {
	chunk := chunking.Chunk{
		Segments: []subtitles.Segment{
			{Sequence: 8, Text: "Hello."},
			{Sequence: 9, Text: "How are you?"},
		},
		Index: 0,
		Total: 1,
	}
	b := PromptBuilder{Source: "English", Target: "Spanish"}
	user := b.User(chunk)

	if !strings.Contains(user, "8\nHello.") {
		t.Fatalf("expected wire block in user prompt:\n%s", user)
	}
	if !strings.Contains(user, "9\nHow are you?") {
		t.Fatalf("expected wire block in user prompt:\n%s", user)
	}
	if strings.Contains(user, "context only") {
		t.Fatalf("expected no context section without context segments:\n%s", user)
	}
}

func TestUserPromptSeparatesContext(t *testing.T) {
	chunk := chunking.Chunk{
		Context: []subtitles.Segment{
			{Sequence: 6, Text: "Previously."},
			{Sequence: 7, Text: "On the show."},
		},
		Segments: []subtitles.Segment{
			{Sequence: 8, Text: "Hello."},
		},
		Index: 1,
		Total: 2,
	}
	b := PromptBuilder{Source: "English", Target: "Spanish"}
	user := b.User(chunk)

	contextPos := strings.Index(user, "6\nPreviously.")
	workPos := strings.Index(user, "8\nHello.")
	if contextPos < 0 || workPos < 0 {
		t.Fatalf("expected both sections in user prompt:\n%s", user)
	}
	if contextPos > workPos {
		t.Fatalf("expected context before work segments:\n%s", user)
	}
	if !strings.Contains(user, "do not translate") {
		t.Fatalf("expected context marker in user prompt:\n%s", user)
	}
}
