package subtitles

import "testing"

func TestToTranscript(t *testing.T) {
	segments := Parse(sampleSRT)
	entries := ToTranscript(segments)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Number != 1 || entries[0].Text != "Hello" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func TestSegmentsFromEntries(t *testing.T) {
	segments := SegmentsFromEntries([]Entry{{Number: 9, Text: "hi"}})
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].Sequence != 9 || segments[0].Text != "hi" {
		t.Fatalf("unexpected segment: %+v", segments[0])
	}
	if segments[0].Start != "00:00:00,000" || segments[0].End != "00:00:00,000" {
		t.Fatalf("expected dummy timing, got %q and %q", segments[0].Start, segments[0].End)
	}
}

func TestParseReplySimple(t *testing.T) {
	entries := ParseReply("1: Bonjour\n2: Monde")
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Number != 1 || entries[0].Text != "Bonjour" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
	if entries[1].Number != 2 || entries[1].Text != "Monde" {
		t.Fatalf("unexpected entry: %+v", entries[1])
	}
}

func TestParseReplyMultiLineContinuation(t *testing.T) {
	entries := ParseReply("12: first line\nsecond line\n13: next")
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Text != "first line\nsecond line" {
		t.Fatalf("expected continuation appended, got %q", entries[0].Text)
	}
}

func TestParseReplyDropsLeadingGarbage(t *testing.T) {
	entries := ParseReply("Here are the translations:\n\n4: oui\n5: non")
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Number != 4 {
		t.Fatalf("expected first entry 4, got %d", entries[0].Number)
	}
}

func TestParseReplyBlankLinesBetweenEntries(t *testing.T) {
	entries := ParseReply("1: Bonjour\n\n2: Monde\n")
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Text != "Bonjour" {
		t.Fatalf("expected trailing blank absorbed, got %q", entries[0].Text)
	}
}

func TestParseReplyNeverFails(t *testing.T) {
	for _, input := range []string{"", "no numbers here", ":::", "7:", "\n\n\n", "-1: negative"} {
		entries := ParseReply(input)
		if entries == nil {
			continue
		}
		for _, entry := range entries {
			if entry.Number < 0 {
				t.Fatalf("input %q produced negative number %d", input, entry.Number)
			}
		}
	}
}

func TestParseReplyColonInsideText(t *testing.T) {
	entries := ParseReply("3: time: 10:30 tomorrow")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Text != "time: 10:30 tomorrow" {
		t.Fatalf("expected colon content kept, got %q", entries[0].Text)
	}
}
