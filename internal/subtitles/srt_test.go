package subtitles

import (
	"errors"
	"strings"
	"testing"
)

const sampleSRT = "1\n00:00:01,000 --> 00:00:03,000\nHello\n\n2\n00:00:04,000 --> 00:00:06,000\nWorld"

func TestParseWellFormed(t *testing.T) {
	segments := Parse(sampleSRT)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Sequence != 1 || segments[0].Start != "00:00:01,000" || segments[0].End != "00:00:03,000" || segments[0].Text != "Hello" {
		t.Fatalf("unexpected first segment: %+v", segments[0])
	}
	if segments[1].Sequence != 2 || segments[1].Text != "World" {
		t.Fatalf("unexpected second segment: %+v", segments[1])
	}
}

func TestParseMultiLineTextAndMarkup(t *testing.T) {
	input := "7\n00:01:00,500 --> 00:01:02,900\n<i>quiet voice</i>\n{\\an8}[music playing]"
	segments := Parse(input)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	want := "<i>quiet voice</i>\n{\\an8}[music playing]"
	if segments[0].Text != want {
		t.Fatalf("expected markup preserved verbatim, got %q", segments[0].Text)
	}
}

func TestParseDropsMalformedBlocks(t *testing.T) {
	input := strings.Join([]string{
		"not a number\n00:00:01,000 --> 00:00:02,000\ntext",
		"2\nbad timing line\ntext",
		"3\n00:00:05,000 --> 00:00:06,000",
		"4\n00:00:07,000 --> 00:00:08,000\nkept",
	}, "\n\n")
	segments := Parse(input)
	if len(segments) != 1 {
		t.Fatalf("expected only the well-formed block, got %d segments", len(segments))
	}
	if segments[0].Sequence != 4 || segments[0].Text != "kept" {
		t.Fatalf("unexpected surviving segment: %+v", segments[0])
	}
}

func TestParseWindowsLineEndingsAndExtraBlankLines(t *testing.T) {
	input := "1\r\n00:00:01,000 --> 00:00:02,000\r\nfirst\r\n\r\n\r\n2\r\n00:00:03,000 --> 00:00:04,000\r\nsecond\r\n"
	segments := Parse(input)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[1].Text != "second" {
		t.Fatalf("expected %q, got %q", "second", segments[1].Text)
	}
}

func TestParseEmptyInput(t *testing.T) {
	if segments := Parse(""); len(segments) != 0 {
		t.Fatalf("expected no segments, got %d", len(segments))
	}
	if segments := Parse("\n\n\n"); len(segments) != 0 {
		t.Fatalf("expected no segments for blank input, got %d", len(segments))
	}
}

func TestCountSegments(t *testing.T) {
	if count := CountSegments(sampleSRT); count != 2 {
		t.Fatalf("expected 2, got %d", count)
	}
	if count := CountSegments("garbage"); count != 0 {
		t.Fatalf("expected 0 for garbage, got %d", count)
	}
}

func TestSegmentMillis(t *testing.T) {
	segment := Segment{Start: "01:02:03,456", End: "01:02:04,000"}
	if ms := segment.StartMillis(); ms != 1*3600000+2*60000+3*1000+456 {
		t.Fatalf("unexpected start millis %d", ms)
	}
	if ms := segment.EndMillis(); ms != 1*3600000+2*60000+4*1000 {
		t.Fatalf("unexpected end millis %d", ms)
	}
	if ms := (Segment{Start: "bogus"}).StartMillis(); ms != 0 {
		t.Fatalf("expected 0 for unparseable stamp, got %d", ms)
	}
}

func TestReconstructTranslated(t *testing.T) {
	segments := Parse(sampleSRT)
	translated := []Entry{{Number: 1, Text: "Bonjour"}, {Number: 2, Text: "Monde"}}
	out, err := Reconstruct(segments, translated)
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	want := "1\n00:00:01,000 --> 00:00:03,000\nBonjour\n\n2\n00:00:04,000 --> 00:00:06,000\nMonde"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestReconstructRoundTripIdentity(t *testing.T) {
	segments := Parse(sampleSRT)
	out, err := Reconstruct(segments, ToTranscript(segments))
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	if out != sampleSRT {
		t.Fatalf("identity round trip mismatch:\n%q\nvs\n%q", out, sampleSRT)
	}
}

func TestReconstructPreservesNonContiguousSequences(t *testing.T) {
	input := "5\n00:00:01,000 --> 00:00:02,000\na\n\n10\n00:00:03,000 --> 00:00:04,000\nb\n\n15\n00:00:05,000 --> 00:00:06,000\nc"
	segments := Parse(input)
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	out, err := Reconstruct(segments, []Entry{{Number: 5, Text: "a"}, {Number: 10, Text: "b"}, {Number: 15, Text: "c"}})
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	reparsed := Parse(out)
	if len(reparsed) != 3 {
		t.Fatalf("expected 3 segments after reparse, got %d", len(reparsed))
	}
	for i, want := range []int{5, 10, 15} {
		if reparsed[i].Sequence != want {
			t.Fatalf("expected sequence %d at position %d, got %d", want, i, reparsed[i].Sequence)
		}
	}
}

func TestReconstructMissingTranslation(t *testing.T) {
	segments := Parse(sampleSRT)
	_, err := Reconstruct(segments, []Entry{{Number: 1, Text: "Bonjour"}})
	if err == nil {
		t.Fatal("expected missing translation error")
	}
	var missing *MissingTranslationError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingTranslationError, got %T", err)
	}
	if missing.Sequence != 2 {
		t.Fatalf("expected sequence 2, got %d", missing.Sequence)
	}
	if !strings.Contains(err.Error(), "World") {
		t.Fatalf("expected original text in error, got %q", err.Error())
	}
}
