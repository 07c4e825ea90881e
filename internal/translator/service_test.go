package translator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"shuttle/internal/requestlog"
	"shuttle/internal/services"
	"shuttle/internal/subtitles"
)

// scriptedBackend counts attempts per chunk and answers through a reply
// function, tracking how many calls run at once.
type scriptedBackend struct {
	mu    sync.Mutex
	calls map[int]int
	cur   int
	peak  int
	delay time.Duration
	reply func(req Request, attempt int) (string, error)
}

func newScriptedBackend(reply func(req Request, attempt int) (string, error)) *scriptedBackend {
	return &scriptedBackend{calls: make(map[int]int), reply: reply}
}

func (b *scriptedBackend) Name() string  { return "scripted" }
func (b *scriptedBackend) Model() string { return "test-model" }

func (b *scriptedBackend) Translate(ctx context.Context, req Request) (string, error) {
	b.mu.Lock()
	b.calls[req.Chunk.Index]++
	attempt := b.calls[req.Chunk.Index]
	b.cur++
	if b.cur > b.peak {
		b.peak = b.cur
	}
	b.mu.Unlock()

	if b.delay > 0 {
		time.Sleep(b.delay)
	}

	b.mu.Lock()
	b.cur--
	b.mu.Unlock()
	return b.reply(req, attempt)
}

func (b *scriptedBackend) attempts(chunkIndex int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[chunkIndex]
}

// echoReply answers every segment with a tagged copy of its text.
func echoReply(req Request, _ int) (string, error) {
	lines := make([]string, 0, len(req.Chunk.Segments))
	for _, seg := range req.Chunk.Segments {
		text := strings.ReplaceAll(seg.Text, "\n", " ")
		lines = append(lines, fmt.Sprintf("%d: [es] %s", seg.Sequence, text))
	}
	return strings.Join(lines, "\n"), nil
}

// dropLastReply answers like echoReply but omits the chunk's last segment.
func dropLastReply(req Request, _ int) (string, error) {
	segs := req.Chunk.Segments
	trimmed := req
	trimmed.Chunk.Segments = segs[:len(segs)-1]
	return echoReply(trimmed, 0)
}

func makeSRT(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		startMS := i * 1500
		endMS := startMS + 1000
		fmt.Fprintf(&sb, "%d\n%s --> %s\nLine %d\n\n", i+1, formatMillis(startMS), formatMillis(endMS), i+1)
	}
	return sb.String()
}

func formatMillis(ms int) string {
	h := ms / 3600000
	m := ms % 3600000 / 60000
	s := ms % 60000 / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000)
}

func newTestService(t *testing.T, backend Backend, cfg Config, opts ...Option) *Service {
	t.Helper()
	if cfg.TargetLang == "" {
		cfg.TargetLang = "Spanish"
	}
	if cfg.SourceLang == "" {
		cfg.SourceLang = "English"
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 10 * time.Millisecond
	}
	opts = append(opts, WithSleeper(func(time.Duration) {}))
	svc, err := NewService(backend, cfg, opts...)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc
}

func TestTranslateFileSingleChunk(t *testing.T) {
	backend := newScriptedBackend(echoReply)
	svc := newTestService(t, backend, Config{})

	var updates []Progress
	out, err := svc.TranslateFile(context.Background(), makeSRT(3), func(p Progress) {
		updates = append(updates, p)
	})
	if err != nil {
		t.Fatalf("TranslateFile failed: %v", err)
	}

	segments := subtitles.Parse(out)
	if len(segments) != 3 {
		t.Fatalf("expected 3 translated segments, got %d", len(segments))
	}
	for i, seg := range segments {
		if seg.Sequence != i+1 {
			t.Fatalf("expected sequence %d, got %d", i+1, seg.Sequence)
		}
		if want := fmt.Sprintf("[es] Line %d", i+1); seg.Text != want {
			t.Fatalf("expected %q, got %q", want, seg.Text)
		}
		if seg.Start == "" || seg.End == "" {
			t.Fatalf("expected timing preserved, got %#v", seg)
		}
	}

	if len(updates) == 0 {
		t.Fatal("expected progress updates")
	}
	last := updates[len(updates)-1]
	if last.Completed != 3 || last.Total != 3 || last.Percentage != 100 {
		t.Fatalf("expected final 3/3 100%%, got %+v", last)
	}
}

func TestTranslateFileEmptyInput(t *testing.T) {
	backend := newScriptedBackend(echoReply)
	svc := newTestService(t, backend, Config{})

	var updates []Progress
	out, err := svc.TranslateFile(context.Background(), "\n\n", func(p Progress) {
		updates = append(updates, p)
	})
	if err != nil {
		t.Fatalf("TranslateFile failed: %v", err)
	}
	if out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
	if backend.attempts(0) != 0 {
		t.Fatal("expected no backend calls for empty input")
	}
	if len(updates) != 1 || updates[0].Percentage != 100 || updates[0].Total != 0 {
		t.Fatalf("expected single final 100%% update, got %v", updates)
	}
}

func TestTranslateFileRunsChunksConcurrently(t *testing.T) {
	backend := newScriptedBackend(echoReply)
	backend.delay = 30 * time.Millisecond
	svc := newTestService(t, backend, Config{MaxChunkSize: 20})

	out, err := svc.TranslateFile(context.Background(), makeSRT(60), nil)
	if err != nil {
		t.Fatalf("TranslateFile failed: %v", err)
	}
	if got := subtitles.CountSegments(out); got != 60 {
		t.Fatalf("expected 60 segments, got %d", got)
	}

	backend.mu.Lock()
	peak := backend.peak
	backend.mu.Unlock()
	if peak != 3 {
		t.Fatalf("expected all 3 chunks in flight together, got peak %d", peak)
	}
}

func TestTranslateFileOrdersResultsBySequence(t *testing.T) {
	// Reply lines arrive in reverse order; reassembly must still be sorted.
	backend := newScriptedBackend(func(req Request, _ int) (string, error) {
		segs := req.Chunk.Segments
		lines := make([]string, 0, len(segs))
		for i := len(segs) - 1; i >= 0; i-- {
			lines = append(lines, fmt.Sprintf("%d: [es] %s", segs[i].Sequence, segs[i].Text))
		}
		return strings.Join(lines, "\n"), nil
	})
	svc := newTestService(t, backend, Config{MaxChunkSize: 10})

	out, err := svc.TranslateFile(context.Background(), makeSRT(25), nil)
	if err != nil {
		t.Fatalf("TranslateFile failed: %v", err)
	}
	segments := subtitles.Parse(out)
	if len(segments) != 25 {
		t.Fatalf("expected 25 segments, got %d", len(segments))
	}
	for i, seg := range segments {
		if seg.Sequence != i+1 {
			t.Fatalf("expected ordered sequence at %d, got %d", i, seg.Sequence)
		}
	}
}

func TestChunkRetryAfterValidationFailure(t *testing.T) {
	backend := newScriptedBackend(func(req Request, attempt int) (string, error) {
		if attempt < 3 {
			return dropLastReply(req, attempt)
		}
		return echoReply(req, attempt)
	})

	var slept []time.Duration
	svc, err := NewService(backend, Config{
		SourceLang: "English",
		TargetLang: "Spanish",
		RetryDelay: 10 * time.Millisecond,
	}, WithSleeper(func(d time.Duration) { slept = append(slept, d) }))
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	out, err := svc.TranslateFile(context.Background(), makeSRT(5), nil)
	if err != nil {
		t.Fatalf("TranslateFile failed: %v", err)
	}
	if got := subtitles.CountSegments(out); got != 5 {
		t.Fatalf("expected 5 segments, got %d", got)
	}
	if got := backend.attempts(0); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
	want := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}
	if len(slept) != len(want) || slept[0] != want[0] || slept[1] != want[1] {
		t.Fatalf("expected linear delays %v, got %v", want, slept)
	}
}

func TestChunkRetriesExhaustedNamesChunk(t *testing.T) {
	backend := newScriptedBackend(func(req Request, attempt int) (string, error) {
		if req.Chunk.Index == 1 {
			return dropLastReply(req, attempt)
		}
		return echoReply(req, attempt)
	})
	svc := newTestService(t, backend, Config{MaxChunkSize: 20})

	_, err := svc.TranslateFile(context.Background(), makeSRT(40), nil)
	if err == nil {
		t.Fatal("expected terminal error")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "chunk 2/2") {
		t.Fatalf("expected chunk position in error, got %q", msg)
	}
	if !strings.Contains(msg, "giving up after 3 attempts") {
		t.Fatalf("expected attempt count in error, got %q", msg)
	}
	if got := backend.attempts(1); got != 3 {
		t.Fatalf("expected 3 attempts on failing chunk, got %d", got)
	}
}

func TestBackendErrorPropagatesWithoutRetry(t *testing.T) {
	backendErr := errors.New("connection refused")
	backend := newScriptedBackend(func(req Request, attempt int) (string, error) {
		return "", backendErr
	})
	svc := newTestService(t, backend, Config{})

	_, err := svc.TranslateFile(context.Background(), makeSRT(5), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected external service marker, got %v", err)
	}
	if !errors.Is(err, backendErr) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
	if got := backend.attempts(0); got != 1 {
		t.Fatalf("expected single attempt, got %d", got)
	}
}

func TestWireFormatReplyAccepted(t *testing.T) {
	backend := newScriptedBackend(func(req Request, _ int) (string, error) {
		blocks := make([]subtitles.Segment, len(req.Chunk.Segments))
		copy(blocks, req.Chunk.Segments)
		for i := range blocks {
			blocks[i].Text = "[es] " + blocks[i].Text
		}
		return subtitles.EncodeWire(blocks), nil
	})
	svc := newTestService(t, backend, Config{})

	out, err := svc.TranslateFile(context.Background(), makeSRT(4), nil)
	if err != nil {
		t.Fatalf("TranslateFile failed: %v", err)
	}
	segments := subtitles.Parse(out)
	if len(segments) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(segments))
	}
	if segments[0].Text != "[es] Line 1" {
		t.Fatalf("unexpected text %q", segments[0].Text)
	}
}

func TestProgressMonotonicWithConcurrentChunks(t *testing.T) {
	backend := newScriptedBackend(echoReply)
	backend.delay = 5 * time.Millisecond
	svc := newTestService(t, backend, Config{MaxChunkSize: 10})

	var mu sync.Mutex
	var updates []Progress
	_, err := svc.TranslateFile(context.Background(), makeSRT(60), func(p Progress) {
		mu.Lock()
		updates = append(updates, p)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("TranslateFile failed: %v", err)
	}

	if len(updates) != 6 {
		t.Fatalf("expected 6 updates for 6 chunks, got %d", len(updates))
	}
	for i := 1; i < len(updates); i++ {
		if updates[i].Completed < updates[i-1].Completed {
			t.Fatalf("completed went backwards: %+v", updates)
		}
		if updates[i].Percentage < updates[i-1].Percentage {
			t.Fatalf("percentage went backwards: %+v", updates)
		}
	}
	last := updates[len(updates)-1]
	if last.Completed != 60 || last.Total != 60 || last.Percentage != 100 {
		t.Fatalf("expected final 60/60 100%%, got %+v", last)
	}
}

func TestTranslateEntries(t *testing.T) {
	backend := newScriptedBackend(echoReply)
	svc := newTestService(t, backend, Config{})

	entries := []subtitles.Entry{
		{Number: 5, Text: "Hello."},
		{Number: 10, Text: "World."},
	}
	translated, err := svc.Translate(context.Background(), entries, nil)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if len(translated) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(translated))
	}
	if translated[0].Number != 5 || translated[0].Text != "[es] Hello." {
		t.Fatalf("unexpected entry %#v", translated[0])
	}
	if translated[1].Number != 10 || translated[1].Text != "[es] World." {
		t.Fatalf("unexpected entry %#v", translated[1])
	}
}

type recordingJournal struct {
	mu        sync.Mutex
	requests  []requestlog.Request
	responses []requestlog.Response
	fail      bool
}

func (j *recordingJournal) RecordRequest(_ context.Context, req requestlog.Request) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.fail {
		return errors.New("journal unavailable")
	}
	j.requests = append(j.requests, req)
	return nil
}

func (j *recordingJournal) RecordResponse(_ context.Context, resp requestlog.Response) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.fail {
		return errors.New("journal unavailable")
	}
	j.responses = append(j.responses, resp)
	return nil
}

func TestJournalRecordsAttempts(t *testing.T) {
	backend := newScriptedBackend(func(req Request, attempt int) (string, error) {
		if attempt == 1 {
			return dropLastReply(req, attempt)
		}
		return echoReply(req, attempt)
	})
	journal := &recordingJournal{}
	svc := newTestService(t, backend, Config{}, WithJournal(journal))

	if _, err := svc.TranslateFile(context.Background(), makeSRT(3), nil); err != nil {
		t.Fatalf("TranslateFile failed: %v", err)
	}

	journal.mu.Lock()
	defer journal.mu.Unlock()
	if len(journal.requests) != 2 {
		t.Fatalf("expected 2 journaled requests, got %d", len(journal.requests))
	}
	if journal.requests[0].Attempt != 1 || journal.requests[1].Attempt != 2 {
		t.Fatalf("expected attempts 1 and 2, got %#v", journal.requests)
	}
	first := journal.requests[0]
	if first.ID == "" || first.Backend != "scripted" || first.Model != "test-model" {
		t.Fatalf("unexpected request record %#v", first)
	}
	if first.SegmentCount != 3 || first.ChunkTotal != 1 {
		t.Fatalf("unexpected chunk metadata %#v", first)
	}
	if len(journal.responses) != 2 {
		t.Fatalf("expected 2 journaled responses, got %d", len(journal.responses))
	}
	if journal.responses[0].Status != "validation" || journal.responses[0].Detail == "" {
		t.Fatalf("expected first response to record the rejection, got %#v", journal.responses[0])
	}
	if journal.responses[1].Status != "ok" {
		t.Fatalf("expected second response ok, got %#v", journal.responses[1])
	}
	if journal.responses[0].RequestID != journal.requests[0].ID {
		t.Fatal("expected response to reference its request")
	}
}

func TestJournalFailuresDoNotAbortTranslation(t *testing.T) {
	backend := newScriptedBackend(echoReply)
	journal := &recordingJournal{fail: true}
	svc := newTestService(t, backend, Config{}, WithJournal(journal))

	out, err := svc.TranslateFile(context.Background(), makeSRT(3), nil)
	if err != nil {
		t.Fatalf("expected journal failures to be swallowed, got %v", err)
	}
	if subtitles.CountSegments(out) != 3 {
		t.Fatalf("expected full translation despite journal failure")
	}
}

func TestNewServiceValidation(t *testing.T) {
	if _, err := NewService(nil, Config{TargetLang: "Spanish"}); err == nil {
		t.Fatal("expected error for nil backend")
	}
	if _, err := NewService(newScriptedBackend(echoReply), Config{}); err == nil {
		t.Fatal("expected error for missing target language")
	}

	svc, err := NewService(newScriptedBackend(echoReply), Config{TargetLang: "Spanish"})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	if svc.cfg.MaxAttempts != DefaultMaxAttempts {
		t.Fatalf("expected default attempts, got %d", svc.cfg.MaxAttempts)
	}
	if svc.cfg.RetryDelay != DefaultRetryDelay {
		t.Fatalf("expected default retry delay, got %v", svc.cfg.RetryDelay)
	}
	if svc.cfg.SourceLang == "" {
		t.Fatal("expected source language fallback")
	}
}
