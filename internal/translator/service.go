package translator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"shuttle/internal/chunking"
	"shuttle/internal/logging"
	"shuttle/internal/requestlog"
	"shuttle/internal/services"
	"shuttle/internal/subtitles"
	"shuttle/internal/validation"
)

const (
	// DefaultMaxAttempts is how often a chunk is re-sent when its reply
	// fails validation.
	DefaultMaxAttempts = 3
	// DefaultRetryDelay is the base delay between validation retries. The
	// actual delay grows linearly: base, 2*base, 3*base, ...
	DefaultRetryDelay = 1000 * time.Millisecond
)

// Config carries the translation run parameters.
type Config struct {
	SourceLang string
	TargetLang string

	// Chunk planning. Zero values select the planner defaults, except
	// ContextSize where zero disables context and negative selects the
	// default.
	MaxChunkSize         int
	ContextSize          int
	BreakThresholdMillis int

	// Validation retry policy.
	MaxAttempts int
	RetryDelay  time.Duration
}

// Journal records request/response pairs for later inspection. Write
// failures are logged and never interrupt translation.
type Journal interface {
	RecordRequest(ctx context.Context, req requestlog.Request) error
	RecordResponse(ctx context.Context, resp requestlog.Response) error
}

// Service translates subtitle files through a Backend.
type Service struct {
	backend Backend
	cfg     Config
	prompts PromptBuilder
	logger  *slog.Logger
	journal Journal
	sleeper func(time.Duration)
}

// Option customizes the service.
type Option func(*Service)

// WithLogger attaches a logger. A nil logger keeps the no-op default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logging.NewComponentLogger(logger, "translator")
		}
	}
}

// WithJournal attaches a request journal.
func WithJournal(journal Journal) Option {
	return func(s *Service) {
		s.journal = journal
	}
}

// WithSleeper overrides how retry delays are slept (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(s *Service) {
		s.sleeper = sleeper
	}
}

// NewService constructs a translation service.
func NewService(backend Backend, cfg Config, opts ...Option) (*Service, error) {
	if backend == nil {
		return nil, errors.New("translator: backend required")
	}
	if strings.TrimSpace(cfg.TargetLang) == "" {
		return nil, errors.New("translator: target language required")
	}
	if strings.TrimSpace(cfg.SourceLang) == "" {
		cfg.SourceLang = "the original language"
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}

	svc := &Service{
		backend: backend,
		cfg:     cfg,
		prompts: PromptBuilder{Source: cfg.SourceLang, Target: cfg.TargetLang},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// TranslateFile translates a complete SRT document and returns the rendered
// translation. Malformed source blocks are dropped during parsing; the
// translated file covers exactly the segments that parsed.
func (s *Service) TranslateFile(ctx context.Context, content string, onProgress ProgressFunc) (string, error) {
	segments := subtitles.Parse(content)
	entries, err := s.translateSegments(ctx, segments, onProgress)
	if err != nil {
		return "", err
	}
	if len(segments) == 0 {
		return "", nil
	}
	if err := validation.ValidateFile(segments, entries); err != nil {
		return "", services.Wrap(services.ErrValidation, "translate", "file", "translated set does not match source", err)
	}
	out, err := subtitles.Reconstruct(segments, entries)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "translate", "file", "reassemble subtitles", err)
	}
	return out, nil
}

// Translate translates standalone entries, for callers that already hold
// extracted subtitle text rather than a full SRT document.
func (s *Service) Translate(ctx context.Context, entries []subtitles.Entry, onProgress ProgressFunc) ([]subtitles.Entry, error) {
	return s.translateSegments(ctx, subtitles.SegmentsFromEntries(entries), onProgress)
}

func (s *Service) translateSegments(ctx context.Context, segments []subtitles.Segment, onProgress ProgressFunc) ([]subtitles.Entry, error) {
	chunks := chunking.Plan(segments, chunking.Options{
		MaxChunkSize:         s.cfg.MaxChunkSize,
		ContextSize:          s.cfg.ContextSize,
		BreakThresholdMillis: s.cfg.BreakThresholdMillis,
	})
	tracker := newProgressTracker(len(segments), onProgress)

	logger := logging.WithContext(ctx, s.logger)
	logger.Info("translation started",
		logging.Int(logging.FieldSegments, len(segments)),
		logging.Int(logging.FieldChunkTotal, len(chunks)),
		logging.String(logging.FieldSourceLang, s.cfg.SourceLang),
		logging.String(logging.FieldTargetLang, s.cfg.TargetLang),
		logging.String(logging.FieldBackend, s.backend.Name()),
		logging.String(logging.FieldModel, s.backend.Model()),
	)

	results := make([][]subtitles.Entry, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			entries, err := s.translateChunk(gctx, chunk)
			if err != nil {
				return err
			}
			results[i] = entries
			tracker.step(len(chunk.Segments))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	tracker.finish()

	// Flatten in chunk-index order, then sort by segment number so the
	// final ordering depends on neither completion order nor chunk order.
	merged := make([]subtitles.Entry, 0, len(segments))
	for _, chunkEntries := range results {
		merged = append(merged, chunkEntries...)
	}
	sort.Slice(merged, func(a, b int) bool { return merged[a].Number < merged[b].Number })

	logger.Info("translation complete",
		logging.Int(logging.FieldSegments, len(merged)),
		logging.Int(logging.FieldChunkTotal, len(chunks)),
	)
	return merged, nil
}

// translateChunk sends one chunk and gates the reply through validation.
// Rejected replies are re-sent with a linearly growing delay; any other
// failure aborts the whole run.
func (s *Service) translateChunk(ctx context.Context, chunk chunking.Chunk) ([]subtitles.Entry, error) {
	req := Request{System: s.prompts.System(), User: s.prompts.User(chunk), Chunk: chunk}
	logger := logging.WithContext(ctx, s.logger)

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		entries, err := s.attemptChunk(ctx, chunk, req, attempt)
		if err == nil {
			if attempt > 1 {
				logger.Info("chunk recovered",
					logging.Int(logging.FieldChunk, chunk.Index),
					logging.Int(logging.FieldAttempt, attempt),
				)
			}
			return entries, nil
		}
		if !errors.Is(err, services.ErrValidation) {
			return nil, err
		}
		lastErr = err
		if attempt == s.cfg.MaxAttempts {
			break
		}
		delay := s.cfg.RetryDelay * time.Duration(attempt)
		logging.WarnWithContext(logger, "chunk reply rejected, retrying", "translation_retry",
			logging.Int(logging.FieldChunk, chunk.Index),
			logging.Int(logging.FieldChunkTotal, chunk.Total),
			logging.Int(logging.FieldAttempt, attempt),
			logging.Duration("retry_delay", delay),
			logging.Error(err),
			logging.String(logging.FieldImpact, "chunk re-sent to backend"),
		)
		if err := s.wait(ctx, delay); err != nil {
			return nil, err
		}
	}
	return nil, services.Wrap(services.ErrValidation, "translate", "chunk "+chunk.Label(),
		fmt.Sprintf("giving up after %d attempts", s.cfg.MaxAttempts), lastErr)
}

func (s *Service) attemptChunk(ctx context.Context, chunk chunking.Chunk, req Request, attempt int) ([]subtitles.Entry, error) {
	requestID := uuid.NewString()
	ctx = services.WithRequestID(ctx, requestID)
	logger := logging.WithContext(ctx, s.logger)

	s.journalRequest(ctx, requestID, chunk, req, attempt)

	started := time.Now()
	reply, err := s.backend.Translate(ctx, req)
	duration := time.Since(started)
	if err != nil {
		err = services.Wrap(services.ErrExternalService, "translate", "chunk "+chunk.Label(), "backend call failed", err)
		s.journalResponse(ctx, requestID, duration, 0, err)
		return nil, err
	}

	entries := subtitles.DecodeWire(reply)
	if len(entries) == 0 {
		entries = subtitles.ParseReply(reply)
	}

	if err := validation.ValidateChunk(chunk, entries); err != nil {
		report := validation.Analyze(validation.SegmentNumbers(chunk.Segments), validation.EntryNumbers(entries))
		for _, insight := range report.Insights {
			logger.Warn("reply analysis",
				logging.Int(logging.FieldChunk, chunk.Index),
				logging.Int(logging.FieldAttempt, attempt),
				logging.String("insight", insight),
			)
		}
		err = services.Wrap(services.ErrValidation, "translate", "chunk "+chunk.Label(),
			fmt.Sprintf("attempt %d rejected", attempt), err)
		s.journalResponse(ctx, requestID, duration, len(reply), err)
		return nil, err
	}

	s.journalResponse(ctx, requestID, duration, len(reply), nil)
	logger.Debug("chunk translated",
		logging.Int(logging.FieldChunk, chunk.Index),
		logging.Int(logging.FieldSegments, len(entries)),
		logging.Duration("duration", duration),
	)
	return entries, nil
}

func (s *Service) journalRequest(ctx context.Context, requestID string, chunk chunking.Chunk, req Request, attempt int) {
	if s.journal == nil {
		return
	}
	rec := requestlog.Request{
		ID:           requestID,
		Backend:      s.backend.Name(),
		Model:        s.backend.Model(),
		SourceLang:   s.cfg.SourceLang,
		TargetLang:   s.cfg.TargetLang,
		ChunkIndex:   chunk.Index,
		ChunkTotal:   chunk.Total,
		SegmentCount: len(chunk.Segments),
		ContextCount: len(chunk.Context),
		Attempt:      attempt,
		PromptChars:  len(req.System) + len(req.User),
	}
	if err := s.journal.RecordRequest(ctx, rec); err != nil {
		logging.WarnWithContext(s.logger, "journal request write failed", "journal_error",
			logging.String(logging.FieldCorrelationID, requestID),
			logging.Error(err),
			logging.String(logging.FieldImpact, "request not recorded, translation continues"),
		)
	}
}

func (s *Service) journalResponse(ctx context.Context, requestID string, duration time.Duration, replyChars int, cause error) {
	if s.journal == nil {
		return
	}
	rec := requestlog.Response{
		RequestID:  requestID,
		Status:     string(services.Classify(cause)),
		ReplyChars: replyChars,
		Duration:   duration,
	}
	if cause != nil {
		rec.Detail = cause.Error()
	}
	if err := s.journal.RecordResponse(ctx, rec); err != nil {
		logging.WarnWithContext(s.logger, "journal response write failed", "journal_error",
			logging.String(logging.FieldCorrelationID, requestID),
			logging.Error(err),
			logging.String(logging.FieldImpact, "response not recorded, translation continues"),
		)
	}
}

func (s *Service) wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	if s.sleeper != nil {
		s.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
