// Package chunking partitions subtitle segments into bounded, context-aware
// batches for translation. Boundaries are biased toward natural breaks
// (long silent gaps between cues) so chunks do not split mid-dialogue.
package chunking

import (
	"fmt"

	"shuttle/internal/subtitles"
)

const (
	// DefaultMaxChunkSize bounds how many segments one backend request may
	// carry.
	DefaultMaxChunkSize = 25
	// DefaultContextSize is how many already-translated preceding segments
	// accompany a chunk for linguistic context.
	DefaultContextSize = 3
	// DefaultBreakThresholdMillis is the inter-cue gap treated as a scene
	// or pause boundary.
	DefaultBreakThresholdMillis = 3000
)

// breakWindowShare is the tail portion of a tentative chunk inside which a
// natural break may move the boundary.
const breakWindowShare = 0.7

// Chunk is one translation batch. Segments are the units to translate;
// Context is a read-only suffix of the immediately preceding segments,
// never repeated inside Segments. Index is zero-based; Total is stamped
// once the full plan is known.
type Chunk struct {
	Context  []subtitles.Segment
	Segments []subtitles.Segment
	Index    int
	Total    int
}

// Label renders the chunk position for logs and errors, one-based.
func (c Chunk) Label() string {
	return fmt.Sprintf("%d/%d", c.Index+1, c.Total)
}

// Options tune the planner. Zero or negative values fall back to the
// defaults above, except ContextSize where zero disables context.
type Options struct {
	MaxChunkSize         int
	ContextSize          int
	BreakThresholdMillis int
}

func (o Options) withDefaults() Options {
	if o.MaxChunkSize <= 0 {
		o.MaxChunkSize = DefaultMaxChunkSize
	}
	if o.ContextSize < 0 {
		o.ContextSize = DefaultContextSize
	}
	if o.BreakThresholdMillis <= 0 {
		o.BreakThresholdMillis = DefaultBreakThresholdMillis
	}
	return o
}

// Plan splits segments into chunks. The ordered union of all chunk
// Segments always equals the input exactly, and no chunk exceeds
// MaxChunkSize. A list that fits in one chunk is returned as a single
// chunk with no context.
func Plan(segments []subtitles.Segment, opts Options) []Chunk {
	opts = opts.withDefaults()
	n := len(segments)
	if n == 0 {
		return nil
	}
	if n <= opts.MaxChunkSize {
		return []Chunk{{Segments: segments, Index: 0, Total: 1}}
	}

	var chunks []Chunk
	for start := 0; start < n; {
		end := start + opts.MaxChunkSize
		if end > n {
			end = n
		}
		if end < n {
			if cut := naturalCut(segments, start, end, opts.BreakThresholdMillis); cut > 0 {
				end = cut
			}
		}
		chunk := Chunk{Segments: segments[start:end]}
		if start > 0 && opts.ContextSize > 0 {
			ctxStart := start - opts.ContextSize
			if ctxStart < 0 {
				ctxStart = 0
			}
			chunk.Context = segments[ctxStart:start]
		}
		chunks = append(chunks, chunk)
		start = end
	}

	total := len(chunks)
	for i := range chunks {
		chunks[i].Index = i
		chunks[i].Total = total
	}
	return chunks
}

// naturalCut returns the latest boundary inside the tail window of the
// tentative chunk [start:end) where the gap to the next cue exceeds the
// threshold, or 0 when no qualifying break exists.
func naturalCut(segments []subtitles.Segment, start, end, threshold int) int {
	size := end - start
	for i := end - 2; i >= start; i-- {
		kept := i - start + 1
		if float64(kept) <= breakWindowShare*float64(size) {
			break
		}
		if segments[i+1].StartMillis()-segments[i].EndMillis() > threshold {
			return i + 1
		}
	}
	return 0
}
