package translator

import "sync"

// Progress reports how many segments a translation run has completed.
type Progress struct {
	Completed  int
	Total      int
	Percentage int
}

// ProgressFunc receives progress updates. Updates arrive in order: counts
// and percentage never decrease, and the final update always reads 100%.
type ProgressFunc func(Progress)

// progressTracker serializes progress updates from concurrent chunk workers.
// The callback runs under the lock so observers never see updates out of
// order.
type progressTracker struct {
	mu        sync.Mutex
	completed int
	total     int
	emit      ProgressFunc
	announced bool
}

func newProgressTracker(total int, emit ProgressFunc) *progressTracker {
	return &progressTracker{total: total, emit: emit}
}

// step advances the counter by the number of segments a resolved chunk
// carried and emits one update.
func (t *progressTracker) step(segments int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.completed += segments
	t.emitLocked()
}

// finish guarantees the final 100% update for runs that never stepped, such
// as an empty input file.
func (t *progressTracker) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.announced {
		return
	}
	t.emitLocked()
}

func (t *progressTracker) emitLocked() {
	update := Progress{Completed: t.completed, Total: t.total, Percentage: 100}
	if t.total > 0 {
		update.Percentage = t.completed * 100 / t.total
	}
	if update.Percentage >= 100 {
		t.announced = true
	}
	if t.emit != nil {
		t.emit(update)
	}
}
