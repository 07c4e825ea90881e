package opensubtitles

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// rateTracker follows the Ratelimit-Remaining / Ratelimit-Reset headers the
// API returns on every response. Once the quota is exhausted, further calls
// are refused locally until the reset time instead of burning 429 responses.
type rateTracker struct {
	mu        sync.Mutex
	remaining int
	resetAt   time.Time
	seen      bool

	// now is stubbed in tests.
	now func() time.Time
}

func (t *rateTracker) clock() time.Time {
	if t.now != nil {
		return t.now()
	}
	return time.Now()
}

// check returns an error while the quota is known to be exhausted.
func (t *rateTracker) check() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.seen || t.remaining > 0 {
		return nil
	}
	now := t.clock()
	if now.Before(t.resetAt) {
		wait := t.resetAt.Sub(now).Round(time.Second)
		return fmt.Errorf("opensubtitles: rate limit exhausted, retry in %s", wait)
	}
	// Reset time passed; assume the quota refilled.
	t.seen = false
	return nil
}

// observe records the quota headers from a response. Responses without the
// headers leave the tracker untouched.
func (t *rateTracker) observe(resp *http.Response) {
	if resp == nil {
		return
	}
	remaining, ok := headerInt(resp.Header, "Ratelimit-Remaining", "X-Ratelimit-Remaining")
	if !ok {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remaining = remaining
	t.seen = true
	if seconds, ok := headerInt(resp.Header, "Ratelimit-Reset", "X-Ratelimit-Reset"); ok && seconds > 0 {
		t.resetAt = t.clock().Add(time.Duration(seconds) * time.Second)
	} else if t.resetAt.IsZero() {
		t.resetAt = t.clock().Add(time.Second)
	}
}

func headerInt(header http.Header, keys ...string) (int, bool) {
	for _, key := range keys {
		value := header.Get(key)
		if value == "" {
			continue
		}
		parsed, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		return parsed, true
	}
	return 0, false
}
