package wildberries

import (
	"context"
	"sync"
	"time"
)

// Limiter grants at most limit calls per rolling window, shared by every
// caller of the supplies API for one credential. It never fails: callers
// either get a grant or wait, except when their context ends first.
type Limiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	grants []time.Time

	now func() time.Time
}

func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Acquire blocks until issuing one more call keeps the rolling window
// under the quota. Grants are serialized, so concurrent callers cannot
// collectively exceed it.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		wait, ok := l.tryAcquire()
		if ok {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *Limiter) tryAcquire() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.grants[:0]
	for _, g := range l.grants {
		if g.After(cutoff) {
			kept = append(kept, g)
		}
	}
	l.grants = kept

	if len(l.grants) < l.limit {
		l.grants = append(l.grants, now)
		return 0, true
	}

	return l.grants[0].Add(l.window).Sub(now), false
}
