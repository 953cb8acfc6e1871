package limiter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mybriefings/briefings/pkg/domain"
)

// History is the call-history store the limiter counts against. The quota is
// derived from recorded calls in the trailing window rather than a separate
// counter, so the limiter carries no state across restarts.
type History interface {
	CountSince(ctx context.Context, source string, since time.Time) (int, error)
	Record(ctx context.Context, rec *domain.CallRecord) error
}

// RateLimiter enforces a per-minute call quota per source and appends every
// call, allowed or not, to the audit history.
type RateLimiter struct {
	history History
	window  time.Duration
	now     func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a rate limiter over the given call history
func New(history History) *RateLimiter {
	return &RateLimiter{
		history: history,
		window:  time.Minute,
		now:     time.Now,
		locks:   map[string]*sync.Mutex{},
	}
}

// sourceLock returns the mutex guarding one source's check-and-record
func (l *RateLimiter) sourceLock(source string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[source]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[source] = lock
	}
	return lock
}

// CanCall reports whether fewer than limit calls were recorded for the source
// in the trailing window
func (l *RateLimiter) CanCall(ctx context.Context, source string, limit int) (bool, error) {
	count, err := l.history.CountSince(ctx, source, l.now().Add(-l.window))
	if err != nil {
		return false, fmt.Errorf("count calls for %s: %w", source, err)
	}
	return count < limit, nil
}

// Do runs one provider call under the source's quota. The per-source lock is
// held from the quota check through recording the outcome, so two concurrent
// jobs cannot both pass the check and collectively exceed the limit. When the
// quota is exhausted the call is skipped and a rate_limited row is recorded;
// skipped calls do not count against the quota themselves.
func (l *RateLimiter) Do(ctx context.Context, source string, limit int, call func(ctx context.Context) *domain.CallRecord) (*domain.CallRecord, error) {
	lock := l.sourceLock(source)
	lock.Lock()
	defer lock.Unlock()

	ok, err := l.CanCall(ctx, source, limit)
	if err != nil {
		return nil, err
	}

	var rec *domain.CallRecord
	if !ok {
		rec = &domain.CallRecord{
			Source:    source,
			Timestamp: l.now().UTC(),
			Outcome:   domain.OutcomeRateLimited,
		}
	} else {
		rec = call(ctx)
		rec.Source = source
		if rec.Timestamp.IsZero() {
			rec.Timestamp = l.now().UTC()
		}
	}

	if err := l.history.Record(ctx, rec); err != nil {
		return nil, fmt.Errorf("record call for %s: %w", source, err)
	}
	return rec, nil
}

// Record appends an audit row outside the quota path, used for calls that
// never reached the provider such as cache hits
func (l *RateLimiter) Record(ctx context.Context, source string, rec *domain.CallRecord) error {
	rec.Source = source
	if rec.Timestamp.IsZero() {
		rec.Timestamp = l.now().UTC()
	}
	if err := l.history.Record(ctx, rec); err != nil {
		return fmt.Errorf("record call for %s: %w", source, err)
	}
	return nil
}
