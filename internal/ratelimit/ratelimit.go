// Package ratelimit tracks outbound request budgets per registry source and
// inbound call quotas per caller. Source limits use a sliding window over
// recorded request times; caller quotas use a fixed UTC-day window. Both are
// enforced with deny decisions rather than blocking.
package ratelimit

import (
	"sync"
	"time"
)

// Decision is the outcome of an admission check.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// SourceLimiter enforces a sliding-window request budget per source.
// Authenticated sources get a higher budget over the same window.
type SourceLimiter struct {
	mu       sync.Mutex
	window   time.Duration
	limit    int
	authed   int
	requests map[string][]time.Time
	now      func() time.Time
}

// NewSourceLimiter creates a limiter admitting limit requests per window for
// anonymous sources and authedLimit for authenticated ones.
func NewSourceLimiter(limit, authedLimit int, window time.Duration) *SourceLimiter {
	return &SourceLimiter{
		window:   window,
		limit:    limit,
		authed:   authedLimit,
		requests: make(map[string][]time.Time),
		now:      time.Now,
	}
}

// Acquire attempts to claim one request slot for source. On denial the
// decision carries how long until the oldest in-window request ages out.
func (l *SourceLimiter) Acquire(source string, authenticated bool) Decision {
	limit := l.limit
	if authenticated {
		limit = l.authed
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	kept := l.requests[source][:0]
	for _, t := range l.requests[source] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.requests[source] = kept

	if len(kept) >= limit {
		return Decision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: kept[0].Sub(cutoff),
		}
	}

	l.requests[source] = append(kept, now)
	return Decision{Allowed: true, Remaining: limit - len(l.requests[source])}
}

// Entitlements resolves the per-day call quota for a caller. A nil
// Entitlements or a non-positive result falls back to the default quota.
type Entitlements interface {
	DailyQuota(caller string) int
}

// CallerQuota enforces a fixed-window daily quota per caller. The window
// resets at UTC midnight.
type CallerQuota struct {
	mu           sync.Mutex
	defaultLimit int
	entitlements Entitlements
	counts       map[string]int
	day          string
	now          func() time.Time
}

// NewCallerQuota creates a quota tracker with the given default daily limit.
// entitlements may be nil.
func NewCallerQuota(defaultLimit int, entitlements Entitlements) *CallerQuota {
	return &CallerQuota{
		defaultLimit: defaultLimit,
		entitlements: entitlements,
		counts:       make(map[string]int),
		now:          time.Now,
	}
}

// Claim atomically increments the caller's count and checks it against the
// quota. Counting before checking keeps concurrent callers from slipping past
// the limit together; a denied claim is not counted against the caller.
func (q *CallerQuota) Claim(caller string) Decision {
	limit := q.defaultLimit
	if q.entitlements != nil {
		if custom := q.entitlements.DailyQuota(caller); custom > 0 {
			limit = custom
		}
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now().UTC()
	day := now.Format("2006-01-02")
	if day != q.day {
		q.counts = make(map[string]int)
		q.day = day
	}

	next := q.counts[caller] + 1
	if next > limit {
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
		return Decision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: midnight.Sub(now),
		}
	}

	q.counts[caller] = next
	return Decision{Allowed: true, Remaining: limit - next}
}

// Limit returns the daily limit that applies to the caller.
func (q *CallerQuota) Limit(caller string) int {
	if q.entitlements != nil {
		if custom := q.entitlements.DailyQuota(caller); custom > 0 {
			return custom
		}
	}
	return q.defaultLimit
}

// Used returns the caller's count for the current UTC day.
func (q *CallerQuota) Used(caller string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.now().UTC().Format("2006-01-02") != q.day {
		return 0
	}
	return q.counts[caller]
}
