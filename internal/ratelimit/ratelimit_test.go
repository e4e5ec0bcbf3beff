package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceLimiterAdmitsUpToLimit(t *testing.T) {
	l := NewSourceLimiter(3, 10, time.Hour)

	for i := 0; i < 3; i++ {
		d := l.Acquire("huggingface", false)
		require.True(t, d.Allowed, "request %d should be admitted", i)
	}

	d := l.Acquire("huggingface", false)
	assert.False(t, d.Allowed)
	assert.Positive(t, d.RetryAfter)
	assert.Zero(t, d.Remaining)
}

func TestSourceLimiterAuthenticatedBudget(t *testing.T) {
	l := NewSourceLimiter(1, 3, time.Hour)

	require.True(t, l.Acquire("ollama", true).Allowed)
	require.True(t, l.Acquire("ollama", true).Allowed)
	require.True(t, l.Acquire("ollama", true).Allowed)
	assert.False(t, l.Acquire("ollama", true).Allowed)
}

func TestSourceLimiterIsolatesSources(t *testing.T) {
	l := NewSourceLimiter(1, 1, time.Hour)

	require.True(t, l.Acquire("huggingface", false).Allowed)
	assert.True(t, l.Acquire("ollama", false).Allowed, "other source has its own budget")
}

func TestSourceLimiterWindowSlides(t *testing.T) {
	l := NewSourceLimiter(1, 1, time.Hour)
	base := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	now := base
	l.now = func() time.Time { return now }

	require.True(t, l.Acquire("huggingface", false).Allowed)
	assert.False(t, l.Acquire("huggingface", false).Allowed)

	now = base.Add(61 * time.Minute)
	assert.True(t, l.Acquire("huggingface", false).Allowed, "slot frees after the window slides past it")
}

func TestCallerQuotaClaim(t *testing.T) {
	q := NewCallerQuota(2, nil)

	require.True(t, q.Claim("alice").Allowed)
	require.True(t, q.Claim("alice").Allowed)

	d := q.Claim("alice")
	assert.False(t, d.Allowed)
	assert.Positive(t, d.RetryAfter, "denial carries time until UTC midnight")
	assert.Equal(t, 2, q.Used("alice"), "denied claims do not count")

	assert.True(t, q.Claim("bob").Allowed, "quotas are per caller")
}

func TestCallerQuotaEntitlements(t *testing.T) {
	q := NewCallerQuota(1, entitlementsFunc(func(caller string) int {
		if caller == "premium" {
			return 3
		}
		return 0
	}))

	require.True(t, q.Claim("free").Allowed)
	assert.False(t, q.Claim("free").Allowed)

	for i := 0; i < 3; i++ {
		require.True(t, q.Claim("premium").Allowed)
	}
	assert.False(t, q.Claim("premium").Allowed)
}

func TestCallerQuotaResetsAtMidnightUTC(t *testing.T) {
	q := NewCallerQuota(1, nil)
	now := time.Date(2026, 8, 26, 23, 59, 0, 0, time.UTC)
	q.now = func() time.Time { return now }

	require.True(t, q.Claim("alice").Allowed)
	require.False(t, q.Claim("alice").Allowed)

	now = time.Date(2026, 8, 27, 0, 1, 0, 0, time.UTC)
	assert.True(t, q.Claim("alice").Allowed, "new UTC day resets the count")
}

func TestCallerQuotaConcurrentClaimsNeverExceedLimit(t *testing.T) {
	const limit = 50
	const workers = 200
	q := NewCallerQuota(limit, nil)

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if q.Claim("alice").Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(limit), allowed.Load())
	assert.Equal(t, limit, q.Used("alice"))
}

type entitlementsFunc func(string) int

func (f entitlementsFunc) DailyQuota(caller string) int { return f(caller) }
