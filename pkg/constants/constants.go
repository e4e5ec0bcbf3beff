// Package constants provides shared constants used throughout the modelscout
// codebase: timeouts, cache TTLs, and rate-limit defaults that should be
// consistent across the engine.
package constants

import "time"

// Timeout constants define various timeout durations used in the engine.
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to source APIs.
	DefaultHTTPTimeout = 30 * time.Second

	// AdapterTimeout bounds a single adapter call during manager fan-out.
	// A slow source contributes nothing rather than stalling the search.
	AdapterTimeout = 4 * time.Second

	// SearchTimeout bounds a whole facade search, fan-out included.
	SearchTimeout = 10 * time.Second

	// AnalyzeTimeout bounds a facade analyze call, including the model fetch.
	AnalyzeTimeout = 15 * time.Second
)

// Cache TTL constants define how long normalized source data stays fresh.
const (
	// SearchTTL is the time-to-live for cached search results.
	SearchTTL = 5 * time.Minute

	// ModelTTL is the time-to-live for cached model details and variant lists.
	ModelTTL = 24 * time.Hour

	// TrendingTTL is the time-to-live for cached trending lists.
	TrendingTTL = 15 * time.Minute

	// CacheSweepInterval is how often the cache evicts expired entries eagerly.
	CacheSweepInterval = 1 * time.Minute

	// ResultCacheSize caps the derived compatibility-result cache.
	ResultCacheSize = 512

	// ResultCacheTTL bounds how long a derived compatibility result is reused.
	ResultCacheTTL = 1 * time.Hour
)

// Rate limit and quota defaults.
const (
	// DefaultSourceRateLimit is the per-source request budget per window for
	// unauthenticated callers.
	DefaultSourceRateLimit = 60

	// AuthenticatedSourceRateLimit applies when a source token is configured.
	AuthenticatedSourceRateLimit = 300

	// SourceRateWindow is the sliding window for source rate accounting.
	SourceRateWindow = 1 * time.Hour

	// DefaultCallerQuota is the per-caller daily operation budget used when
	// no entitlement provider is configured.
	DefaultCallerQuota = 200
)

// Query defaults.
const (
	// DefaultSearchLimit is the page size used when a query omits one.
	DefaultSearchLimit = 25

	// MaxSearchLimit caps the page size a caller may request.
	MaxSearchLimit = 100

	// DefaultTrendingLimit is the number of trending models fetched per source.
	DefaultTrendingLimit = 10
)
