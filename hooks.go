package modelscout

import (
	"github.com/agentstation/modelscout/pkg/catalogs"
)

// Hook function types for engine events. Delivery is best-effort and
// synchronous with the triggering call; the engine functions identically
// with no hooks attached.
type (
	// SearchStartedHook is called when a search begins fan-out.
	SearchStartedHook func(requestID string, query catalogs.SearchQuery)

	// SearchCompletedHook is called after a search assembles its result,
	// partial results included.
	SearchCompletedHook func(requestID string, result *catalogs.SearchResult)

	// AnalysisCompletedHook is called after a compatibility analysis.
	AnalysisCompletedHook func(requestID, modelKey string, result *catalogs.CompatibilityResult)

	// SourceErrorHook is called when one source fails during fan-out.
	SourceErrorHook func(source catalogs.SourceID, err error)

	// CacheSampleHook is called with a cache hit-rate sample after each
	// search.
	CacheSampleHook func(sample CacheSample)
)

// CacheSample is a point-in-time reading of the source cache.
type CacheSample struct {
	Hits    uint64 `json:"hits" yaml:"hits"`
	Misses  uint64 `json:"misses" yaml:"misses"`
	Entries int    `json:"entries" yaml:"entries"`
}

// HitRate returns the fraction of lookups served from cache, 0 when no
// lookups have happened yet.
func (s CacheSample) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Hooks bundles the event callbacks a caller may attach. Any field may be
// nil.
type Hooks struct {
	OnSearchStarted     SearchStartedHook
	OnSearchCompleted   SearchCompletedHook
	OnAnalysisCompleted AnalysisCompletedHook
	OnSourceError       SourceErrorHook
	OnCacheSample       CacheSampleHook
}

func (h Hooks) searchStarted(requestID string, query catalogs.SearchQuery) {
	if h.OnSearchStarted != nil {
		h.OnSearchStarted(requestID, query)
	}
}

func (h Hooks) searchCompleted(requestID string, result *catalogs.SearchResult) {
	if h.OnSearchCompleted != nil {
		h.OnSearchCompleted(requestID, result)
	}
}

func (h Hooks) analysisCompleted(requestID, modelKey string, result *catalogs.CompatibilityResult) {
	if h.OnAnalysisCompleted != nil {
		h.OnAnalysisCompleted(requestID, modelKey, result)
	}
}

func (h Hooks) sourceError(source catalogs.SourceID, err error) {
	if h.OnSourceError != nil {
		h.OnSourceError(source, err)
	}
}

func (h Hooks) cacheSample(sample CacheSample) {
	if h.OnCacheSample != nil {
		h.OnCacheSample(sample)
	}
}
