// Package modelscout discovers language models across public catalogs and
// judges how well they fit the hardware at hand. It fans searches out to
// source adapters, merges and facets the results, classifies variant
// compatibility against a hardware snapshot, estimates throughput, and ranks
// variants into recommendations. Every operation is quota-checked per
// caller before any work is performed.
package modelscout

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agentstation/modelscout/internal/cache"
	"github.com/agentstation/modelscout/internal/compat"
	"github.com/agentstation/modelscout/internal/perf"
	"github.com/agentstation/modelscout/internal/ratelimit"
	"github.com/agentstation/modelscout/internal/scorer"
	"github.com/agentstation/modelscout/internal/sources"
	"github.com/agentstation/modelscout/internal/sources/registry"
	"github.com/agentstation/modelscout/internal/transport"
	"github.com/agentstation/modelscout/pkg/catalogs"
	"github.com/agentstation/modelscout/pkg/constants"
	"github.com/agentstation/modelscout/pkg/errors"
	"github.com/agentstation/modelscout/pkg/hardware"
	"github.com/agentstation/modelscout/pkg/logging"
)

// Scout is the engine's single entry point. All operations check the
// caller's quota before doing any work and return a QuotaError on denial.
type Scout interface {
	// Search fans the query out to the configured sources and returns the
	// merged, faceted result. Source failures degrade the result to
	// partial rather than failing the call.
	Search(ctx context.Context, query catalogs.SearchQuery, caller string) (*catalogs.SearchResult, error)

	// Analyze fetches the model named by key ("source/id"), takes a fresh
	// hardware snapshot, and classifies every variant against it.
	Analyze(ctx context.Context, modelKey string, caller string) (*catalogs.CompatibilityResult, error)

	// Recommend analyzes the model and returns its variants ranked
	// best-first with a rationale per entry.
	Recommend(ctx context.Context, modelKey string, caller string) ([]catalogs.Recommendation, error)

	// Trending returns popular models merged across sources.
	Trending(ctx context.Context, limit int, caller string) ([]catalogs.RemoteModel, error)

	// Close releases the engine's background resources.
	Close() error
}

// scout is the internal implementation of the Scout interface.
type scout struct {
	store    *cache.Store
	quota    *ratelimit.CallerQuota
	manager  *sources.Manager
	analyzer *compat.Analyzer
	scorer   *scorer.Scorer
	hardware hardware.Provider
	hooks    Hooks
	logger   *zerolog.Logger

	closeOnce sync.Once
}

// entitlementsFunc adapts a lookup function to the quota tracker's
// entitlement interface.
type entitlementsFunc func(caller string) int

func (f entitlementsFunc) DailyQuota(caller string) int { return f(caller) }

// New creates a Scout with the given options. Misconfiguration (unknown
// source, invalid scorer weights) fails here rather than mid-request.
func New(opts ...Option) (Scout, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	ranker, err := scorer.New(cfg.weights)
	if err != nil {
		return nil, err
	}

	store := cache.New(constants.CacheSweepInterval)
	limiter := ratelimit.NewSourceLimiter(cfg.sourceLimit, cfg.authedSourceLimit, constants.SourceRateWindow)

	var tokens transport.Tokens
	if len(cfg.tokens) > 0 {
		tokens = transport.TokenMap(cfg.tokens)
	}

	s := &scout{
		store:    store,
		analyzer: compat.New(perf.New()),
		scorer:   ranker,
		hardware: cfg.hardware,
		hooks:    cfg.hooks,
		logger:   cfg.logger,
	}
	if s.logger == nil {
		s.logger = logging.Default()
	}

	var entitlements ratelimit.Entitlements
	if cfg.entitlements != nil {
		entitlements = entitlementsFunc(cfg.entitlements)
	}
	s.quota = ratelimit.NewCallerQuota(cfg.quotaLimit, entitlements)

	adapters := make([]sources.Adapter, 0, len(cfg.sourceIDs))
	for _, id := range cfg.sourceIDs {
		adapter, err := registry.Get(id, sources.Config{
			Cache:   store,
			Limiter: limiter,
			Tokens:  tokens,
			BaseURL: cfg.baseURLs[id],
		})
		if err != nil {
			store.Close()
			return nil, err
		}
		adapters = append(adapters, adapter)
	}

	s.manager = sources.NewManager(sources.ManagerConfig{
		Adapters:      adapters,
		Timeout:       constants.AdapterTimeout,
		OnSourceError: s.hooks.sourceError,
	})

	return s, nil
}

// Search implements Scout.
func (s *scout) Search(ctx context.Context, query catalogs.SearchQuery, caller string) (*catalogs.SearchResult, error) {
	ctx, requestID, err := s.admit(ctx, caller)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, constants.SearchTimeout)
	defer cancel()

	s.hooks.searchStarted(requestID, query)
	logging.Ctx(ctx).Debug().
		Str("caller", caller).
		Str("query", query.Canonical()).
		Msg("search started")

	result, err := s.manager.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	s.hooks.searchCompleted(requestID, result)
	s.sampleCache()
	logging.Ctx(ctx).Debug().
		Int("models", len(result.Models)).
		Bool("partial", result.Partial).
		Msg("search completed")
	return result, nil
}

// Analyze implements Scout.
func (s *scout) Analyze(ctx context.Context, modelKey string, caller string) (*catalogs.CompatibilityResult, error) {
	ctx, requestID, err := s.admit(ctx, caller)
	if err != nil {
		return nil, err
	}
	return s.analyze(ctx, requestID, modelKey)
}

// Recommend implements Scout.
func (s *scout) Recommend(ctx context.Context, modelKey string, caller string) ([]catalogs.Recommendation, error) {
	ctx, requestID, err := s.admit(ctx, caller)
	if err != nil {
		return nil, err
	}
	result, err := s.analyze(ctx, requestID, modelKey)
	if err != nil {
		return nil, err
	}
	return s.scorer.Rank(result.Variants), nil
}

// Trending implements Scout.
func (s *scout) Trending(ctx context.Context, limit int, caller string) ([]catalogs.RemoteModel, error) {
	ctx, _, err := s.admit(ctx, caller)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, constants.SearchTimeout)
	defer cancel()

	if limit <= 0 {
		limit = constants.DefaultTrendingLimit
	}
	models, incomplete, err := s.manager.Trending(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(incomplete) > 0 {
		logging.Ctx(ctx).Warn().
			Interface("sources", incomplete).
			Msg("trending assembled without some sources")
	}
	return models, nil
}

// Close implements Scout.
func (s *scout) Close() error {
	s.closeOnce.Do(func() {
		s.store.Close()
	})
	return nil
}

// admit claims one unit of the caller's quota and stamps the context with a
// request ID. Denial performs no work and is never partially counted.
func (s *scout) admit(ctx context.Context, caller string) (context.Context, string, error) {
	decision := s.quota.Claim(caller)
	if !decision.Allowed {
		return ctx, "", &errors.QuotaError{
			Caller:     caller,
			Limit:      s.quota.Limit(caller),
			RetryAfter: decision.RetryAfter,
		}
	}

	requestID := uuid.NewString()
	ctx = logging.WithLogger(ctx, s.logger)
	ctx = logging.WithRequestID(ctx, requestID)
	return ctx, requestID, nil
}

// analyze runs the quota-free inner path shared by Analyze and Recommend.
func (s *scout) analyze(ctx context.Context, requestID, modelKey string) (*catalogs.CompatibilityResult, error) {
	if s.hardware == nil {
		return nil, &errors.ConfigError{
			Component: "hardware",
			Message:   "no hardware provider configured",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, constants.AnalyzeTimeout)
	defer cancel()

	model, err := s.manager.Model(ctx, modelKey)
	if err != nil {
		return nil, err
	}
	snap, err := s.hardware.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.analyzer.Analyze(model, snap)
	if err != nil {
		return nil, err
	}

	s.hooks.analysisCompleted(requestID, modelKey, result)
	logging.Ctx(ctx).Debug().
		Str("model", modelKey).
		Str("level", result.Level.String()).
		Msg("analysis completed")
	return result, nil
}

func (s *scout) sampleCache() {
	if s.hooks.OnCacheSample == nil {
		return
	}
	stats := s.store.Stats()
	s.hooks.cacheSample(CacheSample{
		Hits:    stats.Hits,
		Misses:  stats.Misses,
		Entries: stats.Entries,
	})
}
