package modelscout

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/modelscout/internal/scorer"
	"github.com/agentstation/modelscout/pkg/catalogs"
	"github.com/agentstation/modelscout/pkg/constants"
	"github.com/agentstation/modelscout/pkg/errors"
	"github.com/agentstation/modelscout/pkg/hardware"
)

// Option is a function that configures a Scout instance.
type Option func(*config) error

// config collects construction-time settings before components are wired.
type config struct {
	sourceIDs         []catalogs.SourceID
	tokens            map[string]string
	baseURLs          map[catalogs.SourceID]string
	hardware          hardware.Provider
	weights           scorer.Weights
	quotaLimit        int
	entitlements      func(caller string) int
	sourceLimit       int
	authedSourceLimit int
	logger            *zerolog.Logger
	hooks             Hooks
}

func defaultConfig() *config {
	return &config{
		sourceIDs:         []catalogs.SourceID{catalogs.SourceHuggingFace, catalogs.SourceOllama},
		baseURLs:          make(map[catalogs.SourceID]string),
		weights:           scorer.DefaultWeights(),
		quotaLimit:        constants.DefaultCallerQuota,
		sourceLimit:       constants.DefaultSourceRateLimit,
		authedSourceLimit: constants.AuthenticatedSourceRateLimit,
	}
}

// WithSources selects which source adapters to wire, in priority order.
// Priority breaks ties when merged results score equally.
func WithSources(ids ...catalogs.SourceID) Option {
	return func(c *config) error {
		if len(ids) == 0 {
			return &errors.ConfigError{Component: "sources", Message: "at least one source is required"}
		}
		c.sourceIDs = ids
		return nil
	}
}

// WithTokens sets per-source authentication tokens, keyed by source ID.
// A token raises that source's rate budget; absence is valid.
func WithTokens(tokens map[string]string) Option {
	return func(c *config) error {
		c.tokens = tokens
		return nil
	}
}

// WithBaseURL overrides a source's default endpoint. Tests point this at an
// httptest server.
func WithBaseURL(id catalogs.SourceID, url string) Option {
	return func(c *config) error {
		c.baseURLs[id] = url
		return nil
	}
}

// WithHardwareProvider sets the provider consulted for a fresh hardware
// snapshot on every analyze call. Required for Analyze and Recommend.
func WithHardwareProvider(p hardware.Provider) Option {
	return func(c *config) error {
		c.hardware = p
		return nil
	}
}

// WithScorerWeights overrides the recommendation weights. Weights must be
// non-negative and sum to 1; violations surface as a ConfigError from New.
func WithScorerWeights(compat, performance, quality, size float64) Option {
	return func(c *config) error {
		c.weights = scorer.Weights{
			Compat:      compat,
			Performance: performance,
			Quality:     quality,
			Size:        size,
		}
		return nil
	}
}

// WithCallerQuota sets the default per-caller daily operation budget.
func WithCallerQuota(limit int) Option {
	return func(c *config) error {
		if limit <= 0 {
			return &errors.ConfigError{Component: "quota", Message: "quota limit must be positive"}
		}
		c.quotaLimit = limit
		return nil
	}
}

// WithEntitlements sets a per-caller quota lookup. Returning 0 or a negative
// value for a caller falls back to the default limit.
func WithEntitlements(lookup func(caller string) int) Option {
	return func(c *config) error {
		c.entitlements = lookup
		return nil
	}
}

// WithSourceRateLimits overrides the per-source request budgets per window
// for unauthenticated and authenticated access.
func WithSourceRateLimits(limit, authenticatedLimit int) Option {
	return func(c *config) error {
		if limit <= 0 || authenticatedLimit <= 0 {
			return &errors.ConfigError{Component: "ratelimit", Message: "rate limits must be positive"}
		}
		c.sourceLimit = limit
		c.authedSourceLimit = authenticatedLimit
		return nil
	}
}

// WithLogger sets the logger used for engine events. Defaults to the
// package-level logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithHooks attaches event callbacks. Any subset of fields may be set.
func WithHooks(hooks Hooks) Option {
	return func(c *config) error {
		c.hooks = hooks
		return nil
	}
}
