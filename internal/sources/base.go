package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/agentstation/modelscout/internal/cache"
	"github.com/agentstation/modelscout/internal/ratelimit"
	"github.com/agentstation/modelscout/pkg/catalogs"
	"github.com/agentstation/modelscout/pkg/constants"
	"github.com/agentstation/modelscout/pkg/errors"
	"github.com/agentstation/modelscout/pkg/logging"
)

// Base carries the cache-then-fetch flow shared by every adapter: serve
// fresh cache entries without touching the limiter, otherwise claim a
// request slot, fetch, and store under the operation's TTL.
type Base struct {
	id      catalogs.SourceID
	cache   *cache.Store
	limiter *ratelimit.SourceLimiter
	authed  func() bool
}

// NewBase builds the shared adapter core. authed reports whether the adapter
// currently holds a token, which selects the limiter budget.
func NewBase(id catalogs.SourceID, store *cache.Store, limiter *ratelimit.SourceLimiter, authed func() bool) Base {
	if authed == nil {
		authed = func() bool { return false }
	}
	return Base{id: id, cache: store, limiter: limiter, authed: authed}
}

// ID returns the source identifier.
func (b *Base) ID() catalogs.SourceID {
	return b.id
}

// Keys are prefixed with the source ID so a whole source can be dropped with
// one InvalidatePrefix call.
func (b *Base) searchKey(q catalogs.SearchQuery) string {
	return fmt.Sprintf("%s/search/%s", b.id, q.Hash())
}

func (b *Base) modelKey(id string) string {
	return fmt.Sprintf("%s/model/%s", b.id, id)
}

func (b *Base) variantsKey(id string) string {
	return fmt.Sprintf("%s/variants/%s", b.id, id)
}

func (b *Base) trendingKey(limit int) string {
	return fmt.Sprintf("%s/trending/%d", b.id, limit)
}

// fetchThrough serves key from cache when fresh, otherwise claims a limiter
// slot and invokes fetch. A denied claim on a cache miss surfaces as a typed
// RateLimitError so callers can degrade instead of failing hard.
func fetchThrough[T any](ctx context.Context, b *Base, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := b.cache.Get(key); ok {
		if cached, ok := v.(T); ok {
			logging.Ctx(ctx).Debug().
				Str("source", b.id.String()).
				Str("key", key).
				Msg("cache hit")
			return cached, nil
		}
	}

	if d := b.limiter.Acquire(b.id.String(), b.authed()); !d.Allowed {
		return zero, &errors.RateLimitError{Source: b.id.String(), RetryAfter: d.RetryAfter}
	}

	fetched, err := fetch(ctx)
	if err != nil {
		return zero, err
	}
	b.cache.Put(key, fetched, ttl)
	return fetched, nil
}

// SearchCached runs the search cache flow with the search TTL.
func (b *Base) SearchCached(ctx context.Context, q catalogs.SearchQuery, fetch func(context.Context) ([]catalogs.RemoteModel, error)) ([]catalogs.RemoteModel, error) {
	return fetchThrough(ctx, b, b.searchKey(q), constants.SearchTTL, fetch)
}

// ModelCached runs the model detail cache flow with the model TTL.
func (b *Base) ModelCached(ctx context.Context, id string, fetch func(context.Context) (*catalogs.RemoteModel, error)) (*catalogs.RemoteModel, error) {
	return fetchThrough(ctx, b, b.modelKey(id), constants.ModelTTL, fetch)
}

// VariantsCached runs the variant listing cache flow with the model TTL.
func (b *Base) VariantsCached(ctx context.Context, id string, fetch func(context.Context) ([]catalogs.Variant, error)) ([]catalogs.Variant, error) {
	return fetchThrough(ctx, b, b.variantsKey(id), constants.ModelTTL, fetch)
}

// TrendingCached runs the trending cache flow with the trending TTL.
func (b *Base) TrendingCached(ctx context.Context, limit int, fetch func(context.Context) ([]catalogs.RemoteModel, error)) ([]catalogs.RemoteModel, error) {
	return fetchThrough(ctx, b, b.trendingKey(limit), constants.TrendingTTL, fetch)
}

// Invalidate drops every cached entry belonging to this source.
func (b *Base) Invalidate() int {
	return b.cache.InvalidatePrefix(b.id.String() + "/")
}
