package sources

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/modelscout/pkg/catalogs"
	"github.com/agentstation/modelscout/pkg/constants"
	"github.com/agentstation/modelscout/pkg/errors"
	"github.com/agentstation/modelscout/pkg/logging"
)

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	// Adapters in priority order, highest priority first. Priority breaks
	// ties when sorting merged results.
	Adapters []Adapter

	// Timeout bounds each adapter call during fan-out. Zero means
	// constants.AdapterTimeout.
	Timeout time.Duration

	// OnSourceError is invoked for each source that fails or times out
	// during fan-out. May be nil.
	OnSourceError func(catalogs.SourceID, error)
}

// Manager fans queries out to every configured adapter and merges what comes
// back. Sources that fail, time out, or are rate limited contribute nothing
// and are reported as incomplete rather than failing the call.
type Manager struct {
	adapters []Adapter
	priority map[catalogs.SourceID]int
	timeout  time.Duration
	onError  func(catalogs.SourceID, error)
}

// NewManager builds a Manager from config.
func NewManager(cfg ManagerConfig) *Manager {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.AdapterTimeout
	}
	priority := make(map[catalogs.SourceID]int, len(cfg.Adapters))
	for i, a := range cfg.Adapters {
		priority[a.ID()] = i
	}
	return &Manager{
		adapters: cfg.Adapters,
		priority: priority,
		timeout:  timeout,
		onError:  cfg.OnSourceError,
	}
}

// Sources returns the configured source IDs in priority order.
func (m *Manager) Sources() []catalogs.SourceID {
	ids := make([]catalogs.SourceID, len(m.adapters))
	for i, a := range m.adapters {
		ids[i] = a.ID()
	}
	return ids
}

// candidate pairs a merged model with its source-reported rank so relevance
// ordering survives the merge.
type candidate struct {
	model catalogs.RemoteModel
	rank  int
}

// Search fans the query out to all adapters, merges and filters the results,
// and aggregates facets over the merged candidate set.
func (m *Manager) Search(ctx context.Context, query catalogs.SearchQuery) (*catalogs.SearchResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if len(m.adapters) == 0 {
		return nil, &errors.ConfigError{Component: "manager", Message: "no sources configured"}
	}

	perSource := make([][]catalogs.RemoteModel, len(m.adapters))
	errs := make([]error, len(m.adapters))

	g, gctx := errgroup.WithContext(ctx)
	for i, adapter := range m.adapters {
		g.Go(func() error {
			actx, cancel := context.WithTimeout(gctx, m.timeout)
			defer cancel()
			models, err := adapter.Search(actx, query)
			if err != nil {
				errs[i] = err
				return nil
			}
			perSource[i] = models
			return nil
		})
	}
	_ = g.Wait()

	result := &catalogs.SearchResult{}
	var retryAfter time.Duration
	completed := 0
	for i, adapter := range m.adapters {
		if err := errs[i]; err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				err = &errors.TimeoutError{Operation: "search " + adapter.ID().String(), Duration: m.timeout}
			}
			result.Partial = true
			result.IncompleteSources = append(result.IncompleteSources, adapter.ID())
			if m.onError != nil {
				m.onError(adapter.ID(), err)
			}
			logging.Ctx(ctx).Warn().
				Str("source", adapter.ID().String()).
				Err(err).
				Msg("source incomplete")
			var rle *errors.RateLimitError
			if errors.As(err, &rle) && rle.RetryAfter > retryAfter {
				retryAfter = rle.RetryAfter
			}
			continue
		}
		completed++
	}

	if completed == 0 {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		names := make([]string, len(result.IncompleteSources))
		for i, id := range result.IncompleteSources {
			names[i] = id.String()
		}
		return nil, &errors.UnavailableError{Sources: names, RetryAfter: retryAfter}
	}

	candidates := merge(perSource)
	filtered := applyVariantFilters(candidates, query)
	result.Facets = computeFacets(candidates)
	m.sortCandidates(filtered, query.Sort)

	result.TotalBeforePaging = len(filtered)
	page := paginate(filtered, query.Offset, query.EffectiveLimit())
	result.Models = make([]catalogs.RemoteModel, len(page))
	for i, c := range page {
		result.Models[i] = c.model
	}
	return result, nil
}

// Model resolves a "source/id" key to the owning adapter and fetches the
// model. Identifiers may themselves contain slashes.
func (m *Manager) Model(ctx context.Context, key string) (*catalogs.RemoteModel, error) {
	source, id, err := splitKey(key)
	if err != nil {
		return nil, err
	}
	adapter, err := m.adapter(source)
	if err != nil {
		return nil, err
	}
	return adapter.Model(ctx, id)
}

// Variants resolves a "source/id" key and enumerates the model's variants.
func (m *Manager) Variants(ctx context.Context, key string) ([]catalogs.Variant, error) {
	source, id, err := splitKey(key)
	if err != nil {
		return nil, err
	}
	adapter, err := m.adapter(source)
	if err != nil {
		return nil, err
	}
	return adapter.Variants(ctx, id)
}

// Trending fans out to every adapter and merges by download count.
func (m *Manager) Trending(ctx context.Context, limit int) ([]catalogs.RemoteModel, []catalogs.SourceID, error) {
	if limit <= 0 {
		limit = constants.DefaultTrendingLimit
	}

	perSource := make([][]catalogs.RemoteModel, len(m.adapters))
	errs := make([]error, len(m.adapters))

	g, gctx := errgroup.WithContext(ctx)
	for i, adapter := range m.adapters {
		g.Go(func() error {
			actx, cancel := context.WithTimeout(gctx, m.timeout)
			defer cancel()
			models, err := adapter.Trending(actx, limit)
			errs[i] = err
			perSource[i] = models
			return nil
		})
	}
	_ = g.Wait()

	var incomplete []catalogs.SourceID
	var merged []catalogs.RemoteModel
	completed := 0
	for i, adapter := range m.adapters {
		if err := errs[i]; err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				err = &errors.TimeoutError{Operation: "trending " + adapter.ID().String(), Duration: m.timeout}
			}
			incomplete = append(incomplete, adapter.ID())
			if m.onError != nil {
				m.onError(adapter.ID(), err)
			}
			continue
		}
		completed++
		merged = append(merged, perSource[i]...)
	}
	if completed == 0 {
		if ctx.Err() != nil {
			return nil, incomplete, ctx.Err()
		}
		names := make([]string, len(incomplete))
		for i, id := range incomplete {
			names[i] = id.String()
		}
		return nil, incomplete, &errors.UnavailableError{Sources: names}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Downloads != merged[j].Downloads {
			return merged[i].Downloads > merged[j].Downloads
		}
		if merged[i].Likes != merged[j].Likes {
			return merged[i].Likes > merged[j].Likes
		}
		return merged[i].Key() < merged[j].Key()
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, incomplete, nil
}

// InvalidateSource drops every cached entry for one source. Adapters that do
// not expose invalidation are skipped.
func (m *Manager) InvalidateSource(id catalogs.SourceID) int {
	type invalidator interface{ Invalidate() int }
	for _, a := range m.adapters {
		if a.ID() != id {
			continue
		}
		if inv, ok := a.(invalidator); ok {
			return inv.Invalidate()
		}
	}
	return 0
}

func (m *Manager) adapter(id catalogs.SourceID) (Adapter, error) {
	for _, a := range m.adapters {
		if a.ID() == id {
			return a, nil
		}
	}
	return nil, &errors.ValidationError{
		Field:   "source",
		Value:   id,
		Message: "source not configured",
	}
}

func splitKey(key string) (catalogs.SourceID, string, error) {
	source, id, ok := strings.Cut(key, "/")
	if !ok || source == "" || id == "" {
		return "", "", &errors.ValidationError{
			Field:   "model_key",
			Value:   key,
			Message: "expected source/identifier",
		}
	}
	return catalogs.SourceID(source), id, nil
}

// merge flattens per-source result lists, dropping duplicate identifiers
// within a source. The same identifier from two different sources is kept as
// two entries; sources are not authoritative over each other.
func merge(perSource [][]catalogs.RemoteModel) []candidate {
	var out []candidate
	for _, models := range perSource {
		seen := make(map[string]struct{}, len(models))
		for rank, model := range models {
			if _, dup := seen[model.ID]; dup {
				continue
			}
			seen[model.ID] = struct{}{}
			out = append(out, candidate{model: model, rank: rank})
		}
	}
	return out
}

// hasVariantFilters reports whether the query narrows on variant attributes.
func hasVariantFilters(q catalogs.SearchQuery) bool {
	return q.MaxSizeBytes > 0 || len(q.Formats) > 0 || len(q.Quantizations) > 0
}

// applyVariantFilters keeps each model's matching variants only, dropping
// models left with none. Models with no variants at all pass untouched
// unless a variant-level filter is active.
func applyVariantFilters(candidates []candidate, q catalogs.SearchQuery) []candidate {
	if !hasVariantFilters(q) {
		return candidates
	}
	out := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		if len(c.model.Variants) == 0 {
			continue
		}
		kept := make([]catalogs.Variant, 0, len(c.model.Variants))
		for _, v := range c.model.Variants {
			if q.MatchesVariant(v) {
				kept = append(kept, v)
			}
		}
		if len(kept) == 0 {
			continue
		}
		c.model.Variants = kept
		out = append(out, c)
	}
	return out
}

func (m *Manager) sortCandidates(candidates []candidate, order catalogs.SortOrder) {
	less := func(a, b candidate) bool {
		switch order {
		case catalogs.SortDownloads:
			if a.model.Downloads != b.model.Downloads {
				return a.model.Downloads > b.model.Downloads
			}
		case catalogs.SortLikes:
			if a.model.Likes != b.model.Likes {
				return a.model.Likes > b.model.Likes
			}
		case catalogs.SortName:
			if a.model.Name != b.model.Name {
				return a.model.Name < b.model.Name
			}
		case catalogs.SortSize:
			if sa, sb := a.model.TotalSize(), b.model.TotalSize(); sa != sb {
				return sa < sb
			}
		default: // relevance keeps the source-reported rank
			if a.rank != b.rank {
				return a.rank < b.rank
			}
		}
		if pa, pb := m.priority[a.model.Source], m.priority[b.model.Source]; pa != pb {
			return pa < pb
		}
		return a.model.Key() < b.model.Key()
	}
	sort.SliceStable(candidates, func(i, j int) bool { return less(candidates[i], candidates[j]) })
}

func paginate(candidates []candidate, offset, limit int) []candidate {
	if offset >= len(candidates) {
		return nil
	}
	candidates = candidates[offset:]
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}
