package googleai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/agentstation/modelscout/internal/cache"
	"github.com/agentstation/modelscout/internal/ratelimit"
	"github.com/agentstation/modelscout/internal/sources"
	"github.com/agentstation/modelscout/internal/transport"
	"github.com/agentstation/modelscout/pkg/catalogs"
	"github.com/agentstation/modelscout/pkg/errors"
)

type fakeLister struct {
	pages [][]*genai.Model
	calls int
}

func (f *fakeLister) list(_ context.Context, pageToken string) ([]*genai.Model, string, error) {
	f.calls++
	idx := 0
	if pageToken != "" {
		idx = int(pageToken[0] - '0')
	}
	next := ""
	if idx+1 < len(f.pages) {
		next = string(rune('0' + idx + 1))
	}
	return f.pages[idx], next, nil
}

func newTestAdapter(t *testing.T, lister modelLister) *Adapter {
	t.Helper()
	store := cache.New(0)
	t.Cleanup(store.Close)

	adapter, err := New(sources.Config{
		Cache:   store,
		Limiter: ratelimit.NewSourceLimiter(100, 300, time.Hour),
		Tokens:  transport.TokenMap{"googleai": "test-key"},
	})
	require.NoError(t, err)
	adapter.lister = lister
	return adapter
}

func geminiFixture() *fakeLister {
	return &fakeLister{pages: [][]*genai.Model{
		{
			{Name: "models/gemini-2.0-flash", DisplayName: "Gemini 2.0 Flash", InputTokenLimit: 1048576},
			{Name: "models/gemini-1.5-pro", DisplayName: "Gemini 1.5 Pro", InputTokenLimit: 2097152},
		},
		{
			{Name: "models/text-embedding-004", DisplayName: "Text Embedding", InputTokenLimit: 2048},
		},
	}}
}

func TestSearchListsAndFilters(t *testing.T) {
	adapter := newTestAdapter(t, geminiFixture())

	models, err := adapter.Search(context.Background(), catalogs.SearchQuery{Text: "Gemini"})
	require.NoError(t, err)
	require.Len(t, models, 2, "pagination is followed, non-matching models filtered")

	m := models[0]
	assert.Equal(t, "gemini-2.0-flash", m.ID)
	assert.Equal(t, catalogs.SourceGoogleAI, m.Source)
	assert.Equal(t, "gemini", m.Family)
	assert.Equal(t, int64(1048576), m.ContextLength)
	assert.Empty(t, m.Variants, "hosted models have no downloadable variants")
	assert.False(t, m.CanRecommend())
}

func TestModelByID(t *testing.T) {
	adapter := newTestAdapter(t, geminiFixture())

	model, err := adapter.Model(context.Background(), "gemini-1.5-pro")
	require.NoError(t, err)
	assert.Equal(t, "Gemini 1.5 Pro", model.Name)

	_, err = adapter.Model(context.Background(), "gemini-9000")
	assert.True(t, errors.IsNotFound(err))
}

func TestVariantsAndTrendingAreEmpty(t *testing.T) {
	adapter := newTestAdapter(t, geminiFixture())

	variants, err := adapter.Variants(context.Background(), "gemini-1.5-pro")
	require.NoError(t, err)
	assert.Empty(t, variants)

	trending, err := adapter.Trending(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, trending)
}

func TestSearchCached(t *testing.T) {
	lister := geminiFixture()
	adapter := newTestAdapter(t, lister)

	query := catalogs.SearchQuery{Text: "gemini"}
	_, err := adapter.Search(context.Background(), query)
	require.NoError(t, err)
	after := lister.calls

	_, err = adapter.Search(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, after, lister.calls)
}

func TestMissingTokenIsConfigError(t *testing.T) {
	store := cache.New(0)
	t.Cleanup(store.Close)

	adapter, err := New(sources.Config{
		Cache:   store,
		Limiter: ratelimit.NewSourceLimiter(100, 300, time.Hour),
	})
	require.NoError(t, err)

	_, err = adapter.Search(context.Background(), catalogs.SearchQuery{Text: "gemini"})
	require.Error(t, err)
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
