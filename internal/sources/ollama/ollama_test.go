package ollama

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/modelscout/internal/cache"
	"github.com/agentstation/modelscout/internal/ratelimit"
	"github.com/agentstation/modelscout/internal/sources"
	"github.com/agentstation/modelscout/pkg/catalogs"
	"github.com/agentstation/modelscout/pkg/errors"
)

func registryHandler(calls *atomic.Int64) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/_catalog", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"repositories": ["library/llama3", "library/mistral", "library/codellama"]}`))
	})
	mux.HandleFunc("/v2/library/llama3/tags/list", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"name": "library/llama3", "tags": ["8b-instruct-q4_K_M", "8b-instruct-fp16"]}`))
	})
	mux.HandleFunc("/v2/library/llama3/manifests/8b-instruct-q4_K_M", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"schemaVersion": 2, "layers": [
			{"mediaType": "application/vnd.ollama.image.model", "size": 4920000000, "digest": "sha256:aa"},
			{"mediaType": "application/vnd.ollama.image.params", "size": 120, "digest": "sha256:bb"}
		]}`))
	})
	mux.HandleFunc("/v2/library/llama3/manifests/8b-instruct-fp16", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"schemaVersion": 2, "layers": [
			{"mediaType": "application/vnd.ollama.image.model", "size": 16070000000, "digest": "sha256:cc"}
		]}`))
	})
	return mux
}

func newTestAdapter(t *testing.T, calls *atomic.Int64) *Adapter {
	t.Helper()
	server := httptest.NewServer(registryHandler(calls))
	t.Cleanup(server.Close)

	store := cache.New(0)
	t.Cleanup(store.Close)

	adapter, err := New(sources.Config{
		Cache:   store,
		Limiter: ratelimit.NewSourceLimiter(100, 300, time.Hour),
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	return adapter
}

func TestSearchFiltersCatalog(t *testing.T) {
	var calls atomic.Int64
	adapter := newTestAdapter(t, &calls)

	models, err := adapter.Search(context.Background(), catalogs.SearchQuery{Text: "LLAMA"})
	require.NoError(t, err)
	require.Len(t, models, 2, "text match is case-folded substring")
	assert.Equal(t, "llama3", models[0].ID)
	assert.Equal(t, "codellama", models[1].ID)
	assert.Equal(t, catalogs.SourceOllama, models[0].Source)
	assert.Equal(t, "llama", models[0].Family)
}

func TestVariantsFromTagManifests(t *testing.T) {
	var calls atomic.Int64
	adapter := newTestAdapter(t, &calls)

	variants, err := adapter.Variants(context.Background(), "llama3")
	require.NoError(t, err)
	require.Len(t, variants, 2)

	assert.Equal(t, "8b-instruct-q4_K_M", variants[0].ID)
	assert.Equal(t, catalogs.FormatGGUF, variants[0].Format)
	assert.Equal(t, catalogs.QuantizationQ4K, variants[0].Quantization)
	assert.Equal(t, int64(4920000000), variants[0].SizeBytes, "size comes from the model layer only")
	assert.Equal(t, "sha256:aa", variants[0].Checksum)

	assert.Equal(t, catalogs.QuantizationFP16, variants[1].Quantization)
}

func TestVariantsCached(t *testing.T) {
	var calls atomic.Int64
	adapter := newTestAdapter(t, &calls)

	_, err := adapter.Variants(context.Background(), "llama3")
	require.NoError(t, err)
	after := calls.Load()

	_, err = adapter.Variants(context.Background(), "llama3")
	require.NoError(t, err)
	assert.Equal(t, after, calls.Load(), "repeat listing is a pure cache hit")
}

func TestModelNotFound(t *testing.T) {
	var calls atomic.Int64
	adapter := newTestAdapter(t, &calls)

	_, err := adapter.Model(context.Background(), "nosuchmodel")
	assert.True(t, errors.IsNotFound(err))
}

func TestTrendingUsesCatalogOrder(t *testing.T) {
	var calls atomic.Int64
	adapter := newTestAdapter(t, &calls)

	models, err := adapter.Trending(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "llama3", models[0].ID)
	assert.Equal(t, "mistral", models[1].ID)
}
