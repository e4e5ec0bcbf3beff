// Package sources defines the registry adapter contract and the manager that
// fans a query out across every configured source. Each adapter wraps one
// upstream model registry and normalizes its listings into catalog types.
package sources

import (
	"context"

	"github.com/agentstation/modelscout/internal/cache"
	"github.com/agentstation/modelscout/internal/ratelimit"
	"github.com/agentstation/modelscout/internal/transport"
	"github.com/agentstation/modelscout/pkg/catalogs"
)

// Adapter is the uniform interface every registry source implements.
type Adapter interface {
	// ID returns the source identifier.
	ID() catalogs.SourceID

	// Search returns models matching the query from this source only.
	Search(ctx context.Context, query catalogs.SearchQuery) ([]catalogs.RemoteModel, error)

	// Model returns full details for one model by source-local identifier.
	Model(ctx context.Context, id string) (*catalogs.RemoteModel, error)

	// Variants enumerates the downloadable variants of a model. Sources that
	// serve hosted models with nothing to download return an empty slice.
	Variants(ctx context.Context, id string) ([]catalogs.Variant, error)

	// Trending returns the source's currently popular models, up to limit.
	Trending(ctx context.Context, limit int) ([]catalogs.RemoteModel, error)
}

// Config carries the shared collaborators adapters are built with.
type Config struct {
	Cache   *cache.Store
	Limiter *ratelimit.SourceLimiter
	Tokens  transport.Tokens

	// BaseURL overrides the source's default endpoint. Tests point this at
	// an httptest server.
	BaseURL string
}
