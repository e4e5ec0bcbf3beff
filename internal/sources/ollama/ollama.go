// Package ollama implements the Ollama library adapter on top of the
// registry's distribution protocol: the catalog endpoint lists repositories,
// tags/list enumerates a model's tags, and each tag's manifest carries the
// artifact size. The registry publishes no popularity counters, so downloads
// and likes stay zero and trending falls back to catalog order.
package ollama

import (
	"context"
	"fmt"
	"strings"

	"github.com/agentstation/utc"
	"golang.org/x/text/cases"

	"github.com/agentstation/modelscout/internal/sources"
	"github.com/agentstation/modelscout/internal/transport"
	"github.com/agentstation/modelscout/pkg/catalogs"
	"github.com/agentstation/modelscout/pkg/constants"
	"github.com/agentstation/modelscout/pkg/errors"
)

const (
	defaultBaseURL = "https://registry.ollama.ai"

	// Official library models live under this namespace.
	libraryNamespace = "library"

	// Tag manifests are fetched one request each; cap how many a single
	// variant listing will resolve.
	maxTagManifests = 20

	// Media type of the weight layer inside a manifest.
	modelMediaType = "application/vnd.ollama.image.model"
)

var folder = cases.Fold()

// Adapter is the Ollama library source.
type Adapter struct {
	sources.Base
	client  *transport.Client
	baseURL string
}

// New creates an Ollama adapter. The registry is anonymous; tokens are
// accepted but unused.
func New(cfg sources.Config) (*Adapter, error) {
	client := transport.New(catalogs.SourceOllama.String(), &transport.NoAuth{}, cfg.Tokens)
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Adapter{
		Base:    sources.NewBase(catalogs.SourceOllama, cfg.Cache, cfg.Limiter, nil),
		client:  client,
		baseURL: baseURL,
	}, nil
}

// Search lists the registry catalog and filters repository names against the
// folded query text. The registry has no server-side search.
func (a *Adapter) Search(ctx context.Context, query catalogs.SearchQuery) ([]catalogs.RemoteModel, error) {
	return a.SearchCached(ctx, query, func(ctx context.Context) ([]catalogs.RemoteModel, error) {
		names, err := a.libraryNames(ctx)
		if err != nil {
			return nil, err
		}

		terms := strings.Fields(folder.String(query.Text))
		var models []catalogs.RemoteModel
		for _, name := range names {
			if !matchesTerms(folder.String(name), terms) {
				continue
			}
			models = append(models, catalogs.RemoteModel{
				ID:       name,
				Source:   catalogs.SourceOllama,
				Name:     name,
				Author:   libraryNamespace,
				Family:   familyOf(name),
				CachedAt: utc.Now(),
				TTL:      constants.ModelTTL,
			})
			if len(models) >= query.EffectiveLimit()+query.Offset {
				break
			}
		}
		return models, nil
	})
}

// Model returns the catalog entry with its variants resolved.
func (a *Adapter) Model(ctx context.Context, id string) (*catalogs.RemoteModel, error) {
	return a.ModelCached(ctx, id, func(ctx context.Context) (*catalogs.RemoteModel, error) {
		variants, err := a.fetchVariants(ctx, id)
		if err != nil {
			return nil, err
		}
		return &catalogs.RemoteModel{
			ID:       id,
			Source:   catalogs.SourceOllama,
			Name:     id,
			Author:   libraryNamespace,
			Family:   familyOf(id),
			Variants: variants,
			CachedAt: utc.Now(),
			TTL:      constants.ModelTTL,
		}, nil
	})
}

// Variants enumerates a model's tags and resolves each tag's manifest for
// the artifact size.
func (a *Adapter) Variants(ctx context.Context, id string) ([]catalogs.Variant, error) {
	return a.VariantsCached(ctx, id, func(ctx context.Context) ([]catalogs.Variant, error) {
		return a.fetchVariants(ctx, id)
	})
}

// Trending returns the head of the catalog. The registry exposes no
// popularity signal to rank by.
func (a *Adapter) Trending(ctx context.Context, limit int) ([]catalogs.RemoteModel, error) {
	return a.TrendingCached(ctx, limit, func(ctx context.Context) ([]catalogs.RemoteModel, error) {
		names, err := a.libraryNames(ctx)
		if err != nil {
			return nil, err
		}
		if len(names) > limit {
			names = names[:limit]
		}
		models := make([]catalogs.RemoteModel, 0, len(names))
		for _, name := range names {
			models = append(models, catalogs.RemoteModel{
				ID:       name,
				Source:   catalogs.SourceOllama,
				Name:     name,
				Author:   libraryNamespace,
				Family:   familyOf(name),
				CachedAt: utc.Now(),
				TTL:      constants.ModelTTL,
			})
		}
		return models, nil
	})
}

func (a *Adapter) libraryNames(ctx context.Context) ([]string, error) {
	var catalog catalogResponse
	if err := a.client.GetJSON(ctx, a.baseURL+"/v2/_catalog?n=1000", &catalog); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(catalog.Repositories))
	for _, repo := range catalog.Repositories {
		// Strip the library/ namespace; community repos keep their owner.
		names = append(names, strings.TrimPrefix(repo, libraryNamespace+"/"))
	}
	return names, nil
}

func (a *Adapter) fetchVariants(ctx context.Context, id string) ([]catalogs.Variant, error) {
	var tags tagsResponse
	endpoint := fmt.Sprintf("%s/v2/%s/tags/list", a.baseURL, repoPath(id))
	if err := a.client.GetJSON(ctx, endpoint, &tags); err != nil {
		var apiErr *errors.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == 404 {
			return nil, &errors.NotFoundError{Resource: "model", ID: id}
		}
		return nil, err
	}

	limit := len(tags.Tags)
	if limit > maxTagManifests {
		limit = maxTagManifests
	}

	variants := make([]catalogs.Variant, 0, limit)
	for _, tag := range tags.Tags[:limit] {
		size, digest, err := a.manifestSize(ctx, id, tag)
		if err != nil {
			// A single broken tag should not sink the listing; the variant
			// is carried with size unreported.
			logWarn(ctx, id, tag, err)
		}
		variants = append(variants, catalogs.Variant{
			ID:           tag,
			Filename:     tag,
			Format:       catalogs.FormatGGUF,
			Quantization: catalogs.ParseQuantization(tag),
			SizeBytes:    size,
			Checksum:     digest,
			DownloadURL:  fmt.Sprintf("%s/v2/%s/manifests/%s", a.baseURL, repoPath(id), tag),
		})
	}
	return variants, nil
}

func (a *Adapter) manifestSize(ctx context.Context, id, tag string) (int64, string, error) {
	var manifest manifestResponse
	endpoint := fmt.Sprintf("%s/v2/%s/manifests/%s", a.baseURL, repoPath(id), tag)
	if err := a.client.GetJSON(ctx, endpoint, &manifest); err != nil {
		return 0, "", err
	}
	for _, layer := range manifest.Layers {
		if layer.MediaType == modelMediaType {
			return layer.Size, layer.Digest, nil
		}
	}
	return 0, "", nil
}

// repoPath maps a model identifier to its registry repository path. Bare
// names belong to the official library namespace.
func repoPath(id string) string {
	if strings.Contains(id, "/") {
		return id
	}
	return libraryNamespace + "/" + id
}

func matchesTerms(name string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(name, term) {
			return false
		}
	}
	return true
}

func familyOf(name string) string {
	name = strings.ToLower(name)
	if i := strings.IndexAny(name, "-:0123456789"); i > 0 {
		return name[:i]
	}
	return name
}
