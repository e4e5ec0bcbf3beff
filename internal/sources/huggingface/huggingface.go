// Package huggingface implements the Hugging Face Hub adapter. It is the
// richest source: full-text search, download/like counts, and per-file
// variant listings with sizes.
package huggingface

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/agentstation/utc"

	"github.com/agentstation/modelscout/internal/sources"
	"github.com/agentstation/modelscout/internal/transport"
	"github.com/agentstation/modelscout/pkg/catalogs"
	"github.com/agentstation/modelscout/pkg/constants"
	"github.com/agentstation/modelscout/pkg/errors"
)

const defaultBaseURL = "https://huggingface.co"

// Adapter is the Hugging Face Hub source.
type Adapter struct {
	sources.Base
	client  *transport.Client
	baseURL string
}

// New creates a Hugging Face adapter. A token (HF_TOKEN) raises the rate
// limit budget; anonymous operation works too.
func New(cfg sources.Config) (*Adapter, error) {
	client := transport.New(catalogs.SourceHuggingFace.String(), &transport.BearerAuth{}, cfg.Tokens)
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Adapter{
		Base:    sources.NewBase(catalogs.SourceHuggingFace, cfg.Cache, cfg.Limiter, client.Authenticated),
		client:  client,
		baseURL: baseURL,
	}, nil
}

// Search queries the Hub's model listing endpoint.
func (a *Adapter) Search(ctx context.Context, query catalogs.SearchQuery) ([]catalogs.RemoteModel, error) {
	return a.SearchCached(ctx, query, func(ctx context.Context) ([]catalogs.RemoteModel, error) {
		params := url.Values{}
		if query.Text != "" {
			params.Set("search", query.Text)
		}
		if query.Task != "" {
			params.Set("pipeline_tag", query.Task)
		}
		if query.Category != "" {
			params.Set("filter", query.Category)
		}
		params.Set("limit", fmt.Sprintf("%d", query.EffectiveLimit()+query.Offset))
		params.Set("full", "true")
		switch query.Sort {
		case catalogs.SortDownloads:
			params.Set("sort", "downloads")
		case catalogs.SortLikes:
			params.Set("sort", "likes")
		}

		var listed []hubModel
		if err := a.client.GetJSON(ctx, a.baseURL+"/api/models?"+params.Encode(), &listed); err != nil {
			return nil, err
		}

		models := make([]catalogs.RemoteModel, 0, len(listed))
		for _, hm := range listed {
			models = append(models, a.convert(hm))
		}
		return models, nil
	})
}

// Model fetches full details for one model. The blobs flag makes the Hub
// include per-file sizes in the sibling list.
func (a *Adapter) Model(ctx context.Context, id string) (*catalogs.RemoteModel, error) {
	return a.ModelCached(ctx, id, func(ctx context.Context) (*catalogs.RemoteModel, error) {
		var hm hubModel
		endpoint := fmt.Sprintf("%s/api/models/%s?blobs=true", a.baseURL, id)
		if err := a.client.GetJSON(ctx, endpoint, &hm); err != nil {
			var apiErr *errors.APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == 404 {
				return nil, &errors.NotFoundError{Resource: "model", ID: id}
			}
			return nil, err
		}
		model := a.convert(hm)
		return &model, nil
	})
}

// Variants enumerates the model's downloadable weight files. The Hub ships
// them inline on the model detail response, so this rides the model cache.
func (a *Adapter) Variants(ctx context.Context, id string) ([]catalogs.Variant, error) {
	model, err := a.Model(ctx, id)
	if err != nil {
		return nil, err
	}
	return model.Variants, nil
}

// Trending lists the Hub's currently trending models.
func (a *Adapter) Trending(ctx context.Context, limit int) ([]catalogs.RemoteModel, error) {
	return a.TrendingCached(ctx, limit, func(ctx context.Context) ([]catalogs.RemoteModel, error) {
		params := url.Values{}
		params.Set("sort", "trendingScore")
		params.Set("direction", "-1")
		params.Set("limit", fmt.Sprintf("%d", limit))
		params.Set("full", "true")

		var listed []hubModel
		if err := a.client.GetJSON(ctx, a.baseURL+"/api/models?"+params.Encode(), &listed); err != nil {
			return nil, err
		}
		models := make([]catalogs.RemoteModel, 0, len(listed))
		for _, hm := range listed {
			models = append(models, a.convert(hm))
		}
		return models, nil
	})
}

func (a *Adapter) convert(hm hubModel) catalogs.RemoteModel {
	model := catalogs.RemoteModel{
		ID:            hm.ID,
		Source:        catalogs.SourceHuggingFace,
		Name:          displayName(hm.ID),
		Author:        author(hm),
		License:       license(hm.Tags),
		Family:        family(hm.ID),
		Downloads:     hm.Downloads,
		Likes:         hm.Likes,
		ContextLength: 0,
		CachedAt:      utc.Now(),
		TTL:           constants.ModelTTL,
	}
	if hm.Safetensors != nil {
		model.ParameterCount = hm.Safetensors.Total
	}
	for _, sib := range hm.Siblings {
		if !isWeightFile(sib.Rfilename) {
			continue
		}
		model.Variants = append(model.Variants, catalogs.Variant{
			ID:           sib.Rfilename,
			Filename:     sib.Rfilename,
			Format:       catalogs.FormatFromFilename(sib.Rfilename),
			Quantization: catalogs.ParseQuantization(sib.Rfilename),
			SizeBytes:    sib.Size,
			Checksum:     sib.BlobID,
			DownloadURL:  fmt.Sprintf("%s/%s/resolve/main/%s", a.baseURL, hm.ID, sib.Rfilename),
		})
	}
	return model
}

// isWeightFile filters the sibling list down to downloadable weight
// artifacts, skipping configs, tokenizers, and docs.
func isWeightFile(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range []string{".gguf", ".ggml", ".safetensors", ".onnx", ".bin", ".pt"} {
		if strings.HasSuffix(lower, ext) {
			// pytorch .bin weights only; skip tokenizer/config binaries.
			if ext == ".bin" && !strings.Contains(lower, "pytorch_model") {
				return false
			}
			return true
		}
	}
	return false
}

func displayName(id string) string {
	if _, name, ok := strings.Cut(id, "/"); ok {
		return name
	}
	return id
}

func author(hm hubModel) string {
	if hm.Author != "" {
		return hm.Author
	}
	if owner, _, ok := strings.Cut(hm.ID, "/"); ok {
		return owner
	}
	return ""
}

// family takes the leading token of the model name as the family label, e.g.
// "meta-llama/Llama-3-8B-Instruct" yields "llama".
func family(id string) string {
	name := displayName(id)
	name = strings.ToLower(name)
	if first, _, ok := strings.Cut(name, "-"); ok && first != "" {
		return first
	}
	return name
}

func license(tags []string) string {
	for _, tag := range tags {
		if l, ok := strings.CutPrefix(tag, "license:"); ok {
			return l
		}
	}
	return ""
}
