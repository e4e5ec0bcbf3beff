// Package googleai implements the Google AI Studio adapter on the genai SDK.
// Gemini models are hosted: catalog entries carry context limits but no
// downloadable variants, so Variants always returns empty and compatibility
// analysis treats them as lazy, variant-less listings.
package googleai

import (
	"context"
	"strings"
	"sync"

	"github.com/agentstation/utc"
	"golang.org/x/text/cases"
	"google.golang.org/genai"

	"github.com/agentstation/modelscout/internal/sources"
	"github.com/agentstation/modelscout/pkg/catalogs"
	"github.com/agentstation/modelscout/pkg/constants"
	"github.com/agentstation/modelscout/pkg/errors"
)

var folder = cases.Fold()

// modelLister abstracts the genai model listing call so tests can substitute
// a fixture without network access.
type modelLister interface {
	list(ctx context.Context, pageToken string) ([]*genai.Model, string, error)
}

// Adapter is the Google AI Studio source.
type Adapter struct {
	sources.Base

	mu     sync.Mutex
	lister modelLister
	token  string
}

// New creates a Google AI adapter. The genai client is created lazily on the
// first call because construction requires the API key.
func New(cfg sources.Config) (*Adapter, error) {
	token := ""
	if cfg.Tokens != nil {
		token = cfg.Tokens.Token(catalogs.SourceGoogleAI.String())
	}
	authed := func() bool { return token != "" }
	return &Adapter{
		Base:  sources.NewBase(catalogs.SourceGoogleAI, cfg.Cache, cfg.Limiter, authed),
		token: token,
	}, nil
}

func (a *Adapter) getLister(ctx context.Context) (modelLister, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.lister != nil {
		return a.lister, nil
	}
	if a.token == "" {
		return nil, &errors.ConfigError{
			Component: catalogs.SourceGoogleAI.String(),
			Message:   "API key required for Google AI Studio (set GEMINI_API_KEY)",
		}
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  a.token,
	})
	if err != nil {
		return nil, &errors.APIError{
			Source:  catalogs.SourceGoogleAI.String(),
			Message: "failed to create genai client",
			Err:     err,
		}
	}
	a.lister = &genaiLister{client: client}
	return a.lister, nil
}

// Search lists the Gemini model catalog and filters on folded text.
func (a *Adapter) Search(ctx context.Context, query catalogs.SearchQuery) ([]catalogs.RemoteModel, error) {
	return a.SearchCached(ctx, query, func(ctx context.Context) ([]catalogs.RemoteModel, error) {
		all, err := a.listAll(ctx)
		if err != nil {
			return nil, err
		}
		terms := strings.Fields(folder.String(query.Text))
		var models []catalogs.RemoteModel
		for _, m := range all {
			haystack := folder.String(m.ID + " " + m.Name + " " + m.Description)
			if !matchesTerms(haystack, terms) {
				continue
			}
			models = append(models, m)
			if len(models) >= query.EffectiveLimit()+query.Offset {
				break
			}
		}
		return models, nil
	})
}

// Model returns one catalog entry by its model ID.
func (a *Adapter) Model(ctx context.Context, id string) (*catalogs.RemoteModel, error) {
	return a.ModelCached(ctx, id, func(ctx context.Context) (*catalogs.RemoteModel, error) {
		all, err := a.listAll(ctx)
		if err != nil {
			return nil, err
		}
		for i := range all {
			if all[i].ID == id {
				return &all[i], nil
			}
		}
		return nil, &errors.NotFoundError{Resource: "model", ID: id}
	})
}

// Variants always returns empty: hosted models have no downloadable files.
func (a *Adapter) Variants(_ context.Context, _ string) ([]catalogs.Variant, error) {
	return nil, nil
}

// Trending returns empty: the Gemini API publishes no popularity signal.
func (a *Adapter) Trending(_ context.Context, _ int) ([]catalogs.RemoteModel, error) {
	return nil, nil
}

func (a *Adapter) listAll(ctx context.Context) ([]catalogs.RemoteModel, error) {
	lister, err := a.getLister(ctx)
	if err != nil {
		return nil, err
	}

	var models []catalogs.RemoteModel
	pageToken := ""
	for {
		page, next, err := lister.list(ctx, pageToken)
		if err != nil {
			return nil, &errors.APIError{
				Source:   catalogs.SourceGoogleAI.String(),
				Message:  "model listing failed",
				Endpoint: "models.list",
				Err:      err,
			}
		}
		for _, gm := range page {
			models = append(models, convert(gm))
		}
		if next == "" {
			return models, nil
		}
		pageToken = next
	}
}

func convert(gm *genai.Model) catalogs.RemoteModel {
	id := extractModelID(gm.Name)
	name := gm.DisplayName
	if name == "" {
		name = id
	}
	return catalogs.RemoteModel{
		ID:            id,
		Source:        catalogs.SourceGoogleAI,
		Name:          name,
		Description:   gm.Description,
		Author:        "google",
		Family:        familyOf(id),
		ContextLength: int64(gm.InputTokenLimit),
		CachedAt:      utc.Now(),
		TTL:           constants.ModelTTL,
	}
}

// extractModelID strips the resource prefix: "models/gemini-pro" yields
// "gemini-pro".
func extractModelID(name string) string {
	if _, id, ok := strings.Cut(name, "models/"); ok {
		return id
	}
	return name
}

func familyOf(id string) string {
	id = strings.ToLower(id)
	if first, _, ok := strings.Cut(id, "-"); ok && first != "" {
		return first
	}
	return id
}

func matchesTerms(haystack string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}

// genaiLister adapts the genai SDK client to the modelLister seam.
type genaiLister struct {
	client *genai.Client
}

func (l *genaiLister) list(ctx context.Context, pageToken string) ([]*genai.Model, string, error) {
	config := &genai.ListModelsConfig{
		QueryBase: genai.Ptr(true),
		PageSize:  100,
	}
	if pageToken != "" {
		config.PageToken = pageToken
	}
	page, err := l.client.Models.List(ctx, config)
	if err != nil {
		return nil, "", err
	}
	return page.Items, page.NextPageToken, nil
}
