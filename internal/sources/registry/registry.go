// Package registry maps source IDs to their adapter constructors. It lives
// apart from the adapters themselves to avoid circular dependencies.
package registry

import (
	"fmt"

	"github.com/agentstation/modelscout/internal/sources"
	"github.com/agentstation/modelscout/pkg/catalogs"
	"github.com/agentstation/modelscout/pkg/errors"

	// Adapter implementations registered below.
	"github.com/agentstation/modelscout/internal/sources/googleai"
	"github.com/agentstation/modelscout/internal/sources/huggingface"
	"github.com/agentstation/modelscout/internal/sources/ollama"
)

// registry maps source IDs to their adapter creation functions.
var registry = map[catalogs.SourceID]func(sources.Config) (sources.Adapter, error){
	catalogs.SourceHuggingFace: func(cfg sources.Config) (sources.Adapter, error) { return huggingface.New(cfg) },
	catalogs.SourceOllama:      func(cfg sources.Config) (sources.Adapter, error) { return ollama.New(cfg) },
	catalogs.SourceGoogleAI:    func(cfg sources.Config) (sources.Adapter, error) { return googleai.New(cfg) },
}

// Get creates a new adapter instance for the given source ID.
func Get(id catalogs.SourceID, cfg sources.Config) (sources.Adapter, error) {
	newAdapter, ok := registry[id]
	if !ok {
		return nil, &errors.ValidationError{
			Field:   "source",
			Value:   id,
			Message: fmt.Sprintf("unsupported source: %s", id),
		}
	}
	return newAdapter(cfg)
}

// Has checks whether a source ID has an adapter implementation.
func Has(id catalogs.SourceID) bool {
	_, ok := registry[id]
	return ok
}

// List returns all source IDs that have adapter implementations.
func List() []catalogs.SourceID {
	ids := make([]catalogs.SourceID, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	return ids
}
