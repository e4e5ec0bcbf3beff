package catalogs

import (
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/modelscout/pkg/errors"
)

// RemoteModel represents a catalog entry from an external source.
//
// The (ID, Source) pair is unique within the cache. A RemoteModel with no
// variants is valid (variant enumeration is lazy) but cannot be recommended.
// Records are never mutated in place; a cache refresh replaces the entry
// wholesale.
type RemoteModel struct {
	// Core identity
	ID          string   `json:"id" yaml:"id"`                                         // Stable identifier, unique within its source
	Source      SourceID `json:"source" yaml:"source"`                                 // Originating catalog source
	Name        string   `json:"name" yaml:"name"`                                     // Display name
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`   // Description of the model and its use cases
	Author      string   `json:"author,omitempty" yaml:"author,omitempty"`             // Author/organization, if known
	License     string   `json:"license,omitempty" yaml:"license,omitempty"`           // Declared license, if known

	// Structured attributes
	Family         string `json:"family,omitempty" yaml:"family,omitempty"`                   // Base-model family (e.g., "llama", "mistral")
	ParameterCount int64  `json:"parameter_count,omitempty" yaml:"parameter_count,omitempty"` // Parameter count; 0 means unknown
	ContextLength  int64  `json:"context_length,omitempty" yaml:"context_length,omitempty"`   // Declared context length in tokens; 0 means unknown
	Architecture   string `json:"architecture,omitempty" yaml:"architecture,omitempty"`       // Architecture label (e.g., "transformer", "moe")

	// Downloadable artifacts
	Variants []Variant `json:"variants,omitempty" yaml:"variants,omitempty"`

	// Popularity metrics
	Downloads int64 `json:"downloads,omitempty" yaml:"downloads,omitempty"`
	Likes     int64 `json:"likes,omitempty" yaml:"likes,omitempty"`

	// Cache bookkeeping
	CachedAt utc.Time      `json:"cached_at" yaml:"cached_at"` // When the adapter normalized this record
	TTL      time.Duration `json:"ttl" yaml:"ttl"`             // Freshness window for this record
}

// Key returns the cache-unique "source/id" key for this model.
func (m *RemoteModel) Key() string {
	return string(m.Source) + "/" + m.ID
}

// CanRecommend reports whether the model has at least one variant to rank.
func (m *RemoteModel) CanRecommend() bool {
	return len(m.Variants) > 0
}

// TotalSize returns the combined size of all known variants in bytes.
func (m *RemoteModel) TotalSize() int64 {
	var total int64
	for _, v := range m.Variants {
		total += v.SizeBytes
	}
	return total
}

// Validate checks the model's identity invariants.
func (m *RemoteModel) Validate() error {
	if m.ID == "" {
		return &errors.ValidationError{Field: "id", Message: "model ID must not be empty"}
	}
	if m.Source == "" {
		return &errors.ValidationError{Field: "source", Message: "model source must not be empty"}
	}
	return nil
}
