// Package catalogs defines the shared data model of the modelscout engine:
// remote models and their downloadable variants, search queries and results,
// and the derived compatibility and performance types. Adapters normalize
// heterogeneous source responses into these types; everything downstream of
// the adapters speaks only this model.
package catalogs

// SourceID identifies an external model catalog source.
type SourceID string

// String returns the string representation of a SourceID.
func (id SourceID) String() string {
	return string(id)
}

// Known catalog sources.
const (
	SourceHuggingFace SourceID = "huggingface"
	SourceOllama      SourceID = "ollama"
	SourceGoogleAI    SourceID = "googleai"
)
