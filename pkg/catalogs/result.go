package catalogs

// SearchResult is the merged outcome of fanning a query out to the
// configured sources.
//
// Facets are computed over the candidate set before the query's own filter
// on that dimension is applied (but after filters on every other dimension),
// so each facet always offers the next useful narrowing step.
type SearchResult struct {
	Models []RemoteModel `json:"models" yaml:"models"`
	Facets []Facet       `json:"facets,omitempty" yaml:"facets,omitempty"`

	// Partial marks a result assembled from a subset of the configured
	// sources; IncompleteSources names the sources that timed out, were
	// rate-limited, or failed.
	Partial           bool       `json:"partial,omitempty" yaml:"partial,omitempty"`
	IncompleteSources []SourceID `json:"incomplete_sources,omitempty" yaml:"incomplete_sources,omitempty"`

	// TotalBeforePaging is the merged, filtered candidate count before
	// offset/limit were applied.
	TotalBeforePaging int `json:"total_before_paging" yaml:"total_before_paging"`
}

// Facet is an aggregated count of an attribute's values across the candidate
// set, used for progressive filtering.
type Facet struct {
	Name   string       `json:"name" yaml:"name"`
	Values []FacetValue `json:"values" yaml:"values"`
}

// FacetValue is one value of a facet dimension and its candidate count.
type FacetValue struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// Facet dimension names.
const (
	FacetFormat       = "format"
	FacetQuantization = "quantization"
	FacetSize         = "size"
	FacetFamily       = "family"
	FacetSource       = "source"
)

// SizeBucket returns the human-oriented size facet bucket for a byte count.
func SizeBucket(sizeBytes int64) string {
	const gb = int64(1 << 30)
	switch {
	case sizeBytes <= 0:
		return "unknown"
	case sizeBytes < 2*gb:
		return "<2GB"
	case sizeBytes < 5*gb:
		return "2-5GB"
	case sizeBytes < 10*gb:
		return "5-10GB"
	case sizeBytes < 20*gb:
		return "10-20GB"
	default:
		return ">20GB"
	}
}
