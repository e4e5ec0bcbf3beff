package catalogs

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/agentstation/modelscout/pkg/constants"
	"github.com/agentstation/modelscout/pkg/errors"
)

// SortOrder declares how search results are ordered after merge.
type SortOrder string

// String returns the string representation of a SortOrder.
func (s SortOrder) String() string {
	return string(s)
}

// Sort orders.
const (
	SortRelevance SortOrder = "relevance" // Source-reported ordering (default)
	SortDownloads SortOrder = "downloads" // Most downloaded first
	SortLikes     SortOrder = "likes"     // Most liked first
	SortName      SortOrder = "name"      // Lexicographic by display name
	SortSize      SortOrder = "size"      // Smallest total artifact size first
)

// SearchQuery is an immutable search request. Its canonical form (stable
// field ordering, case-folded text, sorted filter slices) is hashed into the
// cache key, so two queries differing only in filter order or text casing
// share a cache entry.
type SearchQuery struct {
	Text          string          `json:"text,omitempty" yaml:"text,omitempty"`                       // Free-text search term
	Category      string          `json:"category,omitempty" yaml:"category,omitempty"`               // Category filter (e.g., "chat", "code")
	Task          string          `json:"task,omitempty" yaml:"task,omitempty"`                       // Task filter (e.g., "text-generation")
	MaxSizeBytes  int64           `json:"max_size_bytes,omitempty" yaml:"max_size_bytes,omitempty"`   // Variant size ceiling; 0 means unbounded
	Formats       []VariantFormat `json:"formats,omitempty" yaml:"formats,omitempty"`                 // Variant format filter
	Quantizations []Quantization  `json:"quantizations,omitempty" yaml:"quantizations,omitempty"`     // Quantization filter
	Sort          SortOrder       `json:"sort,omitempty" yaml:"sort,omitempty"`                       // Result ordering
	Offset        int             `json:"offset,omitempty" yaml:"offset,omitempty"`                   // Pagination offset
	Limit         int             `json:"limit,omitempty" yaml:"limit,omitempty"`                     // Page size; 0 means DefaultSearchLimit
}

var queryFolder = cases.Fold()

// Canonical returns the stable canonical string form of the query.
func (q SearchQuery) Canonical() string {
	formats := make([]string, len(q.Formats))
	for i, f := range q.Formats {
		formats[i] = string(f)
	}
	sort.Strings(formats)

	quants := make([]string, len(q.Quantizations))
	for i, qn := range q.Quantizations {
		quants[i] = string(qn)
	}
	sort.Strings(quants)

	sortOrder := q.Sort
	if sortOrder == "" {
		sortOrder = SortRelevance
	}

	return fmt.Sprintf("text=%s|category=%s|task=%s|maxsize=%d|formats=%s|quants=%s|sort=%s|offset=%d|limit=%d",
		queryFolder.String(strings.TrimSpace(q.Text)),
		queryFolder.String(q.Category),
		queryFolder.String(q.Task),
		q.MaxSizeBytes,
		strings.Join(formats, ","),
		strings.Join(quants, ","),
		sortOrder,
		q.Offset,
		q.EffectiveLimit(),
	)
}

// Hash returns the fnv-64a hash of the canonical query, hex-encoded.
func (q SearchQuery) Hash() string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(q.Canonical()))
	return fmt.Sprintf("%016x", h.Sum64())
}

// EffectiveLimit returns the page size with defaults and caps applied.
func (q SearchQuery) EffectiveLimit() int {
	if q.Limit <= 0 {
		return constants.DefaultSearchLimit
	}
	if q.Limit > constants.MaxSearchLimit {
		return constants.MaxSearchLimit
	}
	return q.Limit
}

// Validate checks the query for caller errors. Invalid queries are rejected
// immediately, never retried internally.
func (q SearchQuery) Validate() error {
	if q.Offset < 0 {
		return &errors.ValidationError{Field: "offset", Value: q.Offset, Message: "offset must not be negative"}
	}
	if q.Limit < 0 {
		return &errors.ValidationError{Field: "limit", Value: q.Limit, Message: "limit must not be negative"}
	}
	if q.MaxSizeBytes < 0 {
		return &errors.ValidationError{Field: "max_size_bytes", Value: q.MaxSizeBytes, Message: "size ceiling must not be negative"}
	}
	switch q.Sort {
	case "", SortRelevance, SortDownloads, SortLikes, SortName, SortSize:
	default:
		return &errors.ValidationError{Field: "sort", Value: q.Sort, Message: "unknown sort order"}
	}
	return nil
}

// MatchesVariant reports whether a variant passes the query's variant-level
// filters (size ceiling, format, quantization).
func (q SearchQuery) MatchesVariant(v Variant) bool {
	if q.MaxSizeBytes > 0 && v.SizeBytes > q.MaxSizeBytes {
		return false
	}
	if len(q.Formats) > 0 && !containsFormat(q.Formats, v.Format) {
		return false
	}
	if len(q.Quantizations) > 0 && !containsQuant(q.Quantizations, v.Quantization) {
		return false
	}
	return true
}

func containsFormat(formats []VariantFormat, f VariantFormat) bool {
	for _, candidate := range formats {
		if candidate == f {
			return true
		}
	}
	return false
}

func containsQuant(quants []Quantization, q Quantization) bool {
	for _, candidate := range quants {
		if candidate == q {
			return true
		}
	}
	return false
}
