package ollama

import (
	"context"

	"github.com/agentstation/modelscout/pkg/logging"
)

// catalogResponse is the distribution protocol's repository listing.
type catalogResponse struct {
	Repositories []string `json:"repositories"`
}

// tagsResponse is the distribution protocol's tag listing for one repository.
type tagsResponse struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// manifestResponse is the subset of an image manifest the adapter reads.
type manifestResponse struct {
	SchemaVersion int             `json:"schemaVersion"`
	Layers        []manifestLayer `json:"layers"`
}

type manifestLayer struct {
	MediaType string `json:"mediaType"`
	Size      int64  `json:"size"`
	Digest    string `json:"digest"`
}

func logWarn(ctx context.Context, id, tag string, err error) {
	logging.Ctx(ctx).Warn().
		Str("model", id).
		Str("tag", tag).
		Err(err).
		Msg("manifest fetch failed, variant size unreported")
}
