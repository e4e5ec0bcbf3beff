package huggingface

// hubModel is the Hub API's model listing shape. Only the fields the
// adapter consumes are declared.
type hubModel struct {
	ID          string          `json:"id"`
	Author      string          `json:"author"`
	PipelineTag string          `json:"pipeline_tag"`
	Downloads   int64           `json:"downloads"`
	Likes       int64           `json:"likes"`
	Tags        []string        `json:"tags"`
	Siblings    []hubSibling    `json:"siblings"`
	Safetensors *hubSafetensors `json:"safetensors"`
}

// hubSibling is one repository file. Size and blob ID are only populated
// when the detail endpoint is queried with blobs=true.
type hubSibling struct {
	Rfilename string `json:"rfilename"`
	Size      int64  `json:"size"`
	BlobID    string `json:"blobId"`
}

// hubSafetensors carries the Hub's computed parameter count.
type hubSafetensors struct {
	Total int64 `json:"total"`
}
