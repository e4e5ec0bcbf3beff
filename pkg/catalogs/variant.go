package catalogs

import (
	"path"
	"strings"

	"github.com/agentstation/modelscout/pkg/errors"
)

// Variant represents one downloadable artifact of a model.
//
// SizeBytes of 0 means the source did not report a size; such variants are
// carried through (never silently dropped) but fail Validate and degrade
// estimate confidence downstream.
type Variant struct {
	ID           string        `json:"id" yaml:"id"`                                                   // Variant identifier, unique within the model
	Filename     string        `json:"filename" yaml:"filename"`                                       // Artifact filename
	Format       VariantFormat `json:"format" yaml:"format"`                                           // Declared artifact format
	Quantization Quantization  `json:"quantization,omitempty" yaml:"quantization,omitempty"`           // Parsed quantization scheme; QuantizationUnknown if unparseable
	SizeBytes    int64         `json:"size_bytes" yaml:"size_bytes"`                                   // Artifact size; 0 means unreported
	Checksum     string        `json:"checksum,omitempty" yaml:"checksum,omitempty"`                   // Content digest, if published
	DownloadURL  string        `json:"download_url,omitempty" yaml:"download_url,omitempty"`           // Resolved download location, if known

	// RequiredMemoryBytes is the source-declared memory estimate for running
	// this variant. 0 means undeclared; the analyzer falls back to a
	// size-based heuristic.
	RequiredMemoryBytes int64 `json:"required_memory_bytes,omitempty" yaml:"required_memory_bytes,omitempty"`

	// Quality is the declared quality score in [0,1], nil when undeclared.
	Quality *float64 `json:"quality,omitempty" yaml:"quality,omitempty"`

	// Supported context length bounds; 0 means unbounded/unknown.
	MinContext int64 `json:"min_context,omitempty" yaml:"min_context,omitempty"`
	MaxContext int64 `json:"max_context,omitempty" yaml:"max_context,omitempty"`
}

// Validate checks the variant invariants.
func (v *Variant) Validate() error {
	if v.SizeBytes <= 0 {
		return &errors.ValidationError{Field: "size_bytes", Message: "variant size must be positive"}
	}
	if v.Quantization == "" {
		return &errors.ValidationError{Field: "quantization", Message: "quantization must be set (use unknown, never empty)"}
	}
	return nil
}

// VariantFormat represents the declared artifact format of a variant.
type VariantFormat string

// String returns the string representation of a VariantFormat.
func (f VariantFormat) String() string {
	return string(f)
}

// Variant formats.
const (
	FormatGGUF        VariantFormat = "gguf"        // Packed quantized single-file format (llama.cpp, Ollama)
	FormatGPTQ        VariantFormat = "gptq"        // GPU-quantized format
	FormatAWQ         VariantFormat = "awq"         // Activation-aware quantized format
	FormatSafetensors VariantFormat = "safetensors" // Full-precision tensor format
	FormatONNX        VariantFormat = "onnx"        // Framework-native interchange format
	FormatOther       VariantFormat = "other"       // Anything else
)

// FormatFromFilename infers the variant format from an artifact filename.
// Quantization markers in the name take precedence over the extension, since
// GPTQ/AWQ artifacts usually ship as safetensors files.
func FormatFromFilename(filename string) VariantFormat {
	lower := strings.ToLower(filename)
	switch {
	case strings.Contains(lower, "gptq"):
		return FormatGPTQ
	case strings.Contains(lower, "awq"):
		return FormatAWQ
	}
	switch path.Ext(lower) {
	case ".gguf", ".ggml":
		return FormatGGUF
	case ".safetensors":
		return FormatSafetensors
	case ".onnx":
		return FormatONNX
	default:
		return FormatOther
	}
}
