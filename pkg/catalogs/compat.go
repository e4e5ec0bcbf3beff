package catalogs

import "time"

// CompatLevel is the ordinal classification of how well a variant fits a
// hardware snapshot. Levels are ordered: incompatible < poor < fair < good
// < excellent.
type CompatLevel int

// Compatibility levels.
const (
	CompatIncompatible CompatLevel = iota
	CompatPoor
	CompatFair
	CompatGood
	CompatExcellent
)

// String returns the string representation of a CompatLevel.
func (l CompatLevel) String() string {
	switch l {
	case CompatIncompatible:
		return "incompatible"
	case CompatPoor:
		return "poor"
	case CompatFair:
		return "fair"
	case CompatGood:
		return "good"
	case CompatExcellent:
		return "excellent"
	default:
		return "unknown"
	}
}

// WarningCode identifies a typed compatibility warning.
type WarningCode string

// Warning codes.
const (
	WarningContextLengthLimited WarningCode = "context_length_limited" // Fits only with a reduced context window
	WarningNoGpuAcceleration    WarningCode = "no_gpu_acceleration"    // Requires partial or no GPU offload
	WarningSlowPerformance      WarningCode = "slow_performance"       // Will run CPU-only
	WarningMissingMetadata      WarningCode = "missing_metadata"       // Size or quantization unknown; estimates degraded
)

// Warning is a typed compatibility warning with a human-readable message.
type Warning struct {
	Code    WarningCode `json:"code" yaml:"code"`
	Message string      `json:"message" yaml:"message"`
}

// VariantCompat is the per-variant portion of a compatibility analysis.
type VariantCompat struct {
	Variant       Variant              `json:"variant" yaml:"variant"`
	Level         CompatLevel          `json:"level" yaml:"level"`
	RequiredRAM   int64                `json:"required_ram" yaml:"required_ram"`   // Estimated bytes for CPU execution
	RequiredVRAM  int64                `json:"required_vram" yaml:"required_vram"` // Estimated bytes for full GPU offload
	Estimate      *PerformanceEstimate `json:"estimate,omitempty" yaml:"estimate,omitempty"`
	Warnings      []Warning            `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// CompatibilityResult is the analysis of one model against one hardware
// snapshot. It is derived data: cached keyed by (model key, snapshot hash)
// and invalidated whenever either input changes.
//
// When at least one variant exists a recommendation is always made, even if
// the best available fit is poor; Level then reflects that compromise.
type CompatibilityResult struct {
	ModelKey    string          `json:"model_key" yaml:"model_key"`
	Level       CompatLevel     `json:"level" yaml:"level"`
	Variants    []VariantCompat `json:"variants" yaml:"variants"`
	Recommended *Variant        `json:"recommended,omitempty" yaml:"recommended,omitempty"`
	Warnings    []Warning       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// PerformanceEstimate is a throughput/load-time prediction for one variant on
// one hardware snapshot. Confidence reflects how well the inputs support the
// estimate: it is floored at 0.3 when key metadata is missing and capped at
// 0.5 when extrapolating outside the estimator's populated table region.
type PerformanceEstimate struct {
	TokensPerSecMin      float64       `json:"tokens_per_sec_min" yaml:"tokens_per_sec_min"`
	TokensPerSecMax      float64       `json:"tokens_per_sec_max" yaml:"tokens_per_sec_max"`
	TokensPerSecExpected float64       `json:"tokens_per_sec_expected" yaml:"tokens_per_sec_expected"`
	LoadTime             time.Duration `json:"load_time" yaml:"load_time"`
	RAMBytes             int64         `json:"ram_bytes" yaml:"ram_bytes"`
	VRAMBytes            int64         `json:"vram_bytes" yaml:"vram_bytes"`
	Confidence           float64       `json:"confidence" yaml:"confidence"` // 0–1
}

// Recommendation is one ranked entry produced by the recommendation scorer.
type Recommendation struct {
	Variant   Variant `json:"variant" yaml:"variant"`
	Score     float64 `json:"score" yaml:"score"`
	Rationale string  `json:"rationale" yaml:"rationale"`
}
