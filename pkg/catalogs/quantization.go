package catalogs

import (
	"regexp"
	"strings"
)

// Quantization represents the quantization scheme of a variant. Unparseable
// labels are tagged QuantizationUnknown rather than dropped, so a variant is
// never lost to a parsing gap.
type Quantization string

// String returns the string representation of a Quantization.
func (q Quantization) String() string {
	return string(q)
}

// Quantization schemes, in rough order of bits per weight.
const (
	QuantizationIQ1     Quantization = "iq1"     // ~1.5-bit importance-weighted
	QuantizationIQ2     Quantization = "iq2"     // ~2-bit importance-weighted
	QuantizationQ2K     Quantization = "q2_k"    // 2-bit k-quant
	QuantizationIQ3     Quantization = "iq3"     // ~3-bit importance-weighted
	QuantizationQ3K     Quantization = "q3_k"    // 3-bit k-quant
	QuantizationIQ4     Quantization = "iq4"     // ~4-bit importance-weighted
	QuantizationQ4K     Quantization = "q4_k"    // 4-bit k-quant
	QuantizationQ4      Quantization = "q4"      // 4-bit legacy (q4_0/q4_1)
	QuantizationINT4    Quantization = "int4"    // 4-bit integer (GPTQ/AWQ)
	QuantizationQ5K     Quantization = "q5_k"    // 5-bit k-quant
	QuantizationQ5      Quantization = "q5"      // 5-bit legacy
	QuantizationQ6K     Quantization = "q6_k"    // 6-bit k-quant
	QuantizationQ8      Quantization = "q8_0"    // 8-bit
	QuantizationINT8    Quantization = "int8"    // 8-bit integer
	QuantizationFP8     Quantization = "fp8"     // 8-bit floating point
	QuantizationFP16    Quantization = "fp16"    // 16-bit floating point
	QuantizationBF16    Quantization = "bf16"    // 16-bit brain floating point
	QuantizationFP32    Quantization = "fp32"    // 32-bit floating point
	QuantizationUnknown Quantization = "unknown" // Could not be determined
)

// Bits returns the approximate bits per weight for the scheme, or 0 when
// unknown. Used for performance bucketing, not exact size math.
func (q Quantization) Bits() float64 {
	switch q {
	case QuantizationIQ1:
		return 1.5
	case QuantizationIQ2, QuantizationQ2K:
		return 2.5
	case QuantizationIQ3, QuantizationQ3K:
		return 3.5
	case QuantizationIQ4, QuantizationQ4K, QuantizationQ4, QuantizationINT4:
		return 4.5
	case QuantizationQ5K, QuantizationQ5:
		return 5.5
	case QuantizationQ6K:
		return 6.5
	case QuantizationQ8, QuantizationINT8, QuantizationFP8:
		return 8
	case QuantizationFP16, QuantizationBF16:
		return 16
	case QuantizationFP32:
		return 32
	default:
		return 0
	}
}

// quantPattern maps a filename pattern to its quantization scheme. Patterns
// are tried in order; the first match wins, so more specific patterns come
// first (k-quants before legacy 4/5-bit, IQ before Q).
type quantPattern struct {
	re     *regexp.Regexp
	scheme Quantization
}

var quantPatterns = []quantPattern{
	{regexp.MustCompile(`iq1_[a-z]+`), QuantizationIQ1},
	{regexp.MustCompile(`iq2_[a-z]+`), QuantizationIQ2},
	{regexp.MustCompile(`iq3_[a-z]+`), QuantizationIQ3},
	{regexp.MustCompile(`iq4_[a-z]+`), QuantizationIQ4},
	{regexp.MustCompile(`q2_k(_[a-z]+)?`), QuantizationQ2K},
	{regexp.MustCompile(`q3_k(_[a-z]+)?`), QuantizationQ3K},
	{regexp.MustCompile(`q4_k(_[a-z]+)?`), QuantizationQ4K},
	{regexp.MustCompile(`q5_k(_[a-z]+)?`), QuantizationQ5K},
	{regexp.MustCompile(`q6_k(_[a-z]+)?`), QuantizationQ6K},
	{regexp.MustCompile(`q8_0`), QuantizationQ8},
	{regexp.MustCompile(`q4_[01]`), QuantizationQ4},
	{regexp.MustCompile(`q5_[01]`), QuantizationQ5},
	{regexp.MustCompile(`(^|[^a-z0-9])(int4|4bit|w4a16)([^a-z0-9]|$)`), QuantizationINT4},
	{regexp.MustCompile(`(^|[^a-z0-9])(int8|8bit|w8a16)([^a-z0-9]|$)`), QuantizationINT8},
	{regexp.MustCompile(`(^|[^a-z0-9])fp8([^a-z0-9]|$)`), QuantizationFP8},
	{regexp.MustCompile(`(^|[^a-z0-9])(fp16|f16)([^a-z0-9]|$)`), QuantizationFP16},
	{regexp.MustCompile(`(^|[^a-z0-9])bf16([^a-z0-9]|$)`), QuantizationBF16},
	{regexp.MustCompile(`(^|[^a-z0-9])(fp32|f32)([^a-z0-9]|$)`), QuantizationFP32},
}

// ParseQuantization extracts the quantization scheme from a filename or tag
// label. Labels that match no known pattern return QuantizationUnknown.
func ParseQuantization(label string) Quantization {
	lower := strings.ToLower(label)
	for _, p := range quantPatterns {
		if p.re.MatchString(lower) {
			return p.scheme
		}
	}
	return QuantizationUnknown
}
