package catalogs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuantization(t *testing.T) {
	tests := []struct {
		label string
		want  Quantization
	}{
		{"llama-2-7b-chat.Q4_K_M.gguf", QuantizationQ4K},
		{"llama-2-7b-chat.Q4_K_S.gguf", QuantizationQ4K},
		{"llama-2-7b-chat.q4_0.gguf", QuantizationQ4},
		{"llama-2-7b-chat.q4_1.gguf", QuantizationQ4},
		{"model.Q2_K.gguf", QuantizationQ2K},
		{"model.Q3_K_L.gguf", QuantizationQ3K},
		{"model.Q5_K_M.gguf", QuantizationQ5K},
		{"model.Q5_1.gguf", QuantizationQ5},
		{"model.Q6_K.gguf", QuantizationQ6K},
		{"model.Q8_0.gguf", QuantizationQ8},
		{"model-IQ2_XS.gguf", QuantizationIQ2},
		{"model-IQ3_M.gguf", QuantizationIQ3},
		{"model-IQ4_NL.gguf", QuantizationIQ4},
		{"llama-7b-int4.safetensors", QuantizationINT4},
		{"llama-7b-4bit-128g.safetensors", QuantizationINT4},
		{"llama-7b-w4a16.safetensors", QuantizationINT4},
		{"llama-7b-int8.safetensors", QuantizationINT8},
		{"model.fp16.bin", QuantizationFP16},
		{"model-f16.gguf", QuantizationFP16},
		{"model-bf16.safetensors", QuantizationBF16},
		{"model.fp32.onnx", QuantizationFP32},
		{"model-fp8.safetensors", QuantizationFP8},
		{"8b-instruct-q4_K_M", QuantizationQ4K},
		{"pytorch_model.bin", QuantizationUnknown},
		{"mystery-quant.gguf", QuantizationUnknown},
		{"", QuantizationUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuantization(tt.label))
		})
	}
}

func TestQuantizationBitsOrdering(t *testing.T) {
	// Bits must be monotone across the ladder so bucketing stays sane.
	ladder := []Quantization{
		QuantizationIQ1, QuantizationQ2K, QuantizationQ3K, QuantizationQ4K,
		QuantizationQ5K, QuantizationQ6K, QuantizationQ8, QuantizationFP16,
		QuantizationFP32,
	}
	for i := 1; i < len(ladder); i++ {
		assert.Greater(t, ladder[i].Bits(), ladder[i-1].Bits(),
			"%s should carry more bits than %s", ladder[i], ladder[i-1])
	}
	assert.Zero(t, QuantizationUnknown.Bits())
}

func TestQuantizationAliasesShareBits(t *testing.T) {
	assert.Equal(t, QuantizationQ4K.Bits(), QuantizationINT4.Bits())
	assert.Equal(t, QuantizationQ8.Bits(), QuantizationINT8.Bits())
	assert.Equal(t, QuantizationFP16.Bits(), QuantizationBF16.Bits())
}
