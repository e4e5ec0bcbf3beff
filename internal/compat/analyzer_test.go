package compat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/modelscout/internal/perf"
	"github.com/agentstation/modelscout/pkg/catalogs"
	"github.com/agentstation/modelscout/pkg/errors"
	"github.com/agentstation/modelscout/pkg/hardware"
)

func newAnalyzer() *Analyzer {
	return New(perf.New())
}

// gib converts fractional gigabytes to bytes at runtime, keeping the
// conversion legal for non-integer values.
func gib(gb float64) int64 {
	return int64(gb * float64(1<<30))
}

func gpuSnapshot(vramGB, ramGB float64) hardware.Snapshot {
	return hardware.Snapshot{
		TotalRAMBytes:      gib(ramGB),
		AvailableRAMBytes:  gib(ramGB),
		TotalVRAMBytes:     gib(vramGB),
		AvailableVRAMBytes: gib(vramGB),
		GPUPresent:         vramGB > 0,
		GPUClass:           hardware.GPUClassMidRange,
		CPUClass:           hardware.CPUClassMainstream,
	}
}

func modelWith(variants ...catalogs.Variant) *catalogs.RemoteModel {
	return &catalogs.RemoteModel{
		ID:             "org/test-7b",
		Source:         catalogs.SourceHuggingFace,
		Name:           "Test 7B",
		ParameterCount: 7e9,
		Variants:       variants,
	}
}

func variant(id string, sizeGB float64) catalogs.Variant {
	return catalogs.Variant{
		ID:           id,
		Filename:     id + ".gguf",
		Format:       catalogs.FormatGGUF,
		Quantization: catalogs.QuantizationQ4K,
		SizeBytes:    gib(sizeGB),
	}
}

func TestAnalyzeDeclaredEstimateOnAmpleVRAM(t *testing.T) {
	// 6.4GB declared requirement against 8GB free VRAM leaves the full
	// headroom margin: excellent.
	v := variant("q4", 5.0)
	v.RequiredMemoryBytes = gib(6.4)
	model := modelWith(v)

	result, err := newAnalyzer().Analyze(model, gpuSnapshot(8, 16))
	require.NoError(t, err)

	assert.Equal(t, catalogs.CompatExcellent, result.Level)
	require.NotNil(t, result.Recommended)
	assert.Equal(t, "q4", result.Recommended.ID)
	require.Len(t, result.Variants, 1)
	assert.Equal(t, gib(6.4), result.Variants[0].RequiredVRAM,
		"declared estimate wins over the size heuristic")
	require.NotNil(t, result.Variants[0].Estimate)
	assert.Positive(t, result.Variants[0].Estimate.TokensPerSecExpected)
}

func TestAnalyzeSizeHeuristicWhenUndeclared(t *testing.T) {
	model := modelWith(variant("q4", 4.0))

	result, err := newAnalyzer().Analyze(model, gpuSnapshot(24, 32))
	require.NoError(t, err)
	assert.Equal(t, gib(4.8), result.Variants[0].RequiredVRAM)
}

func TestAnalyzeLevelPrecedence(t *testing.T) {
	tests := []struct {
		name    string
		variant catalogs.Variant
		snap    hardware.Snapshot
		level   catalogs.CompatLevel
		warning catalogs.WarningCode
	}{
		{
			name:    "exceeds combined memory",
			variant: variant("q8", 40),
			snap:    gpuSnapshot(8, 16),
			level:   catalogs.CompatIncompatible,
		},
		{
			name:    "fits VRAM without margin",
			variant: variant("q4", 6.0), // 7.2GB required on 8GB
			snap:    gpuSnapshot(8, 16),
			level:   catalogs.CompatGood,
		},
		{
			name:    "partial offload",
			variant: variant("q4", 10), // 12GB required, 8GB VRAM + 16GB RAM
			snap:    gpuSnapshot(8, 16),
			level:   catalogs.CompatFair,
			warning: catalogs.WarningNoGpuAcceleration,
		},
		{
			name:    "cpu only",
			variant: variant("q4", 4),
			snap:    gpuSnapshot(0, 16),
			level:   catalogs.CompatPoor,
			warning: catalogs.WarningSlowPerformance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newAnalyzer().Analyze(modelWith(tt.variant), tt.snap)
			require.NoError(t, err)
			assert.Equal(t, tt.level, result.Level)
			if tt.warning != "" {
				assert.True(t, hasWarning(result.Variants[0].Warnings, tt.warning),
					"expected warning %s", tt.warning)
			}
		})
	}
}

func TestAnalyzeContextLengthLimited(t *testing.T) {
	// 6GB weights fit 8GB VRAM, but a 64k-token KV cache (4GB at 64KiB per
	// token) does not.
	v := variant("q4", 5.0) // 6GB required
	model := modelWith(v)
	model.ContextLength = 65536

	result, err := newAnalyzer().Analyze(model, gpuSnapshot(8, 16))
	require.NoError(t, err)
	assert.Equal(t, catalogs.CompatFair, result.Level)
	assert.True(t, hasWarning(result.Variants[0].Warnings, catalogs.WarningContextLengthLimited))
}

func TestAnalyzeMonotonicWithVRAM(t *testing.T) {
	model := modelWith(variant("q4", 6.0))
	a := newAnalyzer()

	prev := catalogs.CompatIncompatible
	for _, vramGB := range []float64{0, 4, 8, 12, 24, 48} {
		result, err := a.Analyze(model, gpuSnapshot(vramGB, 16))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Level, prev,
			"adding VRAM must never lower the level (at %v GB)", vramGB)
		prev = result.Level
	}
}

func TestAnalyzeRecommendsSmallestAmongEqual(t *testing.T) {
	q4 := variant("q4", 4.0)
	q5 := variant("q5", 4.6)
	model := modelWith(q5, q4)

	result, err := newAnalyzer().Analyze(model, gpuSnapshot(24, 32))
	require.NoError(t, err)
	require.NotNil(t, result.Recommended)
	assert.Equal(t, "q4", result.Recommended.ID, "equal level ties break to the smaller variant")
}

func TestAnalyzeQualityBreaksSizeTies(t *testing.T) {
	high, low := 0.9, 0.5
	a := variant("a", 4.0)
	a.Quality = &low
	b := variant("b", 4.0)
	b.Quality = &high
	model := modelWith(a, b)

	result, err := newAnalyzer().Analyze(model, gpuSnapshot(24, 32))
	require.NoError(t, err)
	assert.Equal(t, "b", result.Recommended.ID)
}

func TestAnalyzeAlwaysRecommendsWhenVariantsExist(t *testing.T) {
	// Nothing fits well: one variant needs partial offload, one is CPU-bound.
	model := modelWith(variant("big", 10), variant("huge", 18))

	result, err := newAnalyzer().Analyze(model, gpuSnapshot(8, 16))
	require.NoError(t, err)
	require.NotNil(t, result.Recommended, "a least-bad recommendation is still made")
	assert.Equal(t, catalogs.CompatFair, result.Level)
	assert.Equal(t, "big", result.Recommended.ID)
}

func TestAnalyzeUnreportedSizeCarried(t *testing.T) {
	v := catalogs.Variant{ID: "mystery", Quantization: catalogs.QuantizationUnknown}
	model := modelWith(v)

	result, err := newAnalyzer().Analyze(model, gpuSnapshot(8, 16))
	require.NoError(t, err)
	require.Len(t, result.Variants, 1, "size-less variants are carried, not dropped")
	assert.Equal(t, catalogs.CompatFair, result.Variants[0].Level)
	assert.True(t, hasWarning(result.Variants[0].Warnings, catalogs.WarningMissingMetadata))
	require.NotNil(t, result.Variants[0].Estimate)
	assert.LessOrEqual(t, result.Variants[0].Estimate.Confidence, 0.3)
}

func TestAnalyzeNoVariants(t *testing.T) {
	model := &catalogs.RemoteModel{ID: "gemini-pro", Source: catalogs.SourceGoogleAI, Name: "Gemini Pro"}

	result, err := newAnalyzer().Analyze(model, gpuSnapshot(8, 16))
	require.NoError(t, err)
	assert.Nil(t, result.Recommended)
	assert.True(t, hasWarning(result.Warnings, catalogs.WarningMissingMetadata))
}

func TestAnalyzeResultCache(t *testing.T) {
	a := newAnalyzer()
	model := modelWith(variant("q4", 4.0))
	snap := gpuSnapshot(8, 16)

	first, err := a.Analyze(model, snap)
	require.NoError(t, err)
	assert.Equal(t, 1, a.CacheLen())

	second, err := a.Analyze(model, snap)
	require.NoError(t, err)
	assert.Same(t, first, second, "unchanged snapshot hash yields a pure cache hit")

	// A different snapshot misses.
	_, err = a.Analyze(model, gpuSnapshot(16, 16))
	require.NoError(t, err)
	assert.Equal(t, 2, a.CacheLen())
}

func TestAnalyzeInvalidModel(t *testing.T) {
	_, err := newAnalyzer().Analyze(nil, gpuSnapshot(8, 16))
	assert.True(t, errors.IsValidationError(err))

	_, err = newAnalyzer().Analyze(&catalogs.RemoteModel{}, gpuSnapshot(8, 16))
	assert.True(t, errors.IsValidationError(err))
}

func hasWarning(warnings []catalogs.Warning, code catalogs.WarningCode) bool {
	for _, w := range warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
