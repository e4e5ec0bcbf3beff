package perf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/modelscout/pkg/catalogs"
	"github.com/agentstation/modelscout/pkg/hardware"
)

func snap(gpu hardware.GPUClass, cpu hardware.CPUClass) hardware.Snapshot {
	return hardware.Snapshot{
		TotalRAMBytes:      32 << 30,
		AvailableRAMBytes:  24 << 30,
		TotalVRAMBytes:     12 << 30,
		AvailableVRAMBytes: 10 << 30,
		GPUPresent:         gpu != hardware.GPUClassUnknown,
		GPUClass:           gpu,
		CPUClass:           cpu,
	}
}

func q4Variant(sizeGB float64) catalogs.Variant {
	return catalogs.Variant{
		ID:           "q4",
		Format:       catalogs.FormatGGUF,
		Quantization: catalogs.QuantizationQ4K,
		SizeBytes:    int64(sizeGB * float64(1<<30)),
	}
}

func TestEstimateAtTablePoint(t *testing.T) {
	e := New()
	est := e.Estimate(q4Variant(4.0), 7e9, snap(hardware.GPUClassHighEnd, hardware.CPUClassHighEnd), ModeGPU, 5<<30)

	assert.InDelta(t, 55, est.TokensPerSecMin, 0.01)
	assert.InDelta(t, 110, est.TokensPerSecMax, 0.01)
	assert.InDelta(t, 82.5, est.TokensPerSecExpected, 0.01)
	assert.InDelta(t, baseConfidence, est.Confidence, 0.001)
	assert.Equal(t, int64(5<<30), est.VRAMBytes)
	assert.Zero(t, est.RAMBytes)
}

func TestEstimateInterpolatesBetweenBuckets(t *testing.T) {
	e := New()
	hw := snap(hardware.GPUClassHighEnd, hardware.CPUClassHighEnd)

	at7 := e.Estimate(q4Variant(4), 7e9, hw, ModeGPU, 5<<30)
	at13 := e.Estimate(q4Variant(7), 13e9, hw, ModeGPU, 8<<30)
	at10 := e.Estimate(q4Variant(5.5), 10e9, hw, ModeGPU, 7<<30)

	assert.Less(t, at10.TokensPerSecExpected, at7.TokensPerSecExpected)
	assert.Greater(t, at10.TokensPerSecExpected, at13.TokensPerSecExpected)

	// 10B is halfway between the 7B and 13B buckets.
	want := (at7.TokensPerSecExpected + at13.TokensPerSecExpected) / 2
	assert.InDelta(t, want, at10.TokensPerSecExpected, 0.01)
}

func TestEstimateCPUSlowerThanGPU(t *testing.T) {
	e := New()
	hw := snap(hardware.GPUClassHighEnd, hardware.CPUClassHighEnd)

	gpu := e.Estimate(q4Variant(4), 7e9, hw, ModeGPU, 5<<30)
	mixed := e.Estimate(q4Variant(4), 7e9, hw, ModeMixed, 5<<30)
	cpu := e.Estimate(q4Variant(4), 7e9, hw, ModeCPU, 5<<30)

	assert.Greater(t, gpu.TokensPerSecExpected, mixed.TokensPerSecExpected)
	assert.Greater(t, mixed.TokensPerSecExpected, cpu.TokensPerSecExpected)
	assert.Equal(t, int64(5<<30), cpu.RAMBytes)
}

func TestEstimateHigherBitsRunSlower(t *testing.T) {
	e := New()
	hw := snap(hardware.GPUClassMidRange, hardware.CPUClassMainstream)

	q4 := e.Estimate(q4Variant(4), 7e9, hw, ModeGPU, 5<<30)

	q8 := catalogs.Variant{ID: "q8", Quantization: catalogs.QuantizationQ8, SizeBytes: 7 << 30}
	fp16 := catalogs.Variant{ID: "fp16", Quantization: catalogs.QuantizationFP16, SizeBytes: 14 << 30}

	est8 := e.Estimate(q8, 7e9, hw, ModeGPU, 8<<30)
	est16 := e.Estimate(fp16, 7e9, hw, ModeGPU, 16<<30)

	assert.Greater(t, q4.TokensPerSecExpected, est8.TokensPerSecExpected)
	assert.Greater(t, est8.TokensPerSecExpected, est16.TokensPerSecExpected)
}

func TestEstimateLoadTimeScalesWithSize(t *testing.T) {
	e := New()
	hw := snap(hardware.GPUClassHighEnd, hardware.CPUClassHighEnd)

	small := e.Estimate(q4Variant(2.5), 7e9, hw, ModeGPU, 3<<30)
	large := e.Estimate(q4Variant(5.0), 7e9, hw, ModeGPU, 6<<30)

	assert.Positive(t, small.LoadTime)
	assert.InDelta(t, float64(2*small.LoadTime), float64(large.LoadTime), float64(10*time.Millisecond))
}

func TestEstimateConfidenceFloor(t *testing.T) {
	e := New()
	hw := snap(hardware.GPUClassHighEnd, hardware.CPUClassHighEnd)

	t.Run("unknown quantization", func(t *testing.T) {
		v := catalogs.Variant{ID: "x", Quantization: catalogs.QuantizationUnknown, SizeBytes: 4 << 30}
		est := e.Estimate(v, 7e9, hw, ModeGPU, 5<<30)
		assert.InDelta(t, degradedConfidence, est.Confidence, 0.001)
	})

	t.Run("missing parameter count", func(t *testing.T) {
		est := e.Estimate(q4Variant(4), 0, hw, ModeGPU, 5<<30)
		assert.InDelta(t, degradedConfidence, est.Confidence, 0.001)
		assert.Positive(t, est.TokensPerSecExpected, "an estimate is still produced")
	})

	t.Run("unknown hardware class", func(t *testing.T) {
		unknown := snap(hardware.GPUClassUnknown, hardware.CPUClassHighEnd)
		est := e.Estimate(q4Variant(4), 7e9, unknown, ModeGPU, 5<<30)
		assert.InDelta(t, degradedConfidence, est.Confidence, 0.001)
	})
}

func TestEstimateExtrapolationCap(t *testing.T) {
	e := New()
	hw := snap(hardware.GPUClassHighEnd, hardware.CPUClassHighEnd)

	big := catalogs.Variant{ID: "q4", Quantization: catalogs.QuantizationQ4K, SizeBytes: 70 << 30}
	est := e.Estimate(big, 120e9, hw, ModeGPU, 80<<30)
	require.LessOrEqual(t, est.Confidence, extrapolationConfidence,
		"outside the populated bucket range confidence never exceeds the cap")
	assert.Positive(t, est.TokensPerSecExpected)
}
