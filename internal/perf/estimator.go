// Package perf estimates inference throughput and load time for a variant on
// a concrete hardware snapshot. Estimates come from a lookup table keyed by
// parameter-count bucket, quantization bucket, and hardware class, with
// linear interpolation between neighboring parameter buckets. They are
// heuristics with an explicit confidence, not benchmarks.
package perf

import (
	"time"

	"github.com/agentstation/modelscout/pkg/catalogs"
	"github.com/agentstation/modelscout/pkg/hardware"
)

// Mode is the inference placement the estimate assumes.
type Mode int

// Inference modes.
const (
	ModeGPU Mode = iota
	ModeMixed
	ModeCPU
)

// String returns the string representation of a Mode.
func (m Mode) String() string {
	switch m {
	case ModeGPU:
		return "gpu"
	case ModeMixed:
		return "mixed"
	default:
		return "cpu"
	}
}

// Parameter-count buckets in billions; the table is populated at these
// points and interpolated between them.
var paramBuckets = []float64{3, 7, 13, 34, 70}

// quantBucket indexes the quantization dimension of the table.
type quantBucket int

const (
	quant4Bit  quantBucket = iota // 2-4 bits per weight
	quant6Bit                     // 5-6 bits
	quant8Bit                     // 8 bits
	quant16Bit                    // 16 bits and up
)

func bucketForQuant(q catalogs.Quantization) (quantBucket, bool) {
	bits := q.Bits()
	switch {
	case bits == 0:
		return quant4Bit, false
	case bits <= 4.5:
		return quant4Bit, true
	case bits <= 6.5:
		return quant6Bit, true
	case bits <= 8:
		return quant8Bit, true
	default:
		return quant16Bit, true
	}
}

// tpsRange is a tokens-per-second span at one table point.
type tpsRange struct {
	min float64
	max float64
}

func (r tpsRange) scale(f float64) tpsRange {
	return tpsRange{min: r.min * f, max: r.max * f}
}

// classProfile holds one hardware class's table column: throughput at each
// (param bucket, quant bucket) point and the bandwidth used for load time.
type classProfile struct {
	// tps[paramBucketIndex][quantBucket]
	tps [5][4]tpsRange

	// loadBandwidth is the sustained bytes/sec assumed for weight loading.
	loadBandwidth float64
}

// row builds one parameter bucket's quant spread from a 4-bit baseline.
// Higher-bit variants move more bytes per token and land proportionally
// lower.
func row(min4, max4 float64) [4]tpsRange {
	base := tpsRange{min: min4, max: max4}
	return [4]tpsRange{
		quant4Bit:  base,
		quant6Bit:  base.scale(0.80),
		quant8Bit:  base.scale(0.62),
		quant16Bit: base.scale(0.35),
	}
}

const gib = float64(1 << 30)

var gpuProfiles = map[hardware.GPUClass]classProfile{
	hardware.GPUClassHighEnd: {
		tps:           [5][4]tpsRange{row(90, 160), row(55, 110), row(32, 65), row(14, 30), row(7, 16)},
		loadBandwidth: 2.5 * gib,
	},
	hardware.GPUClassMidRange: {
		tps:           [5][4]tpsRange{row(55, 100), row(32, 65), row(18, 38), row(8, 17), row(3.5, 8)},
		loadBandwidth: 1.8 * gib,
	},
	hardware.GPUClassLowEnd: {
		tps:           [5][4]tpsRange{row(28, 55), row(16, 34), row(9, 19), row(4, 9), row(1.5, 4)},
		loadBandwidth: 1.2 * gib,
	},
	hardware.GPUClassIntegrated: {
		tps:           [5][4]tpsRange{row(14, 30), row(8, 18), row(4.5, 10), row(2, 4.5), row(0.8, 2)},
		loadBandwidth: 0.9 * gib,
	},
}

var cpuProfiles = map[hardware.CPUClass]classProfile{
	hardware.CPUClassHighEnd: {
		tps:           [5][4]tpsRange{row(18, 35), row(9, 20), row(5, 11), row(2, 5), row(0.8, 2.2)},
		loadBandwidth: 1.5 * gib,
	},
	hardware.CPUClassMainstream: {
		tps:           [5][4]tpsRange{row(10, 22), row(5, 12), row(2.5, 6.5), row(1, 2.8), row(0.4, 1.2)},
		loadBandwidth: 1.0 * gib,
	},
	hardware.CPUClassLowPower: {
		tps:           [5][4]tpsRange{row(5, 12), row(2.5, 6), row(1.2, 3), row(0.5, 1.3), row(0.2, 0.6)},
		loadBandwidth: 0.5 * gib,
	},
}

// Confidence bounds. The floor applies whenever a table key had to be
// guessed; the cap applies when the parameter count lies outside the
// populated bucket range.
const (
	baseConfidence          = 0.9
	degradedConfidence      = 0.3
	extrapolationConfidence = 0.5
)

// Estimator produces performance estimates. It is stateless and safe for
// concurrent use.
type Estimator struct{}

// New creates an Estimator.
func New() *Estimator {
	return &Estimator{}
}

// Estimate predicts throughput and load time for running the variant on the
// snapshot in the given mode. paramCount is the model's parameter count, 0
// when unreported. requiredBytes is the memory the variant needs resident.
func (e *Estimator) Estimate(v catalogs.Variant, paramCount int64, snap hardware.Snapshot, mode Mode, requiredBytes int64) catalogs.PerformanceEstimate {
	confidence := baseConfidence

	qb, quantKnown := bucketForQuant(v.Quantization)
	if !quantKnown {
		confidence = degradedConfidence
	}

	paramsB := float64(paramCount) / 1e9
	if paramCount <= 0 {
		// Infer from artifact size when the source reported no count.
		paramsB = inferParamsB(v.SizeBytes, v.Quantization)
		confidence = degradedConfidence
	}
	if paramsB < paramBuckets[0] || paramsB > paramBuckets[len(paramBuckets)-1] {
		if confidence > extrapolationConfidence {
			confidence = extrapolationConfidence
		}
	}

	gpuProfile, gpuKnown := gpuProfiles[snap.GPUClass]
	cpuProfile, cpuKnown := cpuProfiles[snap.CPUClass]
	if !cpuKnown {
		cpuProfile = cpuProfiles[hardware.CPUClassMainstream]
	}
	if !gpuKnown {
		gpuProfile = gpuProfiles[hardware.GPUClassMidRange]
	}

	switch mode {
	case ModeGPU:
		if !gpuKnown {
			confidence = degradedConfidence
		}
	case ModeCPU:
		if !cpuKnown {
			confidence = degradedConfidence
		}
	case ModeMixed:
		if !gpuKnown || !cpuKnown {
			confidence = degradedConfidence
		}
	}

	var span tpsRange
	var bandwidth float64
	switch mode {
	case ModeGPU:
		span = interpolate(gpuProfile.tps, paramsB, qb)
		bandwidth = gpuProfile.loadBandwidth
	case ModeCPU:
		span = interpolate(cpuProfile.tps, paramsB, qb)
		bandwidth = cpuProfile.loadBandwidth
	case ModeMixed:
		gpu := interpolate(gpuProfile.tps, paramsB, qb)
		cpu := interpolate(cpuProfile.tps, paramsB, qb)
		span = tpsRange{
			min: cpu.min,
			max: (gpu.max + cpu.max) / 2,
		}
		bandwidth = cpuProfile.loadBandwidth
	}

	loadTime := time.Duration(0)
	if v.SizeBytes > 0 && bandwidth > 0 {
		loadTime = time.Duration(float64(v.SizeBytes) / bandwidth * float64(time.Second))
	} else if v.SizeBytes <= 0 {
		confidence = degradedConfidence
	}

	estimate := catalogs.PerformanceEstimate{
		TokensPerSecMin:      span.min,
		TokensPerSecMax:      span.max,
		TokensPerSecExpected: (span.min + span.max) / 2,
		LoadTime:             loadTime,
		Confidence:           confidence,
	}
	switch mode {
	case ModeGPU:
		estimate.VRAMBytes = requiredBytes
	case ModeCPU:
		estimate.RAMBytes = requiredBytes
	case ModeMixed:
		estimate.VRAMBytes = snap.AvailableVRAMBytes
		estimate.RAMBytes = requiredBytes - snap.AvailableVRAMBytes
		if estimate.RAMBytes < 0 {
			estimate.RAMBytes = 0
		}
	}
	return estimate
}

// interpolate reads the table at the variant's quant bucket, linearly
// interpolating between the neighboring parameter buckets. Parameter counts
// outside the populated range clamp to the nearest bucket.
func interpolate(table [5][4]tpsRange, paramsB float64, qb quantBucket) tpsRange {
	if paramsB <= paramBuckets[0] {
		return table[0][qb]
	}
	last := len(paramBuckets) - 1
	if paramsB >= paramBuckets[last] {
		return table[last][qb]
	}
	for i := 0; i < last; i++ {
		lo, hi := paramBuckets[i], paramBuckets[i+1]
		if paramsB > hi {
			continue
		}
		t := (paramsB - lo) / (hi - lo)
		a, b := table[i][qb], table[i+1][qb]
		return tpsRange{
			min: a.min + t*(b.min-a.min),
			max: a.max + t*(b.max-a.max),
		}
	}
	return table[last][qb]
}

// inferParamsB derives an approximate parameter count in billions from the
// artifact size and bits per weight.
func inferParamsB(sizeBytes int64, q catalogs.Quantization) float64 {
	if sizeBytes <= 0 {
		return 0
	}
	bits := q.Bits()
	if bits == 0 {
		bits = 4.5
	}
	return float64(sizeBytes) * 8 / bits / 1e9
}
