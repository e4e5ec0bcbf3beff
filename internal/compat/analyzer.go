// Package compat classifies how well a model's variants fit a hardware
// snapshot. Results are pure functions of (model, snapshot) and are cached
// keyed by the pair's identity so re-analysis on unchanged hardware is free.
package compat

import (
	"fmt"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/agentstation/modelscout/internal/perf"
	"github.com/agentstation/modelscout/pkg/catalogs"
	"github.com/agentstation/modelscout/pkg/constants"
	"github.com/agentstation/modelscout/pkg/errors"
	"github.com/agentstation/modelscout/pkg/hardware"
)

const (
	// Runtime overhead applied to the artifact size when the source declares
	// no memory requirement.
	overheadFactor = 1.2

	// VRAM headroom separating an excellent fit from a merely good one.
	marginFactor = 1.2

	// KV-cache bytes per context token, a coarse constant across
	// architectures.
	bytesPerContextToken = 64 << 10
)

// Analyzer classifies variants against hardware snapshots and attaches
// performance estimates.
type Analyzer struct {
	estimator *perf.Estimator
	results   *expirable.LRU[string, *catalogs.CompatibilityResult]
}

// New creates an Analyzer with a derived-result cache.
func New(estimator *perf.Estimator) *Analyzer {
	return &Analyzer{
		estimator: estimator,
		results: expirable.NewLRU[string, *catalogs.CompatibilityResult](
			constants.ResultCacheSize, nil, constants.ResultCacheTTL),
	}
}

// Analyze classifies every variant of the model against the snapshot and
// picks a recommended variant. When at least one variant exists a
// recommendation is always made; with none, the result carries a
// missing-metadata warning instead.
func (a *Analyzer) Analyze(model *catalogs.RemoteModel, snap hardware.Snapshot) (*catalogs.CompatibilityResult, error) {
	if model == nil {
		return nil, &errors.ValidationError{Field: "model", Message: "model must not be nil"}
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}

	// Fold the fetch timestamp in so a refreshed catalog record does not
	// serve stale derived results.
	key := fmt.Sprintf("%s@%d@%s", model.Key(), model.CachedAt.Unix(), snap.Hash())
	if cached, ok := a.results.Get(key); ok {
		return cached, nil
	}

	result := &catalogs.CompatibilityResult{ModelKey: model.Key()}

	if !model.CanRecommend() {
		result.Level = catalogs.CompatIncompatible
		result.Warnings = append(result.Warnings, catalogs.Warning{
			Code:    catalogs.WarningMissingMetadata,
			Message: "model has no downloadable variants to analyze",
		})
		a.results.Add(key, result)
		return result, nil
	}

	for _, v := range model.Variants {
		result.Variants = append(result.Variants, a.classify(v, model, snap))
	}

	best := pickRecommended(result.Variants)
	result.Recommended = &best.Variant
	result.Level = best.Level
	result.Warnings = append(result.Warnings, best.Warnings...)
	if model.ParameterCount == 0 {
		result.Warnings = append(result.Warnings, catalogs.Warning{
			Code:    catalogs.WarningMissingMetadata,
			Message: "parameter count unreported; performance estimates are low confidence",
		})
	}

	a.results.Add(key, result)
	return result, nil
}

// CacheLen reports how many derived results are currently cached.
func (a *Analyzer) CacheLen() int {
	return a.results.Len()
}

// classify applies the level precedence to one variant:
// exceeding combined memory is incompatible; fitting only with reduced
// context or partial offload is fair; a full VRAM fit is excellent with
// headroom, good without; a RAM-only fit is poor.
func (a *Analyzer) classify(v catalogs.Variant, model *catalogs.RemoteModel, snap hardware.Snapshot) catalogs.VariantCompat {
	vc := catalogs.VariantCompat{Variant: v}

	required := v.RequiredMemoryBytes
	if required == 0 && v.SizeBytes > 0 {
		required = int64(float64(v.SizeBytes) * overheadFactor)
	}
	vc.RequiredRAM = required
	vc.RequiredVRAM = required

	if required == 0 {
		// Size unreported: the variant is carried, not classified above fair.
		vc.Level = catalogs.CompatFair
		vc.Warnings = append(vc.Warnings, catalogs.Warning{
			Code:    catalogs.WarningMissingMetadata,
			Message: fmt.Sprintf("variant %s reports no size; memory fit cannot be verified", v.ID),
		})
		estimate := a.estimator.Estimate(v, model.ParameterCount, snap, perf.ModeCPU, 0)
		vc.Estimate = &estimate
		return vc
	}

	availVRAM := snap.AvailableVRAMBytes
	availRAM := snap.AvailableRAMBytes
	gpu := snap.GPUPresent && availVRAM > 0

	var mode perf.Mode
	switch {
	case required > availVRAM+availRAM:
		vc.Level = catalogs.CompatIncompatible
		return vc

	case gpu && required <= availVRAM:
		kv := contextBytes(model, v)
		switch {
		case required+kv > availVRAM:
			vc.Level = catalogs.CompatFair
			vc.Warnings = append(vc.Warnings, catalogs.Warning{
				Code:    catalogs.WarningContextLengthLimited,
				Message: "full context window does not fit in VRAM; context must be reduced",
			})
		case float64(required+kv)*marginFactor <= float64(availVRAM):
			vc.Level = catalogs.CompatExcellent
		default:
			vc.Level = catalogs.CompatGood
		}
		mode = perf.ModeGPU

	case gpu: // partial offload: weights split across VRAM and RAM
		vc.Level = catalogs.CompatFair
		vc.Warnings = append(vc.Warnings, catalogs.Warning{
			Code:    catalogs.WarningNoGpuAcceleration,
			Message: "variant exceeds VRAM; layers will be partially offloaded to CPU",
		})
		mode = perf.ModeMixed

	default: // CPU only
		if required > availRAM {
			vc.Level = catalogs.CompatIncompatible
			return vc
		}
		vc.Level = catalogs.CompatPoor
		vc.Warnings = append(vc.Warnings, catalogs.Warning{
			Code:    catalogs.WarningSlowPerformance,
			Message: "no usable GPU; inference will run CPU-only",
		})
		mode = perf.ModeCPU
	}

	estimate := a.estimator.Estimate(v, model.ParameterCount, snap, mode, required)
	vc.Estimate = &estimate
	return vc
}

// pickRecommended returns the best variant: highest level, then smaller
// size, then higher declared quality.
func pickRecommended(variants []catalogs.VariantCompat) catalogs.VariantCompat {
	best := variants[0]
	for _, vc := range variants[1:] {
		if better(vc, best) {
			best = vc
		}
	}
	return best
}

func better(a, b catalogs.VariantCompat) bool {
	if a.Level != b.Level {
		return a.Level > b.Level
	}
	// Unreported sizes sort last within a level.
	as, bs := a.Variant.SizeBytes, b.Variant.SizeBytes
	if as > 0 && bs > 0 && as != bs {
		return as < bs
	}
	if (as > 0) != (bs > 0) {
		return as > 0
	}
	return quality(a.Variant) > quality(b.Variant)
}

func quality(v catalogs.Variant) float64 {
	if v.Quality != nil {
		return *v.Quality
	}
	return 0
}

// contextBytes approximates the KV-cache footprint of the largest usable
// context window.
func contextBytes(model *catalogs.RemoteModel, v catalogs.Variant) int64 {
	ctx := model.ContextLength
	if v.MaxContext > 0 && (ctx == 0 || v.MaxContext < ctx) {
		ctx = v.MaxContext
	}
	return ctx * bytesPerContextToken
}
