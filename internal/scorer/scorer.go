// Package scorer ranks analyzed variants into recommendations using a
// weighted linear score over compatibility, expected throughput, declared
// quality, and download size.
package scorer

import (
	"fmt"
	"math"
	"sort"

	"github.com/agentstation/modelscout/pkg/catalogs"
	"github.com/agentstation/modelscout/pkg/errors"
)

// weightEpsilon is the tolerance when checking that weights sum to 1.
const weightEpsilon = 1e-6

// Weights control how much each term contributes to a variant's score.
// All weights must be non-negative and sum to 1.
type Weights struct {
	Compat      float64 `json:"compat" yaml:"compat"`
	Performance float64 `json:"performance" yaml:"performance"`
	Quality     float64 `json:"quality" yaml:"quality"`
	Size        float64 `json:"size" yaml:"size"`
}

// DefaultWeights returns the standard weighting.
func DefaultWeights() Weights {
	return Weights{Compat: 0.4, Performance: 0.3, Quality: 0.2, Size: 0.1}
}

// Scorer produces ranked recommendations from compatibility analyses. A
// Scorer is immutable after construction and safe for concurrent use.
type Scorer struct {
	weights Weights
}

// New validates the weights and returns a Scorer. Invalid weights are a
// configuration fault and fail construction rather than a later Rank call.
func New(w Weights) (*Scorer, error) {
	if w.Compat < 0 || w.Performance < 0 || w.Quality < 0 || w.Size < 0 {
		return nil, &errors.ConfigError{
			Component: "scorer",
			Message:   "weights must be non-negative",
		}
	}
	sum := w.Compat + w.Performance + w.Quality + w.Size
	if math.Abs(sum-1.0) > weightEpsilon {
		return nil, &errors.ConfigError{
			Component: "scorer",
			Message:   fmt.Sprintf("weights must sum to 1.0, got %.4f", sum),
		}
	}
	return &Scorer{weights: w}, nil
}

// Rank scores every analyzed variant and returns them best-first. The
// ordering is deterministic: equal scores break ties by variant ID. Unknown
// quality counts as 0.5 and an unreported size contributes a neutral size
// penalty, so a variant is never dropped for missing metadata.
func (s *Scorer) Rank(variants []catalogs.VariantCompat) []catalogs.Recommendation {
	if len(variants) == 0 {
		return nil
	}

	tpsMin, tpsMax := tpsRange(variants)
	sizeMin, sizeMax := sizeRange(variants)

	recs := make([]catalogs.Recommendation, 0, len(variants))
	for _, vc := range variants {
		compat := float64(vc.Level) / float64(catalogs.CompatExcellent)
		perf := normalize(expectedTPS(vc), tpsMin, tpsMax)
		quality := 0.5
		if vc.Variant.Quality != nil {
			quality = *vc.Variant.Quality
		}
		sizePenalty := 0.5
		if vc.Variant.SizeBytes > 0 {
			sizePenalty = normalize(float64(vc.Variant.SizeBytes), sizeMin, sizeMax)
		}

		terms := [3]float64{
			s.weights.Compat * compat,
			s.weights.Performance * perf,
			s.weights.Quality * quality,
		}
		score := terms[0] + terms[1] + terms[2] - s.weights.Size*sizePenalty

		recs = append(recs, catalogs.Recommendation{
			Variant:   vc.Variant,
			Score:     score,
			Rationale: rationale(terms, sizePenalty),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].Variant.ID < recs[j].Variant.ID
	})
	return recs
}

// rationale names the dominant positive term, with a size note when the
// variant paid little size penalty.
func rationale(terms [3]float64, sizePenalty float64) string {
	dominant := 0
	for i := 1; i < len(terms); i++ {
		if terms[i] > terms[dominant] {
			dominant = i
		}
	}
	suffix := ""
	if sizePenalty <= 0.5 {
		suffix = " at acceptable size"
	}
	switch dominant {
	case 0:
		return "selected for best hardware fit" + suffix
	case 1:
		return "selected for highest expected throughput" + suffix
	default:
		return "selected for best quality" + suffix
	}
}

func expectedTPS(vc catalogs.VariantCompat) float64 {
	if vc.Estimate == nil {
		return 0
	}
	return vc.Estimate.TokensPerSecExpected
}

func tpsRange(variants []catalogs.VariantCompat) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, vc := range variants {
		tps := expectedTPS(vc)
		min = math.Min(min, tps)
		max = math.Max(max, tps)
	}
	return min, max
}

// sizeRange spans only the variants that report a size. Unreported sizes
// take a neutral penalty instead of skewing the normalization window.
func sizeRange(variants []catalogs.VariantCompat) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, vc := range variants {
		if vc.Variant.SizeBytes <= 0 {
			continue
		}
		size := float64(vc.Variant.SizeBytes)
		min = math.Min(min, size)
		max = math.Max(max, size)
	}
	return min, max
}

// normalize maps v to [0,1] within [min,max]. A degenerate window maps to a
// neutral 0.5 so single-variant rankings stay well defined.
func normalize(v, min, max float64) float64 {
	if math.IsInf(min, 1) || math.IsInf(max, -1) || max <= min {
		return 0.5
	}
	return (v - min) / (max - min)
}
