package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/modelscout/pkg/catalogs"
	"github.com/agentstation/modelscout/pkg/errors"
)

func quality(q float64) *float64 { return &q }

func analyzed(id string, level catalogs.CompatLevel, tps float64, size int64, q *float64) catalogs.VariantCompat {
	return catalogs.VariantCompat{
		Variant: catalogs.Variant{
			ID:           id,
			Format:       catalogs.FormatGGUF,
			Quantization: catalogs.QuantizationQ4K,
			SizeBytes:    size,
			Quality:      q,
		},
		Level: level,
		Estimate: &catalogs.PerformanceEstimate{
			TokensPerSecExpected: tps,
			Confidence:           0.9,
		},
	}
}

func TestNewRejectsNegativeWeights(t *testing.T) {
	_, err := New(Weights{Compat: 0.8, Performance: -0.2, Quality: 0.3, Size: 0.1})
	require.Error(t, err)
	var cfgErr *errors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "scorer", cfgErr.Component)
}

func TestNewRejectsWeightsNotSummingToOne(t *testing.T) {
	_, err := New(Weights{Compat: 0.5, Performance: 0.3, Quality: 0.3, Size: 0.1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum to 1.0")
}

func TestNewAcceptsDefaultWeights(t *testing.T) {
	s, err := New(DefaultWeights())
	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestRankPrefersBetterFit(t *testing.T) {
	s, err := New(DefaultWeights())
	require.NoError(t, err)

	recs := s.Rank([]catalogs.VariantCompat{
		analyzed("fp16", catalogs.CompatPoor, 4, 14<<30, quality(0.95)),
		analyzed("q4", catalogs.CompatExcellent, 60, 4<<30, quality(0.80)),
	})

	require.Len(t, recs, 2)
	assert.Equal(t, "q4", recs[0].Variant.ID)
	assert.Greater(t, recs[0].Score, recs[1].Score)
	assert.Contains(t, recs[0].Rationale, "hardware fit")
}

func TestRankQualityDominantRationale(t *testing.T) {
	s, err := New(Weights{Compat: 0.1, Performance: 0.1, Quality: 0.7, Size: 0.1})
	require.NoError(t, err)

	recs := s.Rank([]catalogs.VariantCompat{
		analyzed("a", catalogs.CompatGood, 30, 5<<30, quality(0.9)),
		analyzed("b", catalogs.CompatGood, 30, 9<<30, quality(0.4)),
	})

	require.Len(t, recs, 2)
	assert.Equal(t, "a", recs[0].Variant.ID)
	assert.Contains(t, recs[0].Rationale, "best quality")
}

func TestRankUnknownQualityDefaultsToMidpoint(t *testing.T) {
	s, err := New(DefaultWeights())
	require.NoError(t, err)

	// Identical except declared quality: 0.5 should rank the undeclared
	// variant between a 0.9 and a 0.1.
	recs := s.Rank([]catalogs.VariantCompat{
		analyzed("low", catalogs.CompatGood, 30, 5<<30, quality(0.1)),
		analyzed("none", catalogs.CompatGood, 30, 5<<30, nil),
		analyzed("high", catalogs.CompatGood, 30, 5<<30, quality(0.9)),
	})

	require.Len(t, recs, 3)
	assert.Equal(t, "high", recs[0].Variant.ID)
	assert.Equal(t, "none", recs[1].Variant.ID)
	assert.Equal(t, "low", recs[2].Variant.ID)
}

func TestRankTieBreaksByVariantID(t *testing.T) {
	s, err := New(DefaultWeights())
	require.NoError(t, err)

	recs := s.Rank([]catalogs.VariantCompat{
		analyzed("zeta", catalogs.CompatGood, 30, 5<<30, quality(0.8)),
		analyzed("alpha", catalogs.CompatGood, 30, 5<<30, quality(0.8)),
	})

	require.Len(t, recs, 2)
	assert.Equal(t, recs[0].Score, recs[1].Score)
	assert.Equal(t, "alpha", recs[0].Variant.ID)
	assert.Equal(t, "zeta", recs[1].Variant.ID)
}

func TestRankIsDeterministic(t *testing.T) {
	s, err := New(DefaultWeights())
	require.NoError(t, err)

	input := []catalogs.VariantCompat{
		analyzed("q8", catalogs.CompatGood, 40, 8<<30, quality(0.88)),
		analyzed("q4", catalogs.CompatExcellent, 60, 4<<30, quality(0.80)),
		analyzed("q2", catalogs.CompatExcellent, 75, 3<<30, quality(0.55)),
		analyzed("fp16", catalogs.CompatFair, 12, 14<<30, quality(0.95)),
	}

	first := s.Rank(input)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, s.Rank(input))
	}
}

func TestRankEmptyInput(t *testing.T) {
	s, err := New(DefaultWeights())
	require.NoError(t, err)
	assert.Nil(t, s.Rank(nil))
}

func TestRankSingleVariantWellDefined(t *testing.T) {
	s, err := New(DefaultWeights())
	require.NoError(t, err)

	recs := s.Rank([]catalogs.VariantCompat{
		analyzed("only", catalogs.CompatGood, 30, 5<<30, nil),
	})

	require.Len(t, recs, 1)
	assert.False(t, recs[0].Score < 0 || recs[0].Score > 1)
	assert.NotEmpty(t, recs[0].Rationale)
}
