package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/football-ml/internal/models"
)

func TestNormalizeFullBook(t *testing.T) {
	out := NewOddsNormalizer().Normalize(models.FloatPtr(2.0), models.FloatPtr(3.0), models.FloatPtr(4.0))

	require.NotNil(t, out.Home)
	require.NotNil(t, out.Draw)
	require.NotNil(t, out.Away)
	require.NotNil(t, out.Margin)
	assert.InDelta(t, 0.5, *out.Home, 1e-12)
	assert.InDelta(t, 1.0/3.0, *out.Draw, 1e-12)
	assert.InDelta(t, 0.25, *out.Away, 1e-12)
	assert.InDelta(t, 1.0833333333, *out.Margin, 1e-9)
}

func TestNormalizeMissingOdds(t *testing.T) {
	out := NewOddsNormalizer().Normalize(models.FloatPtr(1.8), nil, models.FloatPtr(4.5))

	require.NotNil(t, out.Home)
	assert.Nil(t, out.Draw)
	require.NotNil(t, out.Away)
	assert.Nil(t, out.Margin)
}

func TestImpliedProbabilityInvalidPrices(t *testing.T) {
	tests := []struct {
		name string
		odd  *float64
	}{
		{"nil", nil},
		{"zero", models.FloatPtr(0)},
		{"negative", models.FloatPtr(-2.5)},
		{"nan", models.FloatPtr(math.NaN())},
		{"inf", models.FloatPtr(math.Inf(1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Nil(t, ImpliedProbability(tt.odd))
			})
		})
	}
}

func TestNormalizeMatch(t *testing.T) {
	m := played("m1", 0, "Alpha", "Beta", 1, 0)
	assert.Equal(t, ImpliedOdds{}, NewOddsNormalizer().NormalizeMatch(&m))

	m.HomeOdd = models.FloatPtr(1.25)
	out := NewOddsNormalizer().NormalizeMatch(&m)
	require.NotNil(t, out.Home)
	assert.InDelta(t, 0.8, *out.Home, 1e-12)
	assert.Nil(t, out.Margin)
}
