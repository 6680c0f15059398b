package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/farmpulse/internal/domain/models"
)

func TestMortalityRate(t *testing.T) {
	tests := []struct {
		name    string
		initial int
		current int
		want    float64
	}{
		{name: "no losses", initial: 1000, current: 1000, want: 0},
		{name: "partial losses", initial: 1000, current: 800, want: 20},
		{name: "total loss", initial: 500, current: 0, want: 100},
		{name: "zero initial fails soft", initial: 0, current: 50, want: 0},
		{name: "negative initial fails soft", initial: -10, current: 5, want: 0},
		{name: "current above initial clamps to zero", initial: 100, current: 120, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, MortalityRate(tc.initial, tc.current), 0.001)
		})
	}
}

func TestMortalityRate_OverHundredUnclamped(t *testing.T) {
	// Re-stocked batches can accumulate more deaths than the original cohort.
	assert.InDelta(t, 150, MortalityRate(100, -50), 0.001)
}

func TestClassifyHealth_DefaultThresholds(t *testing.T) {
	// Catfish defaults: amber 10, red 20.
	assert.Equal(t, HealthGreen, ClassifyHealth(9.99, models.SpeciesCatfish, nil))
	assert.Equal(t, HealthAmber, ClassifyHealth(10, models.SpeciesCatfish, nil))
	assert.Equal(t, HealthAmber, ClassifyHealth(19.99, models.SpeciesCatfish, nil))
	assert.Equal(t, HealthRed, ClassifyHealth(20, models.SpeciesCatfish, nil))
}

func TestClassifyHealth_TenantOverrideWinsWholeSpecies(t *testing.T) {
	overrides := map[models.Species]models.MortalityThresholds{
		models.SpeciesCatfish: {Amber: 2, Red: 4},
	}

	assert.Equal(t, HealthRed, ClassifyHealth(5, models.SpeciesCatfish, overrides))
	// Other species keep their defaults.
	assert.Equal(t, HealthGreen, ClassifyHealth(4, models.SpeciesBroiler, overrides))
}

func TestClassifyHealth_UnknownSpeciesFallsBack(t *testing.T) {
	assert.Equal(t, HealthAmber, ClassifyHealth(6, models.Species("quail"), nil))
}
