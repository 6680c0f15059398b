package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmpulse/internal/domain/models"
)

var testAcquisition = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func sampleOn(day int, weightKg float64) models.WeightSample {
	return models.WeightSample{
		BatchID:         "batch-1",
		Date:            testAcquisition.AddDate(0, 0, day),
		AverageWeightKg: weightKg,
		SampleSize:      20,
	}
}

func broilerCurve() Curve {
	return NewCurve([]models.GrowthStandard{
		{Species: models.SpeciesBroiler, Day: 0, ExpectedWeightG: 42},
		{Species: models.SpeciesBroiler, Day: 7, ExpectedWeightG: 180},
		{Species: models.SpeciesBroiler, Day: 14, ExpectedWeightG: 450},
		{Species: models.SpeciesBroiler, Day: 21, ExpectedWeightG: 850},
		{Species: models.SpeciesBroiler, Day: 28, ExpectedWeightG: 1400},
		{Species: models.SpeciesBroiler, Day: 35, ExpectedWeightG: 2000},
	})
}

func TestEstimateADG_TwoSamples(t *testing.T) {
	samples := []models.WeightSample{sampleOn(0, 0.18), sampleOn(7, 0.45)}

	est := EstimateADG(samples, testAcquisition, 7, broilerCurve())

	require.Equal(t, ADGTwoSamples, est.Method)
	assert.InDelta(t, (450.0-180.0)/7.0, est.GramsPerDay, 0.01)
}

func TestEstimateADG_TwoSamples_NegativeGainSurfaced(t *testing.T) {
	samples := []models.WeightSample{sampleOn(10, 1.2), sampleOn(14, 1.0)}

	est := EstimateADG(samples, testAcquisition, 14, broilerCurve())

	require.Equal(t, ADGTwoSamples, est.Method)
	assert.InDelta(t, -50, est.GramsPerDay, 0.001)
}

func TestEstimateADG_TwoSamples_UsesMostRecentPair(t *testing.T) {
	samples := []models.WeightSample{sampleOn(0, 0.05), sampleOn(7, 0.2), sampleOn(14, 0.48)}

	est := EstimateADG(samples, testAcquisition, 14, broilerCurve())

	require.Equal(t, ADGTwoSamples, est.Method)
	assert.InDelta(t, (480.0-200.0)/7.0, est.GramsPerDay, 0.01)
}

func TestEstimateADG_SingleSample(t *testing.T) {
	samples := []models.WeightSample{sampleOn(10, 0.3)}

	est := EstimateADG(samples, testAcquisition, 10, broilerCurve())

	require.Equal(t, ADGSingleSample, est.Method)
	assert.InDelta(t, 300.0/10.0, est.GramsPerDay, 0.001)
}

func TestEstimateADG_SingleSample_SameDayFloorsAtOneDay(t *testing.T) {
	samples := []models.WeightSample{sampleOn(0, 0.05)}

	est := EstimateADG(samples, testAcquisition, 0, broilerCurve())

	require.Equal(t, ADGSingleSample, est.Method)
	assert.InDelta(t, 50, est.GramsPerDay, 0.001)
}

func TestEstimateADG_GrowthCurveFallback(t *testing.T) {
	est := EstimateADG(nil, testAcquisition, 10, broilerCurve())

	require.Equal(t, ADGGrowthCurve, est.Method)
	assert.Greater(t, est.GramsPerDay, 0.0)
	// Local slope between days 7 and 14 is (450-180)/7 per day.
	assert.InDelta(t, (450.0-180.0)/7.0, est.GramsPerDay, 0.01)
}

func TestEstimateADG_GrowthCurveFallback_PastCurveEndStaysPositive(t *testing.T) {
	est := EstimateADG(nil, testAcquisition, 120, broilerCurve())

	require.Equal(t, ADGGrowthCurve, est.Method)
	assert.Greater(t, est.GramsPerDay, 0.0)
}

func TestCurve_ExpectedAt(t *testing.T) {
	curve := broilerCurve()

	tests := []struct {
		name string
		day  int
		want float64
	}{
		{name: "exact row", day: 7, want: 180},
		{name: "interpolated midpoint", day: 10, want: 180 + (450-180)*3.0/7.0},
		{name: "clamped below", day: -3, want: 42},
		{name: "clamped above", day: 60, want: 2000},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, curve.ExpectedAt(tc.day), 0.001)
		})
	}
}

func TestCurve_EmptyYieldsZero(t *testing.T) {
	curve := NewCurve(nil)
	require.True(t, curve.Empty())
	assert.Zero(t, curve.ExpectedAt(10))
}
