package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmpulse/internal/domain/models"
)

func TestBuildSeries_OnePointPerDayInclusive(t *testing.T) {
	series := BuildSeries(testAcquisition, 14, broilerCurve(), nil, 2)

	require.Len(t, series, 15)
	assert.Equal(t, 0, series[0].Day)
	assert.Equal(t, 14, series[14].Day)
	for _, p := range series {
		assert.Nil(t, p.ActualWeightG)
		assert.Nil(t, p.DeviationPercent)
	}
}

func TestBuildSeries_ExpectedInterpolated(t *testing.T) {
	series := BuildSeries(testAcquisition, 10, broilerCurve(), nil, 0)

	assert.InDelta(t, 42, series[0].ExpectedWeightG, 0.001)
	assert.InDelta(t, 180, series[7].ExpectedWeightG, 0.001)
	assert.InDelta(t, 180+(450-180)*3.0/7.0, series[10].ExpectedWeightG, 0.001)
}

func TestBuildSeries_ActualOnSampleDaysConvertedToGrams(t *testing.T) {
	samples := []models.WeightSample{sampleOn(7, 0.2)}

	series := BuildSeries(testAcquisition, 10, broilerCurve(), samples, 0)

	require.NotNil(t, series[7].ActualWeightG)
	assert.InDelta(t, 200, *series[7].ActualWeightG, 0.001)

	require.NotNil(t, series[7].DeviationPercent)
	assert.InDelta(t, (200.0-180.0)/180.0*100, *series[7].DeviationPercent, 0.001)

	assert.Nil(t, series[9].ActualWeightG)
}

func TestBuildSeries_InterpolatesBetweenSamples(t *testing.T) {
	samples := []models.WeightSample{sampleOn(7, 0.2), sampleOn(14, 0.48)}

	series := BuildSeries(testAcquisition, 14, broilerCurve(), samples, 0)

	require.NotNil(t, series[10].ActualWeightG)
	want := 200 + (480-200)*3.0/7.0
	assert.InDelta(t, want, *series[10].ActualWeightG, 0.001)
}

func TestBuildSeries_NearestSampleWithinWindow(t *testing.T) {
	samples := []models.WeightSample{sampleOn(7, 0.2)}

	series := BuildSeries(testAcquisition, 10, broilerCurve(), samples, 2)

	// Day 9 is two days past the only sample, inside the window.
	require.NotNil(t, series[9].ActualWeightG)
	assert.InDelta(t, 200, *series[9].ActualWeightG, 0.001)

	// Day 10 is three days out, beyond the window.
	assert.Nil(t, series[10].ActualWeightG)
}

func TestBuildSeries_NegativeAgeClampedToSinglePoint(t *testing.T) {
	series := BuildSeries(testAcquisition, -4, broilerCurve(), nil, 0)

	require.Len(t, series, 1)
	assert.Equal(t, 0, series[0].Day)
}
