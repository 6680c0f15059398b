package insights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmpulse/internal/analytics"
	"github.com/mamadbah2/farmpulse/internal/domain/models"
)

var acquisition = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

type fakeStore struct {
	batch    models.Batch
	samples  []models.WeightSample
	deaths   int
	settings models.FarmSettings
}

func (f *fakeStore) GetBatch(context.Context, string, string) (models.Batch, error) {
	return f.batch, nil
}

func (f *fakeStore) ListWeightSamples(context.Context, string) ([]models.WeightSample, error) {
	return f.samples, nil
}

func (f *fakeStore) SumMortality(context.Context, string) (int, error) {
	return f.deaths, nil
}

func (f *fakeStore) GetFarmSettings(context.Context, string) (models.FarmSettings, error) {
	return f.settings, nil
}

type fakeStandards struct {
	curve analytics.Curve
}

func (f fakeStandards) CurveFor(context.Context, models.Species) (analytics.Curve, error) {
	return f.curve, nil
}

func testCurve() analytics.Curve {
	return analytics.NewCurve([]models.GrowthStandard{
		{Species: models.SpeciesBroiler, Day: 0, ExpectedWeightG: 42},
		{Species: models.SpeciesBroiler, Day: 7, ExpectedWeightG: 180},
		{Species: models.SpeciesBroiler, Day: 14, ExpectedWeightG: 450},
		{Species: models.SpeciesBroiler, Day: 28, ExpectedWeightG: 1400},
	})
}

func sampleOn(day int, kg float64) models.WeightSample {
	return models.WeightSample{
		BatchID:         "batch-1",
		Date:            acquisition.AddDate(0, 0, day),
		AverageWeightKg: kg,
	}
}

func TestSummarize_FullBatch(t *testing.T) {
	target := 1400.0
	store := &fakeStore{
		batch: models.Batch{
			ID: "batch-1", FarmID: "farm-1", Name: "House 1",
			Species: models.SpeciesBroiler, AcquisitionDate: acquisition,
			InitialQuantity: 1000, CurrentQuantity: 900,
			TargetWeightG: &target, Status: models.BatchActive,
		},
		samples:  []models.WeightSample{sampleOn(7, 0.18), sampleOn(14, 0.45)},
		deaths:   100,
		settings: models.FarmSettings{FarmID: "farm-1", Alerts: models.DefaultAlertSettings()},
	}

	svc := NewService(store, fakeStandards{curve: testCurve()}, zap.NewNop())
	now := acquisition.AddDate(0, 0, 14)

	summary, err := svc.Summarize(context.Background(), "farm-1", "batch-1", now)
	require.NoError(t, err)

	assert.Equal(t, 14, summary.AgeDays)
	assert.Equal(t, analytics.ADGTwoSamples, summary.ADG.Method)
	assert.InDelta(t, (450.0-180.0)/7.0, summary.ADG.GramsPerDay, 0.01)

	require.NotNil(t, summary.LatestWeightG)
	assert.InDelta(t, 450, *summary.LatestWeightG, 0.001)

	require.NotNil(t, summary.PerformanceIndex)
	assert.InDelta(t, 100, *summary.PerformanceIndex, 0.001)
	require.NotNil(t, summary.GrowthStatus)
	assert.Equal(t, analytics.StatusOnTrack, *summary.GrowthStatus)

	assert.InDelta(t, 10, summary.MortalityRate, 0.001)
	assert.Equal(t, 100, summary.Deaths)
	// Broiler defaults are amber 5, red 10.
	assert.Equal(t, analytics.HealthRed, summary.HealthStatus)

	require.NotNil(t, summary.Projection)
	assert.Equal(t, 25, summary.Projection.DaysRemaining)
}

func TestSummarize_YoungBatchWithoutSamples(t *testing.T) {
	store := &fakeStore{
		batch: models.Batch{
			ID: "batch-2", FarmID: "farm-1", Name: "House 2",
			Species: models.SpeciesBroiler, AcquisitionDate: acquisition,
			InitialQuantity: 500, CurrentQuantity: 500, Status: models.BatchActive,
		},
		settings: models.FarmSettings{FarmID: "farm-1", Alerts: models.DefaultAlertSettings()},
	}

	svc := NewService(store, fakeStandards{curve: testCurve()}, zap.NewNop())

	summary, err := svc.Summarize(context.Background(), "farm-1", "batch-2", acquisition.AddDate(0, 0, 3))
	require.NoError(t, err)

	assert.Equal(t, analytics.ADGGrowthCurve, summary.ADG.Method)
	assert.Greater(t, summary.ADG.GramsPerDay, 0.0)
	assert.Nil(t, summary.LatestWeightG)
	assert.Nil(t, summary.PerformanceIndex)
	assert.Nil(t, summary.Projection)
	assert.Equal(t, analytics.HealthGreen, summary.HealthStatus)
}

func TestSeries_PairsExpectedAndActual(t *testing.T) {
	store := &fakeStore{
		batch: models.Batch{
			ID: "batch-1", FarmID: "farm-1", Species: models.SpeciesBroiler,
			AcquisitionDate: acquisition, InitialQuantity: 100, CurrentQuantity: 100,
			Status: models.BatchActive,
		},
		samples: []models.WeightSample{sampleOn(7, 0.2)},
	}

	svc := NewService(store, fakeStandards{curve: testCurve()}, zap.NewNop())

	series, err := svc.Series(context.Background(), "farm-1", "batch-1", acquisition.AddDate(0, 0, 10))
	require.NoError(t, err)
	require.Len(t, series, 11)

	require.NotNil(t, series[7].ActualWeightG)
	assert.InDelta(t, 200, *series[7].ActualWeightG, 0.001)
	assert.InDelta(t, 180, series[7].ExpectedWeightG, 0.001)
}
