package insights

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmpulse/internal/alerting"
	"github.com/mamadbah2/farmpulse/internal/analytics"
	"github.com/mamadbah2/farmpulse/internal/domain/models"
)

// chartSampleWindowDays is how far a chart day may sit from its nearest weight
// sample and still borrow its value.
const chartSampleWindowDays = 3

// Store is the slice of the record store the insights service reads.
type Store interface {
	GetBatch(ctx context.Context, farmID, batchID string) (models.Batch, error)
	ListWeightSamples(ctx context.Context, batchID string) ([]models.WeightSample, error)
	SumMortality(ctx context.Context, batchID string) (int, error)
	GetFarmSettings(ctx context.Context, farmID string) (models.FarmSettings, error)
}

// Service computes read-only growth and health analytics for single batches.
type Service struct {
	store     Store
	standards alerting.StandardsProvider
	logger    *zap.Logger
}

// NewService wires a new insights service instance.
func NewService(store Store, standards alerting.StandardsProvider, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, standards: standards, logger: logger}
}

// BatchSummary aggregates the derived performance metrics for one batch.
// Pointer fields are nil when the batch lacks the observations to compute
// them; that is the normal state of a freshly registered batch.
type BatchSummary struct {
	Batch            models.Batch                 `json:"batch"`
	AgeDays          int                          `json:"age_days"`
	ADG              analytics.ADGEstimate        `json:"adg"`
	LatestWeightG    *float64                     `json:"latest_weight_g"`
	ExpectedWeightG  *float64                     `json:"expected_weight_g"`
	PerformanceIndex *float64                     `json:"performance_index"`
	DeviationPercent *float64                     `json:"deviation_percent"`
	GrowthStatus     *analytics.GrowthStatus      `json:"growth_status"`
	MortalityRate    float64                      `json:"mortality_rate"`
	Deaths           int                          `json:"deaths"`
	HealthStatus     analytics.HealthStatus       `json:"health_status"`
	Projection       *analytics.HarvestProjection `json:"projection"`
}

// Summarize computes the batch summary at the given instant.
func (s *Service) Summarize(ctx context.Context, farmID, batchID string, now time.Time) (BatchSummary, error) {
	batch, err := s.store.GetBatch(ctx, farmID, batchID)
	if err != nil {
		return BatchSummary{}, fmt.Errorf("load batch %s: %w", batchID, err)
	}

	samples, err := s.store.ListWeightSamples(ctx, batchID)
	if err != nil {
		return BatchSummary{}, fmt.Errorf("load weight samples for batch %s: %w", batchID, err)
	}

	deaths, err := s.store.SumMortality(ctx, batchID)
	if err != nil {
		return BatchSummary{}, fmt.Errorf("sum mortality for batch %s: %w", batchID, err)
	}

	settings, err := s.store.GetFarmSettings(ctx, farmID)
	if err != nil {
		return BatchSummary{}, fmt.Errorf("load settings for farm %s: %w", farmID, err)
	}

	curve, err := s.standards.CurveFor(ctx, batch.Species)
	if err != nil {
		s.logger.Warn("growth standards unavailable",
			zap.String("species", string(batch.Species)), zap.Error(err))
		curve = analytics.Curve{}
	}

	ageDays := batch.AgeInDays(now)
	rate := analytics.MortalityRate(batch.InitialQuantity, batch.CurrentQuantity)

	summary := BatchSummary{
		Batch:         batch,
		AgeDays:       ageDays,
		ADG:           analytics.EstimateADG(samples, batch.AcquisitionDate, ageDays, curve),
		MortalityRate: rate,
		Deaths:        deaths,
		HealthStatus:  analytics.ClassifyHealth(rate, batch.Species, settings.MortalityOverrides),
	}

	if len(samples) > 0 {
		latest := samples[len(samples)-1]
		latestG := latest.AverageWeightKg * 1000
		summary.LatestWeightG = &latestG

		expectedG := curve.ExpectedAt(batch.AgeInDays(latest.Date))
		if expectedG > 0 {
			index := analytics.PerformanceIndex(latestG, expectedG)
			deviation := analytics.DeviationPercent(latestG, expectedG)
			status := analytics.ClassifyStatus(index)
			summary.ExpectedWeightG = &expectedG
			summary.PerformanceIndex = &index
			summary.DeviationPercent = &deviation
			summary.GrowthStatus = &status
		}

		if batch.TargetWeightG != nil {
			summary.Projection = analytics.ProjectHarvest(latestG, *batch.TargetWeightG, summary.ADG.GramsPerDay, now)
		}
	}

	return summary, nil
}

// Series builds the day-by-day chart series for one batch.
func (s *Service) Series(ctx context.Context, farmID, batchID string, now time.Time) ([]analytics.SeriesPoint, error) {
	batch, err := s.store.GetBatch(ctx, farmID, batchID)
	if err != nil {
		return nil, fmt.Errorf("load batch %s: %w", batchID, err)
	}

	samples, err := s.store.ListWeightSamples(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("load weight samples for batch %s: %w", batchID, err)
	}

	curve, err := s.standards.CurveFor(ctx, batch.Species)
	if err != nil {
		s.logger.Warn("growth standards unavailable",
			zap.String("species", string(batch.Species)), zap.Error(err))
		curve = analytics.Curve{}
	}

	return analytics.BuildSeries(batch.AcquisitionDate, batch.AgeInDays(now), curve, samples, chartSampleWindowDays), nil
}
