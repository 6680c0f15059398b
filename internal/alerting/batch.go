package alerting

import (
	"fmt"
	"time"

	"github.com/mamadbah2/farmpulse/internal/analytics"
	"github.com/mamadbah2/farmpulse/internal/domain/models"
)

// EvaluateHighMortality fires when the batch mortality rate reaches the tenant
// alert percentage AND cumulative deaths reach the tenant quantity floor. Both
// conditions are required: the percentage alone false-positives on small
// cohorts, the quantity alone misses severe outbreaks in large ones.
func EvaluateHighMortality(batch models.Batch, deaths int, settings models.AlertSettings) *models.AlertCandidate {
	rate := analytics.MortalityRate(batch.InitialQuantity, batch.CurrentQuantity)
	if rate < settings.MortalityAlertPercent || deaths < settings.MortalityAlertQuantity {
		return nil
	}

	return &models.AlertCandidate{
		Title: "High mortality",
		Message: fmt.Sprintf("Batch %s has lost %d animals, a mortality rate of %.1f%%.",
			batch.Name, deaths, rate),
		Payload: models.HighMortalityPayload{
			BatchID:       batch.ID,
			BatchName:     batch.Name,
			MortalityRate: rate,
			Deaths:        deaths,
		},
	}
}

// EvaluateGrowthDeviation fires when the latest weighed sample falls behind
// the species growth standard by more than the tenant tolerance. Only
// underperformance alerts; overperformance is the early-harvest evaluator's
// concern.
func EvaluateGrowthDeviation(batch models.Batch, samples []models.WeightSample, curve analytics.Curve, settings models.AlertSettings) *models.AlertCandidate {
	if len(samples) == 0 || curve.Empty() {
		return nil
	}

	latest := samples[len(samples)-1]
	ageAtSample := batch.AgeInDays(latest.Date)
	expectedG := curve.ExpectedAt(ageAtSample)
	if expectedG <= 0 {
		return nil
	}

	actualG := latest.AverageWeightKg * 1000
	deviation := analytics.DeviationPercent(actualG, expectedG)
	if deviation >= -settings.GrowthDeviationPercent {
		return nil
	}

	return &models.AlertCandidate{
		Title: "Growth behind standard",
		Message: fmt.Sprintf("Batch %s is %.1f%% below its expected weight for day %d.",
			batch.Name, -deviation, ageAtSample),
		Payload: models.GrowthDeviationPayload{
			BatchID:          batch.ID,
			BatchName:        batch.Name,
			DeviationPercent: deviation,
			PerformanceIndex: analytics.PerformanceIndex(actualG, expectedG),
		},
	}
}

// EvaluateHarvestReadiness projects the batch against its target weight and
// returns up to two candidates: batch-harvest when the projection enters the
// harvest window, and early-harvest when it beats the planned harvest date by
// more than the configured margin. Batches without a target weight or without
// any weighed sample are skipped; a non-positive growth rate yields no
// projection and therefore no alert.
func EvaluateHarvestReadiness(batch models.Batch, samples []models.WeightSample, estimate analytics.ADGEstimate, settings models.AlertSettings, now time.Time) (harvest, early *models.AlertCandidate) {
	if batch.TargetWeightG == nil || len(samples) == 0 {
		return nil, nil
	}

	currentG := samples[len(samples)-1].AverageWeightKg * 1000
	projection := analytics.ProjectHarvest(currentG, *batch.TargetWeightG, estimate.GramsPerDay, now)
	if projection == nil {
		return nil, nil
	}

	if projection.DaysRemaining <= settings.HarvestWindowDays {
		harvest = &models.AlertCandidate{
			Title: "Harvest window",
			Message: fmt.Sprintf("Batch %s is projected to reach target weight in %d days.",
				batch.Name, projection.DaysRemaining),
			Payload: models.BatchHarvestPayload{
				BatchID:       batch.ID,
				BatchName:     batch.Name,
				DaysRemaining: projection.DaysRemaining,
				ProjectedDate: projection.HarvestDate,
			},
		}
	}

	if batch.TargetHarvestDate != nil {
		daysEarly := int(batch.TargetHarvestDate.Sub(projection.HarvestDate).Hours() / 24)
		if daysEarly > settings.EarlyHarvestMarginDays {
			early = &models.AlertCandidate{
				Title: "Early harvest possible",
				Message: fmt.Sprintf("Batch %s could be harvested %d days ahead of plan, around %s.",
					batch.Name, daysEarly, projection.HarvestDate.Format("2006-01-02")),
				Payload: models.EarlyHarvestPayload{
					BatchID:       batch.ID,
					BatchName:     batch.Name,
					ProjectedDate: projection.HarvestDate,
					DaysEarly:     daysEarly,
				},
			}
		}
	}

	return harvest, early
}
