package analytics

import (
	"time"

	"github.com/mamadbah2/farmpulse/internal/domain/models"
)

// ADGMethod identifies which estimation strategy produced an ADG value.
type ADGMethod string

const (
	ADGTwoSamples  ADGMethod = "two_samples"
	ADGSingleSample ADGMethod = "single_sample"
	ADGGrowthCurve ADGMethod = "growth_curve_estimate"
)

// ADGEstimate is the outcome of an average-daily-gain estimation.
type ADGEstimate struct {
	GramsPerDay float64   `json:"grams_per_day"`
	Method      ADGMethod `json:"method"`
}

// EstimateADG computes average daily gain in grams per day, trying strategies
// in priority order:
//
//  1. Two samples: slope between the two most recent samples. May be negative
//     when the batch is losing weight; that is surfaced, not clamped.
//  2. Single sample: sample weight spread over the days since acquisition,
//     floored at one day.
//  3. No samples: local slope of the species growth standard around the
//     current age.
//
// Samples must be ordered by date ascending. The result is always finite.
func EstimateADG(samples []models.WeightSample, acquisitionDate time.Time, ageDays int, curve Curve) ADGEstimate {
	switch {
	case len(samples) >= 2:
		latest := samples[len(samples)-1]
		prior := samples[len(samples)-2]
		days := daysBetween(prior.Date, latest.Date)
		if days < 1 {
			days = 1
		}
		gainG := (latest.AverageWeightKg - prior.AverageWeightKg) * 1000
		return ADGEstimate{GramsPerDay: gainG / float64(days), Method: ADGTwoSamples}

	case len(samples) == 1:
		sample := samples[0]
		days := daysBetween(acquisitionDate, sample.Date)
		if days < 1 {
			days = 1
		}
		return ADGEstimate{GramsPerDay: sample.AverageWeightKg * 1000 / float64(days), Method: ADGSingleSample}

	default:
		return ADGEstimate{GramsPerDay: curveSlope(curve, ageDays), Method: ADGGrowthCurve}
	}
}

// curveSlope derives an implied daily gain from the growth standard around the
// given age. Flat or exhausted stretches fall back to the curve's mean daily
// gain so the estimate stays strictly positive for any non-degenerate curve.
func curveSlope(curve Curve, ageDays int) float64 {
	if curve.Empty() {
		return 0
	}
	if ageDays < 0 {
		ageDays = 0
	}
	slope := curve.ExpectedAt(ageDays+1) - curve.ExpectedAt(ageDays)
	if slope > 0 {
		return slope
	}
	return curve.meanDailyGain()
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
