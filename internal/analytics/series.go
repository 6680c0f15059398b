package analytics

import (
	"sort"
	"time"

	"github.com/mamadbah2/farmpulse/internal/domain/models"
)

// SeriesPoint is one day of the growth chart. ActualWeightG and
// DeviationPercent are nil on days without an observed or interpolated sample.
type SeriesPoint struct {
	Day              int      `json:"day"`
	ExpectedWeightG  float64  `json:"expected_weight_g"`
	ActualWeightG    *float64 `json:"actual_weight_g"`
	DeviationPercent *float64 `json:"deviation_percent"`
}

// BuildSeries produces one point per day from 0 to ageDays inclusive, pairing
// the growth-standard expectation with observed weights. A day gets an actual
// weight when it lies between two samples (linearly interpolated) or within
// sampleWindowDays of the nearest sample; sample weights are converted from
// kilograms to grams. Deviation is populated wherever both weights are present
// and the expected weight is positive.
func BuildSeries(acquisitionDate time.Time, ageDays int, curve Curve, samples []models.WeightSample, sampleWindowDays int) []SeriesPoint {
	if ageDays < 0 {
		ageDays = 0
	}

	observed := sampleDays(acquisitionDate, samples)

	series := make([]SeriesPoint, 0, ageDays+1)
	for day := 0; day <= ageDays; day++ {
		point := SeriesPoint{
			Day:             day,
			ExpectedWeightG: curve.ExpectedAt(day),
		}

		if actual, ok := actualAt(observed, day, sampleWindowDays); ok {
			point.ActualWeightG = &actual
			if point.ExpectedWeightG > 0 {
				deviation := DeviationPercent(actual, point.ExpectedWeightG)
				point.DeviationPercent = &deviation
			}
		}

		series = append(series, point)
	}

	return series
}

type observedWeight struct {
	day     int
	weightG float64
}

// sampleDays maps samples onto day-of-life offsets, keeping the last sample
// recorded for a given day and discarding pre-acquisition dates.
func sampleDays(acquisitionDate time.Time, samples []models.WeightSample) []observedWeight {
	byDay := make(map[int]float64, len(samples))
	for _, s := range samples {
		day := daysBetween(acquisitionDate, s.Date)
		if day < 0 {
			continue
		}
		byDay[day] = s.AverageWeightKg * 1000
	}

	observed := make([]observedWeight, 0, len(byDay))
	for day, weight := range byDay {
		observed = append(observed, observedWeight{day: day, weightG: weight})
	}
	sort.Slice(observed, func(i, j int) bool { return observed[i].day < observed[j].day })
	return observed
}

func actualAt(observed []observedWeight, day, windowDays int) (float64, bool) {
	if len(observed) == 0 {
		return 0, false
	}

	idx := sort.Search(len(observed), func(i int) bool { return observed[i].day >= day })

	if idx < len(observed) && observed[idx].day == day {
		return observed[idx].weightG, true
	}

	// Between two samples: interpolate.
	if idx > 0 && idx < len(observed) {
		lower, upper := observed[idx-1], observed[idx]
		span := float64(upper.day - lower.day)
		fraction := float64(day-lower.day) / span
		return lower.weightG + (upper.weightG-lower.weightG)*fraction, true
	}

	// Outside the sampled range: accept the nearest sample within the window.
	var nearest observedWeight
	if idx == 0 {
		nearest = observed[0]
	} else {
		nearest = observed[len(observed)-1]
	}
	distance := nearest.day - day
	if distance < 0 {
		distance = -distance
	}
	if windowDays > 0 && distance <= windowDays {
		return nearest.weightG, true
	}
	return 0, false
}
