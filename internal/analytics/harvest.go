package analytics

import (
	"math"
	"time"
)

// HarvestProjection reports when a batch is expected to reach target weight.
type HarvestProjection struct {
	DaysRemaining int       `json:"days_remaining"`
	HarvestDate   time.Time `json:"harvest_date"`
}

// ProjectHarvest estimates the days remaining until the batch reaches its
// target weight at the given growth rate. A non-positive rate makes projection
// meaningless and returns nil; this is a normal outcome for a declining batch,
// not an error. At or above target, the projection is zero days from now.
func ProjectHarvest(currentWeightG, targetWeightG, adgGramsPerDay float64, now time.Time) *HarvestProjection {
	if adgGramsPerDay <= 0 {
		return nil
	}
	if currentWeightG >= targetWeightG {
		return &HarvestProjection{DaysRemaining: 0, HarvestDate: now}
	}

	days := int(math.Ceil((targetWeightG - currentWeightG) / adgGramsPerDay))
	return &HarvestProjection{
		DaysRemaining: days,
		HarvestDate:   now.AddDate(0, 0, days),
	}
}
