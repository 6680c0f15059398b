package analytics

import "github.com/mamadbah2/farmpulse/internal/domain/models"

// HealthStatus is the three-tier mortality classification for a batch.
type HealthStatus string

const (
	HealthGreen HealthStatus = "green"
	HealthAmber HealthStatus = "amber"
	HealthRed   HealthStatus = "red"
)

// MortalityRate returns cumulative mortality as a percentage of the initial
// quantity, 0 when the initial quantity is not positive. The result is never
// negative but is deliberately not capped at 100: cumulative bookkeeping
// across re-stocking can legitimately exceed the original cohort size.
func MortalityRate(initialQuantity, currentQuantity int) float64 {
	if initialQuantity <= 0 {
		return 0
	}
	rate := float64(initialQuantity-currentQuantity) / float64(initialQuantity) * 100
	if rate < 0 {
		return 0
	}
	return rate
}

// ClassifyHealth maps a mortality rate to a health status using the species
// thresholds, tenant overrides taking precedence over system defaults. Both
// threshold boundaries are inclusive of the worse tier.
func ClassifyHealth(mortalityRate float64, species models.Species, overrides map[models.Species]models.MortalityThresholds) HealthStatus {
	thresholds := models.ResolveMortalityThresholds(species, overrides)
	switch {
	case mortalityRate >= thresholds.Red:
		return HealthRed
	case mortalityRate >= thresholds.Amber:
		return HealthAmber
	default:
		return HealthGreen
	}
}
