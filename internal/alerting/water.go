package alerting

import (
	"fmt"
	"strings"

	"github.com/mamadbah2/farmpulse/internal/domain/models"
)

// Safe ranges for pond water. Boundary values themselves are acceptable.
const (
	phMin              = 6.5
	phMax              = 8.5
	waterTempMinC      = 25.0
	waterTempMaxC      = 32.0
	dissolvedOxygenMin = 5.0
	ammoniaMax         = 0.02
)

// EvaluateWaterQuality checks a reading against the safe ranges and returns
// the list of violated parameters together with an alert candidate. The
// candidate is non-nil exactly when the issue list is non-empty.
func EvaluateWaterQuality(batch models.Batch, reading models.WaterQualityReading) ([]string, *models.AlertCandidate) {
	var issues []string

	if reading.PH < phMin || reading.PH > phMax {
		issues = append(issues, fmt.Sprintf("pH %.2f outside safe range %.1f to %.1f", reading.PH, phMin, phMax))
	}
	if reading.TemperatureCelsius < waterTempMinC || reading.TemperatureCelsius > waterTempMaxC {
		issues = append(issues, fmt.Sprintf("temperature %.1f C outside safe range %.0f to %.0f C",
			reading.TemperatureCelsius, waterTempMinC, waterTempMaxC))
	}
	if reading.DissolvedOxygenMgL < dissolvedOxygenMin {
		issues = append(issues, fmt.Sprintf("dissolved oxygen %.2f mg/L below %.0f mg/L",
			reading.DissolvedOxygenMgL, dissolvedOxygenMin))
	}
	if reading.AmmoniaMgL > ammoniaMax {
		issues = append(issues, fmt.Sprintf("ammonia %.3f mg/L above %.2f mg/L", reading.AmmoniaMgL, ammoniaMax))
	}

	if len(issues) == 0 {
		return nil, nil
	}

	candidate := &models.AlertCandidate{
		Title:   "Water quality",
		Message: fmt.Sprintf("Batch %s water needs attention: %s.", batch.Name, strings.Join(issues, "; ")),
		Payload: models.WaterQualityPayload{
			BatchID:   batch.ID,
			BatchName: batch.Name,
			Issues:    issues,
		},
	}
	return issues, candidate
}
