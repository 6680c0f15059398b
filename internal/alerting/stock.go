package alerting

import (
	"fmt"
	"time"

	"github.com/mamadbah2/farmpulse/internal/domain/models"
)

// EvaluateFeedStock fires when remaining feed is at or under the tenant
// low-stock percentage of storage capacity. The boundary is inclusive. Lines
// without a positive capacity cannot be rated and are skipped.
func EvaluateFeedStock(stock models.FeedStock, settings models.AlertSettings) *models.AlertCandidate {
	if stock.CapacityKg <= 0 {
		return nil
	}

	remainingPct := stock.QuantityKg / stock.CapacityKg * 100
	if remainingPct > settings.LowStockPercent {
		return nil
	}

	return &models.AlertCandidate{
		Title: "Low feed stock",
		Message: fmt.Sprintf("%s is down to %.1f kg (%.0f%% of capacity).",
			stock.Name, stock.QuantityKg, remainingPct),
		Payload: models.LowStockPayload{
			ItemID:         stock.ID,
			ItemName:       stock.Name,
			RemainingPct:   remainingPct,
			RemainingUnits: stock.QuantityKg,
		},
	}
}

// EvaluateMedicationStock fires when remaining medication is at or under the
// tenant low-stock percentage of the initially purchased quantity.
func EvaluateMedicationStock(med models.Medication, settings models.AlertSettings) *models.AlertCandidate {
	if med.InitialQuantity <= 0 {
		return nil
	}

	remainingPct := med.Quantity / med.InitialQuantity * 100
	if remainingPct > settings.LowStockPercent {
		return nil
	}

	return &models.AlertCandidate{
		Title: "Low medication stock",
		Message: fmt.Sprintf("%s is down to %.1f units (%.0f%% of purchased quantity).",
			med.Name, med.Quantity, remainingPct),
		Payload: models.LowStockPayload{
			ItemID:         med.ID,
			ItemName:       med.Name,
			RemainingPct:   remainingPct,
			RemainingUnits: med.Quantity,
		},
	}
}

// EvaluateExpiringMedication fires when a medication with remaining stock
// expires within the tenant horizon, including already-expired stock.
func EvaluateExpiringMedication(med models.Medication, settings models.AlertSettings, now time.Time) *models.AlertCandidate {
	if med.Quantity <= 0 {
		return nil
	}

	daysLeft := int(med.ExpiryDate.Sub(now).Hours() / 24)
	if daysLeft > settings.MedicationExpiryDays {
		return nil
	}

	message := fmt.Sprintf("%s expires on %s (%d days left).", med.Name, med.ExpiryDate.Format("2006-01-02"), daysLeft)
	if daysLeft < 0 {
		message = fmt.Sprintf("%s expired on %s.", med.Name, med.ExpiryDate.Format("2006-01-02"))
	}

	return &models.AlertCandidate{
		Title:   "Medication expiring",
		Message: message,
		Payload: models.ExpiringMedicationPayload{
			MedicationID: med.ID,
			Name:         med.Name,
			ExpiryDate:   med.ExpiryDate,
			DaysLeft:     daysLeft,
		},
	}
}
