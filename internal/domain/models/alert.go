package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AlertType enumerates the notification categories the engine can emit.
type AlertType string

const (
	AlertLowStock           AlertType = "lowStock"
	AlertHighMortality      AlertType = "highMortality"
	AlertInvoiceDue         AlertType = "invoiceDue"
	AlertBatchHarvest       AlertType = "batchHarvest"
	AlertGrowthDeviation    AlertType = "growthDeviation"
	AlertEarlyHarvest       AlertType = "earlyHarvest"
	AlertWaterQuality       AlertType = "waterQuality"
	AlertExpiringMedication AlertType = "expiringMedication"
)

// AlertPayload is the closed set of strongly typed alert contents. Every
// variant names the subject the deduplication gate keys on.
type AlertPayload interface {
	Type() AlertType
	SubjectID() string
	Metadata() map[string]string
}

// HighMortalityPayload reports a batch whose mortality crossed the tenant limits.
type HighMortalityPayload struct {
	BatchID       string
	BatchName     string
	MortalityRate float64
	Deaths        int
}

func (p HighMortalityPayload) Type() AlertType   { return AlertHighMortality }
func (p HighMortalityPayload) SubjectID() string { return p.BatchID }

func (p HighMortalityPayload) Metadata() map[string]string {
	return map[string]string{
		"subjectId":     p.BatchID,
		"batchId":       p.BatchID,
		"mortalityRate": formatFloat(p.MortalityRate),
		"deaths":        strconv.Itoa(p.Deaths),
	}
}

// LowStockPayload reports a feed or medication line at or under the stock floor.
type LowStockPayload struct {
	ItemID         string
	ItemName       string
	RemainingPct   float64
	RemainingUnits float64
}

func (p LowStockPayload) Type() AlertType   { return AlertLowStock }
func (p LowStockPayload) SubjectID() string { return p.ItemID }

func (p LowStockPayload) Metadata() map[string]string {
	return map[string]string{
		"subjectId":    p.ItemID,
		"itemId":       p.ItemID,
		"remainingPct": formatFloat(p.RemainingPct),
	}
}

// WaterQualityPayload reports the pond parameters outside their safe ranges.
type WaterQualityPayload struct {
	BatchID   string
	BatchName string
	Issues    []string
}

func (p WaterQualityPayload) Type() AlertType   { return AlertWaterQuality }
func (p WaterQualityPayload) SubjectID() string { return p.BatchID }

func (p WaterQualityPayload) Metadata() map[string]string {
	return map[string]string{
		"subjectId": p.BatchID,
		"batchId":   p.BatchID,
		"issues":    strings.Join(p.Issues, ","),
	}
}

// GrowthDeviationPayload reports a batch growing behind its species standard.
type GrowthDeviationPayload struct {
	BatchID          string
	BatchName        string
	DeviationPercent float64
	PerformanceIndex float64
}

func (p GrowthDeviationPayload) Type() AlertType   { return AlertGrowthDeviation }
func (p GrowthDeviationPayload) SubjectID() string { return p.BatchID }

func (p GrowthDeviationPayload) Metadata() map[string]string {
	return map[string]string{
		"subjectId":        p.BatchID,
		"batchId":          p.BatchID,
		"deviationPercent": formatFloat(p.DeviationPercent),
	}
}

// EarlyHarvestPayload reports a batch projected to hit target weight ahead of
// its planned harvest date.
type EarlyHarvestPayload struct {
	BatchID       string
	BatchName     string
	ProjectedDate time.Time
	DaysEarly     int
}

func (p EarlyHarvestPayload) Type() AlertType   { return AlertEarlyHarvest }
func (p EarlyHarvestPayload) SubjectID() string { return p.BatchID }

func (p EarlyHarvestPayload) Metadata() map[string]string {
	return map[string]string{
		"subjectId":     p.BatchID,
		"batchId":       p.BatchID,
		"projectedDate": p.ProjectedDate.Format("2006-01-02"),
		"daysEarly":     strconv.Itoa(p.DaysEarly),
	}
}

// BatchHarvestPayload reports a batch entering its harvest window.
type BatchHarvestPayload struct {
	BatchID       string
	BatchName     string
	DaysRemaining int
	ProjectedDate time.Time
}

func (p BatchHarvestPayload) Type() AlertType   { return AlertBatchHarvest }
func (p BatchHarvestPayload) SubjectID() string { return p.BatchID }

func (p BatchHarvestPayload) Metadata() map[string]string {
	return map[string]string{
		"subjectId":     p.BatchID,
		"batchId":       p.BatchID,
		"daysRemaining": strconv.Itoa(p.DaysRemaining),
		"projectedDate": p.ProjectedDate.Format("2006-01-02"),
	}
}

// InvoiceDuePayload reports an unpaid invoice due soon or overdue.
type InvoiceDuePayload struct {
	InvoiceID string
	Client    string
	Amount    float64
	DueDate   time.Time
	Overdue   bool
}

func (p InvoiceDuePayload) Type() AlertType   { return AlertInvoiceDue }
func (p InvoiceDuePayload) SubjectID() string { return p.InvoiceID }

func (p InvoiceDuePayload) Metadata() map[string]string {
	return map[string]string{
		"subjectId": p.InvoiceID,
		"invoiceId": p.InvoiceID,
		"dueDate":   p.DueDate.Format("2006-01-02"),
		"overdue":   strconv.FormatBool(p.Overdue),
	}
}

// ExpiringMedicationPayload reports a medication close to its expiry date.
type ExpiringMedicationPayload struct {
	MedicationID string
	Name         string
	ExpiryDate   time.Time
	DaysLeft     int
}

func (p ExpiringMedicationPayload) Type() AlertType   { return AlertExpiringMedication }
func (p ExpiringMedicationPayload) SubjectID() string { return p.MedicationID }

func (p ExpiringMedicationPayload) Metadata() map[string]string {
	return map[string]string{
		"subjectId":    p.MedicationID,
		"medicationId": p.MedicationID,
		"expiryDate":   p.ExpiryDate.Format("2006-01-02"),
		"daysLeft":     strconv.Itoa(p.DaysLeft),
	}
}

// AlertCandidate is a positive evaluator outcome awaiting dedup and dispatch.
type AlertCandidate struct {
	FarmID  string
	UserID  string
	Title   string
	Message string
	Payload AlertPayload
}

// Notification is the persisted, user-visible form of a dispatched alert.
// Rows are append-only; only the read flag is ever mutated afterwards.
type Notification struct {
	ID        string            `bson:"_id" json:"id"`
	UserID    string            `bson:"user_id" json:"user_id"`
	FarmID    string            `bson:"farm_id" json:"farm_id"`
	Type      AlertType         `bson:"type" json:"type"`
	Title     string            `bson:"title" json:"title"`
	Message   string            `bson:"message" json:"message"`
	Metadata  map[string]string `bson:"metadata" json:"metadata"`
	Read      bool              `bson:"read" json:"read"`
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
}

// SubjectID returns the dedup subject recorded in the notification metadata.
func (n Notification) SubjectID() string {
	return n.Metadata["subjectId"]
}

// NotificationPreferences holds the per-user opt-in flags keyed by alert type.
// A type missing from the map counts as enabled.
type NotificationPreferences map[AlertType]bool

// Enabled reports whether the user accepts notifications of the given type.
func (p NotificationPreferences) Enabled(t AlertType) bool {
	if p == nil {
		return true
	}
	enabled, ok := p[t]
	if !ok {
		return true
	}
	return enabled
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
