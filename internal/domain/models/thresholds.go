package models

// MortalityThresholds holds the amber/red mortality-rate percentages for one
// species. A tenant override replaces both values at once; there is no
// per-field merge.
type MortalityThresholds struct {
	Amber float64 `bson:"amber" json:"amber"`
	Red   float64 `bson:"red" json:"red"`
}

// defaultMortalityThresholds is the immutable system baseline. Acceptable
// mortality varies sharply by species: fingerlings tolerate far higher losses
// than adult ruminants.
var defaultMortalityThresholds = map[Species]MortalityThresholds{
	SpeciesBroiler: {Amber: 5, Red: 10},
	SpeciesLayer:   {Amber: 5, Red: 10},
	SpeciesCatfish: {Amber: 10, Red: 20},
	SpeciesTilapia: {Amber: 10, Red: 20},
	SpeciesCattle:  {Amber: 2, Red: 5},
	SpeciesGoats:   {Amber: 3, Red: 8},
	SpeciesSheep:   {Amber: 3, Red: 8},
}

// fallbackThresholds applies to species missing from both the override map and
// the defaults table.
var fallbackThresholds = MortalityThresholds{Amber: 5, Red: 10}

// ResolveMortalityThresholds returns the thresholds for a species, preferring
// the tenant override and falling back to the system default.
func ResolveMortalityThresholds(species Species, overrides map[Species]MortalityThresholds) MortalityThresholds {
	if t, ok := overrides[species]; ok {
		return t
	}
	if t, ok := defaultMortalityThresholds[species]; ok {
		return t
	}
	return fallbackThresholds
}

// AlertSettings carries the per-tenant knobs consumed by the alert evaluators.
type AlertSettings struct {
	// LowStockPercent fires the low-stock alert when remaining stock is at or
	// under this share of capacity (feed) or initial quantity (medication).
	LowStockPercent float64 `bson:"low_stock_percent" json:"low_stock_percent"`
	// MortalityAlertPercent and MortalityAlertQuantity must both be met for the
	// high-mortality alert to fire.
	MortalityAlertPercent  float64 `bson:"mortality_alert_percent" json:"mortality_alert_percent"`
	MortalityAlertQuantity int     `bson:"mortality_alert_quantity" json:"mortality_alert_quantity"`
	// GrowthDeviationPercent is the tolerated shortfall against the growth
	// standard before the growth-deviation alert fires.
	GrowthDeviationPercent float64 `bson:"growth_deviation_percent" json:"growth_deviation_percent"`
	// HarvestWindowDays triggers the batch-harvest alert once the projected
	// days remaining drop inside this window.
	HarvestWindowDays int `bson:"harvest_window_days" json:"harvest_window_days"`
	// EarlyHarvestMarginDays triggers the early-harvest alert when the
	// projection beats the planned harvest date by more than this margin.
	EarlyHarvestMarginDays int `bson:"early_harvest_margin_days" json:"early_harvest_margin_days"`
	// InvoiceDueSoonDays is the look-ahead horizon for invoice-due alerts.
	InvoiceDueSoonDays int `bson:"invoice_due_soon_days" json:"invoice_due_soon_days"`
	// MedicationExpiryDays is the look-ahead horizon for expiring medication.
	MedicationExpiryDays int `bson:"medication_expiry_days" json:"medication_expiry_days"`
}

// DefaultAlertSettings returns the system baseline used when a farm has no
// stored settings document.
func DefaultAlertSettings() AlertSettings {
	return AlertSettings{
		LowStockPercent:        20,
		MortalityAlertPercent:  10,
		MortalityAlertQuantity: 50,
		GrowthDeviationPercent: 10,
		HarvestWindowDays:      7,
		EarlyHarvestMarginDays: 7,
		InvoiceDueSoonDays:     3,
		MedicationExpiryDays:   30,
	}
}

// FarmSettings is the per-farm configuration snapshot an evaluation runs
// against. It is read once at the start of a sweep and never re-read
// mid-evaluation.
type FarmSettings struct {
	FarmID             string                          `bson:"_id" json:"farm_id"`
	OwnerUserID        string                          `bson:"owner_user_id" json:"owner_user_id"`
	Alerts             AlertSettings                   `bson:"alerts" json:"alerts"`
	MortalityOverrides map[Species]MortalityThresholds `bson:"mortality_overrides,omitempty" json:"mortality_overrides,omitempty"`
	Preferences        NotificationPreferences         `bson:"preferences,omitempty" json:"preferences,omitempty"`
}
