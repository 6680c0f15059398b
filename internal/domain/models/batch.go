package models

import "time"

// Species enumerates the livestock species a batch can hold.
type Species string

const (
	SpeciesBroiler Species = "broiler"
	SpeciesLayer   Species = "layer"
	SpeciesCatfish Species = "catfish"
	SpeciesTilapia Species = "tilapia"
	SpeciesCattle  Species = "cattle"
	SpeciesGoats   Species = "goats"
	SpeciesSheep   Species = "sheep"
)

// IsAquatic reports whether the species lives in water and therefore carries
// water-quality readings.
func (s Species) IsAquatic() bool {
	return s == SpeciesCatfish || s == SpeciesTilapia
}

// BatchStatus enumerates the lifecycle states of a batch.
type BatchStatus string

const (
	BatchActive   BatchStatus = "active"
	BatchSold     BatchStatus = "sold"
	BatchDepleted BatchStatus = "depleted"
)

// Batch represents a cohort of animals acquired together and tracked as a unit.
// CurrentQuantity only decreases through recorded mortality or recorded sales.
type Batch struct {
	ID                string      `bson:"_id" json:"id"`
	FarmID            string      `bson:"farm_id" json:"farm_id"`
	Name              string      `bson:"name" json:"name"`
	Species           Species     `bson:"species" json:"species"`
	AcquisitionDate   time.Time   `bson:"acquisition_date" json:"acquisition_date"`
	InitialQuantity   int         `bson:"initial_quantity" json:"initial_quantity"`
	CurrentQuantity   int         `bson:"current_quantity" json:"current_quantity"`
	TargetWeightG     *float64    `bson:"target_weight_g,omitempty" json:"target_weight_g,omitempty"`
	TargetHarvestDate *time.Time  `bson:"target_harvest_date,omitempty" json:"target_harvest_date,omitempty"`
	Status            BatchStatus `bson:"status" json:"status"`
	CreatedAt         time.Time   `bson:"created_at" json:"created_at"`
}

// AgeInDays returns the batch age measured in whole days at the provided instant.
func (b Batch) AgeInDays(now time.Time) int {
	if now.Before(b.AcquisitionDate) {
		return 0
	}
	return int(now.Sub(b.AcquisitionDate).Hours() / 24)
}

// WeightSample captures a periodic average-weight measurement for a batch.
// Samples are immutable once recorded except by explicit correction.
type WeightSample struct {
	ID              string    `bson:"_id" json:"id"`
	BatchID         string    `bson:"batch_id" json:"batch_id"`
	Date            time.Time `bson:"date" json:"date"`
	AverageWeightKg float64   `bson:"average_weight_kg" json:"average_weight_kg"`
	SampleSize      int       `bson:"sample_size" json:"sample_size"`
}

// GrowthStandard is one reference row of the expected-weight-by-age curve for a
// species. Rows are monotonically non-decreasing in weight within a species.
type GrowthStandard struct {
	Species         Species `bson:"species" json:"species"`
	Day             int     `bson:"day" json:"day"`
	ExpectedWeightG float64 `bson:"expected_weight_g" json:"expected_weight_g"`
}

// MortalityCause enumerates recorded causes of death.
type MortalityCause string

const (
	CauseDisease   MortalityCause = "disease"
	CausePredator  MortalityCause = "predator"
	CauseWeather   MortalityCause = "weather"
	CauseAccident  MortalityCause = "accident"
	CauseUnknown   MortalityCause = "unknown"
	CauseCulling   MortalityCause = "culling"
	CauseStarveOut MortalityCause = "starve_out"
)

// MortalityRecord captures a mortality incident for a batch. Append-only;
// deleting a record restores the subtracted quantity to the batch.
type MortalityRecord struct {
	ID       string         `bson:"_id" json:"id"`
	BatchID  string         `bson:"batch_id" json:"batch_id"`
	Date     time.Time      `bson:"date" json:"date"`
	Quantity int            `bson:"quantity" json:"quantity"`
	Cause    MortalityCause `bson:"cause" json:"cause"`
}

// WaterQualityReading captures pond parameters for an aquatic batch.
type WaterQualityReading struct {
	ID                 string    `bson:"_id" json:"id"`
	BatchID            string    `bson:"batch_id" json:"batch_id"`
	Date               time.Time `bson:"date" json:"date"`
	PH                 float64   `bson:"ph" json:"ph"`
	TemperatureCelsius float64   `bson:"temperature_celsius" json:"temperature_celsius"`
	DissolvedOxygenMgL float64   `bson:"dissolved_oxygen_mg_l" json:"dissolved_oxygen_mg_l"`
	AmmoniaMgL         float64   `bson:"ammonia_mg_l" json:"ammonia_mg_l"`
}

// FeedStock tracks a feed inventory line for a farm.
type FeedStock struct {
	ID         string  `bson:"_id" json:"id"`
	FarmID     string  `bson:"farm_id" json:"farm_id"`
	Name       string  `bson:"name" json:"name"`
	QuantityKg float64 `bson:"quantity_kg" json:"quantity_kg"`
	CapacityKg float64 `bson:"capacity_kg" json:"capacity_kg"`
}

// Medication tracks a medication inventory line, including its expiry date.
type Medication struct {
	ID              string    `bson:"_id" json:"id"`
	FarmID          string    `bson:"farm_id" json:"farm_id"`
	Name            string    `bson:"name" json:"name"`
	Quantity        float64   `bson:"quantity" json:"quantity"`
	InitialQuantity float64   `bson:"initial_quantity" json:"initial_quantity"`
	ExpiryDate      time.Time `bson:"expiry_date" json:"expiry_date"`
}

// Invoice captures a receivable tied to a farm sale.
type Invoice struct {
	ID      string    `bson:"_id" json:"id"`
	FarmID  string    `bson:"farm_id" json:"farm_id"`
	Client  string    `bson:"client" json:"client"`
	Amount  float64   `bson:"amount" json:"amount"`
	DueDate time.Time `bson:"due_date" json:"due_date"`
	Paid    bool      `bson:"paid" json:"paid"`
}
