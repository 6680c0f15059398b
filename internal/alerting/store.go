package alerting

import (
	"context"
	"time"

	"github.com/mamadbah2/farmpulse/internal/analytics"
	"github.com/mamadbah2/farmpulse/internal/domain/models"
)

// Store is the record-store surface the engine consumes. Implementations load
// current entity state; the engine never writes anything but notifications.
type Store interface {
	ListFarmIDs(ctx context.Context) ([]string, error)
	GetFarmSettings(ctx context.Context, farmID string) (models.FarmSettings, error)
	ListActiveBatches(ctx context.Context, farmID string) ([]models.Batch, error)
	// ListWeightSamples returns the batch samples ordered by date ascending.
	ListWeightSamples(ctx context.Context, batchID string) ([]models.WeightSample, error)
	// SumMortality returns the cumulative recorded deaths for a batch.
	SumMortality(ctx context.Context, batchID string) (int, error)
	// LatestWaterReading returns the most recent reading, nil when none exists.
	LatestWaterReading(ctx context.Context, batchID string) (*models.WaterQualityReading, error)
	ListFeedStocks(ctx context.Context, farmID string) ([]models.FeedStock, error)
	ListMedications(ctx context.Context, farmID string) ([]models.Medication, error)
	ListUnpaidInvoices(ctx context.Context, farmID string) ([]models.Invoice, error)
	// RecentNotifications returns the farm notifications created at or after
	// the given instant, for the dedup gate.
	RecentNotifications(ctx context.Context, farmID string, since time.Time) ([]models.Notification, error)
	InsertNotification(ctx context.Context, n models.Notification) error
}

// StandardsProvider resolves the growth-standard curve for a species.
type StandardsProvider interface {
	CurveFor(ctx context.Context, species models.Species) (analytics.Curve, error)
}

// Notifier pushes a persisted notification to an external channel. Emission is
// best effort; the notification row is the source of truth.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}
