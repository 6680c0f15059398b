package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/farmpulse/internal/domain/models"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")

const (
	settingsColl      = "farm_settings"
	batchesColl       = "batches"
	samplesColl       = "weight_samples"
	mortalityColl     = "mortality_records"
	waterColl         = "water_quality_readings"
	feedColl          = "feed_stocks"
	medicationsColl   = "medications"
	invoicesColl      = "invoices"
	notificationsColl = "notifications"
)

// Store implements the record-store surface over MongoDB.
type Store struct {
	client *mongo.Client
	dbName string
}

// NewStore connects to MongoDB and verifies the connection.
func NewStore(ctx context.Context, uri string, dbName string) (*Store, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{client: client, dbName: dbName}, nil
}

// EnsureIndexes creates the indexes the alerting queries rely on, most
// importantly the notification recency lookup backing the dedup gate.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll(notificationsColl).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "farm_id", Value: 1},
			{Key: "type", Value: 1},
			{Key: "metadata.subjectId", Value: 1},
			{Key: "created_at", Value: -1},
		}},
		{Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "created_at", Value: -1},
		}},
	})
	if err != nil {
		return fmt.Errorf("create notification indexes: %w", err)
	}

	_, err = s.coll(samplesColl).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "batch_id", Value: 1}, {Key: "date", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create weight sample index: %w", err)
	}

	return nil
}

// ListFarmIDs returns every farm that has a settings document.
func (s *Store) ListFarmIDs(ctx context.Context) ([]string, error) {
	values, err := s.coll(settingsColl).Distinct(ctx, "_id", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list farm ids: %w", err)
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// GetFarmSettings loads the per-farm configuration snapshot, falling back to
// system defaults when the farm has none stored.
func (s *Store) GetFarmSettings(ctx context.Context, farmID string) (models.FarmSettings, error) {
	var settings models.FarmSettings
	err := s.coll(settingsColl).FindOne(ctx, bson.M{"_id": farmID}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.FarmSettings{FarmID: farmID, Alerts: models.DefaultAlertSettings()}, nil
	}
	if err != nil {
		return models.FarmSettings{}, fmt.Errorf("load settings for farm %s: %w", farmID, err)
	}
	return settings, nil
}

// SaveFarmSettings upserts the farm configuration document.
func (s *Store) SaveFarmSettings(ctx context.Context, settings models.FarmSettings) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.coll(settingsColl).ReplaceOne(ctx, bson.M{"_id": settings.FarmID}, settings, opts)
	if err != nil {
		return fmt.Errorf("save settings for farm %s: %w", settings.FarmID, err)
	}
	return nil
}

// ListActiveBatches returns the farm batches still being raised.
func (s *Store) ListActiveBatches(ctx context.Context, farmID string) ([]models.Batch, error) {
	cursor, err := s.coll(batchesColl).Find(ctx, bson.M{"farm_id": farmID, "status": models.BatchActive})
	if err != nil {
		return nil, fmt.Errorf("list batches for farm %s: %w", farmID, err)
	}

	var batches []models.Batch
	if err := cursor.All(ctx, &batches); err != nil {
		return nil, fmt.Errorf("decode batches for farm %s: %w", farmID, err)
	}
	return batches, nil
}

// GetBatch loads a single batch within a farm.
func (s *Store) GetBatch(ctx context.Context, farmID, batchID string) (models.Batch, error) {
	var batch models.Batch
	err := s.coll(batchesColl).FindOne(ctx, bson.M{"_id": batchID, "farm_id": farmID}).Decode(&batch)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Batch{}, ErrNotFound
	}
	if err != nil {
		return models.Batch{}, fmt.Errorf("load batch %s: %w", batchID, err)
	}
	return batch, nil
}

// ListWeightSamples returns the batch samples ordered by date ascending.
func (s *Store) ListWeightSamples(ctx context.Context, batchID string) ([]models.WeightSample, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := s.coll(samplesColl).Find(ctx, bson.M{"batch_id": batchID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list weight samples for batch %s: %w", batchID, err)
	}

	var samples []models.WeightSample
	if err := cursor.All(ctx, &samples); err != nil {
		return nil, fmt.Errorf("decode weight samples for batch %s: %w", batchID, err)
	}
	return samples, nil
}

// SumMortality returns the cumulative recorded deaths for a batch.
func (s *Store) SumMortality(ctx context.Context, batchID string) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"batch_id": batchID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$quantity"}}}},
	}

	cursor, err := s.coll(mortalityColl).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("sum mortality for batch %s: %w", batchID, err)
	}

	var results []struct {
		Total int `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("decode mortality sum for batch %s: %w", batchID, err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// LatestWaterReading returns the most recent reading for a batch, nil when
// none has been recorded.
func (s *Store) LatestWaterReading(ctx context.Context, batchID string) (*models.WaterQualityReading, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}})

	var reading models.WaterQualityReading
	err := s.coll(waterColl).FindOne(ctx, bson.M{"batch_id": batchID}, opts).Decode(&reading)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load water reading for batch %s: %w", batchID, err)
	}
	return &reading, nil
}

// ListFeedStocks returns the farm feed inventory lines.
func (s *Store) ListFeedStocks(ctx context.Context, farmID string) ([]models.FeedStock, error) {
	cursor, err := s.coll(feedColl).Find(ctx, bson.M{"farm_id": farmID})
	if err != nil {
		return nil, fmt.Errorf("list feed stocks for farm %s: %w", farmID, err)
	}

	var stocks []models.FeedStock
	if err := cursor.All(ctx, &stocks); err != nil {
		return nil, fmt.Errorf("decode feed stocks for farm %s: %w", farmID, err)
	}
	return stocks, nil
}

// ListMedications returns the farm medication inventory lines.
func (s *Store) ListMedications(ctx context.Context, farmID string) ([]models.Medication, error) {
	cursor, err := s.coll(medicationsColl).Find(ctx, bson.M{"farm_id": farmID})
	if err != nil {
		return nil, fmt.Errorf("list medications for farm %s: %w", farmID, err)
	}

	var medications []models.Medication
	if err := cursor.All(ctx, &medications); err != nil {
		return nil, fmt.Errorf("decode medications for farm %s: %w", farmID, err)
	}
	return medications, nil
}

// ListUnpaidInvoices returns the farm invoices still awaiting payment.
func (s *Store) ListUnpaidInvoices(ctx context.Context, farmID string) ([]models.Invoice, error) {
	cursor, err := s.coll(invoicesColl).Find(ctx, bson.M{"farm_id": farmID, "paid": false})
	if err != nil {
		return nil, fmt.Errorf("list invoices for farm %s: %w", farmID, err)
	}

	var invoices []models.Invoice
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, fmt.Errorf("decode invoices for farm %s: %w", farmID, err)
	}
	return invoices, nil
}

// RecentNotifications returns the farm notifications created at or after the
// given instant. Served by the (farm_id, type, metadata.subjectId, created_at)
// index so the dedup lookup stays cheap.
func (s *Store) RecentNotifications(ctx context.Context, farmID string, since time.Time) ([]models.Notification, error) {
	filter := bson.M{"farm_id": farmID, "created_at": bson.M{"$gte": since}}
	cursor, err := s.coll(notificationsColl).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list recent notifications for farm %s: %w", farmID, err)
	}

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("decode recent notifications for farm %s: %w", farmID, err)
	}
	return notifications, nil
}

// InsertNotification appends a notification row. Rows are never updated
// afterwards except for the read flag.
func (s *Store) InsertNotification(ctx context.Context, n models.Notification) error {
	if _, err := s.coll(notificationsColl).InsertOne(ctx, n); err != nil {
		return fmt.Errorf("insert notification %s: %w", n.ID, err)
	}
	return nil
}

// ListNotifications returns a user's notifications, newest first.
func (s *Store) ListNotifications(ctx context.Context, userID string, limit int64) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := s.coll(notificationsColl).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list notifications for user %s: %w", userID, err)
	}

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("decode notifications for user %s: %w", userID, err)
	}
	return notifications, nil
}

// MarkNotificationRead toggles the read flag on a notification.
func (s *Store) MarkNotificationRead(ctx context.Context, notificationID string, read bool) error {
	result, err := s.coll(notificationsColl).UpdateOne(ctx,
		bson.M{"_id": notificationID},
		bson.M{"$set": bson.M{"read": read}})
	if err != nil {
		return fmt.Errorf("mark notification %s read: %w", notificationID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the MongoDB connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) coll(name string) *mongo.Collection {
	return s.client.Database(s.dbName).Collection(name)
}
