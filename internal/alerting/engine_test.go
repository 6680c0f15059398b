package alerting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmpulse/internal/analytics"
	"github.com/mamadbah2/farmpulse/internal/domain/models"
)

type fakeStore struct {
	settings      map[string]models.FarmSettings
	batches       map[string][]models.Batch
	samples       map[string][]models.WeightSample
	deaths        map[string]int
	readings      map[string]*models.WaterQualityReading
	feedStocks    map[string][]models.FeedStock
	medications   map[string][]models.Medication
	invoices      map[string][]models.Invoice
	notifications []models.Notification

	failInsertFor   models.AlertType
	failSettingsFor string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		settings:    make(map[string]models.FarmSettings),
		batches:     make(map[string][]models.Batch),
		samples:     make(map[string][]models.WeightSample),
		deaths:      make(map[string]int),
		readings:    make(map[string]*models.WaterQualityReading),
		feedStocks:  make(map[string][]models.FeedStock),
		medications: make(map[string][]models.Medication),
		invoices:    make(map[string][]models.Invoice),
	}
}

func (s *fakeStore) ListFarmIDs(context.Context) ([]string, error) {
	ids := make([]string, 0, len(s.settings))
	for id := range s.settings {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *fakeStore) GetFarmSettings(_ context.Context, farmID string) (models.FarmSettings, error) {
	if s.failSettingsFor == farmID {
		return models.FarmSettings{}, errors.New("settings unavailable")
	}
	settings, ok := s.settings[farmID]
	if !ok {
		return models.FarmSettings{}, errors.New("settings not found")
	}
	return settings, nil
}

func (s *fakeStore) ListActiveBatches(_ context.Context, farmID string) ([]models.Batch, error) {
	return s.batches[farmID], nil
}

func (s *fakeStore) ListWeightSamples(_ context.Context, batchID string) ([]models.WeightSample, error) {
	return s.samples[batchID], nil
}

func (s *fakeStore) SumMortality(_ context.Context, batchID string) (int, error) {
	return s.deaths[batchID], nil
}

func (s *fakeStore) LatestWaterReading(_ context.Context, batchID string) (*models.WaterQualityReading, error) {
	return s.readings[batchID], nil
}

func (s *fakeStore) ListFeedStocks(_ context.Context, farmID string) ([]models.FeedStock, error) {
	return s.feedStocks[farmID], nil
}

func (s *fakeStore) ListMedications(_ context.Context, farmID string) ([]models.Medication, error) {
	return s.medications[farmID], nil
}

func (s *fakeStore) ListUnpaidInvoices(_ context.Context, farmID string) ([]models.Invoice, error) {
	return s.invoices[farmID], nil
}

func (s *fakeStore) RecentNotifications(_ context.Context, farmID string, since time.Time) ([]models.Notification, error) {
	var recent []models.Notification
	for _, n := range s.notifications {
		if n.FarmID == farmID && !n.CreatedAt.Before(since) {
			recent = append(recent, n)
		}
	}
	return recent, nil
}

func (s *fakeStore) InsertNotification(_ context.Context, n models.Notification) error {
	if s.failInsertFor != "" && n.Type == s.failInsertFor {
		return errors.New("insert failed")
	}
	s.notifications = append(s.notifications, n)
	return nil
}

type fakeStandards struct {
	curves map[models.Species]analytics.Curve
}

func (f fakeStandards) CurveFor(_ context.Context, species models.Species) (analytics.Curve, error) {
	return f.curves[species], nil
}

type fakeNotifier struct {
	sent []models.Notification
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, n models.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, n)
	return nil
}

func newTestEngine(store *fakeStore, notifier Notifier) *Engine {
	logger := zap.NewNop()
	dispatcher := NewDispatcher(store, notifier, logger)
	standards := fakeStandards{curves: map[models.Species]analytics.Curve{
		models.SpeciesBroiler: standardCurve(),
	}}
	return NewEngine(store, standards, dispatcher, logger)
}

func highMortalityFarm() *fakeStore {
	store := newFakeStore()
	store.settings["farm-1"] = models.FarmSettings{
		FarmID:      "farm-1",
		OwnerUserID: "user-1",
		Alerts:      testSettings(),
	}
	store.batches["farm-1"] = []models.Batch{activeBatch(1000, 800)}
	store.deaths["batch-1"] = 200
	return store
}

func TestEvaluateFarm_HighMortalityEndToEnd(t *testing.T) {
	store := highMortalityFarm()
	notifier := &fakeNotifier{}
	engine := newTestEngine(store, notifier)
	now := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)

	dispatched, err := engine.EvaluateFarm(context.Background(), "farm-1", "", now)
	require.NoError(t, err)
	require.Len(t, dispatched, 1)

	n := dispatched[0]
	assert.Equal(t, models.AlertHighMortality, n.Type)
	assert.Equal(t, "user-1", n.UserID)
	assert.Equal(t, "farm-1", n.FarmID)
	assert.Equal(t, "batch-1", n.SubjectID())
	assert.False(t, n.Read)
	assert.Equal(t, now, n.CreatedAt)

	require.Len(t, notifier.sent, 1)
}

func TestEvaluateFarm_DedupWithinWindow(t *testing.T) {
	store := highMortalityFarm()
	engine := newTestEngine(store, nil)
	now := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)

	first, err := engine.EvaluateFarm(context.Background(), "farm-1", "", now)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// One hour later the condition still holds but the window blocks.
	second, err := engine.EvaluateFarm(context.Background(), "farm-1", "", now.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, second)

	// After the window expires the alert fires again.
	third, err := engine.EvaluateFarm(context.Background(), "farm-1", "", now.Add(25*time.Hour))
	require.NoError(t, err)
	require.Len(t, third, 1)

	assert.Len(t, store.notifications, 2)
}

func TestEvaluateFarm_PreferenceSuppressionDoesNotConsumeWindow(t *testing.T) {
	store := highMortalityFarm()
	settings := store.settings["farm-1"]
	settings.Preferences = models.NotificationPreferences{models.AlertHighMortality: false}
	store.settings["farm-1"] = settings

	engine := newTestEngine(store, nil)
	now := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)

	dispatched, err := engine.EvaluateFarm(context.Background(), "farm-1", "", now)
	require.NoError(t, err)
	assert.Empty(t, dispatched)
	assert.Empty(t, store.notifications)

	// Re-enabling the preference an hour later alerts immediately: the
	// suppressed candidate left no phantom cooldown behind.
	settings.Preferences[models.AlertHighMortality] = true
	store.settings["farm-1"] = settings

	dispatched, err = engine.EvaluateFarm(context.Background(), "farm-1", "", now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, dispatched, 1)
}

func TestEvaluateFarm_ExplicitUserOverridesOwner(t *testing.T) {
	store := highMortalityFarm()
	engine := newTestEngine(store, nil)

	dispatched, err := engine.EvaluateFarm(context.Background(), "farm-1", "user-9", time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, dispatched, 1)
	assert.Equal(t, "user-9", dispatched[0].UserID)
}

func TestEvaluateFarm_WaterQualityForAquaticBatch(t *testing.T) {
	store := newFakeStore()
	store.settings["farm-2"] = models.FarmSettings{FarmID: "farm-2", OwnerUserID: "user-2", Alerts: testSettings()}
	store.batches["farm-2"] = []models.Batch{{
		ID: "pond-1", FarmID: "farm-2", Name: "Pond 1",
		Species: models.SpeciesCatfish, AcquisitionDate: acquisition,
		InitialQuantity: 2000, CurrentQuantity: 1990, Status: models.BatchActive,
	}}
	store.readings["pond-1"] = &models.WaterQualityReading{
		BatchID: "pond-1", PH: 9.2, TemperatureCelsius: 28, DissolvedOxygenMgL: 6, AmmoniaMgL: 0.01,
	}

	engine := newTestEngine(store, nil)

	dispatched, err := engine.EvaluateFarm(context.Background(), "farm-2", "", time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, dispatched, 1)
	assert.Equal(t, models.AlertWaterQuality, dispatched[0].Type)
	assert.Equal(t, "pond-1", dispatched[0].SubjectID())
}

func TestEvaluateFarm_InsertFailureIsolated(t *testing.T) {
	store := highMortalityFarm()
	store.feedStocks["farm-1"] = []models.FeedStock{{ID: "feed-1", FarmID: "farm-1", Name: "Starter", QuantityKg: 5, CapacityKg: 100}}
	store.failInsertFor = models.AlertHighMortality

	engine := newTestEngine(store, nil)

	dispatched, err := engine.EvaluateFarm(context.Background(), "farm-1", "", time.Now().UTC())
	require.Error(t, err)
	// The low-stock notification still made it through.
	require.Len(t, dispatched, 1)
	assert.Equal(t, models.AlertLowStock, dispatched[0].Type)
}

func TestEvaluateAllFarms_IsolatesFailingFarm(t *testing.T) {
	store := highMortalityFarm()
	// A second farm whose settings fail to load must not block the first.
	store.settings["farm-broken"] = models.FarmSettings{FarmID: "farm-broken"}
	store.failSettingsFor = "farm-broken"

	engine := newTestEngine(store, nil)

	dispatched, err := engine.EvaluateAllFarms(context.Background(), time.Now().UTC())
	require.Error(t, err)
	require.Len(t, dispatched, 1)
	assert.Equal(t, models.AlertHighMortality, dispatched[0].Type)
}

func TestDispatcher_NotifierFailureDoesNotFailDispatch(t *testing.T) {
	store := highMortalityFarm()
	notifier := &fakeNotifier{err: errors.New("webhook down")}
	engine := newTestEngine(store, notifier)

	dispatched, err := engine.EvaluateFarm(context.Background(), "farm-1", "", time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, dispatched, 1)
	assert.Len(t, store.notifications, 1)
}
