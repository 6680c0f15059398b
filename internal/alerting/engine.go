package alerting

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmpulse/internal/analytics"
	"github.com/mamadbah2/farmpulse/internal/domain/models"
)

// Engine is the evaluation entry point. One evaluation loads a snapshot of a
// farm's state, runs every applicable evaluator, gates positive findings
// through the dedup window and hands survivors to the dispatcher. Evaluations
// are serialized per farm and run freely in parallel across farms.
type Engine struct {
	store      Store
	standards  StandardsProvider
	dispatcher *Dispatcher
	logger     *zap.Logger

	mu        sync.Mutex
	farmLocks map[string]*sync.Mutex
}

// NewEngine wires an evaluation engine.
func NewEngine(store Store, standards StandardsProvider, dispatcher *Dispatcher, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:      store,
		standards:  standards,
		dispatcher: dispatcher,
		logger:     logger,
		farmLocks:  make(map[string]*sync.Mutex),
	}
}

// EvaluateFarm evaluates every alert source for one farm and returns the
// newly dispatched notifications. userID overrides the farm owner as the
// notification recipient when non-empty. Load failures for one entity are
// logged and skipped so the rest of the farm still evaluates; insert failures
// are joined into the returned error.
func (e *Engine) EvaluateFarm(ctx context.Context, farmID, userID string, now time.Time) ([]models.Notification, error) {
	lock := e.lockFor(farmID)
	lock.Lock()
	defer lock.Unlock()

	settings, err := e.store.GetFarmSettings(ctx, farmID)
	if err != nil {
		return nil, fmt.Errorf("load settings for farm %s: %w", farmID, err)
	}
	if userID == "" {
		userID = settings.OwnerUserID
	}

	recent, err := e.store.RecentNotifications(ctx, farmID, now.Add(-DedupWindow))
	if err != nil {
		return nil, fmt.Errorf("load recent notifications for farm %s: %w", farmID, err)
	}

	var candidates []models.AlertCandidate
	var errs []error

	batchCandidates, batchErrs := e.evaluateBatches(ctx, farmID, settings, now)
	candidates = append(candidates, batchCandidates...)
	errs = append(errs, batchErrs...)

	farmCandidates, farmErrs := e.evaluateFarmInventory(ctx, farmID, settings, now)
	candidates = append(candidates, farmCandidates...)
	errs = append(errs, farmErrs...)

	// Dedup gate before the preference filter: suppressed-by-preference
	// candidates must not consume the window.
	allowed := candidates[:0]
	for _, c := range candidates {
		c.FarmID = farmID
		c.UserID = userID
		if !ShouldCreateAlert(c.Payload.SubjectID(), c.Payload.Type(), recent, now) {
			continue
		}
		allowed = append(allowed, c)
	}

	dispatched, err := e.dispatcher.Dispatch(ctx, allowed, settings.Preferences, now)
	if err != nil {
		errs = append(errs, err)
	}

	e.logger.Info("farm evaluated",
		zap.String("farm_id", farmID),
		zap.Int("candidates", len(allowed)),
		zap.Int("dispatched", len(dispatched)))

	return dispatched, errors.Join(errs...)
}

// EvaluateAllFarms sweeps every farm concurrently. A failing farm is isolated:
// its error is collected and the remaining farms still run. The sweep is
// idempotent, so a skipped or failed farm at worst reports slightly stale
// status on the next pass.
func (e *Engine) EvaluateAllFarms(ctx context.Context, now time.Time) ([]models.Notification, error) {
	farmIDs, err := e.store.ListFarmIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list farms: %w", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var dispatched []models.Notification
	var errs []error

	for _, farmID := range farmIDs {
		wg.Add(1)
		go func(farmID string) {
			defer wg.Done()
			notifications, err := e.EvaluateFarm(ctx, farmID, "", now)
			mu.Lock()
			defer mu.Unlock()
			dispatched = append(dispatched, notifications...)
			if err != nil {
				errs = append(errs, fmt.Errorf("farm %s: %w", farmID, err))
			}
		}(farmID)
	}
	wg.Wait()

	return dispatched, errors.Join(errs...)
}

func (e *Engine) evaluateBatches(ctx context.Context, farmID string, settings models.FarmSettings, now time.Time) ([]models.AlertCandidate, []error) {
	batches, err := e.store.ListActiveBatches(ctx, farmID)
	if err != nil {
		return nil, []error{fmt.Errorf("list batches for farm %s: %w", farmID, err)}
	}

	var candidates []models.AlertCandidate
	var errs []error

	for _, batch := range batches {
		deaths, err := e.store.SumMortality(ctx, batch.ID)
		if err != nil {
			e.logger.Error("mortality sum failed", zap.String("batch_id", batch.ID), zap.Error(err))
			errs = append(errs, err)
		} else if c := EvaluateHighMortality(batch, deaths, settings.Alerts); c != nil {
			candidates = append(candidates, *c)
		}

		samples, err := e.store.ListWeightSamples(ctx, batch.ID)
		if err != nil {
			e.logger.Error("weight samples load failed", zap.String("batch_id", batch.ID), zap.Error(err))
			errs = append(errs, err)
			samples = nil
		}

		curve, err := e.standards.CurveFor(ctx, batch.Species)
		if err != nil {
			e.logger.Warn("growth standards unavailable",
				zap.String("species", string(batch.Species)), zap.Error(err))
			curve = analytics.Curve{}
		}

		if c := EvaluateGrowthDeviation(batch, samples, curve, settings.Alerts); c != nil {
			candidates = append(candidates, *c)
		}

		estimate := analytics.EstimateADG(samples, batch.AcquisitionDate, batch.AgeInDays(now), curve)
		harvest, early := EvaluateHarvestReadiness(batch, samples, estimate, settings.Alerts, now)
		if harvest != nil {
			candidates = append(candidates, *harvest)
		}
		if early != nil {
			candidates = append(candidates, *early)
		}

		if batch.Species.IsAquatic() {
			reading, err := e.store.LatestWaterReading(ctx, batch.ID)
			if err != nil {
				e.logger.Error("water reading load failed", zap.String("batch_id", batch.ID), zap.Error(err))
				errs = append(errs, err)
			} else if reading != nil {
				if _, c := EvaluateWaterQuality(batch, *reading); c != nil {
					candidates = append(candidates, *c)
				}
			}
		}
	}

	return candidates, errs
}

func (e *Engine) evaluateFarmInventory(ctx context.Context, farmID string, settings models.FarmSettings, now time.Time) ([]models.AlertCandidate, []error) {
	var candidates []models.AlertCandidate
	var errs []error

	stocks, err := e.store.ListFeedStocks(ctx, farmID)
	if err != nil {
		errs = append(errs, fmt.Errorf("list feed stocks: %w", err))
	}
	for _, stock := range stocks {
		if c := EvaluateFeedStock(stock, settings.Alerts); c != nil {
			candidates = append(candidates, *c)
		}
	}

	medications, err := e.store.ListMedications(ctx, farmID)
	if err != nil {
		errs = append(errs, fmt.Errorf("list medications: %w", err))
	}
	for _, med := range medications {
		if c := EvaluateMedicationStock(med, settings.Alerts); c != nil {
			candidates = append(candidates, *c)
		}
		if c := EvaluateExpiringMedication(med, settings.Alerts, now); c != nil {
			candidates = append(candidates, *c)
		}
	}

	invoices, err := e.store.ListUnpaidInvoices(ctx, farmID)
	if err != nil {
		errs = append(errs, fmt.Errorf("list invoices: %w", err))
	}
	for _, invoice := range invoices {
		if c := EvaluateInvoiceDue(invoice, settings.Alerts, now); c != nil {
			candidates = append(candidates, *c)
		}
	}

	return candidates, errs
}

func (e *Engine) lockFor(farmID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.farmLocks[farmID]
	if !ok {
		lock = &sync.Mutex{}
		e.farmLocks[farmID] = lock
	}
	return lock
}
