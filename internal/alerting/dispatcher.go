package alerting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmpulse/internal/domain/models"
)

// Dispatcher turns dedup-surviving alert candidates into persisted
// notifications, filtered by the owning user's preferences. Preference
// filtering happens here, strictly after the dedup gate, so a suppressed
// candidate never consumes the dedup window.
type Dispatcher struct {
	store    Store
	notifier Notifier
	logger   *zap.Logger
	newID    func() string
}

// NewDispatcher wires a dispatcher. The notifier may be nil, in which case
// notifications are persisted without an outbound push.
func NewDispatcher(store Store, notifier Notifier, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		store:    store,
		notifier: notifier,
		logger:   logger,
		newID:    func() string { return uuid.NewString() },
	}
}

// Dispatch persists and emits the candidates the user's preferences allow,
// dropping disallowed ones silently. A failed insert for one candidate is
// collected and does not stop the rest; the error is the join of all insert
// failures.
func (d *Dispatcher) Dispatch(ctx context.Context, candidates []models.AlertCandidate, prefs models.NotificationPreferences, now time.Time) ([]models.Notification, error) {
	var dispatched []models.Notification
	var errs []error

	for _, candidate := range candidates {
		alertType := candidate.Payload.Type()

		if !prefs.Enabled(alertType) {
			d.logger.Debug("notification suppressed by preference",
				zap.String("type", string(alertType)),
				zap.String("subject_id", candidate.Payload.SubjectID()))
			continue
		}

		notification := models.Notification{
			ID:        d.newID(),
			UserID:    candidate.UserID,
			FarmID:    candidate.FarmID,
			Type:      alertType,
			Title:     candidate.Title,
			Message:   candidate.Message,
			Metadata:  candidate.Payload.Metadata(),
			Read:      false,
			CreatedAt: now,
		}

		if err := d.store.InsertNotification(ctx, notification); err != nil {
			errs = append(errs, fmt.Errorf("insert notification %s/%s: %w", alertType, notification.SubjectID(), err))
			continue
		}

		dispatched = append(dispatched, notification)

		if d.notifier != nil {
			if err := d.notifier.Notify(ctx, notification); err != nil {
				d.logger.Warn("outbound notification failed",
					zap.String("type", string(alertType)),
					zap.String("notification_id", notification.ID),
					zap.Error(err))
			}
		}
	}

	return dispatched, errors.Join(errs...)
}
