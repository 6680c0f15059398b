package alerting

import (
	"time"

	"github.com/mamadbah2/farmpulse/internal/domain/models"
)

// DedupWindow is the wall-clock period during which a second alert of the
// same type for the same subject is suppressed.
const DedupWindow = 24 * time.Hour

// ShouldCreateAlert decides whether a new alert of the given type may be
// created for the subject. It returns false iff a prior notification with the
// same (subject, type) pair was created within the dedup window, measured
// against the provided instant; a differing type or subject never blocks. The
// recent slice is the caller's snapshot of prior notifications and may be in
// any order.
func ShouldCreateAlert(subjectID string, alertType models.AlertType, recent []models.Notification, now time.Time) bool {
	cutoff := now.Add(-DedupWindow)
	for _, n := range recent {
		if n.Type != alertType || n.SubjectID() != subjectID {
			continue
		}
		if n.CreatedAt.After(cutoff) {
			return false
		}
	}
	return true
}
