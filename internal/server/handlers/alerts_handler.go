package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmpulse/internal/domain/models"
	"github.com/mamadbah2/farmpulse/internal/repository/mongodb"
	"github.com/mamadbah2/farmpulse/internal/service/insights"
)

// Evaluator triggers an on-demand alert evaluation for one farm.
type Evaluator interface {
	EvaluateFarm(ctx context.Context, farmID, userID string, now time.Time) ([]models.Notification, error)
}

// NotificationStore is the notification access the HTTP layer needs.
type NotificationStore interface {
	ListNotifications(ctx context.Context, userID string, limit int64) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID string, read bool) error
}

// AlertsHandler exposes evaluation, analytics and notification endpoints.
type AlertsHandler struct {
	engine   Evaluator
	insights *insights.Service
	store    NotificationStore
	logger   *zap.Logger
}

// NewAlertsHandler constructs the HTTP handler adapter.
func NewAlertsHandler(engine Evaluator, insightsSvc *insights.Service, store NotificationStore, logger *zap.Logger) *AlertsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertsHandler{engine: engine, insights: insightsSvc, store: store, logger: logger}
}

// Evaluate runs the alert pipeline for a farm and returns the newly
// dispatched notifications. Intended for event handlers that just recorded a
// mutating write and want immediate evaluation instead of waiting for the
// sweep.
func (h *AlertsHandler) Evaluate(c *gin.Context) {
	farmID := c.Param("farmID")
	userID := c.Query("user_id")

	dispatched, err := h.engine.EvaluateFarm(c.Request.Context(), farmID, userID, time.Now().UTC())
	if err != nil {
		// Partial failures still dispatched what they could; report both.
		h.logger.Error("farm evaluation finished with errors", zap.String("farm_id", farmID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":         "evaluation incomplete",
			"notifications": dispatched,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": dispatched})
}

// BatchSummary returns the derived performance metrics for one batch.
func (h *AlertsHandler) BatchSummary(c *gin.Context) {
	summary, err := h.insights.Summarize(c.Request.Context(), c.Param("farmID"), c.Param("batchID"), time.Now().UTC())
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "batch not found"})
			return
		}
		h.logger.Error("batch summary failed", zap.String("batch_id", c.Param("batchID")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// BatchSeries returns the day-by-day expected/actual weight series for charts.
func (h *AlertsHandler) BatchSeries(c *gin.Context) {
	series, err := h.insights.Series(c.Request.Context(), c.Param("farmID"), c.Param("batchID"), time.Now().UTC())
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "batch not found"})
			return
		}
		h.logger.Error("batch series failed", zap.String("batch_id", c.Param("batchID")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build series"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"series": series})
}

// ListNotifications returns a user's notifications, newest first.
func (h *AlertsHandler) ListNotifications(c *gin.Context) {
	limit := int64(50)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	notifications, err := h.store.ListNotifications(c.Request.Context(), c.Param("userID"), limit)
	if err != nil {
		h.logger.Error("list notifications failed", zap.String("user_id", c.Param("userID")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkRead toggles the read flag on a notification.
func (h *AlertsHandler) MarkRead(c *gin.Context) {
	// Missing or empty body defaults to marking read.
	read := true
	var req struct {
		Read *bool `json:"read"`
	}
	if err := c.ShouldBindJSON(&req); err == nil && req.Read != nil {
		read = *req.Read
	}

	if err := h.store.MarkNotificationRead(c.Request.Context(), c.Param("notificationID"), read); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		h.logger.Error("mark notification read failed", zap.String("notification_id", c.Param("notificationID")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update notification"})
		return
	}

	c.Status(http.StatusNoContent)
}
