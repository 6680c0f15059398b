package notifier

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmpulse/internal/domain/models"
	whatsappclient "github.com/mamadbah2/farmpulse/pkg/clients/whatsapp"
)

// WhatsAppNotifier pushes dispatched notifications to the farm manager's
// WhatsApp number. Emission is best effort; the notification row in the store
// remains the source of truth.
type WhatsAppNotifier struct {
	client      whatsappclient.Client
	recipientID string
	logger      *zap.Logger
}

// NewWhatsAppNotifier wires a notifier targeting the configured recipient.
func NewWhatsAppNotifier(client whatsappclient.Client, recipientID string, logger *zap.Logger) *WhatsAppNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhatsAppNotifier{
		client:      client,
		recipientID: recipientID,
		logger:      logger,
	}
}

// Notify sends the notification as a text message.
func (n *WhatsAppNotifier) Notify(ctx context.Context, notification models.Notification) error {
	body := fmt.Sprintf("%s\n%s", notification.Title, notification.Message)

	_, err := n.client.SendTextMessage(ctx, whatsappclient.SendTextMessageRequest{
		To:   n.recipientID,
		Body: body,
	})
	if err != nil {
		return fmt.Errorf("push notification %s: %w", notification.ID, err)
	}

	n.logger.Debug("notification pushed",
		zap.String("notification_id", notification.ID),
		zap.String("type", string(notification.Type)))
	return nil
}
