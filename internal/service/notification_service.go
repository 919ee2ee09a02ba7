package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ed-platform/account-service/internal/config"
	"github.com/ed-platform/account-service/internal/events"
)

// NotificationService turns domain events into outbound notifications. The
// worker feeds it off the request path.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{logger: logger, cfg: cfg}
}

// NotificationTypes lists the event types this service delivers.
func (n *NotificationService) NotificationTypes() []events.EventType {
	return []events.EventType{
		events.EventAccountCreated,
		events.EventAccountLocked,
		events.EventLoginFailed,
		events.EventGroupCreated,
	}
}

// Deliver routes one event to its notification.
func (n *NotificationService) Deliver(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.EventAccountCreated:
		n.logger.Info("AccountCreated", zap.Any("payload", event.Payload))
		n.sendWebhookStub(ctx, event)
	case events.EventAccountLocked:
		n.logger.Info("AccountLocked", zap.Any("payload", event.Payload))
		n.sendWebhookStub(ctx, event)
	case events.EventLoginFailed:
		n.logger.Warn("LoginFailed", zap.Any("payload", event.Payload))
	case events.EventGroupCreated:
		n.logger.Info("GroupCreated", zap.Any("payload", event.Payload))
		n.sendWebhookStub(ctx, event)
	default:
		return fmt.Errorf("no notification for event type %q", event.Type)
	}
	return nil
}

func (n *NotificationService) sendWebhookStub(_ context.Context, event events.Event) {
	if n.cfg.WebhookURL == "" {
		return
	}
	n.logger.Info("webhook notification (stub)",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
	)
}
