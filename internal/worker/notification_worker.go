package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/ed-platform/account-service/internal/events"
	"github.com/ed-platform/account-service/internal/service"
)

const queueSize = 256

// NotificationWorker moves notification delivery off the request path. Event
// handlers enqueue; a single goroutine drains the queue and delivers. When
// the queue is full the event is dropped with a warning, never blocking the
// publisher.
type NotificationWorker struct {
	notifications *service.NotificationService
	logger        *zap.Logger
	queue         chan events.Event
}

// NewNotificationWorker subscribes the worker to every event type the
// notification service can deliver.
func NewNotificationWorker(dispatcher events.Dispatcher, notifications *service.NotificationService, logger *zap.Logger) *NotificationWorker {
	w := &NotificationWorker{
		notifications: notifications,
		logger:        logger,
		queue:         make(chan events.Event, queueSize),
	}
	for _, eventType := range notifications.NotificationTypes() {
		dispatcher.Subscribe(eventType, w.enqueue)
	}
	return w
}

// Start launches the delivery loop. It exits when ctx is cancelled.
func (w *NotificationWorker) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-w.queue:
				if err := w.notifications.Deliver(ctx, event); err != nil {
					w.logger.Warn("notification delivery failed",
						zap.String("event_id", event.ID),
						zap.String("event_type", string(event.Type)),
						zap.Error(err))
				}
			}
		}
	}()
}

func (w *NotificationWorker) enqueue(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full; dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
	}
	return nil
}
