package services

import (
	"context"
	"time"

	"github.com/velogo/bike-rental-service/internal/core/ports"
)

const dispatchBatchSize = 50

// Dispatcher drains the notification outbox and delivers events to the
// broker. It fails independently of the lifecycle transitions that produced
// the events: an undeliverable event stays pending and is retried on the
// next tick.
type Dispatcher struct {
	outbox   ports.OutboxRepository
	notifier ports.NotifierPort
	logger   ports.LoggerPort
	interval time.Duration
}

func NewDispatcher(
	outbox ports.OutboxRepository,
	notifier ports.NotifierPort,
	logger ports.LoggerPort,
	interval time.Duration,
) *Dispatcher {
	return &Dispatcher{
		outbox:   outbox,
		notifier: notifier,
		logger:   logger,
		interval: interval,
	}
}

// Run polls the outbox until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.DispatchPending(ctx)
		}
	}
}

// DispatchPending delivers one batch of pending events and returns how many
// were sent.
func (d *Dispatcher) DispatchPending(ctx context.Context) int {
	events, err := d.outbox.PendingEvents(ctx, dispatchBatchSize)
	if err != nil {
		d.logger.Error("Failed to load pending events", map[string]interface{}{
			"error": err.Error(),
		})
		return 0
	}

	sent := 0
	for _, event := range events {
		if err := d.notifier.PublishEvent(ctx, event); err != nil {
			d.logger.Warn("Failed to publish event, left pending", map[string]interface{}{
				"error":    err.Error(),
				"event_id": event.ID.String(),
				"kind":     string(event.Kind),
			})
			continue
		}
		if err := d.outbox.MarkSent(ctx, event.ID); err != nil {
			d.logger.Error("Failed to mark event sent", map[string]interface{}{
				"error":    err.Error(),
				"event_id": event.ID.String(),
			})
			continue
		}
		sent++
	}

	if sent > 0 {
		d.logger.Info("Dispatched notification events", map[string]interface{}{
			"sent": sent,
		})
	}
	return sent
}
