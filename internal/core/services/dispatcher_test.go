package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/velogo/bike-rental-service/internal/core/domain"
)

func TestDispatchPending(t *testing.T) {
	events := []*domain.OutboxEvent{
		domain.NewOutboxEvent(domain.EventRideStarted, 101, 42, nil),
		domain.NewOutboxEvent(domain.EventRideCompleted, 101, 42, nil),
	}
	outbox := newFakeOutbox(events...)
	notifier := &fakeNotifier{}
	dispatcher := NewDispatcher(outbox, notifier, nopLogger{}, time.Second)

	if sent := dispatcher.DispatchPending(context.Background()); sent != 2 {
		t.Fatalf("sent = %d, want 2", sent)
	}
	if len(notifier.published) != 2 {
		t.Errorf("published = %d, want 2", len(notifier.published))
	}

	// Nothing left pending.
	if sent := dispatcher.DispatchPending(context.Background()); sent != 0 {
		t.Errorf("second pass sent = %d, want 0", sent)
	}
}

func TestDispatchFailureLeavesEventPending(t *testing.T) {
	events := []*domain.OutboxEvent{
		domain.NewOutboxEvent(domain.EventRideCompleted, 101, 42, nil),
		domain.NewOutboxEvent(domain.EventBookingCompleted, 101, 42, nil),
	}
	outbox := newFakeOutbox(events...)
	notifier := &fakeNotifier{failKind: domain.EventRideCompleted, failErr: errors.New("broker down")}
	dispatcher := NewDispatcher(outbox, notifier, nopLogger{}, time.Second)

	if sent := dispatcher.DispatchPending(context.Background()); sent != 1 {
		t.Fatalf("sent = %d, want 1", sent)
	}

	pending, err := outbox.PendingEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("PendingEvents: %v", err)
	}
	if len(pending) != 1 || pending[0].Kind != domain.EventRideCompleted {
		t.Errorf("pending = %+v, want the failed ride.completed event", pending)
	}

	// Broker recovers, the event goes out on the next tick.
	notifier.failErr = nil
	if sent := dispatcher.DispatchPending(context.Background()); sent != 1 {
		t.Errorf("retry sent = %d, want 1", sent)
	}
}

func TestDispatcherRunStopsOnCancel(t *testing.T) {
	outbox := newFakeOutbox()
	dispatcher := NewDispatcher(outbox, &fakeNotifier{}, nopLogger{}, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		dispatcher.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop on cancel")
	}
}
