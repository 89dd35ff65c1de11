package publisher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/velogo/bike-rental-service/internal/core/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

type chanSource struct {
	ch chan Sample
}

func (s *chanSource) Watch(ctx context.Context) (<-chan Sample, error) {
	return s.ch, nil
}

type captureSink struct {
	mu    sync.Mutex
	fixes []*domain.LiveFix
	err   error
}

func (s *captureSink) PublishFix(ctx context.Context, rideID int64, fix *domain.LiveFix) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.fixes = append(s.fixes, fix)
	return nil
}

func (s *captureSink) all() []*domain.LiveFix {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.LiveFix, len(s.fixes))
	copy(out, s.fixes)
	return out
}

func runPublisher(t *testing.T, p *Publisher) chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		done <- p.Run(context.Background())
	}()
	return done
}

func TestPublisherPublishesSamples(t *testing.T) {
	source := &chanSource{ch: make(chan Sample)}
	sink := &captureSink{}
	p := New(101, "7", source, sink, nopLogger{})
	done := runPublisher(t, p)

	source.ch <- Sample{Lat: 27.7, Lng: 85.3, Timestamp: 1000}
	source.ch <- Sample{Lat: 27.8, Lng: 85.4, Timestamp: 2000}
	close(source.ch)

	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}

	fixes := sink.all()
	if len(fixes) != 2 {
		t.Fatalf("published = %d, want 2", len(fixes))
	}
	if fixes[1].Lat != 27.8 || fixes[1].CustomerID != "7" {
		t.Errorf("last fix = %+v", fixes[1])
	}
}

func TestPublisherPauseSuppressesPublishing(t *testing.T) {
	source := &chanSource{ch: make(chan Sample)}
	sink := &captureSink{}
	p := New(101, "7", source, sink, nopLogger{})
	done := runPublisher(t, p)

	source.ch <- Sample{Lat: 1, Lng: 1, Timestamp: 1000}
	p.SetActive(false)
	source.ch <- Sample{Lat: 2, Lng: 2, Timestamp: 2000}
	source.ch <- Sample{Lat: 3, Lng: 3, Timestamp: 3000}
	p.SetActive(true)
	source.ch <- Sample{Lat: 4, Lng: 4, Timestamp: 4000}
	close(source.ch)

	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}

	fixes := sink.all()
	if len(fixes) != 2 {
		t.Fatalf("published = %d, want 2 (paused samples dropped)", len(fixes))
	}
	if fixes[0].Lat != 1 || fixes[1].Lat != 4 {
		t.Errorf("fixes = %+v, %+v", fixes[0], fixes[1])
	}
}

func TestPublisherStopsAfterRepeatedAcquisitionFailures(t *testing.T) {
	source := &chanSource{ch: make(chan Sample, defaultMaxFailures)}
	sink := &captureSink{}
	p := New(101, "7", source, sink, nopLogger{})

	gpsErr := errors.New("gps unavailable")
	for i := 0; i < defaultMaxFailures; i++ {
		source.ch <- Sample{Err: gpsErr}
	}

	done := runPublisher(t, p)
	select {
	case err := <-done:
		if !errors.Is(err, gpsErr) {
			t.Errorf("Run err = %v, want the acquisition error", err)
		}
	case <-time.After(time.Second):
		t.Fatal("publisher did not stop after repeated failures")
	}
}

func TestPublisherRecoversFromTransientFailure(t *testing.T) {
	source := &chanSource{ch: make(chan Sample)}
	sink := &captureSink{}
	p := New(101, "7", source, sink, nopLogger{})
	done := runPublisher(t, p)

	// A few transient failures below the budget, then good samples again.
	source.ch <- Sample{Err: errors.New("gps timeout")}
	source.ch <- Sample{Lat: 1, Lng: 1, Timestamp: 1000}
	source.ch <- Sample{Err: errors.New("gps timeout")}
	source.ch <- Sample{Lat: 2, Lng: 2, Timestamp: 2000}
	close(source.ch)

	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := len(sink.all()); got != 2 {
		t.Errorf("published = %d, want 2", got)
	}
}

func TestPublisherStopsOnContextCancel(t *testing.T) {
	source := &chanSource{ch: make(chan Sample)}
	sink := &captureSink{}
	p := New(101, "7", source, sink, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- p.Run(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("publisher did not stop on cancel")
	}
}
