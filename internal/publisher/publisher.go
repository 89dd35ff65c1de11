// Package publisher implements the rider-side position sampler: while a ride
// is active and tracking is not paused, every location sample is pushed to
// the live store under the ride's key, overwriting the previous one.
package publisher

import (
	"context"
	"sync/atomic"

	"github.com/velogo/bike-rental-service/internal/core/domain"
	"github.com/velogo/bike-rental-service/internal/core/ports"
)

// Sample is one reading from a location source. Err is set when the device
// could not produce a position.
type Sample struct {
	Lat       float64
	Lng       float64
	Timestamp int64
	Err       error
}

// LocationSource is the device geolocation watch. The returned channel closes
// when the watch ends or ctx is cancelled.
type LocationSource interface {
	Watch(ctx context.Context) (<-chan Sample, error)
}

// FixSink receives published fixes. Satisfied by the tracking service and by
// remote HTTP clients alike.
type FixSink interface {
	PublishFix(ctx context.Context, ride_id int64, fix *domain.LiveFix) error
}

// Publisher pumps samples from a LocationSource into a FixSink for one ride.
// Pausing suppresses publishing without touching the live key; repeated
// consecutive failures stop the sampler entirely instead of looping on a
// dead device or a dead transport.
type Publisher struct {
	rideID      int64
	customerID  string
	source      LocationSource
	sink        FixSink
	logger      ports.LoggerPort
	maxFailures int

	active atomic.Bool
}

const defaultMaxFailures = 5

func New(rideID int64, customerID string, source LocationSource, sink FixSink, logger ports.LoggerPort) *Publisher {
	p := &Publisher{
		rideID:      rideID,
		customerID:  customerID,
		source:      source,
		sink:        sink,
		logger:      logger,
		maxFailures: defaultMaxFailures,
	}
	p.active.Store(true)
	return p
}

// SetActive pauses (false) or resumes (true) publishing. Pausing does not
// delete the live key; viewers simply stop seeing updates.
func (p *Publisher) SetActive(active bool) {
	p.active.Store(active)
}

func (p *Publisher) Active() bool {
	return p.active.Load()
}

// Run consumes samples until the source closes, ctx is cancelled, or the
// failure budget is exhausted. Each publish is fire-and-forget per sample:
// a failed write is counted and logged, never retried for that sample.
func (p *Publisher) Run(ctx context.Context) error {
	samples, err := p.source.Watch(ctx)
	if err != nil {
		p.logger.Error("Failed to start location watch", map[string]interface{}{
			"error":   err.Error(),
			"ride_id": p.rideID,
		})
		return err
	}

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sample, ok := <-samples:
			if !ok {
				return nil
			}

			if sample.Err != nil {
				failures++
				p.logger.Warn("Location acquisition failed", map[string]interface{}{
					"error":    sample.Err.Error(),
					"ride_id":  p.rideID,
					"failures": failures,
				})
				if failures >= p.maxFailures {
					p.logger.Error("Stopping publisher after repeated failures", map[string]interface{}{
						"ride_id":  p.rideID,
						"failures": failures,
					})
					return sample.Err
				}
				continue
			}

			if !p.active.Load() {
				continue
			}

			fix := &domain.LiveFix{
				Lat:        sample.Lat,
				Lng:        sample.Lng,
				CustomerID: p.customerID,
				Timestamp:  sample.Timestamp,
			}
			if err := p.sink.PublishFix(ctx, p.rideID, fix); err != nil {
				failures++
				p.logger.Warn("Failed to publish fix", map[string]interface{}{
					"error":    err.Error(),
					"ride_id":  p.rideID,
					"failures": failures,
				})
				if failures >= p.maxFailures {
					return err
				}
				continue
			}
			failures = 0
		}
	}
}
