package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/velogo/bike-rental-service/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

type fakeMetrics struct {
	fixes     int
	started   int
	completed int
}

func (m *fakeMetrics) RecordMetrics(c *gin.Context, start time.Time) {}
func (m *fakeMetrics) FixPublished()                                 { m.fixes++ }
func (m *fakeMetrics) RideStarted()                                  { m.started++ }
func (m *fakeMetrics) RideCompleted()                                { m.completed++ }

// callLog records cross-fake call order so tests can assert the
// archive-before-delete invariant.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.calls))
	copy(out, l.calls)
	return out
}

type fakeRideRepo struct {
	log         *callLog
	rides       map[int64]*domain.Ride
	startEvents []*domain.OutboxEvent
	completions []*domain.RideCompletion
	nextID      int64
	completeErr error
}

func newFakeRideRepo(log *callLog) *fakeRideRepo {
	return &fakeRideRepo{
		log:    log,
		rides:  make(map[int64]*domain.Ride),
		nextID: 100,
	}
}

func (r *fakeRideRepo) CreateRide(ctx context.Context, ride *domain.Ride, event *domain.OutboxEvent) (*domain.Ride, error) {
	r.nextID++
	ride.ID = r.nextID
	if event != nil {
		event.RideID = ride.ID
		r.startEvents = append(r.startEvents, event)
	}
	r.rides[ride.ID] = ride
	return ride, nil
}

func (r *fakeRideRepo) GetRideByID(ctx context.Context, rideID int64) (*domain.Ride, error) {
	ride, ok := r.rides[rideID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *ride
	return &copied, nil
}

func (r *fakeRideRepo) ActiveRideForBooking(ctx context.Context, bookingID int64) (*domain.Ride, error) {
	for _, ride := range r.rides {
		if ride.BookingID == bookingID && ride.Status == domain.RideActive {
			return ride, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRideRepo) CompleteRide(ctx context.Context, completion *domain.RideCompletion) (time.Time, error) {
	r.log.add("repo.CompleteRide")
	if r.completeErr != nil {
		return time.Time{}, r.completeErr
	}
	r.completions = append(r.completions, completion)
	stored := r.rides[completion.Ride.ID]
	stored.Status = domain.RideCompleted
	endTime := completion.EndTime
	stored.EndTime = &endTime
	return completion.EndTime, nil
}

func (r *fakeRideRepo) GetArchivedPath(ctx context.Context, rideID int64) (*domain.ArchivedPath, error) {
	for _, completion := range r.completions {
		if completion.Ride.ID == rideID {
			return &domain.ArchivedPath{
				RideID:    rideID,
				PathJSON:  completion.PathJSON,
				CreatedAt: completion.EndTime,
			}, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[int64]*domain.Booking)}
}

func (r *fakeBookingRepo) GetBookingByID(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, ok := r.bookings[bookingID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return booking, nil
}

func (r *fakeBookingRepo) GetBookingsByCustomerID(ctx context.Context, customerID string) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, booking := range r.bookings {
		if booking.CustomerID == customerID {
			out = append(out, booking)
		}
	}
	return out, nil
}

type fakeLiveStore struct {
	log        *callLog
	latest     map[int64]*domain.LiveFix
	buffer     map[int64][]json.RawMessage
	readAllErr error
	deleteErr  error
	publishErr error
}

func newFakeLiveStore(log *callLog) *fakeLiveStore {
	return &fakeLiveStore{
		log:    log,
		latest: make(map[int64]*domain.LiveFix),
		buffer: make(map[int64][]json.RawMessage),
	}
}

func (s *fakeLiveStore) PublishFix(ctx context.Context, rideID int64, fix *domain.LiveFix) error {
	s.log.add("live.PublishFix")
	if s.publishErr != nil {
		return s.publishErr
	}
	s.latest[rideID] = fix
	raw, _ := json.Marshal(fix)
	s.buffer[rideID] = append(s.buffer[rideID], raw)
	return nil
}

func (s *fakeLiveStore) Latest(ctx context.Context, rideID int64) (*domain.LiveFix, error) {
	fix, ok := s.latest[rideID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return fix, nil
}

func (s *fakeLiveStore) ReadAll(ctx context.Context, rideID int64) ([]json.RawMessage, error) {
	s.log.add("live.ReadAll")
	if s.readAllErr != nil {
		return nil, s.readAllErr
	}
	return s.buffer[rideID], nil
}

func (s *fakeLiveStore) Delete(ctx context.Context, rideID int64) error {
	s.log.add("live.Delete")
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.latest, rideID)
	delete(s.buffer, rideID)
	return nil
}

func (s *fakeLiveStore) Subscribe(ctx context.Context, rideID int64) (<-chan []byte, func(), error) {
	ch := make(chan []byte)
	close(ch)
	return ch, func() {}, nil
}

type fakeOutbox struct {
	pending []*domain.OutboxEvent
	sent    map[uuid.UUID]bool
}

func newFakeOutbox(events ...*domain.OutboxEvent) *fakeOutbox {
	return &fakeOutbox{pending: events, sent: make(map[uuid.UUID]bool)}
}

func (o *fakeOutbox) PendingEvents(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	var out []*domain.OutboxEvent
	for _, event := range o.pending {
		if !o.sent[event.ID] {
			out = append(out, event)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (o *fakeOutbox) MarkSent(ctx context.Context, eventID uuid.UUID) error {
	o.sent[eventID] = true
	return nil
}

type fakeNotifier struct {
	published []*domain.OutboxEvent
	failKind  domain.EventKind
	failErr   error
}

func (n *fakeNotifier) PublishEvent(ctx context.Context, event *domain.OutboxEvent) error {
	if n.failErr != nil && event.Kind == n.failKind {
		return n.failErr
	}
	n.published = append(n.published, event)
	return nil
}
