package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/velogo/bike-rental-service/internal/core/domain"

	"github.com/redis/go-redis/v9"
)

// tombstone is pushed to a ride's channel when its live keys are deleted so
// subscribed feeds can render "tracking ended" instead of a stale marker.
const tombstone = "null"

// RedisLiveStore holds ride tracking state in three places per ride id:
//
//	tracking/{id}       latest fix, JSON string (last-write-wins)
//	tracking/{id}:path  list of every published fix (raw buffer)
//	tracking/{id}       pub/sub channel pushing fixes to subscribers
type RedisLiveStore struct {
	client *redis.Client
}

func NewRedisLiveStore(client *redis.Client) *RedisLiveStore {
	return &RedisLiveStore{client: client}
}

func liveKey(rideID int64) string {
	return fmt.Sprintf("tracking/%d", rideID)
}

func pathKey(rideID int64) string {
	return fmt.Sprintf("tracking/%d:path", rideID)
}

func (s *RedisLiveStore) PublishFix(ctx context.Context, rideID int64, fix *domain.LiveFix) error {
	payload, err := json.Marshal(fix)
	if err != nil {
		return fmt.Errorf("marshal fix: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, liveKey(rideID), payload, 0)
	pipe.RPush(ctx, pathKey(rideID), payload)
	pipe.Publish(ctx, liveKey(rideID), payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish fix: %w", err)
	}
	return nil
}

func (s *RedisLiveStore) Latest(ctx context.Context, rideID int64) (*domain.LiveFix, error) {
	raw, err := s.client.Get(ctx, liveKey(rideID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get latest fix: %w", err)
	}

	var fix domain.LiveFix
	if err := json.Unmarshal(raw, &fix); err != nil {
		return nil, fmt.Errorf("unmarshal latest fix: %w", err)
	}
	return &fix, nil
}

func (s *RedisLiveStore) ReadAll(ctx context.Context, rideID int64) ([]json.RawMessage, error) {
	rows, err := s.client.LRange(ctx, pathKey(rideID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read live path: %w", err)
	}

	fixes := make([]json.RawMessage, 0, len(rows))
	for _, row := range rows {
		fixes = append(fixes, json.RawMessage(row))
	}
	return fixes, nil
}

func (s *RedisLiveStore) Delete(ctx context.Context, rideID int64) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, liveKey(rideID), pathKey(rideID))
	pipe.Publish(ctx, liveKey(rideID), tombstone)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete live key: %w", err)
	}
	return nil
}

// Subscribe streams raw payloads for the ride until the cancel func is
// called. The channel closes after the tombstone or on teardown, so feed
// consumers cannot leak a redis subscription.
func (s *RedisLiveStore) Subscribe(ctx context.Context, rideID int64) (<-chan []byte, func(), error) {
	sub := s.client.Subscribe(ctx, liveKey(rideID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe live key: %w", err)
	}

	out := make(chan []byte)
	done := make(chan struct{})

	go func() {
		defer close(out)
		ch := sub.Channel()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-done:
					return
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = sub.Close()
		})
	}
	return out, cancel, nil
}
