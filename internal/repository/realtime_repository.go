package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RealtimeRepository fans notification payloads out over Redis pub/sub so
// every API instance can stream them to connected clients.
type RealtimeRepository struct {
	client *redis.Client
}

// NewRealtimeRepository constructs a RealtimeRepository.
func NewRealtimeRepository(client *redis.Client) *RealtimeRepository {
	return &RealtimeRepository{client: client}
}

// UserChannel names the pub/sub channel carrying one user's notifications.
func UserChannel(userID string) string {
	return "notify:" + userID
}

// Publish sends a payload to the user's channel.
func (r *RealtimeRepository) Publish(ctx context.Context, userID string, payload []byte) error {
	if err := r.client.Publish(ctx, UserChannel(userID), payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

// Subscribe opens the user's channel and returns a payload stream plus a
// close function. The stream closes when ctx is done or close is called.
func (r *RealtimeRepository) Subscribe(ctx context.Context, userID string) (<-chan string, func(), error) {
	sub := r.client.Subscribe(ctx, UserChannel(userID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe notifications: %w", err)
	}

	out := make(chan string)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			select {
			case out <- msg.Payload:
			case <-ctx.Done():
				return
			}
		}
	}()

	closeFn := func() { _ = sub.Close() }
	return out, closeFn, nil
}
