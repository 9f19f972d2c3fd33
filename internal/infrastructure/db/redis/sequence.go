package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const userIDKey = "seq:user:id"

// SequenceAllocator hands out monotonically increasing numeric user ids via
// a Redis counter. INCR is atomic, so concurrent registrations never collide.
type SequenceAllocator struct {
	client *redis.Client
}

// NewSequenceAllocator creates a SequenceAllocator wrapping the given Redis client.
func NewSequenceAllocator(client *redis.Client) *SequenceAllocator {
	return &SequenceAllocator{client: client}
}

// NextUserID returns the next unused user id.
func (s *SequenceAllocator) NextUserID(ctx context.Context) (int64, error) {
	n, err := s.client.Incr(ctx, userIDKey).Result()
	if err != nil {
		return 0, fmt.Errorf("allocate user id: %w", err)
	}
	return n, nil
}
