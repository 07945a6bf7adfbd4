package mq

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptTracker counts delivery attempts per message so the consumer can
// dead-letter a message after the configured maximum. Counts expire on
// their own; a successful delivery resets them eagerly.
type AttemptTracker struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAttemptTracker(rdb *redis.Client, ttl time.Duration) *AttemptTracker {
	return &AttemptTracker{rdb: rdb, ttl: ttl}
}

// Increment bumps the attempt count for messageID and returns the new
// count.
func (t *AttemptTracker) Increment(ctx context.Context, messageID string) (int64, error) {
	key := attemptKey(messageID)
	count, err := t.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		t.rdb.Expire(ctx, key, t.ttl)
	}
	return count, nil
}

// Reset clears the attempt count for messageID.
func (t *AttemptTracker) Reset(ctx context.Context, messageID string) error {
	return t.rdb.Del(ctx, attemptKey(messageID)).Err()
}

func attemptKey(messageID string) string {
	return fmt.Sprintf("delivery:attempts:%s", messageID)
}
