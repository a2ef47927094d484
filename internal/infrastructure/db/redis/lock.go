package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLockTTL  = 2 * time.Minute
	lockRetryPeriod = 250 * time.Millisecond
)

// ErrLockNotReleased means the lock expired or was taken over before release.
var ErrLockNotReleased = errors.New("lock no longer held")

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a single-key mutual exclusion lock backed by Redis.
// Key format: lock:<name>
type Locker struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewLocker creates a Locker for name. The lock expires after ttl even if the
// holder dies; ttl <= 0 selects defaultLockTTL.
func NewLocker(client *redis.Client, name string, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &Locker{client: client, key: "lock:" + name, ttl: ttl}
}

// Lock blocks until the lock is acquired or ctx is done.
func (l *Locker) Lock(ctx context.Context) (func(context.Context) error, error) {
	token := uuid.NewString()

	ticker := time.NewTicker(lockRetryPeriod)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("lock %s: %w", l.key, err)
		}
		if ok {
			return func(ctx context.Context) error { return l.release(ctx, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("lock %s: %w", l.key, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *Locker) release(ctx context.Context, token string) error {
	n, err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Int()
	if err != nil {
		return fmt.Errorf("unlock %s: %w", l.key, err)
	}
	if n == 0 {
		return ErrLockNotReleased
	}
	return nil
}
