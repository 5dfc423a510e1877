package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxFailures = 5
	defaultLockout     = 15 * time.Minute
	keyPrefix          = "login_fail:"
)

// LoginThrottle counts failed sign-ins per account in Redis.
// Key format: login_fail:<email>. The counter expires lockout after the
// first failure, so an account unlocks on its own.
type LoginThrottle struct {
	client      redis.Cmdable
	maxFailures int64
	lockout     time.Duration
}

// NewLoginThrottle creates a LoginThrottle. Non-positive limits fall back to defaults.
func NewLoginThrottle(client redis.Cmdable, maxFailures int, lockout time.Duration) *LoginThrottle {
	if maxFailures <= 0 {
		maxFailures = defaultMaxFailures
	}
	if lockout <= 0 {
		lockout = defaultLockout
	}
	return &LoginThrottle{client: client, maxFailures: int64(maxFailures), lockout: lockout}
}

// Locked reports whether key has reached the failure limit.
func (t *LoginThrottle) Locked(ctx context.Context, key string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(key)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n >= t.maxFailures, nil
}

// Fail records one failed attempt for key. The first failure starts the lockout window.
func (t *LoginThrottle) Fail(ctx context.Context, key string) error {
	k := t.key(key)
	n, err := t.client.Incr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("throttle fail: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, k, t.lockout).Err(); err != nil {
			return fmt.Errorf("throttle expire: %w", err)
		}
	}
	return nil
}

// Reset clears the failure counter for key.
func (t *LoginThrottle) Reset(ctx context.Context, key string) error {
	if err := t.client.Del(ctx, t.key(key)).Err(); err != nil {
		return fmt.Errorf("throttle reset: %w", err)
	}
	return nil
}

func (t *LoginThrottle) key(k string) string {
	return keyPrefix + k
}
