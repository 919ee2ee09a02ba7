package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginAttemptKeyPrefix = "login_attempts:"

// LoginLimiter throttles repeated failed logins per phone number using a
// Redis counter with a sliding expiry window. It fails open: when Redis is
// unreachable the login path proceeds and the store-side checks still apply.
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter builds a limiter. A nil client disables throttling.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// Allow reports whether another login attempt is permitted for the phone.
func (l *LoginLimiter) Allow(ctx context.Context, phone string) bool {
	if l == nil || l.client == nil {
		return true
	}
	count, err := l.client.Get(ctx, loginAttemptKeyPrefix+phone).Int()
	if err != nil {
		return true
	}
	return count < l.maxAttempts
}

// RecordFailure counts a failed attempt, starting the expiry window on the
// first failure.
func (l *LoginLimiter) RecordFailure(ctx context.Context, phone string) error {
	if l == nil || l.client == nil {
		return nil
	}
	key := loginAttemptKeyPrefix + phone
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		return l.client.Expire(ctx, key, l.window).Err()
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, phone string) error {
	if l == nil || l.client == nil {
		return nil
	}
	return l.client.Del(ctx, loginAttemptKeyPrefix+phone).Err()
}
