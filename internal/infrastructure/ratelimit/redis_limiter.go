package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
	"github.com/NVHealth/nvhealthlabs-sub001/internal/config"
)

// RedisLimiter implements domain.RateLimiter with fixed windows: one counter
// per (action, identity), reset entirely when its TTL lapses. A burst at a
// window boundary can admit roughly twice the nominal rate; accepted tradeoff
// for the single atomic INCR this costs per request.
type RedisLimiter struct {
	client   *redis.Client
	policies map[string]config.RatePolicy
	fallback config.RatePolicy
}

// NewRedisLimiter creates a limiter with per-action policies and a default
// for actions without one.
func NewRedisLimiter(client *redis.Client, policies map[string]config.RatePolicy, fallback config.RatePolicy) *RedisLimiter {
	return &RedisLimiter{
		client:   client,
		policies: policies,
		fallback: fallback,
	}
}

// Check implements domain.RateLimiter. Identity is a client IP or user id; a
// missing identity collapses into the shared "unknown" bucket rather than
// failing the request.
func (l *RedisLimiter) Check(ctx context.Context, action, identity string) error {
	if identity == "" {
		identity = "unknown"
	}
	policy := l.policyFor(action)
	key := fmt.Sprintf("rl:%s:%s", action, identity)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("rate limit check failed: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, policy.Window).Err(); err != nil {
			return fmt.Errorf("rate limit expire failed: %w", err)
		}
	}

	if count > int64(policy.Limit) {
		retryAfter, err := l.client.TTL(ctx, key).Result()
		if err != nil || retryAfter <= 0 {
			retryAfter = policy.Window
		}
		return &domain.RateLimitError{
			Action:     action,
			Limit:      policy.Limit,
			RetryAfter: retryAfter,
		}
	}
	return nil
}

func (l *RedisLimiter) policyFor(action string) config.RatePolicy {
	if p, ok := l.policies[action]; ok {
		return p
	}
	return l.fallback
}

// Reset clears the counter for (action, identity); used after successful
// authentication so a legitimate user is not penalized by earlier failures.
func (l *RedisLimiter) Reset(ctx context.Context, action, identity string) error {
	if identity == "" {
		identity = "unknown"
	}
	return l.client.Del(ctx, fmt.Sprintf("rl:%s:%s", action, identity)).Err()
}

var _ domain.RateLimiter = (*RedisLimiter)(nil)
