package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter keeps its counters in redis so limits hold across instances.
type RateLimiter struct {
	redis *redis.Client
}

func NewRateLimiter(redis *redis.Client) *RateLimiter {
	return &RateLimiter{
		redis: redis,
	}
}

type LimitResult struct {
	Allowed   bool
	Remaining int64
	ResetAt   time.Time
}

// Allow counts one attempt against the key and reports whether the caller is
// still within limit for the window.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (LimitResult, error) {
	count, err := r.redis.Incr(ctx, key).Result()
	if err != nil {
		return LimitResult{}, err
	}

	if count == 1 {
		r.redis.Expire(ctx, key, window)
	}

	ttl, err := r.redis.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	return LimitResult{
		Allowed:   count <= limit,
		Remaining: remaining,
		ResetAt:   time.Now().Add(ttl),
	}, nil
}

func (r *RateLimiter) CheckLogin(ctx context.Context, email string) error {
	result, err := r.Allow(ctx, fmt.Sprintf("login_attempts:%s", email), 5, 15*time.Minute)
	if err != nil {
		return err
	}
	if !result.Allowed {
		return ErrTooManyAttempts
	}
	return nil
}

func (r *RateLimiter) CheckRegister(ctx context.Context, ip string) error {
	result, err := r.Allow(ctx, fmt.Sprintf("register_attempts:%s", ip), 3, time.Hour)
	if err != nil {
		return err
	}
	if !result.Allowed {
		return ErrTooManyAttempts
	}
	return nil
}

func (r *RateLimiter) ResetAttempts(ctx context.Context, key, operation string) error {
	return r.redis.Del(ctx, fmt.Sprintf("%s_attempts:%s", operation, key)).Err()
}
