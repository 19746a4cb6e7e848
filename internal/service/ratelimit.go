package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CooldownLimiter guards repeatable reward actions with a per-user,
// per-action cooldown.
type CooldownLimiter interface {
	Allow(ctx context.Context, userID uuid.UUID, action string, cooldown time.Duration) (bool, error)
	Release(ctx context.Context, userID uuid.UUID, action string)
}

// RateLimiter is the redis SetNX implementation of CooldownLimiter.
// Without redis everything is allowed.
type RateLimiter struct {
	redisClient *redis.Client
}

func NewRateLimiter(redisClient *redis.Client) *RateLimiter {
	return &RateLimiter{redisClient: redisClient}
}

func (l *RateLimiter) Allow(ctx context.Context, userID uuid.UUID, action string, cooldown time.Duration) (bool, error) {
	if l == nil || l.redisClient == nil {
		return true, nil
	}

	key := fmt.Sprintf("cooldown:user:%s:%s", userID.String(), action)

	wasSet, err := l.redisClient.SetNX(ctx, key, "locked", cooldown).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check cooldown in redis: %w", err)
	}

	return wasSet, nil
}

// Release frees a slot taken by Allow, for callers whose guarded action
// failed after the slot was consumed.
func (l *RateLimiter) Release(ctx context.Context, userID uuid.UUID, action string) {
	if l == nil || l.redisClient == nil {
		return
	}
	key := fmt.Sprintf("cooldown:user:%s:%s", userID.String(), action)
	if err := l.redisClient.Del(ctx, key).Err(); err != nil {
		log.Printf("Failed to release cooldown %s: %v", key, err)
	}
}

func (l *RateLimiter) TTL(ctx context.Context, userID uuid.UUID, action string) (time.Duration, error) {
	if l == nil || l.redisClient == nil {
		return 0, nil
	}
	key := fmt.Sprintf("cooldown:user:%s:%s", userID.String(), action)
	return l.redisClient.TTL(ctx, key).Result()
}
