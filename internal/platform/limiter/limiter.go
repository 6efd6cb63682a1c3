// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

// Package limiter provides a Redis-backed fixed-window attempt limiter for
// credential-guessing endpoints.
//
// # Why Redis?
//
// Unlike the in-memory global rate limiter, credential attempt counters must
// be shared across API instances: an attacker rotating between replicas
// would otherwise multiply their budget by the replica count.
package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/veriface/veriface/internal/platform/constants"
)

// AttemptLimiter throttles credential attempts per client key using a
// fixed window counter in Redis.
type AttemptLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// New creates an [AttemptLimiter].
//
// # Parameters
//   - client: Shared Redis client.
//   - limit: Maximum attempts per window.
//   - window: Fixed window duration.
func New(client *redis.Client, limit int64, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Allow records one attempt for the key and reports whether it is within
// the window budget.
//
// The first attempt in a window sets the TTL. Subsequent attempts only
// increment, so the window is fixed rather than sliding.
func (l *AttemptLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := constants.RedisPrefixAttempt + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("limiter: incr failed: %w", err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("limiter: expire failed: %w", err)
		}
	}

	return count <= l.limit, nil
}

// Reset clears the attempt counter for a key. Called after a successful
// authentication so legitimate users are not penalized by earlier typos.
func (l *AttemptLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, constants.RedisPrefixAttempt+key).Err(); err != nil {
		return fmt.Errorf("limiter: reset failed: %w", err)
	}
	return nil
}
