package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Limiter counts attempts per client in a sliding window, one Redis sorted
// set per key. Keys are "<Prefix>:<key>", e.g. "ratelimit:login:203.0.113.9".
type Limiter struct {
	Client *redis.Client
	Prefix string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Verdict is the outcome of one counted attempt.
type Verdict struct {
	Allowed   bool
	Remaining int
	// RetryAt is when the oldest attempt in the window drops out of it.
	RetryAt time.Time
}

// Allow records an attempt for key and reports whether it is within limit
// attempts per window. Rejected attempts are counted too, so a client that
// keeps hammering the login form stays locked out.
func (l Limiter) Allow(ctx context.Context, key string, window time.Duration, limit int) (Verdict, error) {
	now := time.Now()
	if l.Now != nil {
		now = l.Now()
	}
	if l.Client == nil || limit <= 0 || window <= 0 {
		return Verdict{Allowed: true, Remaining: limit, RetryAt: now}, nil
	}

	redisKey := l.redisKey(key)
	// Scores are microseconds so they stay exact as float64.
	cutoff := strconv.FormatInt(now.Add(-window).UnixMicro(), 10)

	pipe := l.Client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", "("+cutoff)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixMicro()), Member: uuid.NewString()})
	count := pipe.ZCard(ctx, redisKey)
	oldest := pipe.ZRangeWithScores(ctx, redisKey, 0, 0)
	pipe.PExpire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Verdict{}, err
	}

	v := Verdict{
		Allowed:   int(count.Val()) <= limit,
		Remaining: max(0, limit-int(count.Val())),
		RetryAt:   now.Add(window),
	}
	if first := oldest.Val(); len(first) == 1 {
		v.RetryAt = time.UnixMicro(int64(first[0].Score)).Add(window)
	}
	return v, nil
}

func (l Limiter) redisKey(key string) string {
	if l.Prefix == "" {
		return key
	}
	return l.Prefix + ":" + key
}
