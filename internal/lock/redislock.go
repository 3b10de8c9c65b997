package lock

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var (
	// ErrNotConfigured is returned when the locks have no Redis client.
	ErrNotConfigured = errors.New("lock: redis client not configured")
	// ErrNoCustomer is returned for a blank customer id.
	ErrNoCustomer = errors.New("lock: customer id required")
)

const (
	defaultTTL     = 10 * time.Second
	defaultBackoff = 25 * time.Millisecond
)

// unlock deletes the key only while it still holds our token, so an expired
// lock taken over by another replica is left alone.
var unlock = redis.NewScript(`if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
end
return 0`)

// CustomerKey names the lock that serialises wash orders for one customer.
func CustomerKey(customerID string) string {
	return "lock:customer:" + strings.TrimSpace(customerID)
}

// CustomerLocks serialises wash order creation per customer across API
// replicas. Holding the lock keeps two front desks from both claiming the
// same free wash.
type CustomerLocks struct {
	Client  *redis.Client
	Backoff time.Duration
	Logger  *zerolog.Logger
}

// Hold runs fn while holding customerID's lock. It waits, polling every
// Backoff, until the lock frees up or ctx ends.
func (l CustomerLocks) Hold(ctx context.Context, customerID string, ttl time.Duration, fn func(context.Context) error) error {
	if l.Client == nil {
		return ErrNotConfigured
	}
	if strings.TrimSpace(customerID) == "" {
		return ErrNoCustomer
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	backoff := l.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}

	key := CustomerKey(customerID)
	token := uuid.NewString()
	start := time.Now()
	for attempt := 1; ; attempt++ {
		ok, err := l.Client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return err
		}
		if ok {
			if attempt > 1 {
				l.debug().Str("customer_id", customerID).Int("attempts", attempt).Dur("waited", time.Since(start)).Msg("customer lock acquired after contention")
			}
			return l.run(ctx, customerID, key, token, ttl, fn)
		}
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (l CustomerLocks) run(ctx context.Context, customerID, key, token string, ttl time.Duration, fn func(context.Context) error) error {
	held := time.Now()
	err := fn(ctx)
	released, relErr := unlock.Run(context.Background(), l.Client, []string{key}, token).Int()
	switch {
	case relErr != nil:
		l.warn().Err(relErr).Str("customer_id", customerID).Msg("customer lock release failed, waiting for expiry")
	case released == 0:
		l.warn().Str("customer_id", customerID).Dur("held", time.Since(held)).Dur("ttl", ttl).Msg("customer lock expired before the wash order finished")
	}
	return err
}

func (l CustomerLocks) debug() *zerolog.Event {
	if l.Logger == nil {
		return nil
	}
	return l.Logger.Debug()
}

func (l CustomerLocks) warn() *zerolog.Event {
	if l.Logger == nil {
		return nil
	}
	return l.Logger.Warn()
}
