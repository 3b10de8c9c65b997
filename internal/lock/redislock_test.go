package lock_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-carwash/internal/lock"
)

func newLocks(t *testing.T) (lock.CustomerLocks, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return lock.CustomerLocks{Client: client, Backoff: 5 * time.Millisecond}, mr
}

func TestHoldSerialisesSameCustomer(t *testing.T) {
	locks, _ := newLocks(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var (
		mu     sync.Mutex
		orders []string
	)
	record := func(desk string) {
		mu.Lock()
		orders = append(orders, desk)
		mu.Unlock()
	}
	firstIn := make(chan struct{})
	releaseFirst := make(chan struct{})
	errs := make(chan error, 2)

	go func() {
		errs <- locks.Hold(ctx, "c-1", 500*time.Millisecond, func(context.Context) error {
			record("front desk")
			close(firstIn)
			<-releaseFirst
			return nil
		})
	}()
	<-firstIn
	go func() {
		errs <- locks.Hold(ctx, "c-1", 500*time.Millisecond, func(context.Context) error {
			record("car park kiosk")
			return nil
		})
	}()

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	require.Equal(t, []string{"front desk"}, orders)
	mu.Unlock()
	close(releaseFirst)

	require.NoError(t, <-errs)
	require.NoError(t, <-errs)
	require.Equal(t, []string{"front desk", "car park kiosk"}, orders)
}

func TestHoldOtherCustomersProceed(t *testing.T) {
	locks, _ := newLocks(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	inside := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- locks.Hold(ctx, "a", time.Second, func(context.Context) error {
			close(inside)
			<-release
			return nil
		})
	}()
	<-inside

	ran := false
	require.NoError(t, locks.Hold(ctx, "b", time.Second, func(context.Context) error {
		ran = true
		return nil
	}))
	require.True(t, ran)
	close(release)
	require.NoError(t, <-done)
}

func TestHoldReleasesAfterFailedOrder(t *testing.T) {
	locks, mr := newLocks(t)
	key := lock.CustomerKey("c-2")
	errOrder := errors.New("insert wash service")

	err := locks.Hold(context.Background(), "c-2", time.Second, func(context.Context) error { return errOrder })
	require.ErrorIs(t, err, errOrder)
	require.False(t, mr.Exists(key))
}

func TestHoldGivesUpWhenContextEnds(t *testing.T) {
	locks, mr := newLocks(t)
	key := lock.CustomerKey("c-3")
	require.NoError(t, mr.Set(key, "other-replica"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := locks.Hold(ctx, "c-3", time.Second, func(context.Context) error {
		t.Fatal("order ran without the lock")
		return nil
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	got, _ := mr.Get(key)
	require.Equal(t, "other-replica", got)
}

func TestHoldLeavesLockTakenOverAfterExpiry(t *testing.T) {
	locks, mr := newLocks(t)
	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	locks.Logger = &logger
	key := lock.CustomerKey("c-4")

	err := locks.Hold(context.Background(), "c-4", time.Second, func(context.Context) error {
		mr.FastForward(2 * time.Second)
		return mr.Set(key, "other-replica")
	})
	require.NoError(t, err)
	got, _ := mr.Get(key)
	require.Equal(t, "other-replica", got)
	require.Contains(t, logs.String(), "customer lock expired before the wash order finished")
}

func TestHoldRejectsMissingSetup(t *testing.T) {
	noop := func(context.Context) error { return nil }
	require.ErrorIs(t, lock.CustomerLocks{}.Hold(context.Background(), "c-5", time.Second, noop), lock.ErrNotConfigured)

	locks, _ := newLocks(t)
	require.ErrorIs(t, locks.Hold(context.Background(), "  ", time.Second, noop), lock.ErrNoCustomer)
	require.Equal(t, "lock:customer:abc", lock.CustomerKey(" abc "))
}
