package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	dbgen "github.com/noah-isme/backend-carwash/internal/db/gen"
	"github.com/noah-isme/backend-carwash/internal/sales"
)

type stubQueries struct {
	calls int
	last  dbgen.ListWashServicesBetweenParams
	rows  []dbgen.WashService
}

func (s *stubQueries) ListWashServicesBetween(_ context.Context, arg dbgen.ListWashServicesBetweenParams) ([]dbgen.WashService, error) {
	s.calls++
	s.last = arg
	return s.rows, nil
}

func fixedNow() time.Time {
	return time.Date(2024, 3, 6, 10, 30, 0, 0, time.UTC)
}

func sampleRows() []dbgen.WashService {
	at := pgtype.Timestamptz{Time: fixedNow().Add(-time.Hour), Valid: true}
	return []dbgen.WashService{
		{ServiceType: dbgen.WashServiceTypeFullCarwash, Status: dbgen.WashStatusCompleted, BasePrice: 7000, FinalPrice: pgtype.Int8{Int64: 6650, Valid: true}, CreatedAt: at},
		{ServiceType: dbgen.WashServiceTypeOnlyBody, Status: dbgen.WashStatusPending, BasePrice: 3000, FinalPrice: pgtype.Int8{Int64: 2400, Valid: true}, CreatedAt: at},
		{ServiceType: dbgen.WashServiceTypeOnlyPolish, Status: dbgen.WashStatusInProgress, BasePrice: 3000, CreatedAt: at},
	}
}

func TestAggregateSumsAllStatuses(t *testing.T) {
	q := &stubQueries{rows: sampleRows()}
	svc := &sales.Service{Q: q, Location: time.UTC, Now: fixedNow}

	summary, err := svc.Aggregate(context.Background(), "today")
	require.NoError(t, err)
	require.Equal(t, sales.Today, summary.Period)
	require.Equal(t, 3, summary.Count)
	require.Equal(t, int64(9050), summary.TotalEarnings)
	require.Len(t, summary.Records, 3)
	require.Nil(t, summary.Records[2].FinalPrice)
	require.True(t, q.last.StartAt.Time.Equal(time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)))
	require.True(t, q.last.EndAt.Time.Equal(time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)))
}

func TestAggregateDefaultsToToday(t *testing.T) {
	q := &stubQueries{}
	svc := &sales.Service{Q: q, Location: time.UTC, Now: fixedNow}

	summary, err := svc.Aggregate(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, sales.Today, summary.Period)
	require.Zero(t, summary.Count)
	require.Zero(t, summary.TotalEarnings)
}

func TestAggregateRejectsUnknownPeriod(t *testing.T) {
	q := &stubQueries{}
	svc := &sales.Service{Q: q, Now: fixedNow}

	_, err := svc.Aggregate(context.Background(), "bogus")
	require.ErrorIs(t, err, sales.ErrInvalidPeriod)
	require.Zero(t, q.calls)
}

func TestAggregateIsRepeatable(t *testing.T) {
	q := &stubQueries{rows: sampleRows()}
	svc := &sales.Service{Q: q, Location: time.UTC, Now: fixedNow}

	first, err := svc.Aggregate(context.Background(), "weekly")
	require.NoError(t, err)
	second, err := svc.Aggregate(context.Background(), "weekly")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestAggregateCached(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	q := &stubQueries{rows: sampleRows()}
	svc := &sales.Service{Q: q, R: rdb, TTL: time.Minute, Location: time.UTC, Now: fixedNow}

	first, err := svc.Aggregate(context.Background(), "this_month")
	require.NoError(t, err)
	second, err := svc.Aggregate(context.Background(), "this_month")
	require.NoError(t, err)
	require.Equal(t, 1, q.calls)
	require.Equal(t, first.TotalEarnings, second.TotalEarnings)
	require.Equal(t, first.Count, second.Count)
	require.True(t, first.From.Equal(second.From))

	mr.FastForward(2 * time.Minute)
	_, err = svc.Aggregate(context.Background(), "this_month")
	require.NoError(t, err)
	require.Equal(t, 2, q.calls)
}

func TestAggregateSeesCommittedWrite(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	q := &stubQueries{rows: sampleRows()}
	svc := &sales.Service{Q: q, R: rdb, TTL: 30 * time.Second, Location: time.UTC, Now: fixedNow}
	ctx := context.Background()

	before, err := svc.Aggregate(ctx, "today")
	require.NoError(t, err)
	require.Equal(t, 3, before.Count)
	require.Equal(t, int64(9050), before.TotalEarnings)

	q.rows = append(q.rows, dbgen.WashService{
		ServiceType: dbgen.WashServiceTypeFullWithPolish,
		Status:      dbgen.WashStatusPending,
		BasePrice:   10000,
		FinalPrice:  pgtype.Int8{Int64: 9500, Valid: true},
		CreatedAt:   pgtype.Timestamptz{Time: fixedNow(), Valid: true},
	})
	require.NoError(t, sales.Invalidator{R: rdb}.Invalidate(ctx))

	after, err := svc.Aggregate(ctx, "today")
	require.NoError(t, err)
	require.Equal(t, 4, after.Count)
	require.Equal(t, int64(18550), after.TotalEarnings)
	require.Equal(t, 2, q.calls)

	again, err := svc.Aggregate(ctx, "today")
	require.NoError(t, err)
	require.Equal(t, after.Count, again.Count)
	require.Equal(t, 2, q.calls)
}

func TestInvalidatorWithoutRedis(t *testing.T) {
	require.NoError(t, sales.Invalidator{}.Invalidate(context.Background()))
}
