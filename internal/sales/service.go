package sales

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	dbgen "github.com/noah-isme/backend-carwash/internal/db/gen"
	"github.com/noah-isme/backend-carwash/internal/obs"
	"github.com/noah-isme/backend-carwash/internal/repo"
)

// Querier defines the database access required for sales aggregation.
type Querier interface {
	ListWashServicesBetween(ctx context.Context, arg dbgen.ListWashServicesBetweenParams) ([]dbgen.WashService, error)
}

// Sale is a single record counted in a summary.
type Sale struct {
	ID          string    `json:"id"`
	ServiceType string    `json:"service_type"`
	Status      string    `json:"status"`
	FinalPrice  *int64    `json:"final_price"`
	CustomerID  string    `json:"customer_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Summary aggregates the records created within a period. Amounts are minor units.
type Summary struct {
	Period        Period    `json:"period"`
	From          time.Time `json:"from"`
	To            time.Time `json:"to"`
	Count         int       `json:"count"`
	TotalEarnings int64     `json:"total_earnings"`
	Records       []Sale    `json:"records"`
}

// Service computes sales summaries with optional Redis caching.
type Service struct {
	Q        Querier
	R        *redis.Client
	TTL      time.Duration
	Location *time.Location
	Logger   *zerolog.Logger
	Now      func() time.Time
}

// GenerationKey holds the cache generation. Every committed service-record
// write bumps it, which retires all cached summaries at once.
const GenerationKey = "sales:gen"

// Invalidator bumps the summary cache generation after a write commits.
type Invalidator struct {
	R *redis.Client
}

// Invalidate retires every cached summary.
func (i Invalidator) Invalidate(ctx context.Context) error {
	if i.R == nil {
		return nil
	}
	return i.R.Incr(ctx, GenerationKey).Err()
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func cacheKey(parts ...any) string {
	formatted := make([]string, 0, len(parts))
	for _, part := range parts {
		formatted = append(formatted, fmt.Sprint(part))
	}
	return strings.Join(formatted, ":")
}

// Aggregate counts records and sums final prices for the named period.
// Records of every status are included; a missing final price counts as zero.
func (s *Service) Aggregate(ctx context.Context, period string) (Summary, error) {
	if s == nil || s.Q == nil {
		return Summary{}, fmt.Errorf("sales service not configured")
	}
	p, err := ParsePeriod(period)
	if err != nil {
		return Summary{}, err
	}
	from, to, err := Window(p, s.now(), s.Location)
	if err != nil {
		return Summary{}, err
	}
	// The generation is read before the query so a write committed while the
	// query runs bumps it past the key this summary is stored under.
	gen, cached := s.generation(ctx)
	key := cacheKey("sales", gen, p, from.Unix())
	if cached {
		if summary, ok := s.fromCache(ctx, key); ok {
			countAggregate(p, "hit")
			return summary, nil
		}
	}
	rows, err := s.Q.ListWashServicesBetween(ctx, dbgen.ListWashServicesBetweenParams{
		StartAt: repo.Timestamp(from),
		EndAt:   repo.Timestamp(to),
	})
	if err != nil {
		return Summary{}, fmt.Errorf("list services: %w", err)
	}
	summary := Summary{Period: p, From: from, To: to, Records: make([]Sale, 0, len(rows))}
	for _, row := range rows {
		if row.FinalPrice.Valid {
			summary.TotalEarnings += row.FinalPrice.Int64
		}
		summary.Records = append(summary.Records, Sale{
			ID:          repo.UUIDString(row.ID),
			ServiceType: string(row.ServiceType),
			Status:      string(row.Status),
			FinalPrice:  repo.Int8Ptr(row.FinalPrice),
			CustomerID:  repo.UUIDString(row.CustomerID),
			CreatedAt:   repo.Time(row.CreatedAt),
		})
	}
	summary.Count = len(summary.Records)
	if cached {
		s.store(ctx, key, summary)
	}
	countAggregate(p, "miss")
	return summary, nil
}

func countAggregate(p Period, cache string) {
	if obs.SalesAggregateTotal != nil {
		obs.SalesAggregateTotal.WithLabelValues(string(p), cache).Inc()
	}
}

// generation reports the current cache generation. Caching is skipped when it
// cannot be read.
func (s *Service) generation(ctx context.Context) (int64, bool) {
	if s.R == nil || s.TTL <= 0 {
		return 0, false
	}
	gen, err := s.R.Get(ctx, GenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn().Err(err).Msg("sales cache generation unavailable")
		}
		return 0, false
	}
	return gen, true
}

func (s *Service) fromCache(ctx context.Context, key string) (Summary, bool) {
	data, err := s.R.Get(ctx, key).Bytes()
	if err != nil {
		return Summary{}, false
	}
	var summary Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return Summary{}, false
	}
	return summary, true
}

func (s *Service) store(ctx context.Context, key string, value Summary) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.R.Set(ctx, key, data, s.TTL).Err(); err != nil && s.Logger != nil {
		s.Logger.Warn().Err(err).Str("key", key).Msg("sales cache write failed")
	}
}
