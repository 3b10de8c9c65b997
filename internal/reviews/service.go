package reviews

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	dbgen "github.com/noah-isme/backend-carwash/internal/db/gen"
	"github.com/noah-isme/backend-carwash/internal/repo"
)

var (
	ErrInvalidRating    = errors.New("ratings must be between 1 and 5")
	ErrBlankReview      = errors.New("review must not be blank")
	ErrCustomerNotFound = errors.New("customer not found")
)

type Querier interface {
	CreateReview(ctx context.Context, arg dbgen.CreateReviewParams) (dbgen.Review, error)
	ListReviews(ctx context.Context, arg dbgen.ListReviewsParams) ([]dbgen.ListReviewsRow, error)
	GetReviewStats(ctx context.Context) (dbgen.GetReviewStatsRow, error)
}

type Review struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	FirstName  string    `json:"first_name,omitempty"`
	Ratings    int       `json:"ratings"`
	Review     string    `json:"review"`
	CreatedAt  time.Time `json:"created_at"`
}

type Stats struct {
	Total   int64   `json:"total"`
	Average float64 `json:"average"`
}

type Service struct {
	Q Querier
}

func (s *Service) Create(ctx context.Context, customerID string, ratings int, text string) (Review, error) {
	if ratings < 1 || ratings > 5 {
		return Review{}, ErrInvalidRating
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Review{}, ErrBlankReview
	}
	cid, err := repo.ToUUID(customerID)
	if err != nil {
		return Review{}, ErrCustomerNotFound
	}
	row, err := s.Q.CreateReview(ctx, dbgen.CreateReviewParams{
		CustomerID: cid,
		Ratings:    int16(ratings),
		Review:     text,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Review{}, ErrCustomerNotFound
		}
		return Review{}, fmt.Errorf("create review: %w", err)
	}
	return Review{
		ID:         repo.UUIDString(row.ID),
		CustomerID: repo.UUIDString(row.CustomerID),
		Ratings:    int(row.Ratings),
		Review:     row.Review,
		CreatedAt:  repo.Time(row.CreatedAt),
	}, nil
}

// List returns reviews newest first together with the reviewer's first name.
func (s *Service) List(ctx context.Context, page, perPage int) ([]Review, error) {
	limit, offset := repo.Page(page, perPage)
	rows, err := s.Q.ListReviews(ctx, dbgen.ListReviewsParams{LimitCount: limit, OffsetRows: offset})
	if err != nil {
		return nil, err
	}
	out := make([]Review, 0, len(rows))
	for _, row := range rows {
		out = append(out, Review{
			ID:         repo.UUIDString(row.ID),
			CustomerID: repo.UUIDString(row.CustomerID),
			FirstName:  row.FirstName,
			Ratings:    int(row.Ratings),
			Review:     row.Review,
			CreatedAt:  repo.Time(row.CreatedAt),
		})
	}
	return out, nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	row, err := s.Q.GetReviewStats(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Total: row.Total, Average: math.Round(row.Average*100) / 100}, nil
}
