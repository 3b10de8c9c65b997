package washing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	dbgen "github.com/noah-isme/backend-carwash/internal/db/gen"
	"github.com/noah-isme/backend-carwash/internal/events"
	"github.com/noah-isme/backend-carwash/internal/loyalty"
	"github.com/noah-isme/backend-carwash/internal/obs"
	"github.com/noah-isme/backend-carwash/internal/pricing"
	"github.com/noah-isme/backend-carwash/internal/repo"
)

var (
	ErrCustomerNotFound       = errors.New("customer not found")
	ErrEmployeeNotFound       = errors.New("employee not found")
	ErrServiceNotFound        = errors.New("service record not found")
	ErrInvalidStatus          = errors.New("invalid service status")
	ErrInvalidTransition      = errors.New("status can only move forward")
	ErrConcurrentModification = errors.New("concurrent modification, retry the request")
)

var tracer = otel.Tracer("github.com/noah-isme/backend-carwash/internal/washing")

// Locker serialises order creation per customer across API replicas.
type Locker interface {
	Hold(ctx context.Context, customerID string, ttl time.Duration, fn func(context.Context) error) error
}

// Emitter publishes domain events once state has been committed.
type Emitter interface {
	Emit(ctx context.Context, topic string, aggregateID pgtype.UUID, payload any) (dbgen.DomainEvent, error)
}

// SalesCache is told about every committed record write so cached sales
// summaries never outlive it.
type SalesCache interface {
	Invalidate(ctx context.Context) error
}

// Service creates and maintains wash service records.
type Service struct {
	Store    Store
	Prices   pricing.Table
	Resolver loyalty.Resolver
	Locker   Locker
	LockTTL  time.Duration
	Events   Emitter
	Sales    SalesCache
	Logger   *zerolog.Logger
}

// CreateInput carries the fields accepted when recording a new order.
type CreateInput struct {
	CustomerID  string  `json:"customer_id" validate:"required,uuid"`
	EmployeeID  *string `json:"employee_id,omitempty" validate:"omitempty,uuid"`
	ServiceType string  `json:"service_type" validate:"required"`
	Status      string  `json:"status,omitempty"`
}

// ListFilter narrows List results.
type ListFilter struct {
	EmployeeName string
	Page         int
	PerPage      int
}

type created struct {
	record  dbgen.WashService
	outcome loyalty.Outcome
	granted bool
	ledger  loyalty.Ledger
}

// Create prices a new order for the customer, applies their loyalty discount
// and persists the record together with the updated ledger.
func (s *Service) Create(ctx context.Context, in CreateInput) (rec Record, err error) {
	if s == nil || s.Store == nil {
		return Record{}, errors.New("washing service not configured")
	}
	ctx, span := tracer.Start(ctx, "washing.Create")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("wash.service_type", in.ServiceType))
	st, err := s.Prices.Parse(in.ServiceType)
	if err != nil {
		return Record{}, err
	}
	base, err := s.Prices.BasePrice(st)
	if err != nil {
		return Record{}, err
	}
	status, err := ParseStatus(in.Status)
	if err != nil {
		return Record{}, err
	}
	customerID, err := repo.ToUUID(in.CustomerID)
	if err != nil {
		return Record{}, fmt.Errorf("customer id: %w", ErrCustomerNotFound)
	}
	employeeID, err := repo.OptionalUUID(in.EmployeeID)
	if err != nil {
		return Record{}, fmt.Errorf("employee id: %w", ErrEmployeeNotFound)
	}

	var (
		res created
		ran bool
	)
	run := func(ctx context.Context) error {
		ran = true
		res, err = s.createOnce(ctx, customerID, employeeID, st, base, status)
		if errors.Is(err, ErrConcurrentModification) {
			s.logger().Warn().Str("customer_id", in.CustomerID).Msg("wash service create conflicted, retrying")
			res, err = s.createOnce(ctx, customerID, employeeID, st, base, status)
		}
		return err
	}
	if s.Locker != nil {
		err = s.Locker.Hold(ctx, repo.UUIDString(customerID), s.lockTTL(), run)
		// The customer row lock still serialises the ledger, so a broken
		// Redis only costs contention.
		if err != nil && !ran && ctx.Err() == nil {
			s.logger().Warn().Err(err).Str("customer_id", in.CustomerID).Msg("customer lock unavailable, relying on row lock")
			err = run(ctx)
		}
	} else {
		err = run(ctx)
	}
	if err != nil {
		if errors.Is(err, ErrConcurrentModification) && obs.WashCreateConflicts != nil {
			obs.WashCreateConflicts.Inc()
		}
		return Record{}, err
	}

	span.SetAttributes(attribute.String("wash.discount", res.outcome.Label()))
	s.afterCreate(ctx, res)
	rec = recordFromModel(res.record)
	outcome := res.outcome
	rec.Discount = &outcome
	return rec, nil
}

func (s *Service) createOnce(ctx context.Context, customerID, employeeID pgtype.UUID, st pricing.ServiceType, base pricing.Money, status dbgen.WashStatus) (created, error) {
	var out created
	err := s.Store.InTx(ctx, func(q Querier) error {
		customer, err := q.GetCustomerForUpdate(ctx, customerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrCustomerNotFound
			}
			return fmt.Errorf("lock customer: %w", err)
		}
		if employeeID.Valid {
			if _, err := q.GetEmployeeByID(ctx, employeeID); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return ErrEmployeeNotFound
				}
				return fmt.Errorf("load employee: %w", err)
			}
		}
		completed, err := q.CountCompletedServicesByCustomer(ctx, customerID)
		if err != nil {
			return fmt.Errorf("count completed services: %w", err)
		}
		before := ledgerFromModel(customer)
		outcome, after := s.Resolver.Resolve(before, int(completed))
		if before.DiscountRemaining != 0 && outcome.Kind == loyalty.KindNone {
			s.logger().Warn().
				Str("customer_id", repo.UUIDString(customerID)).
				Int("discount_remaining", before.DiscountRemaining).
				Msg("ignoring invalid banked discount")
		}
		percent := outcome.DiscountPercent()
		final := pricing.ApplyPercent(base, percent)
		if outcome.Kind == loyalty.KindFree {
			final = 0
		}
		row, err := q.CreateWashService(ctx, dbgen.CreateWashServiceParams{
			ServiceType:     dbgen.WashServiceType(st),
			Status:          status,
			BasePrice:       base,
			FinalPrice:      repo.Int8(final),
			DiscountPercent: int32(percent),
			CustomerID:      customerID,
			EmployeeID:      employeeID,
		})
		if err != nil {
			return fmt.Errorf("insert service record: %w", err)
		}
		after.DiscountRemaining = 0
		if err := q.UpdateCustomerLedger(ctx, dbgen.UpdateCustomerLedgerParams{
			ID:                customerID,
			FreeServicesUsed:  int32(after.FreeServicesUsed),
			DiscountRemaining: int32(after.DiscountRemaining),
		}); err != nil {
			return fmt.Errorf("update loyalty ledger: %w", err)
		}
		out = created{
			record:  row,
			outcome: outcome,
			granted: after.FreeServicesUsed > before.FreeServicesUsed,
			ledger:  after,
		}
		return nil
	})
	return out, err
}

func (s *Service) afterCreate(ctx context.Context, res created) {
	rec := res.record
	s.invalidateSales(ctx)
	final := int64(0)
	if rec.FinalPrice.Valid {
		final = rec.FinalPrice.Int64
	}
	if obs.WashServicesCreated != nil {
		obs.WashServicesCreated.WithLabelValues(string(rec.ServiceType), res.outcome.Label()).Inc()
	}
	if obs.WashRevenueMinor != nil {
		obs.WashRevenueMinor.WithLabelValues(string(rec.ServiceType)).Add(float64(final))
	}
	if res.granted && obs.LoyaltyFreeWashes != nil {
		obs.LoyaltyFreeWashes.Inc()
	}
	s.logger().Info().
		Str("service_id", repo.UUIDString(rec.ID)).
		Str("customer_id", repo.UUIDString(rec.CustomerID)).
		Str("service_type", string(rec.ServiceType)).
		Str("discount", res.outcome.Label()).
		Int64("base_price", rec.BasePrice).
		Int64("final_price", final).
		Msg("wash service created")

	if s.Events == nil {
		return
	}
	payload := events.WashPayload{
		ServiceID:       repo.UUIDString(rec.ID),
		CustomerID:      repo.UUIDString(rec.CustomerID),
		ServiceType:     string(rec.ServiceType),
		BasePrice:       rec.BasePrice,
		FinalPrice:      final,
		DiscountPercent: int(rec.DiscountPercent),
	}
	if _, err := s.Events.Emit(ctx, events.TopicWashServiceCreated, rec.ID, payload); err != nil {
		s.logger().Error().Err(err).Str("topic", events.TopicWashServiceCreated).Msg("emit event")
	}
	if res.granted {
		grant := events.FreeWashPayload{
			CustomerID:       repo.UUIDString(rec.CustomerID),
			ServiceID:        repo.UUIDString(rec.ID),
			ServiceType:      string(rec.ServiceType),
			FreeServicesUsed: res.ledger.FreeServicesUsed,
		}
		if _, err := s.Events.Emit(ctx, events.TopicLoyaltyFreeWashGranted, rec.CustomerID, grant); err != nil {
			s.logger().Error().Err(err).Str("topic", events.TopicLoyaltyFreeWashGranted).Msg("emit event")
		}
	}
}

// Preview reports the discount the customer's next order would receive
// without mutating the ledger.
func (s *Service) Preview(ctx context.Context, customerID string) (loyalty.Outcome, error) {
	if s == nil || s.Store == nil {
		return loyalty.Outcome{}, errors.New("washing service not configured")
	}
	id, err := repo.ToUUID(customerID)
	if err != nil {
		return loyalty.Outcome{}, ErrCustomerNotFound
	}
	customer, err := s.Store.GetCustomerByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return loyalty.Outcome{}, ErrCustomerNotFound
		}
		return loyalty.Outcome{}, err
	}
	completed, err := s.Store.CountCompletedServicesByCustomer(ctx, id)
	if err != nil {
		return loyalty.Outcome{}, err
	}
	outcome, _ := s.Resolver.Resolve(ledgerFromModel(customer), int(completed))
	return outcome, nil
}

// Get loads a single record.
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	if s == nil || s.Store == nil {
		return Record{}, errors.New("washing service not configured")
	}
	uid, err := repo.ToUUID(id)
	if err != nil {
		return Record{}, ErrServiceNotFound
	}
	row, err := s.Store.GetWashService(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrServiceNotFound
		}
		return Record{}, err
	}
	return recordFromModel(row), nil
}

// List returns records newest first, optionally restricted to one employee.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Record, int, error) {
	if s == nil || s.Store == nil {
		return nil, 0, errors.New("washing service not configured")
	}
	limit, offset := repo.Page(filter.Page, filter.PerPage)
	name := repo.Text(filter.EmployeeName)
	rows, err := s.Store.ListWashServices(ctx, dbgen.ListWashServicesParams{
		EmployeeName: name,
		LimitCount:   limit,
		OffsetRows:   offset,
	})
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Store.CountWashServices(ctx, name)
	if err != nil {
		return nil, 0, err
	}
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, recordFromListRow(row))
	}
	return out, int(total), nil
}

// UpdateStatus advances a record's status. Price fields are never touched.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (Record, error) {
	if s == nil || s.Store == nil {
		return Record{}, errors.New("washing service not configured")
	}
	if strings.TrimSpace(status) == "" {
		return Record{}, ErrInvalidStatus
	}
	next, err := ParseStatus(status)
	if err != nil {
		return Record{}, err
	}
	uid, err := repo.ToUUID(id)
	if err != nil {
		return Record{}, ErrServiceNotFound
	}
	var (
		updated dbgen.WashService
		changed bool
	)
	err = s.Store.InTx(ctx, func(q Querier) error {
		current, err := q.GetWashServiceForUpdate(ctx, uid)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrServiceNotFound
			}
			return err
		}
		if current.Status == next {
			updated = current
			return nil
		}
		if statusRank(next) < statusRank(current.Status) {
			return ErrInvalidTransition
		}
		updated, err = q.UpdateWashServiceStatus(ctx, dbgen.UpdateWashServiceStatusParams{ID: uid, Status: next})
		if err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return Record{}, err
	}
	if changed {
		s.invalidateSales(ctx)
	}
	if changed && updated.Status == dbgen.WashStatusCompleted && s.Events != nil {
		done := recordFromModel(updated)
		payload := events.WashPayload{
			ServiceID:       done.ID,
			CustomerID:      done.CustomerID,
			ServiceType:     done.ServiceType,
			BasePrice:       done.BasePrice,
			DiscountPercent: done.DiscountPercent,
		}
		if done.FinalPrice != nil {
			payload.FinalPrice = *done.FinalPrice
		}
		if _, err := s.Events.Emit(ctx, events.TopicWashServiceCompleted, updated.ID, payload); err != nil {
			s.logger().Error().Err(err).Str("topic", events.TopicWashServiceCompleted).Msg("emit event")
		}
	}
	return recordFromModel(updated), nil
}

func (s *Service) invalidateSales(ctx context.Context) {
	if s.Sales == nil {
		return
	}
	if err := s.Sales.Invalidate(context.WithoutCancel(ctx)); err != nil {
		s.logger().Error().Err(err).Msg("invalidate sales cache")
	}
}

func (s *Service) lockTTL() time.Duration {
	if s.LockTTL > 0 {
		return s.LockTTL
	}
	return 10 * time.Second
}

func (s *Service) logger() *zerolog.Logger {
	if s != nil && s.Logger != nil {
		return s.Logger
	}
	nop := zerolog.Nop()
	return &nop
}

func ledgerFromModel(c dbgen.Customer) loyalty.Ledger {
	return loyalty.Ledger{
		FreeServicesUsed:  int(c.FreeServicesUsed),
		DiscountRemaining: int(c.DiscountRemaining),
	}
}
