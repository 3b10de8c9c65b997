package washing

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	dbgen "github.com/noah-isme/backend-carwash/internal/db/gen"
)

// Querier captures the database methods required by the service record factory.
type Querier interface {
	GetCustomerByID(ctx context.Context, id pgtype.UUID) (dbgen.Customer, error)
	GetCustomerForUpdate(ctx context.Context, id pgtype.UUID) (dbgen.Customer, error)
	GetEmployeeByID(ctx context.Context, id pgtype.UUID) (dbgen.Employee, error)
	CountCompletedServicesByCustomer(ctx context.Context, customerID pgtype.UUID) (int64, error)
	CreateWashService(ctx context.Context, arg dbgen.CreateWashServiceParams) (dbgen.WashService, error)
	UpdateCustomerLedger(ctx context.Context, arg dbgen.UpdateCustomerLedgerParams) error
	GetWashService(ctx context.Context, id pgtype.UUID) (dbgen.WashService, error)
	GetWashServiceForUpdate(ctx context.Context, id pgtype.UUID) (dbgen.WashService, error)
	UpdateWashServiceStatus(ctx context.Context, arg dbgen.UpdateWashServiceStatusParams) (dbgen.WashService, error)
	ListWashServices(ctx context.Context, arg dbgen.ListWashServicesParams) ([]dbgen.ListWashServicesRow, error)
	CountWashServices(ctx context.Context, employeeName pgtype.Text) (int64, error)
}

// Store exposes the queries plus a transactional scope.
type Store interface {
	Querier
	// InTx runs fn inside one transaction. The transaction commits when fn
	// returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(q Querier) error) error
}

// PGStore implements Store on top of a pgx pool.
type PGStore struct {
	*dbgen.Queries
	Pool *pgxpool.Pool
}

// NewPGStore wires the generated queries to the pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{Queries: dbgen.New(pool), Pool: pool}
}

// InTx implements Store.
func (s *PGStore) InTx(ctx context.Context, fn func(q Querier) error) error {
	if s == nil || s.Pool == nil {
		return errors.New("washing: store not configured")
	}
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return classify(err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(s.Queries.WithTx(tx)); err != nil {
		return classify(err)
	}
	return classify(tx.Commit(ctx))
}

// classify maps Postgres contention failures onto ErrConcurrentModification.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return errors.Join(ErrConcurrentModification, err)
		}
	}
	return err
}
