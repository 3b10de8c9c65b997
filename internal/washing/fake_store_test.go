package washing

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/noah-isme/backend-carwash/internal/db/gen"
)

// memDB is an unsynchronised in-memory rendition of the queries.
type memDB struct {
	customers map[[16]byte]dbgen.Customer
	employees map[[16]byte]dbgen.Employee
	services  []dbgen.WashService
	ledgerErr error
	clock     time.Time
}

func (m *memDB) GetCustomerByID(_ context.Context, id pgtype.UUID) (dbgen.Customer, error) {
	c, ok := m.customers[id.Bytes]
	if !ok {
		return dbgen.Customer{}, pgx.ErrNoRows
	}
	return c, nil
}

func (m *memDB) GetCustomerForUpdate(ctx context.Context, id pgtype.UUID) (dbgen.Customer, error) {
	return m.GetCustomerByID(ctx, id)
}

func (m *memDB) GetEmployeeByID(_ context.Context, id pgtype.UUID) (dbgen.Employee, error) {
	e, ok := m.employees[id.Bytes]
	if !ok {
		return dbgen.Employee{}, pgx.ErrNoRows
	}
	return e, nil
}

func (m *memDB) CountCompletedServicesByCustomer(_ context.Context, customerID pgtype.UUID) (int64, error) {
	var n int64
	for _, s := range m.services {
		if s.CustomerID.Bytes == customerID.Bytes && s.Status == dbgen.WashStatusCompleted {
			n++
		}
	}
	return n, nil
}

func (m *memDB) CreateWashService(_ context.Context, arg dbgen.CreateWashServiceParams) (dbgen.WashService, error) {
	m.clock = m.clock.Add(time.Second)
	row := dbgen.WashService{
		ID:              pgtype.UUID{Bytes: uuid.New(), Valid: true},
		ServiceType:     arg.ServiceType,
		Status:          arg.Status,
		BasePrice:       arg.BasePrice,
		FinalPrice:      arg.FinalPrice,
		DiscountPercent: arg.DiscountPercent,
		CustomerID:      arg.CustomerID,
		EmployeeID:      arg.EmployeeID,
		CreatedAt:       pgtype.Timestamptz{Time: m.clock, Valid: true},
		UpdatedAt:       pgtype.Timestamptz{Time: m.clock, Valid: true},
	}
	m.services = append(m.services, row)
	return row, nil
}

func (m *memDB) UpdateCustomerLedger(_ context.Context, arg dbgen.UpdateCustomerLedgerParams) error {
	if m.ledgerErr != nil {
		return m.ledgerErr
	}
	c, ok := m.customers[arg.ID.Bytes]
	if !ok {
		return pgx.ErrNoRows
	}
	c.FreeServicesUsed = arg.FreeServicesUsed
	c.DiscountRemaining = arg.DiscountRemaining
	m.customers[arg.ID.Bytes] = c
	return nil
}

func (m *memDB) GetWashService(_ context.Context, id pgtype.UUID) (dbgen.WashService, error) {
	for _, s := range m.services {
		if s.ID.Bytes == id.Bytes {
			return s, nil
		}
	}
	return dbgen.WashService{}, pgx.ErrNoRows
}

func (m *memDB) GetWashServiceForUpdate(ctx context.Context, id pgtype.UUID) (dbgen.WashService, error) {
	return m.GetWashService(ctx, id)
}

func (m *memDB) UpdateWashServiceStatus(_ context.Context, arg dbgen.UpdateWashServiceStatusParams) (dbgen.WashService, error) {
	for i, s := range m.services {
		if s.ID.Bytes == arg.ID.Bytes {
			m.services[i].Status = arg.Status
			return m.services[i], nil
		}
	}
	return dbgen.WashService{}, pgx.ErrNoRows
}

func (m *memDB) filtered(name pgtype.Text) []dbgen.ListWashServicesRow {
	var out []dbgen.ListWashServicesRow
	for _, s := range m.services {
		var empName pgtype.Text
		if e, ok := m.employees[s.EmployeeID.Bytes]; ok && s.EmployeeID.Valid {
			empName = pgtype.Text{String: e.EmployeeName, Valid: true}
		}
		if name.Valid && (!empName.Valid || empName.String != name.String) {
			continue
		}
		out = append(out, dbgen.ListWashServicesRow{
			ID:              s.ID,
			ServiceType:     s.ServiceType,
			Status:          s.Status,
			BasePrice:       s.BasePrice,
			FinalPrice:      s.FinalPrice,
			DiscountPercent: s.DiscountPercent,
			CustomerID:      s.CustomerID,
			EmployeeID:      s.EmployeeID,
			CreatedAt:       s.CreatedAt,
			CustomerEmail:   m.customers[s.CustomerID.Bytes].Email,
			EmployeeName:    empName,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Time.After(out[j].CreatedAt.Time) })
	return out
}

func (m *memDB) ListWashServices(_ context.Context, arg dbgen.ListWashServicesParams) ([]dbgen.ListWashServicesRow, error) {
	rows := m.filtered(arg.EmployeeName)
	start := int(arg.OffsetRows)
	if start > len(rows) {
		return nil, nil
	}
	end := start + int(arg.LimitCount)
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], nil
}

func (m *memDB) CountWashServices(_ context.Context, employeeName pgtype.Text) (int64, error) {
	return int64(len(m.filtered(employeeName))), nil
}

// fakeStore serialises access like a row lock would and rolls back on error.
type fakeStore struct {
	mu        sync.Mutex
	db        *memDB
	txCalls   int
	conflicts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{db: &memDB{
		customers: map[[16]byte]dbgen.Customer{},
		employees: map[[16]byte]dbgen.Employee{},
		clock:     time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
	}}
}

func (f *fakeStore) InTx(ctx context.Context, fn func(q Querier) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txCalls++
	if f.conflicts > 0 {
		f.conflicts--
		return classify(&pgconn.PgError{Code: "40001", Message: "could not serialize access"})
	}
	customers := make(map[[16]byte]dbgen.Customer, len(f.db.customers))
	for k, v := range f.db.customers {
		customers[k] = v
	}
	services := append([]dbgen.WashService(nil), f.db.services...)
	if err := fn(f.db); err != nil {
		f.db.customers = customers
		f.db.services = services
		return classify(err)
	}
	return nil
}

func (f *fakeStore) addCustomer(ledger ...int32) pgtype.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := pgtype.UUID{Bytes: uuid.New(), Valid: true}
	c := dbgen.Customer{ID: id, Email: uuid.NewString() + "@example.com", IsActive: true}
	if len(ledger) > 0 {
		c.FreeServicesUsed = ledger[0]
	}
	if len(ledger) > 1 {
		c.DiscountRemaining = ledger[1]
	}
	f.db.customers[id.Bytes] = c
	return id
}

func (f *fakeStore) addEmployee(name string) pgtype.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := pgtype.UUID{Bytes: uuid.New(), Valid: true}
	f.db.employees[id.Bytes] = dbgen.Employee{ID: id, EmployeeName: name, IsActive: true}
	return id
}

func (f *fakeStore) addCompleted(customerID pgtype.UUID, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := 0; i < n; i++ {
		_, _ = f.db.CreateWashService(context.Background(), dbgen.CreateWashServiceParams{
			ServiceType: dbgen.WashServiceTypeFullCarwash,
			Status:      dbgen.WashStatusCompleted,
			BasePrice:   7000,
			FinalPrice:  pgtype.Int8{Int64: 7000, Valid: true},
			CustomerID:  customerID,
		})
	}
}

func (f *fakeStore) customer(id pgtype.UUID) dbgen.Customer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.db.customers[id.Bytes]
}

func (f *fakeStore) serviceCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.db.services)
}

func (f *fakeStore) GetCustomerByID(ctx context.Context, id pgtype.UUID) (dbgen.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.db.GetCustomerByID(ctx, id)
}

func (f *fakeStore) GetCustomerForUpdate(ctx context.Context, id pgtype.UUID) (dbgen.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.db.GetCustomerForUpdate(ctx, id)
}

func (f *fakeStore) GetEmployeeByID(ctx context.Context, id pgtype.UUID) (dbgen.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.db.GetEmployeeByID(ctx, id)
}

func (f *fakeStore) CountCompletedServicesByCustomer(ctx context.Context, id pgtype.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.db.CountCompletedServicesByCustomer(ctx, id)
}

func (f *fakeStore) CreateWashService(ctx context.Context, arg dbgen.CreateWashServiceParams) (dbgen.WashService, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.db.CreateWashService(ctx, arg)
}

func (f *fakeStore) UpdateCustomerLedger(ctx context.Context, arg dbgen.UpdateCustomerLedgerParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.db.UpdateCustomerLedger(ctx, arg)
}

func (f *fakeStore) GetWashService(ctx context.Context, id pgtype.UUID) (dbgen.WashService, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.db.GetWashService(ctx, id)
}

func (f *fakeStore) GetWashServiceForUpdate(ctx context.Context, id pgtype.UUID) (dbgen.WashService, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.db.GetWashServiceForUpdate(ctx, id)
}

func (f *fakeStore) UpdateWashServiceStatus(ctx context.Context, arg dbgen.UpdateWashServiceStatusParams) (dbgen.WashService, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.db.UpdateWashServiceStatus(ctx, arg)
}

func (f *fakeStore) ListWashServices(ctx context.Context, arg dbgen.ListWashServicesParams) ([]dbgen.ListWashServicesRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.db.ListWashServices(ctx, arg)
}

func (f *fakeStore) CountWashServices(ctx context.Context, name pgtype.Text) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.db.CountWashServices(ctx, name)
}

type captureEmitter struct {
	mu       sync.Mutex
	topics   []string
	payloads map[string]any
}

func (c *captureEmitter) Emit(_ context.Context, topic string, aggregateID pgtype.UUID, payload any) (dbgen.DomainEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topics = append(c.topics, topic)
	if c.payloads == nil {
		c.payloads = map[string]any{}
	}
	c.payloads[topic] = payload
	return dbgen.DomainEvent{Topic: topic, AggregateID: aggregateID}, nil
}

// last returns the most recent payload emitted on topic.
func (c *captureEmitter) last(topic string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.payloads[topic]
}

func (c *captureEmitter) seen() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.topics...)
}
