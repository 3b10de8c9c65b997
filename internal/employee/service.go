package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	dbgen "github.com/noah-isme/backend-carwash/internal/db/gen"
	"github.com/noah-isme/backend-carwash/internal/repo"
)

var (
	ErrNotFound           = errors.New("employee not found")
	ErrNameTaken          = errors.New("employee with this name already exists")
	ErrInvalidCredentials = errors.New("invalid employee name or password")
	ErrInvalidSalary      = errors.New("salary must be between 0 and 99999999.99")
	ErrInvalidDate        = errors.New("dates must use YYYY-MM-DD")
)

var maxSalary = decimal.RequireFromString("99999999.99")

// Querier captures the database methods required by the employee service.
type Querier interface {
	CreateEmployee(ctx context.Context, arg dbgen.CreateEmployeeParams) (dbgen.Employee, error)
	GetEmployeeByID(ctx context.Context, id pgtype.UUID) (dbgen.Employee, error)
	GetEmployeeByName(ctx context.Context, employeeName string) (dbgen.Employee, error)
	ListEmployees(ctx context.Context, arg dbgen.ListEmployeesParams) ([]dbgen.Employee, error)
	CountEmployees(ctx context.Context) (int64, error)
	UpdateEmployee(ctx context.Context, arg dbgen.UpdateEmployeeParams) (dbgen.Employee, error)
	UpdateEmployeePassword(ctx context.Context, arg dbgen.UpdateEmployeePasswordParams) error
	DeleteEmployee(ctx context.Context, id pgtype.UUID) (int64, error)
}

// Employee is the API view of a staff account.
type Employee struct {
	ID             string          `json:"id"`
	EmployeeName   string          `json:"employee_name"`
	Salary         string          `json:"salary"`
	IsAdmin        bool            `json:"is_admin"`
	IsActive       bool            `json:"is_active"`
	JoiningDate    *time.Time      `json:"joining_date,omitempty"`
	LastWorkingDay *time.Time      `json:"last_working_day"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Role is the token role granted to the employee.
func (e Employee) Role() string {
	if e.IsAdmin {
		return "admin"
	}
	return "employee"
}

// RegisterInput is the signup payload.
type RegisterInput struct {
	EmployeeName string          `json:"employee_name" validate:"required,max=64"`
	Password     string          `json:"password" validate:"required,min=8,max=128"`
	Password2    string          `json:"password2" validate:"required,eqfield=Password"`
	Salary       decimal.Decimal `json:"salary"`
	IsAdmin      bool            `json:"is_admin"`
}

// UpdateInput carries the fields an admin may change. Nil fields are left untouched.
type UpdateInput struct {
	EmployeeName   *string          `json:"employee_name" validate:"omitempty,max=64"`
	Salary         *decimal.Decimal `json:"salary"`
	IsAdmin        *bool            `json:"is_admin"`
	IsActive       *bool            `json:"is_active"`
	Password       *string          `json:"password" validate:"omitempty,min=8,max=128"`
	LastWorkingDay *string          `json:"last_working_day"`
}

// Service manages employee accounts.
type Service struct {
	Q      Querier
	Logger *zerolog.Logger
}

// Register creates an employee. Admin rights requested through public signup
// are only honoured when no employee exists yet; admins may always grant them.
func (s *Service) Register(ctx context.Context, in RegisterInput, byAdmin bool) (Employee, error) {
	if s == nil || s.Q == nil {
		return Employee{}, errors.New("employee service not configured")
	}
	name := strings.TrimSpace(in.EmployeeName)
	if err := ValidateName(name); err != nil {
		return Employee{}, err
	}
	salary, err := normaliseSalary(in.Salary)
	if err != nil {
		return Employee{}, err
	}
	if _, err := s.Q.GetEmployeeByName(ctx, name); err == nil {
		return Employee{}, ErrNameTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, fmt.Errorf("lookup employee: %w", err)
	}
	isAdmin := in.IsAdmin
	if isAdmin && !byAdmin {
		count, err := s.Q.CountEmployees(ctx)
		if err != nil {
			return Employee{}, fmt.Errorf("count employees: %w", err)
		}
		isAdmin = count == 0
	}
	hash, err := argon2id.CreateHash(in.Password, argon2id.DefaultParams)
	if err != nil {
		return Employee{}, fmt.Errorf("hash password: %w", err)
	}
	row, err := s.Q.CreateEmployee(ctx, dbgen.CreateEmployeeParams{
		EmployeeName: name,
		PasswordHash: hash,
		Salary:       toNumeric(salary),
		IsAdmin:      isAdmin,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return Employee{}, ErrNameTaken
		}
		return Employee{}, fmt.Errorf("create employee: %w", err)
	}
	if s.Logger != nil {
		s.Logger.Info().Str("employee_id", repo.UUIDString(row.ID)).Bool("is_admin", row.IsAdmin).Msg("employee registered")
	}
	return fromModel(row), nil
}

// Authenticate verifies credentials of an active employee.
func (s *Service) Authenticate(ctx context.Context, name, password string) (Employee, error) {
	if s == nil || s.Q == nil {
		return Employee{}, errors.New("employee service not configured")
	}
	row, err := s.Q.GetEmployeeByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, ErrInvalidCredentials
		}
		return Employee{}, err
	}
	ok, err := argon2id.ComparePasswordAndHash(password, row.PasswordHash)
	if err != nil || !ok || !row.IsActive {
		return Employee{}, ErrInvalidCredentials
	}
	return fromModel(row), nil
}

// Get loads one employee.
func (s *Service) Get(ctx context.Context, id string) (Employee, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	return fromModel(row), nil
}

// List returns a page of employees, newest first.
func (s *Service) List(ctx context.Context, page, perPage int) ([]Employee, int, error) {
	if s == nil || s.Q == nil {
		return nil, 0, errors.New("employee service not configured")
	}
	limit, offset := repo.Page(page, perPage)
	rows, err := s.Q.ListEmployees(ctx, dbgen.ListEmployeesParams{LimitCount: limit, OffsetRows: offset})
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Q.CountEmployees(ctx)
	if err != nil {
		return nil, 0, err
	}
	out := make([]Employee, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromModel(row))
	}
	return out, int(total), nil
}

// Update applies the provided fields to an employee.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Employee, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	params := dbgen.UpdateEmployeeParams{
		ID:             current.ID,
		EmployeeName:   current.EmployeeName,
		Salary:         current.Salary,
		IsAdmin:        current.IsAdmin,
		IsActive:       current.IsActive,
		LastWorkingDay: current.LastWorkingDay,
	}
	if in.EmployeeName != nil {
		name := strings.TrimSpace(*in.EmployeeName)
		if name != current.EmployeeName {
			if err := ValidateName(name); err != nil {
				return Employee{}, err
			}
			if _, err := s.Q.GetEmployeeByName(ctx, name); err == nil {
				return Employee{}, ErrNameTaken
			}
		}
		params.EmployeeName = name
	}
	if in.Salary != nil {
		salary, err := normaliseSalary(*in.Salary)
		if err != nil {
			return Employee{}, err
		}
		params.Salary = toNumeric(salary)
	}
	if in.IsAdmin != nil {
		params.IsAdmin = *in.IsAdmin
	}
	if in.IsActive != nil {
		params.IsActive = *in.IsActive
	}
	if in.LastWorkingDay != nil {
		raw := strings.TrimSpace(*in.LastWorkingDay)
		if raw == "" {
			params.LastWorkingDay = pgtype.Date{}
		} else {
			day, err := time.Parse(time.DateOnly, raw)
			if err != nil {
				return Employee{}, ErrInvalidDate
			}
			params.LastWorkingDay = repo.Date(day)
		}
	}
	if in.Password != nil {
		hash, err := argon2id.CreateHash(*in.Password, argon2id.DefaultParams)
		if err != nil {
			return Employee{}, fmt.Errorf("hash password: %w", err)
		}
		if err := s.Q.UpdateEmployeePassword(ctx, dbgen.UpdateEmployeePasswordParams{ID: current.ID, PasswordHash: hash}); err != nil {
			return Employee{}, fmt.Errorf("update password: %w", err)
		}
	}
	row, err := s.Q.UpdateEmployee(ctx, params)
	if err != nil {
		if isUniqueViolation(err) {
			return Employee{}, ErrNameTaken
		}
		return Employee{}, fmt.Errorf("update employee: %w", err)
	}
	return fromModel(row), nil
}

// Delete removes an employee. Their service records and customers keep a NULL reference.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s == nil || s.Q == nil {
		return errors.New("employee service not configured")
	}
	uid, err := repo.ToUUID(id)
	if err != nil {
		return ErrNotFound
	}
	n, err := s.Q.DeleteEmployee(ctx, uid)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) load(ctx context.Context, id string) (dbgen.Employee, error) {
	if s == nil || s.Q == nil {
		return dbgen.Employee{}, errors.New("employee service not configured")
	}
	uid, err := repo.ToUUID(id)
	if err != nil {
		return dbgen.Employee{}, ErrNotFound
	}
	row, err := s.Q.GetEmployeeByID(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Employee{}, ErrNotFound
		}
		return dbgen.Employee{}, err
	}
	return row, nil
}

func normaliseSalary(d decimal.Decimal) (decimal.Decimal, error) {
	if d.IsNegative() || d.GreaterThan(maxSalary) {
		return decimal.Decimal{}, ErrInvalidSalary
	}
	return d.Round(2), nil
}

func toNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func fromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil || n.NaN {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func fromModel(row dbgen.Employee) Employee {
	e := Employee{
		ID:             repo.UUIDString(row.ID),
		EmployeeName:   row.EmployeeName,
		Salary:         fromNumeric(row.Salary).StringFixed(2),
		IsAdmin:        row.IsAdmin,
		IsActive:       row.IsActive,
		JoiningDate:    repo.DatePtr(row.JoiningDate),
		LastWorkingDay: repo.DatePtr(row.LastWorkingDay),
		CreatedAt:      repo.Time(row.CreatedAt),
	}
	return e
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
