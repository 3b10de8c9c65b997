package customer

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

	dbgen "github.com/noah-isme/backend-carwash/internal/db/gen"
	"github.com/noah-isme/backend-carwash/internal/repo"
)

var (
	ErrNotFound           = errors.New("customer not found")
	ErrEmailTaken         = errors.New("customer with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmployeeNotFound   = errors.New("owning employee not found")
)

// Querier captures the database methods required by the customer service.
type Querier interface {
	CreateCustomer(ctx context.Context, arg dbgen.CreateCustomerParams) (dbgen.Customer, error)
	GetCustomerByID(ctx context.Context, id pgtype.UUID) (dbgen.Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (dbgen.Customer, error)
	ListCustomersForEmployee(ctx context.Context, arg dbgen.ListCustomersForEmployeeParams) ([]dbgen.Customer, error)
	CountCustomersForEmployee(ctx context.Context, employeeID pgtype.UUID) (int64, error)
	UpdateCustomerProfile(ctx context.Context, arg dbgen.UpdateCustomerProfileParams) (dbgen.Customer, error)
	UpdateCustomerPassword(ctx context.Context, arg dbgen.UpdateCustomerPasswordParams) error
	DeleteCustomer(ctx context.Context, id pgtype.UUID) (int64, error)
}

// Customer is the API view of a customer account including its loyalty ledger.
type Customer struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	IsActive          bool      `json:"is_active"`
	EmployeeID        *string   `json:"employee_id"`
	FreeServicesUsed  int32     `json:"free_services_used"`
	DiscountRemaining int32     `json:"discount_remaining"`
	DateJoined        time.Time `json:"date_joined"`
}

// RegisterInput is the signup payload, also used by admins creating customers.
type RegisterInput struct {
	Email           string `json:"email" validate:"required,email,max=254"`
	FirstName       string `json:"first_name" validate:"required,max=64"`
	LastName        string `json:"last_name" validate:"required,max=64"`
	Password        string `json:"password" validate:"required,min=8,max=128"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

// UpdateInput holds profile changes. Ledger fields are not editable here.
type UpdateInput struct {
	Email      *string `json:"email" validate:"omitempty,email,max=254"`
	FirstName  *string `json:"first_name" validate:"omitempty,max=64"`
	LastName   *string `json:"last_name" validate:"omitempty,max=64"`
	IsActive   *bool   `json:"is_active"`
	EmployeeID *string `json:"employee_id" validate:"omitempty,uuid"`
	Password   *string `json:"password" validate:"omitempty,min=8,max=128"`
}

// Service manages customer accounts.
type Service struct {
	Q      Querier
	Logger *zerolog.Logger
}

// Register creates a customer. ownerID is the admin creating the account, empty for self-signup.
func (s *Service) Register(ctx context.Context, in RegisterInput, ownerID string) (Customer, error) {
	if s == nil || s.Q == nil {
		return Customer{}, errors.New("customer service not configured")
	}
	email := normaliseEmail(in.Email)
	if _, err := s.Q.GetCustomerByEmail(ctx, email); err == nil {
		return Customer{}, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, fmt.Errorf("lookup customer: %w", err)
	}
	var owner pgtype.UUID
	if ownerID != "" {
		id, err := repo.ToUUID(ownerID)
		if err != nil {
			return Customer{}, fmt.Errorf("owner id: %w", err)
		}
		owner = id
	}
	hash, err := argon2id.CreateHash(in.Password, argon2id.DefaultParams)
	if err != nil {
		return Customer{}, fmt.Errorf("hash password: %w", err)
	}
	row, err := s.Q.CreateCustomer(ctx, dbgen.CreateCustomerParams{
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: hash,
		EmployeeID:   owner,
	})
	if err != nil {
		if pgCode(err) == "23505" {
			return Customer{}, ErrEmailTaken
		}
		return Customer{}, fmt.Errorf("create customer: %w", err)
	}
	if s.Logger != nil {
		s.Logger.Info().Str("customer_id", repo.UUIDString(row.ID)).Bool("admin_created", ownerID != "").Msg("customer registered")
	}
	return fromModel(row), nil
}

// Authenticate verifies credentials of an active customer.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Customer, error) {
	if s == nil || s.Q == nil {
		return Customer{}, errors.New("customer service not configured")
	}
	row, err := s.Q.GetCustomerByEmail(ctx, normaliseEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, ErrInvalidCredentials
		}
		return Customer{}, err
	}
	ok, err := argon2id.ComparePasswordAndHash(password, row.PasswordHash)
	if err != nil || !ok || !row.IsActive {
		return Customer{}, ErrInvalidCredentials
	}
	return fromModel(row), nil
}

// Get loads one customer.
func (s *Service) Get(ctx context.Context, id string) (Customer, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return Customer{}, err
	}
	return fromModel(row), nil
}

// ListForEmployee returns customers owned by employeeID together with unowned ones.
func (s *Service) ListForEmployee(ctx context.Context, employeeID string, page, perPage int) ([]Customer, int, error) {
	if s == nil || s.Q == nil {
		return nil, 0, errors.New("customer service not configured")
	}
	owner, err := repo.ToUUID(employeeID)
	if err != nil {
		return nil, 0, fmt.Errorf("employee id: %w", err)
	}
	limit, offset := repo.Page(page, perPage)
	rows, err := s.Q.ListCustomersForEmployee(ctx, dbgen.ListCustomersForEmployeeParams{
		EmployeeID: owner,
		LimitCount: limit,
		OffsetRows: offset,
	})
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Q.CountCustomersForEmployee(ctx, owner)
	if err != nil {
		return nil, 0, err
	}
	out := make([]Customer, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromModel(row))
	}
	return out, int(total), nil
}

// Update applies profile changes. Nil fields are left untouched.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Customer, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return Customer{}, err
	}
	params := dbgen.UpdateCustomerProfileParams{
		ID:         current.ID,
		Email:      current.Email,
		FirstName:  current.FirstName,
		LastName:   current.LastName,
		IsActive:   current.IsActive,
		EmployeeID: current.EmployeeID,
	}
	if in.Email != nil {
		email := normaliseEmail(*in.Email)
		if email != current.Email {
			if _, err := s.Q.GetCustomerByEmail(ctx, email); err == nil {
				return Customer{}, ErrEmailTaken
			}
		}
		params.Email = email
	}
	if in.FirstName != nil {
		params.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		params.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.IsActive != nil {
		params.IsActive = *in.IsActive
	}
	if in.EmployeeID != nil {
		owner, err := repo.OptionalUUID(in.EmployeeID)
		if err != nil {
			return Customer{}, ErrEmployeeNotFound
		}
		params.EmployeeID = owner
	}
	if in.Password != nil {
		hash, err := argon2id.CreateHash(*in.Password, argon2id.DefaultParams)
		if err != nil {
			return Customer{}, fmt.Errorf("hash password: %w", err)
		}
		if err := s.Q.UpdateCustomerPassword(ctx, dbgen.UpdateCustomerPasswordParams{ID: current.ID, PasswordHash: hash}); err != nil {
			return Customer{}, fmt.Errorf("update password: %w", err)
		}
	}
	row, err := s.Q.UpdateCustomerProfile(ctx, params)
	if err != nil {
		switch pgCode(err) {
		case "23505":
			return Customer{}, ErrEmailTaken
		case "23503":
			return Customer{}, ErrEmployeeNotFound
		}
		return Customer{}, fmt.Errorf("update customer: %w", err)
	}
	return fromModel(row), nil
}

// Delete removes a customer together with their service history.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s == nil || s.Q == nil {
		return errors.New("customer service not configured")
	}
	uid, err := repo.ToUUID(id)
	if err != nil {
		return ErrNotFound
	}
	n, err := s.Q.DeleteCustomer(ctx, uid)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) load(ctx context.Context, id string) (dbgen.Customer, error) {
	if s == nil || s.Q == nil {
		return dbgen.Customer{}, errors.New("customer service not configured")
	}
	uid, err := repo.ToUUID(id)
	if err != nil {
		return dbgen.Customer{}, ErrNotFound
	}
	row, err := s.Q.GetCustomerByID(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Customer{}, ErrNotFound
		}
		return dbgen.Customer{}, err
	}
	return row, nil
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func fromModel(row dbgen.Customer) Customer {
	return Customer{
		ID:                repo.UUIDString(row.ID),
		Email:             row.Email,
		FirstName:         row.FirstName,
		LastName:          row.LastName,
		IsActive:          row.IsActive,
		EmployeeID:        repo.UUIDPtr(row.EmployeeID),
		FreeServicesUsed:  row.FreeServicesUsed,
		DiscountRemaining: row.DiscountRemaining,
		DateJoined:        repo.Time(row.DateJoined),
	}
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
