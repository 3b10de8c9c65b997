package washing

import (
	"strings"
	"time"

	dbgen "github.com/noah-isme/backend-carwash/internal/db/gen"
	"github.com/noah-isme/backend-carwash/internal/loyalty"
	"github.com/noah-isme/backend-carwash/internal/repo"
)

// Record is the API view of a wash service record. Prices are minor units.
type Record struct {
	ID              string           `json:"id"`
	ServiceType     string           `json:"service_type"`
	Status          string           `json:"status"`
	BasePrice       int64            `json:"base_price"`
	FinalPrice      *int64           `json:"final_price"`
	DiscountPercent int              `json:"discount_percent"`
	CustomerID      string           `json:"customer_id"`
	CustomerEmail   string           `json:"customer_email,omitempty"`
	EmployeeID      *string          `json:"employee_id,omitempty"`
	EmployeeName    string           `json:"employee_name,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	Discount        *loyalty.Outcome `json:"discount,omitempty"`
}

// ParseStatus validates a status identifier. Blank means pending.
func ParseStatus(raw string) (dbgen.WashStatus, error) {
	switch dbgen.WashStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case "", dbgen.WashStatusPending:
		return dbgen.WashStatusPending, nil
	case dbgen.WashStatusInProgress:
		return dbgen.WashStatusInProgress, nil
	case dbgen.WashStatusCompleted:
		return dbgen.WashStatusCompleted, nil
	default:
		return "", ErrInvalidStatus
	}
}

func statusRank(s dbgen.WashStatus) int {
	switch s {
	case dbgen.WashStatusInProgress:
		return 1
	case dbgen.WashStatusCompleted:
		return 2
	default:
		return 0
	}
}

func recordFromModel(row dbgen.WashService) Record {
	return Record{
		ID:              repo.UUIDString(row.ID),
		ServiceType:     string(row.ServiceType),
		Status:          string(row.Status),
		BasePrice:       row.BasePrice,
		FinalPrice:      repo.Int8Ptr(row.FinalPrice),
		DiscountPercent: int(row.DiscountPercent),
		CustomerID:      repo.UUIDString(row.CustomerID),
		EmployeeID:      repo.UUIDPtr(row.EmployeeID),
		CreatedAt:       repo.Time(row.CreatedAt),
	}
}

func recordFromListRow(row dbgen.ListWashServicesRow) Record {
	rec := Record{
		ID:              repo.UUIDString(row.ID),
		ServiceType:     string(row.ServiceType),
		Status:          string(row.Status),
		BasePrice:       row.BasePrice,
		FinalPrice:      repo.Int8Ptr(row.FinalPrice),
		DiscountPercent: int(row.DiscountPercent),
		CustomerID:      repo.UUIDString(row.CustomerID),
		CustomerEmail:   row.CustomerEmail,
		EmployeeID:      repo.UUIDPtr(row.EmployeeID),
		CreatedAt:       repo.Time(row.CreatedAt),
	}
	if row.EmployeeName.Valid {
		rec.EmployeeName = row.EmployeeName.String
	}
	return rec
}
