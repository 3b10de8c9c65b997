package repo

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ErrInvalidID indicates an identifier could not be parsed as a UUID.
var ErrInvalidID = errors.New("invalid id")

// ToUUID parses a textual identifier into its pgtype form.
func ToUUID(id string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return pgtype.UUID{}, ErrInvalidID
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}

// OptionalUUID parses id when present and returns an invalid (NULL) UUID otherwise.
func OptionalUUID(id *string) (pgtype.UUID, error) {
	if id == nil || strings.TrimSpace(*id) == "" {
		return pgtype.UUID{}, nil
	}
	return ToUUID(*id)
}

// UUIDString renders a pgtype UUID, returning "" for NULL.
func UUIDString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}

// UUIDPtr renders a nullable UUID as an optional string.
func UUIDPtr(id pgtype.UUID) *string {
	if !id.Valid {
		return nil
	}
	s := uuid.UUID(id.Bytes).String()
	return &s
}

// Text converts a string to pgtype.Text treating blank values as NULL.
func Text(value string) pgtype.Text {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: trimmed, Valid: true}
}

// Timestamp wraps t as a non-null timestamptz.
func Timestamp(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

// Time unwraps a timestamptz, returning the zero time for NULL.
func Time(ts pgtype.Timestamptz) time.Time {
	if !ts.Valid {
		return time.Time{}
	}
	return ts.Time
}

// Date wraps t as a non-null date.
func Date(t time.Time) pgtype.Date {
	return pgtype.Date{Time: t, Valid: true}
}

// DatePtr unwraps a nullable date.
func DatePtr(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

// Int8Ptr unwraps a nullable bigint.
func Int8Ptr(v pgtype.Int8) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

// Int8 wraps n as a non-null bigint.
func Int8(n int64) pgtype.Int8 {
	return pgtype.Int8{Int64: n, Valid: true}
}

// Page converts a 1-based page and page size into LIMIT/OFFSET values.
func Page(page, perPage int) (limit, offset int32) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	return int32(perPage), int32((page - 1) * perPage)
}
