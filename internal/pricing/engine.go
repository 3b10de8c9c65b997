package pricing

import (
	"errors"
	"sort"
	"strings"
)

// Money represents a monetary value stored in minor units.
type Money = int64

// ServiceType identifies one of the wash packages on offer.
type ServiceType string

const (
	FullCarwash    ServiceType = "full_carwash"
	InsideVacuum   ServiceType = "inside_vacuum"
	OnlyBody       ServiceType = "only_body"
	FullWithPolish ServiceType = "full_with_polish"
	OnlyPolish     ServiceType = "only_polish"
)

// ErrInvalidServiceType is returned for identifiers outside the price table.
var ErrInvalidServiceType = errors.New("invalid service type")

// Table maps each service type to its base price. A Table is immutable once
// built; callers receive copies of the underlying data.
type Table struct {
	prices map[ServiceType]Money
}

// DefaultTable returns the shop's price list in minor units.
func DefaultTable() Table {
	return NewTable(map[ServiceType]Money{
		FullCarwash:    7000,
		InsideVacuum:   4000,
		OnlyBody:       3000,
		FullWithPolish: 10000,
		OnlyPolish:     3000,
	})
}

// NewTable builds a table from the provided prices. Negative prices are dropped.
func NewTable(prices map[ServiceType]Money) Table {
	copied := make(map[ServiceType]Money, len(prices))
	for st, price := range prices {
		if price < 0 {
			continue
		}
		copied[st] = price
	}
	return Table{prices: copied}
}

// BasePrice returns the undiscounted price for the service type.
func (t Table) BasePrice(st ServiceType) (Money, error) {
	price, ok := t.prices[st]
	if !ok {
		return 0, ErrInvalidServiceType
	}
	return price, nil
}

// Parse validates a raw identifier against the table.
func (t Table) Parse(raw string) (ServiceType, error) {
	st := ServiceType(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := t.prices[st]; !ok {
		return "", ErrInvalidServiceType
	}
	return st, nil
}

// Types lists the known service types in a stable order.
func (t Table) Types() []ServiceType {
	out := make([]ServiceType, 0, len(t.prices))
	for st := range t.prices {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Summary captures how a final price was derived from the base price.
type Summary struct {
	Base     Money
	Discount Money
	Total    Money
	Percent  int
}

// Compute applies a whole-number percentage discount to base. The result is
// clamped so that 0 <= Total <= Base.
func Compute(base Money, percent int) Summary {
	if base < 0 {
		base = 0
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	total := base * Money(100-percent) / 100
	if total < 0 {
		total = 0
	}
	if total > base {
		total = base
	}
	return Summary{
		Base:     base,
		Discount: base - total,
		Total:    total,
		Percent:  percent,
	}
}

// ApplyPercent returns the price of base after a percent discount.
func ApplyPercent(base Money, percent int) Money {
	return Compute(base, percent).Total
}
