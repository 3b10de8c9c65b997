package loyalty

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidTiers is returned when a tier set cannot be built.
var ErrInvalidTiers = errors.New("invalid loyalty tiers")

// Kind classifies a discount outcome.
type Kind string

const (
	KindNone    Kind = "none"
	KindPercent Kind = "percent"
	KindFree    Kind = "free"
)

// FreePercent is the banked value that represents a free wash.
const FreePercent = 100

// Outcome is the discount applied to a single order.
type Outcome struct {
	Kind    Kind
	Percent int
}

// None is the outcome when no discount applies.
func None() Outcome { return Outcome{Kind: KindNone} }

// Percent is a partial discount outcome.
func Percent(p int) Outcome { return Outcome{Kind: KindPercent, Percent: p} }

// Free is the outcome for a free wash.
func Free() Outcome { return Outcome{Kind: KindFree, Percent: FreePercent} }

// DiscountPercent returns the percentage to take off the base price.
func (o Outcome) DiscountPercent() int {
	switch o.Kind {
	case KindFree:
		return FreePercent
	case KindPercent:
		return o.Percent
	default:
		return 0
	}
}

// Label is a short metric/log friendly form, e.g. "none", "percent_20", "free".
func (o Outcome) Label() string {
	if o.Kind == KindPercent {
		return fmt.Sprintf("percent_%d", o.Percent)
	}
	if o.Kind == "" {
		return string(KindNone)
	}
	return string(o.Kind)
}

// MarshalJSON renders the outcome as {"kind":"percent","percent":20}.
func (o Outcome) MarshalJSON() ([]byte, error) {
	kind := o.Kind
	if kind == "" {
		kind = KindNone
	}
	return json.Marshal(struct {
		Kind    Kind `json:"kind"`
		Percent int  `json:"percent"`
	}{Kind: kind, Percent: o.DiscountPercent()})
}

// Ledger is the per-customer loyalty state persisted on the customer row.
type Ledger struct {
	FreeServicesUsed  int `json:"free_services_used"`
	DiscountRemaining int `json:"discount_remaining"`
}

// Tier grants Percent once a customer has at least MinCompleted completed services.
type Tier struct {
	MinCompleted int
	Percent      int
}

// Tiers is an immutable set of loyalty thresholds.
type Tiers struct {
	steps     []Tier
	freeEvery int
}

// DefaultTiers returns the shop's loyalty programme: 5% from 5 washes, 20% from
// 35, 30% from 45 and a free wash for every 50 completed.
func DefaultTiers() Tiers {
	t, _ := NewTiers(50, Tier{MinCompleted: 5, Percent: 5}, Tier{MinCompleted: 35, Percent: 20}, Tier{MinCompleted: 45, Percent: 30})
	return t
}

// NewTiers validates and orders the provided tiers.
func NewTiers(freeEvery int, steps ...Tier) (Tiers, error) {
	if freeEvery <= 0 {
		return Tiers{}, fmt.Errorf("%w: free threshold must be positive", ErrInvalidTiers)
	}
	sorted := make([]Tier, 0, len(steps))
	for _, s := range steps {
		if s.MinCompleted <= 0 || s.Percent <= 0 || s.Percent >= FreePercent {
			return Tiers{}, fmt.Errorf("%w: %+v", ErrInvalidTiers, s)
		}
		sorted = append(sorted, s)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinCompleted > sorted[j].MinCompleted })
	return Tiers{steps: sorted, freeEvery: freeEvery}, nil
}

// FreeEvery is the number of completed services that earns one free wash.
func (t Tiers) FreeEvery() int { return t.freeEvery }

// Steps returns the tiers from highest threshold to lowest.
func (t Tiers) Steps() []Tier {
	return append([]Tier(nil), t.steps...)
}

// Match picks the highest tier reached by completed. Tiers never stack.
func (t Tiers) Match(completed int) Outcome {
	for _, s := range t.steps {
		if completed >= s.MinCompleted {
			return Percent(s.Percent)
		}
	}
	return None()
}

// Bankable reports whether percent is a value the ledger may hold.
func (t Tiers) Bankable(percent int) bool {
	if percent == 0 || percent == FreePercent {
		return true
	}
	for _, s := range t.steps {
		if s.Percent == percent {
			return true
		}
	}
	return false
}

// Resolver decides which discount a customer's next order receives.
type Resolver struct {
	Tiers Tiers
}

// NewResolver returns a resolver for the given tiers.
func NewResolver(t Tiers) Resolver { return Resolver{Tiers: t} }

// Resolve is pure: it returns the outcome and the ledger as it stands after
// resolution. A banked discount wins over anything earned by the count. When
// the count crosses a new free-wash threshold the free wash is recorded in the
// ledger and applies to this order.
func (r Resolver) Resolve(ledger Ledger, completed int) (Outcome, Ledger) {
	if completed < 0 {
		completed = 0
	}
	next := ledger
	if ledger.DiscountRemaining != 0 {
		switch {
		case ledger.DiscountRemaining == FreePercent:
			return Free(), next
		case r.Tiers.Bankable(ledger.DiscountRemaining):
			return Percent(ledger.DiscountRemaining), next
		default:
			return None(), next
		}
	}
	if every := r.Tiers.freeEvery; every > 0 {
		earned := completed / every
		if earned > ledger.FreeServicesUsed {
			next.FreeServicesUsed = earned
			next.DiscountRemaining = FreePercent
			return Free(), next
		}
	}
	return r.Tiers.Match(completed), next
}
