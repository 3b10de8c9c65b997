package loyalty

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveTierBoundaries(t *testing.T) {
	r := NewResolver(DefaultTiers())
	cases := []struct {
		completed int
		want      Outcome
	}{
		{0, None()},
		{4, None()},
		{5, Percent(5)},
		{34, Percent(5)},
		{35, Percent(20)},
		{44, Percent(20)},
		{45, Percent(30)},
		{49, Percent(30)},
	}
	for _, tc := range cases {
		got, ledger := r.Resolve(Ledger{}, tc.completed)
		require.Equal(t, tc.want, got, "completed=%d", tc.completed)
		require.Equal(t, Ledger{}, ledger, "completed=%d", tc.completed)
	}
}

func TestResolveFreeWashAtThreshold(t *testing.T) {
	r := NewResolver(DefaultTiers())
	got, ledger := r.Resolve(Ledger{}, 50)
	require.Equal(t, Free(), got)
	require.Equal(t, 1, ledger.FreeServicesUsed)
	require.Equal(t, FreePercent, ledger.DiscountRemaining)
}

func TestResolveFreeWashConsumedOncePerThreshold(t *testing.T) {
	r := NewResolver(DefaultTiers())
	got, ledger := r.Resolve(Ledger{FreeServicesUsed: 1}, 50)
	require.Equal(t, Percent(30), got)
	require.Equal(t, 1, ledger.FreeServicesUsed)

	got, ledger = r.Resolve(Ledger{FreeServicesUsed: 1}, 100)
	require.Equal(t, Free(), got)
	require.Equal(t, 2, ledger.FreeServicesUsed)
}

func TestResolveBankedDiscountWins(t *testing.T) {
	r := NewResolver(DefaultTiers())

	got, ledger := r.Resolve(Ledger{DiscountRemaining: 20}, 0)
	require.Equal(t, Percent(20), got)
	require.Equal(t, 20, ledger.DiscountRemaining)

	got, _ = r.Resolve(Ledger{DiscountRemaining: FreePercent}, 3)
	require.Equal(t, Free(), got)

	// a banked value wins even when the count would earn a free wash
	got, ledger = r.Resolve(Ledger{DiscountRemaining: 5}, 50)
	require.Equal(t, Percent(5), got)
	require.Equal(t, 0, ledger.FreeServicesUsed)
}

func TestResolveCorruptBankedValue(t *testing.T) {
	r := NewResolver(DefaultTiers())
	// History would earn Percent(20); a corrupt banked value short-circuits to None.
	got, next := r.Resolve(Ledger{DiscountRemaining: 17}, 40)
	require.Equal(t, None(), got)
	require.Equal(t, Ledger{DiscountRemaining: 17}, next)
	require.False(t, r.Tiers.Bankable(17))
}

func TestResolveNegativeCount(t *testing.T) {
	got, _ := NewResolver(DefaultTiers()).Resolve(Ledger{}, -3)
	require.Equal(t, None(), got)
}

func TestNewTiersValidation(t *testing.T) {
	_, err := NewTiers(0)
	require.ErrorIs(t, err, ErrInvalidTiers)

	_, err = NewTiers(10, Tier{MinCompleted: 2, Percent: 100})
	require.ErrorIs(t, err, ErrInvalidTiers)

	tiers, err := NewTiers(10, Tier{MinCompleted: 1, Percent: 10}, Tier{MinCompleted: 5, Percent: 15})
	require.NoError(t, err)
	require.Equal(t, 5, tiers.Steps()[0].MinCompleted)
	require.Equal(t, Percent(15), tiers.Match(7))
}

func TestStepsReturnsCopy(t *testing.T) {
	tiers := DefaultTiers()
	steps := tiers.Steps()
	steps[0].Percent = 99
	require.Equal(t, Percent(30), tiers.Match(45))
}

func TestOutcomeEncoding(t *testing.T) {
	require.Equal(t, "percent_20", Percent(20).Label())
	require.Equal(t, "free", Free().Label())
	require.Equal(t, "none", Outcome{}.Label())

	data, err := json.Marshal(Free())
	require.NoError(t, err)
	require.JSONEq(t, `{"kind":"free","percent":100}`, string(data))

	data, err = json.Marshal(Outcome{})
	require.NoError(t, err)
	require.JSONEq(t, `{"kind":"none","percent":0}`, string(data))
}
