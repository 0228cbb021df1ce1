package referral

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"trojan-bot/internal/models"
)

func TestCreditsValidate(t *testing.T) {
	require.NoError(t, Credits{Direct: decimal.NewFromInt(2), Indirect: decimal.NewFromInt(1)}.Validate())
	require.NoError(t, Credits{}.Validate())
	require.Error(t, Credits{Direct: decimal.NewFromInt(1), Indirect: decimal.NewFromInt(2)}.Validate())
	require.Error(t, Credits{Direct: decimal.NewFromInt(1), Indirect: decimal.NewFromInt(-1)}.Validate())
}

func TestCreditReferral(t *testing.T) {
	ledger, err := NewRewardLedger(Credits{
		Direct:   decimal.RequireFromString("0.01"),
		Indirect: decimal.RequireFromString("0.005"),
	})
	require.NoError(t, err)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	u := &models.User{ID: "1"}

	require.True(t, ledger.CreditReferral(u, TierDirect, at).Equal(decimal.RequireFromString("0.01")))
	require.True(t, ledger.CreditReferral(u, TierIndirect, at).Equal(decimal.RequireFromString("0.005")))
	require.True(t, ledger.CreditReferral(u, Tier(3), at).Equal(decimal.RequireFromString("0.005")))

	require.Equal(t, "0.02", u.ReferralRewards.String())
	require.Equal(t, "0.02", u.TotalPaidRewards.String())
	require.True(t, u.CashbackRewards.IsZero())
	require.True(t, u.SolBalance.IsZero())
	require.Equal(t, at, u.LastUpdated)
}

func TestCreditReferralNilUserPanics(t *testing.T) {
	ledger, err := NewRewardLedger(Credits{})
	require.NoError(t, err)
	require.Panics(t, func() { ledger.CreditReferral(nil, TierDirect, time.Now()) })
}
