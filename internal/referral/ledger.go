package referral

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"trojan-bot/internal/models"
)

type Tier int

const (
	TierDirect   Tier = 1
	TierIndirect Tier = 2
)

func (t Tier) String() string {
	switch t {
	case TierDirect:
		return "direct"
	case TierIndirect:
		return "indirect"
	default:
		return fmt.Sprintf("tier_%d", int(t))
	}
}

// Credits is the reward policy: a fixed increment per tier. Tiers deeper than
// TierIndirect are paid the indirect increment.
type Credits struct {
	Direct   decimal.Decimal
	Indirect decimal.Decimal
}

func (c Credits) Validate() error {
	if c.Indirect.IsNegative() {
		return fmt.Errorf("indirect credit %s is negative", c.Indirect)
	}
	if c.Direct.LessThan(c.Indirect) {
		return fmt.Errorf("direct credit %s is lower than indirect credit %s", c.Direct, c.Indirect)
	}
	return nil
}

func (c Credits) For(t Tier) decimal.Decimal {
	if t == TierDirect {
		return c.Direct
	}
	return c.Indirect
}

// Credit describes one reward applied to Beneficiary because Source joined.
type Credit struct {
	BeneficiaryID string
	SourceUserID  string
	Tier          Tier
	Amount        decimal.Decimal
}

// RewardLedger applies reward increments to user records.
type RewardLedger struct {
	credits Credits
}

func NewRewardLedger(credits Credits) (*RewardLedger, error) {
	if err := credits.Validate(); err != nil {
		return nil, err
	}
	return &RewardLedger{credits: credits}, nil
}

// CreditReferral pays user the increment for tier. user must be a live
// directory record; nil is a caller bug.
func (l *RewardLedger) CreditReferral(user *models.User, tier Tier, now time.Time) decimal.Decimal {
	if user == nil {
		panic("referral: CreditReferral called with nil user")
	}
	amount := l.credits.For(tier)
	user.ReferralRewards = user.ReferralRewards.Add(amount)
	user.TotalPaidRewards = user.TotalPaidRewards.Add(amount)
	user.LastUpdated = now
	return amount
}

func (l *RewardLedger) Credits() Credits {
	return l.credits
}
