package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a referral program participant. The record is owned by the
// directory; everything handed out of the referral package is a copy.
type User struct {
	ID          string
	DisplayName string
	TeamAddress string
	ReferredBy  *string

	DirectReferralCount   uint64
	IndirectReferralCount uint64

	SolBalance       decimal.Decimal
	ReferralRewards  decimal.Decimal
	CashbackRewards  decimal.Decimal
	TotalPaidRewards decimal.Decimal

	CreatedAt   time.Time
	LastUpdated time.Time
}

// Clone returns a copy that shares no pointers with u.
func (u *User) Clone() User {
	c := *u
	if u.ReferredBy != nil {
		ref := *u.ReferredBy
		c.ReferredBy = &ref
	}
	return c
}

// TotalReferred is the number of users credited to u across both tiers.
func (u User) TotalReferred() uint64 {
	return u.DirectReferralCount + u.IndirectReferralCount
}

// TotalUnpaid is what the rewards screen reports as not yet paid out.
func (u User) TotalUnpaid() decimal.Decimal {
	return u.ReferralRewards.Add(u.CashbackRewards)
}
