package referral

import "errors"

var (
	ErrAlreadyExists         = errors.New("user already exists")
	ErrMalformedReferralCode = errors.New("malformed referral code")
	ErrSelfReferral          = errors.New("referral code points at the registering user")
	ErrUnknownReferrer       = errors.New("referrer is not registered")
	ErrPoolMisconfigured     = errors.New("team address pool is empty")
	ErrInvalidUserID         = errors.New("user id is empty")
)

var ErrStoreClosed = errors.New("referral store is closed")
