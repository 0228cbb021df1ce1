package referral

import (
	"time"

	"trojan-bot/internal/models"
)

type EventKind int

const (
	EventRegistered EventKind = iota
	EventDuplicate
)

func (k EventKind) String() string {
	if k == EventDuplicate {
		return "duplicate"
	}
	return "registered"
}

// Event describes the outcome of one Register call. It is emitted after the
// store lock is released.
type Event struct {
	Kind EventKind
	User models.User
	// Credits is empty unless the user was linked under a referrer.
	Credits []Credit
	// ReferralErr explains why a supplied code was not linked.
	ReferralErr error
	At          time.Time
}

// Recorder receives registration events. Implementations must not block.
type Recorder interface {
	Record(Event)
}

type nopRecorder struct{}

func (nopRecorder) Record(Event) {}
