package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trojan-bot/internal/models"
	"trojan-bot/internal/referral"
)

type fakeAudit struct {
	mu      sync.Mutex
	regs    []*models.Registration
	credits []models.ReferralTransaction
	err     error
}

func (f *fakeAudit) SaveRegistration(_ context.Context, reg *models.Registration, credits []models.ReferralTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.regs = append(f.regs, reg)
	f.credits = append(f.credits, credits...)
	return nil
}

func (f *fakeAudit) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.regs)
}

type fixedStats int

func (s fixedStats) Stats() referral.Stats { return referral.Stats{Users: int(s)} }

func referredEvent() referral.Event {
	parent := "1"
	return referral.Event{
		Kind: referral.EventRegistered,
		User: models.User{ID: "2", TeamAddress: "addr", ReferredBy: &parent},
		Credits: []referral.Credit{
			{BeneficiaryID: "1", SourceUserID: "2", Tier: referral.TierDirect, Amount: decimal.RequireFromString("0.01")},
		},
		At: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
	}
}

func TestRecorderPersistsRegistrations(t *testing.T) {
	audit := &fakeAudit{}
	rec := NewRecorder(audit, fixedStats(3), zap.NewNop(), 8)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rec.Start(ctx)
		close(done)
	}()

	rec.Record(referredEvent())
	rec.Record(referral.Event{Kind: referral.EventDuplicate, User: models.User{ID: "2"}})

	require.Eventually(t, func() bool { return audit.count() == 1 }, time.Second, 10*time.Millisecond)
	cancel()
	<-done

	require.Len(t, audit.credits, 1)
	assert.Equal(t, "1", audit.credits[0].ReferrerID)
	assert.Equal(t, "2", audit.credits[0].InvitedUserID)
	assert.Equal(t, 1, audit.credits[0].Tier)
	assert.Equal(t, "0.01", audit.credits[0].Amount.String())
	assert.Equal(t, "1", *audit.regs[0].ReferredBy)
}

func TestRecorderFlushesOnShutdown(t *testing.T) {
	audit := &fakeAudit{}
	rec := NewRecorder(audit, nil, zap.NewNop(), 8)

	rec.Record(referredEvent())
	rec.Record(referredEvent())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec.Start(ctx)

	assert.Equal(t, 2, audit.count())
}

func TestRecorderDropsWhenFull(t *testing.T) {
	audit := &fakeAudit{}
	rec := NewRecorder(audit, nil, zap.NewNop(), 1)

	rec.Record(referredEvent())
	rec.Record(referredEvent())
	assert.Len(t, rec.events, 1)
}

func TestRecorderWithoutAudit(t *testing.T) {
	rec := NewRecorder(nil, nil, zap.NewNop(), 1)
	rec.Record(referredEvent())
	assert.Empty(t, rec.events)
}

func TestRecorderSurvivesAuditErrors(t *testing.T) {
	audit := &fakeAudit{err: errors.New("db down")}
	rec := NewRecorder(audit, nil, zap.NewNop(), 4)
	rec.Record(referredEvent())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec.Start(ctx)
	assert.Equal(t, 0, audit.count())
}

func TestOutcome(t *testing.T) {
	parent := "p"
	assert.Equal(t, "duplicate", outcome(referral.Event{Kind: referral.EventDuplicate}))
	assert.Equal(t, "referred", outcome(referral.Event{User: models.User{ReferredBy: &parent}}))
	assert.Equal(t, "referral_ignored", outcome(referral.Event{ReferralErr: referral.ErrUnknownReferrer}))
	assert.Equal(t, "root", outcome(referral.Event{}))
}

func TestRecorderNilLogger(t *testing.T) {
	audit := &fakeAudit{err: errors.New("db down")}
	rec := NewRecorder(audit, nil, nil, 1)

	assert.NotPanics(t, func() {
		rec.Record(referredEvent())
		rec.Record(referredEvent())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		rec.Start(ctx)
	})
}
