package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"trojan-bot/internal/models"
	"trojan-bot/internal/monitoring"
	"trojan-bot/internal/referral"
)

// AuditStore persists the append-only trail of registrations and credits.
type AuditStore interface {
	SaveRegistration(ctx context.Context, reg *models.Registration, credits []models.ReferralTransaction) error
}

// StatsSource is satisfied by *referral.Service.
type StatsSource interface {
	Stats() referral.Stats
}

// Recorder implements referral.Recorder. Metrics are updated inline; audit
// rows go through a buffered queue drained by Start.
type Recorder struct {
	Audit    AuditStore
	Stats    StatsSource
	Logger   *zap.Logger
	Interval time.Duration

	events chan referral.Event
}

func NewRecorder(audit AuditStore, stats StatsSource, logger *zap.Logger, buffer int) *Recorder {
	if buffer < 1 {
		buffer = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		Audit:    audit,
		Stats:    stats,
		Logger:   logger,
		Interval: time.Minute,
		events:   make(chan referral.Event, buffer),
	}
}

func (r *Recorder) Record(e referral.Event) {
	monitoring.RegistrationsTotal.WithLabelValues(outcome(e)).Inc()
	for _, c := range e.Credits {
		tier := c.Tier.String()
		monitoring.ReferralCreditsTotal.WithLabelValues(tier).Inc()
		monitoring.ReferralCreditedAmount.WithLabelValues(tier).Add(c.Amount.InexactFloat64())
	}

	if r.Audit == nil || e.Kind != referral.EventRegistered {
		return
	}
	select {
	case r.events <- e:
	default:
		monitoring.AuditDropped.Inc()
		r.Logger.Warn("audit queue full, dropping event", zap.String("user_id", e.User.ID))
	}
}

// Start blocks until ctx is cancelled, then flushes whatever is queued.
func (r *Recorder) Start(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()
	r.Logger.Info("audit recorder started", zap.Bool("audit", r.Audit != nil))

	r.refreshGauge()
	for {
		select {
		case e := <-r.events:
			r.persist(context.WithoutCancel(ctx), e)
		case <-ticker.C:
			r.refreshGauge()
		case <-ctx.Done():
			r.flush()
			return
		}
	}
}

func (r *Recorder) flush() {
	ctx := context.Background()
	for {
		select {
		case e := <-r.events:
			r.persist(ctx, e)
		default:
			r.refreshGauge()
			return
		}
	}
}

func (r *Recorder) refreshGauge() {
	if r.Stats == nil {
		return
	}
	monitoring.RegisteredUsers.Set(float64(r.Stats.Stats().Users))
}

func (r *Recorder) persist(ctx context.Context, e referral.Event) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	reg, credits := auditRows(e)
	if err := r.Audit.SaveRegistration(ctx, reg, credits); err != nil {
		monitoring.AuditWriteErrors.Inc()
		r.Logger.Error("failed to write audit rows", zap.String("user_id", e.User.ID), zap.Error(err))
	}
}

func auditRows(e referral.Event) (*models.Registration, []models.ReferralTransaction) {
	reg := &models.Registration{
		ID:          uuid.New(),
		UserID:      e.User.ID,
		DisplayName: e.User.DisplayName,
		TeamAddress: e.User.TeamAddress,
		ReferredBy:  e.User.ReferredBy,
		CreatedAt:   e.At,
	}
	credits := make([]models.ReferralTransaction, 0, len(e.Credits))
	for _, c := range e.Credits {
		credits = append(credits, models.ReferralTransaction{
			ID:            uuid.New(),
			ReferrerID:    c.BeneficiaryID,
			InvitedUserID: c.SourceUserID,
			Tier:          int(c.Tier),
			Amount:        c.Amount,
			CreatedAt:     e.At,
		})
	}
	return reg, credits
}

func outcome(e referral.Event) string {
	switch {
	case e.Kind == referral.EventDuplicate:
		return "duplicate"
	case e.User.ReferredBy != nil:
		return "referred"
	case e.ReferralErr != nil:
		return "referral_ignored"
	default:
		return "root"
	}
}

// GormAudit writes audit rows with gorm in one transaction per registration.
type GormAudit struct {
	DB *gorm.DB
}

func (g *GormAudit) SaveRegistration(ctx context.Context, reg *models.Registration, credits []models.ReferralTransaction) error {
	return g.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reg).Error; err != nil {
			return err
		}
		if len(credits) == 0 {
			return nil
		}
		return tx.Create(&credits).Error
	})
}
