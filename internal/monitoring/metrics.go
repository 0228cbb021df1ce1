package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "referral_registrations_total",
			Help: "Register calls by outcome",
		},
		[]string{"outcome"},
	)

	ReferralCreditsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "referral_credits_total",
			Help: "Referral credits applied, by tier",
		},
		[]string{"tier"},
	)

	ReferralCreditedAmount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "referral_credited_amount_sol",
			Help: "Sum of referral rewards credited, by tier",
		},
		[]string{"tier"},
	)

	RegisteredUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "referral_registered_users",
			Help: "Users currently held in the directory",
		},
	)

	AuditWriteErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "referral_audit_write_errors_total",
			Help: "Audit rows that failed to persist",
		},
	)

	AuditDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "referral_audit_dropped_total",
			Help: "Events dropped because the audit queue was full",
		},
	)
)
