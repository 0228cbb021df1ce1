package referral

import (
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"trojan-bot/internal/models"
)

// LinkBuilder renders the shareable referral link for a user id.
type LinkBuilder func(userID string) string

type RewardsView struct {
	DirectReferralCount   uint64
	IndirectReferralCount uint64
	ReferralRewards       decimal.Decimal
	CashbackRewards       decimal.Decimal
	TotalPaidRewards      decimal.Decimal
	TotalUnpaid           decimal.Decimal
	TeamAddress           string
	ReferralLink          string
}

type Stats struct {
	Users           int
	AddressesIssued uint64
	PoolSize        int
	TierDepth       int
}

type Service struct {
	store    *Store
	prefix   string
	logger   *zap.Logger
	recorder Recorder
	link     LinkBuilder
}

type ServiceOption func(*Service)

func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

func WithLinkBuilder(b LinkBuilder) ServiceOption {
	return func(s *Service) { s.link = b }
}

func NewService(store *Store, codePrefix string, logger *zap.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:    store,
		prefix:   codePrefix,
		logger:   logger,
		recorder: nopRecorder{},
		link:     func(userID string) string { return FormatCode(codePrefix, userID) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates the user on first sight and returns the stored record.
// Repeated calls for the same id return the existing record untouched.
// Referral codes that do not resolve to another registered user are dropped
// and the user becomes a root.
func (s *Service) Register(id, displayName, referralCode string) (models.User, error) {
	if id == "" {
		return models.User{}, ErrInvalidUserID
	}
	code := ParseCode(s.prefix, referralCode, id)

	st := s.store
	st.mu.Lock()
	if st.closed {
		st.mu.Unlock()
		return models.User{}, ErrStoreClosed
	}
	now := st.now()

	duplicate := func(existing *models.User) (models.User, error) {
		snap := existing.Clone()
		st.mu.Unlock()
		s.recorder.Record(Event{Kind: EventDuplicate, User: snap, At: now})
		return snap, nil
	}

	if existing, ok := st.dir.Get(id); ok {
		return duplicate(existing)
	}

	// The rotation slot is only consumed once the record exists.
	user, err := st.dir.Create(id, displayName, st.pool.Peek(), nil, now)
	if err != nil {
		if existing, ok := st.dir.Get(id); ok && errors.Is(err, ErrAlreadyExists) {
			return duplicate(existing)
		}
		st.mu.Unlock()
		return models.User{}, err
	}
	st.pool.Advance()

	referralErr := code.Err()
	var credits []Credit
	if code.Kind == CodeValid {
		credits, referralErr = st.graph.LinkAndCredit(user, code.ReferrerID, now)
	}
	snap := user.Clone()
	st.mu.Unlock()

	fields := []zap.Field{
		zap.String("user_id", snap.ID),
		zap.String("display_name", snap.DisplayName),
		zap.String("team_address", snap.TeamAddress),
	}
	if snap.ReferredBy != nil {
		fields = append(fields, zap.String("referred_by", *snap.ReferredBy), zap.Int("credits", len(credits)))
	}
	s.logger.Info("new user registered", fields...)
	if referralErr != nil {
		s.logger.Debug("referral code ignored",
			zap.String("user_id", snap.ID),
			zap.String("code", referralCode),
			zap.Error(referralErr),
		)
	}

	s.recorder.Record(Event{
		Kind:        EventRegistered,
		User:        snap,
		Credits:     credits,
		ReferralErr: referralErr,
		At:          now,
	})
	return snap, nil
}

// GetUser returns a snapshot of the user record.
func (s *Service) GetUser(id string) (models.User, bool) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	u, ok := s.store.dir.Get(id)
	if !ok {
		return models.User{}, false
	}
	return u.Clone(), true
}

func (s *Service) RewardsView(id string) (RewardsView, bool) {
	u, ok := s.GetUser(id)
	if !ok {
		return RewardsView{}, false
	}
	return RewardsView{
		DirectReferralCount:   u.DirectReferralCount,
		IndirectReferralCount: u.IndirectReferralCount,
		ReferralRewards:       u.ReferralRewards,
		CashbackRewards:       u.CashbackRewards,
		TotalPaidRewards:      u.TotalPaidRewards,
		TotalUnpaid:           u.TotalUnpaid(),
		TeamAddress:           u.TeamAddress,
		ReferralLink:          s.link(u.ID),
	}, true
}

func (s *Service) Stats() Stats {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	return Stats{
		Users:           s.store.dir.Len(),
		AddressesIssued: s.store.pool.Issued(),
		PoolSize:        s.store.pool.Size(),
		TierDepth:       s.store.graph.Depth(),
	}
}

func (s *Service) CodePrefix() string {
	return s.prefix
}
