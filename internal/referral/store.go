package referral

import (
	"sync"
	"time"
)

// Store is the process-scoped state of the referral program. One Store is
// created by the hosting process and handed to the Service; its lock is the
// single serialization domain for pool rotation, directory writes, graph
// linking and ledger credits.
type Store struct {
	mu     sync.RWMutex
	closed bool

	pool   *AddressPool
	dir    *UserDirectory
	ledger *RewardLedger
	graph  *ReferralGraph

	now func() time.Time
}

type StoreOption func(*storeOptions)

type storeOptions struct {
	depth int
	now   func() time.Time
}

// WithTierDepth sets how many ancestors receive credit for a registration.
func WithTierDepth(depth int) StoreOption {
	return func(o *storeOptions) { o.depth = depth }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) StoreOption {
	return func(o *storeOptions) { o.now = now }
}

func NewStore(addresses []string, credits Credits, opts ...StoreOption) (*Store, error) {
	o := storeOptions{depth: DefaultTierDepth, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	pool, err := NewAddressPool(addresses)
	if err != nil {
		return nil, err
	}
	ledger, err := NewRewardLedger(credits)
	if err != nil {
		return nil, err
	}
	dir := NewUserDirectory()
	graph, err := NewReferralGraph(dir, ledger, o.depth)
	if err != nil {
		return nil, err
	}

	return &Store{
		pool:   pool,
		dir:    dir,
		ledger: ledger,
		graph:  graph,
		now:    o.now,
	}, nil
}

// Close releases the in-memory state. Calls made after Close fail with
// ErrStoreClosed or report absence.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.dir = NewUserDirectory()
}
