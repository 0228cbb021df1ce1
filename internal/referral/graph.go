package referral

import (
	"fmt"
	"time"

	"trojan-bot/internal/models"
)

const DefaultTierDepth = 2

// ReferralGraph links new users under their referrer and walks at most depth
// ancestors to propagate credit. Edges live on models.User.ReferredBy.
type ReferralGraph struct {
	dir    *UserDirectory
	ledger *RewardLedger
	depth  int
}

func NewReferralGraph(dir *UserDirectory, ledger *RewardLedger, depth int) (*ReferralGraph, error) {
	if depth < 1 {
		return nil, fmt.Errorf("tier depth must be at least 1, got %d", depth)
	}
	return &ReferralGraph{dir: dir, ledger: ledger, depth: depth}, nil
}

// LinkAndCredit attaches newUser below referrerID and credits the ancestors.
// An empty referrerID leaves newUser as a root. A referrer that is not in
// the directory, or is newUser itself, also leaves it as a root and is
// reported through the returned error; no state is changed in that case.
func (g *ReferralGraph) LinkAndCredit(newUser *models.User, referrerID string, now time.Time) ([]Credit, error) {
	newUser.ReferredBy = nil
	if referrerID == "" {
		return nil, nil
	}
	if referrerID == newUser.ID {
		return nil, ErrSelfReferral
	}
	referrer, ok := g.dir.Get(referrerID)
	if !ok {
		return nil, fmt.Errorf("referrer %q: %w", referrerID, ErrUnknownReferrer)
	}

	ref := referrer.ID
	newUser.ReferredBy = &ref
	newUser.LastUpdated = now

	credits := make([]Credit, 0, g.depth)
	ancestor := referrer
	for tier := TierDirect; int(tier) <= g.depth; tier++ {
		if tier == TierDirect {
			ancestor.DirectReferralCount++
		} else {
			ancestor.IndirectReferralCount++
		}
		amount := g.ledger.CreditReferral(ancestor, tier, now)
		credits = append(credits, Credit{
			BeneficiaryID: ancestor.ID,
			SourceUserID:  newUser.ID,
			Tier:          tier,
			Amount:        amount,
		})

		if ancestor.ReferredBy == nil {
			break
		}
		next, ok := g.dir.Get(*ancestor.ReferredBy)
		if !ok {
			break
		}
		ancestor = next
	}
	return credits, nil
}

func (g *ReferralGraph) Depth() int {
	return g.depth
}
