package referral

import (
	"fmt"
	"time"

	"trojan-bot/internal/models"
)

// UserDirectory is the canonical id -> user mapping.
type UserDirectory struct {
	users map[string]*models.User
}

func NewUserDirectory() *UserDirectory {
	return &UserDirectory{users: make(map[string]*models.User)}
}

func (d *UserDirectory) Get(id string) (*models.User, bool) {
	u, ok := d.users[id]
	return u, ok
}

func (d *UserDirectory) Exists(id string) bool {
	_, ok := d.users[id]
	return ok
}

// Create stores a fresh record with zeroed counters. referredBy is recorded
// as given; the graph is responsible for validating it.
func (d *UserDirectory) Create(id, displayName, teamAddress string, referredBy *string, now time.Time) (*models.User, error) {
	if _, ok := d.users[id]; ok {
		return nil, fmt.Errorf("create %q: %w", id, ErrAlreadyExists)
	}
	u := &models.User{
		ID:          id,
		DisplayName: displayName,
		TeamAddress: teamAddress,
		ReferredBy:  referredBy,
		CreatedAt:   now,
		LastUpdated: now,
	}
	d.users[id] = u
	return u, nil
}

func (d *UserDirectory) Len() int {
	return len(d.users)
}
