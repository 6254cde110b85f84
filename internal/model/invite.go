package model

import (
	"time"

	"github.com/google/uuid"
)

type InviteCode struct {
	ID            uuid.UUID  `json:"id"`
	Code          string     `json:"code"`
	Role          Role       `json:"role"`
	MaxUses       *int       `json:"max_uses,omitempty"`
	UsesRemaining *int       `json:"uses_remaining,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	CreatedBy     uuid.UUID  `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Valid reports whether the code can still be consumed at the given instant.
// A nil UsesRemaining means unlimited uses, a nil ExpiresAt means no expiry.
func (c InviteCode) Valid(now time.Time) bool {
	if c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
		return false
	}
	if c.UsesRemaining != nil && *c.UsesRemaining <= 0 {
		return false
	}
	return true
}
