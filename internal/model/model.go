package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of account roles. Anything else is rejected at the
// boundary by ParseRole.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleGestore Role = "gestore"
	RoleMaestro Role = "maestro"
	RoleAtleta  Role = "atleta"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleGestore, RoleMaestro, RoleAtleta:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// IsStaff reports whether the role may act on behalf of other users: create
// bookings for them, bypass the advance-booking window, manage tournaments,
// invite codes and content.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleGestore
}

// IsCoach reports whether the role can be assigned to bookings as coach.
func (r Role) IsCoach() bool {
	return r == RoleMaestro
}

type Profile struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	FullName         string    `json:"full_name"`
	PasswordHash     string    `json:"-"`
	Role             Role      `json:"role"`
	Phone            string    `json:"phone"`
	SubscriptionType string    `json:"subscription_type"`
	AvatarURL        string    `json:"avatar_url"`
	Bio              string    `json:"bio"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
