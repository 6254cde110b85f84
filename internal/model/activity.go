package model

import (
	"time"

	"github.com/google/uuid"
)

type ActivityAction string

const (
	ActivityActionCreate ActivityAction = "create"
	ActivityActionUpdate ActivityAction = "update"
	ActivityActionDelete ActivityAction = "delete"
	ActivityActionLogin  ActivityAction = "login"
	ActivityActionLogout ActivityAction = "logout"
)

// ActivityLog is an append-only audit row written as a side effect of
// mutating operations.
type ActivityLog struct {
	ID         uuid.UUID              `json:"id"`
	UserID     *uuid.UUID             `json:"user_id,omitempty"`
	EntityType string                 `json:"entity_type"`
	EntityID   uuid.UUID              `json:"entity_id"`
	Action     ActivityAction         `json:"action"`
	Details    map[string]interface{} `json:"details,omitempty"`
	IPAddress  string                 `json:"ip_address"`
	UserAgent  string                 `json:"user_agent"`
	CreatedAt  time.Time              `json:"created_at"`
}
