package model

import (
	"time"

	"github.com/google/uuid"
)

type EmailStatus string

const (
	EmailStatusSent   EmailStatus = "sent"
	EmailStatusFailed EmailStatus = "failed"
)

type EmailLog struct {
	ID        uuid.UUID   `json:"id"`
	Recipient string      `json:"recipient"`
	Subject   string      `json:"subject"`
	Status    EmailStatus `json:"status"`
	Error     string      `json:"error,omitempty"`
	Attempts  int         `json:"attempts"`
	SentBy    uuid.UUID   `json:"sent_by"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type EmailStats struct {
	Total      int `json:"total"`
	Sent       int `json:"sent"`
	Failed     int `json:"failed"`
	Last24hAll int `json:"last_24h"`
}
