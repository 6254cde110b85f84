package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingType string

const (
	BookingTypeCampo          BookingType = "campo"
	BookingTypeLezionePrivata BookingType = "lezione_privata"
	BookingTypeLezioneGruppo  BookingType = "lezione_gruppo"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID               uuid.UUID            `json:"id"`
	UserID           uuid.UUID            `json:"user_id"`
	CoachID          *uuid.UUID           `json:"coach_id,omitempty"`
	Court            string               `json:"court"`
	Type             BookingType          `json:"type"`
	StartTime        time.Time            `json:"start_time"`
	EndTime          time.Time            `json:"end_time"`
	Status           BookingStatus        `json:"status"`
	CoachConfirmed   bool                 `json:"coach_confirmed"`
	ManagerConfirmed bool                 `json:"manager_confirmed"`
	Notes            string               `json:"notes"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
	Participants     []BookingParticipant `json:"participants,omitempty"`
}

// Overlaps reports whether the half-open intervals [b.StartTime, b.EndTime)
// and [start, end) intersect.
func (b Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

type BookingParticipant struct {
	ID              uuid.UUID  `json:"id"`
	BookingID       uuid.UUID  `json:"booking_id"`
	UserID          *uuid.UUID `json:"user_id,omitempty"`
	FullName        string     `json:"full_name"`
	Email           string     `json:"email"`
	IsRegistered    bool       `json:"is_registered"`
	ParticipantType string     `json:"participant_type"`
	OrderIndex      int        `json:"order_index"`
}
