package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type TournamentType string

const (
	TournamentTypeEliminazioneDiretta TournamentType = "eliminazione_diretta"
	TournamentTypeGironeEliminazione  TournamentType = "girone_eliminazione"
	TournamentTypeCampionato          TournamentType = "campionato"
)

type TournamentStatus string

const (
	TournamentStatusAperto     TournamentStatus = "Aperto"
	TournamentStatusInCorso    TournamentStatus = "In Corso"
	TournamentStatusCompletato TournamentStatus = "Completato"
	TournamentStatusChiuso     TournamentStatus = "Chiuso"
)

type Tournament struct {
	ID              uuid.UUID        `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	StartDate       time.Time        `json:"start_date"`
	Type            TournamentType   `json:"tournament_type"`
	MaxParticipants int              `json:"max_participants"`
	Status          TournamentStatus `json:"status"`
	Category        string           `json:"category"`
	Level           string           `json:"level"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type TournamentParticipant struct {
	ID           uuid.UUID `json:"id"`
	TournamentID uuid.UUID `json:"tournament_id"`
	UserID       uuid.UUID `json:"user_id"`
	Status       string    `json:"status"`
	EnrolledAt   time.Time `json:"enrolled_at"`
}

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusPlayed    MatchStatus = "played"
	MatchStatusWalkover  MatchStatus = "walkover"
)

type TournamentMatch struct {
	ID            uuid.UUID       `json:"id"`
	TournamentID  uuid.UUID       `json:"tournament_id"`
	Player1ID     *uuid.UUID      `json:"player1_id,omitempty"`
	Player2ID     *uuid.UUID      `json:"player2_id,omitempty"`
	WinnerID      *uuid.UUID      `json:"winner_id,omitempty"`
	Status        MatchStatus     `json:"status"`
	ScheduledTime *time.Time      `json:"scheduled_time,omitempty"`
	Sets          json.RawMessage `json:"sets,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
