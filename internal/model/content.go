package model

import (
	"time"

	"github.com/google/uuid"
)

// Audience restricts who sees a piece of content. Empty means everyone.
type Audience string

const (
	AudienceAll     Audience = ""
	AudienceAtleti  Audience = "atleti"
	AudienceMaestri Audience = "maestri"
	AudienceStaff   Audience = "staff"
)

type Announcement struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Audience  Audience  `json:"audience"`
	Published bool      `json:"published"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type News struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	ImageURL  string    `json:"image_url"`
	Published bool      `json:"published"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type VideoLesson struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoKey    string    `json:"video_key"`
	Audience    Audience  `json:"audience"`
	Published   bool      `json:"published"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}
