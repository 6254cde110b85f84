package repository

import (
	"context"
	"errors"
	"time"

	"matchpoint/internal/model"

	"github.com/google/uuid"
)

var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrBookingConflict     = errors.New("booking conflicts with an existing confirmed booking")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrTournamentFull      = errors.New("tournament has reached max participants")
	ErrTournamentClosed    = errors.New("tournament is not open for enrollment")
	ErrAlreadyEnrolled     = errors.New("user is already enrolled in tournament")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrInviteCodeNotFound  = errors.New("invite code not found")
	ErrInviteCodeExhausted = errors.New("invite code is expired or exhausted")
	ErrContentNotFound     = errors.New("content not found")
	ErrEmailLogNotFound    = errors.New("email log not found")
)

// BookingFilter narrows ListBookings. Nil fields are ignored.
type BookingFilter struct {
	UserID  *uuid.UUID
	CoachID *uuid.UUID
}

// Repository defines the contract for repository implementations
type Repository interface {
	// Profile operations
	CreateProfile(ctx context.Context, profile model.Profile) error
	GetProfileByID(ctx context.Context, id uuid.UUID) (model.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (model.Profile, error)
	UpdateProfile(ctx context.Context, profile model.Profile) error
	DeleteProfile(ctx context.Context, id uuid.UUID) error
	ListProfiles(ctx context.Context, limit, offset int) ([]model.Profile, int, error)
	ListProfilesByRole(ctx context.Context, role model.Role) ([]model.Profile, error)

	// Booking operations
	CreateBooking(ctx context.Context, booking model.Booking, participants []model.BookingParticipant) error
	GetBookingByID(ctx context.Context, id uuid.UUID) (model.Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter) ([]model.Booking, error)
	ListCourtConflicts(ctx context.Context, court string, start, end time.Time, excludeID *uuid.UUID) ([]model.Booking, error)
	UpdateBooking(ctx context.Context, booking model.Booking) error
	DeleteBooking(ctx context.Context, id uuid.UUID) error

	// Tournament operations
	CreateTournament(ctx context.Context, tournament model.Tournament) error
	GetTournamentByID(ctx context.Context, id uuid.UUID) (model.Tournament, error)
	ListTournaments(ctx context.Context, status *model.TournamentStatus) ([]model.Tournament, error)
	UpdateTournament(ctx context.Context, tournament model.Tournament) error
	DeleteTournament(ctx context.Context, id uuid.UUID) error
	EnrollParticipant(ctx context.Context, participant model.TournamentParticipant) error
	UnenrollParticipant(ctx context.Context, tournamentID, userID uuid.UUID) error
	ListParticipants(ctx context.Context, tournamentID uuid.UUID) ([]model.TournamentParticipant, error)
	CountParticipants(ctx context.Context, tournamentID uuid.UUID) (int, error)
	CreateMatch(ctx context.Context, match model.TournamentMatch) error
	UpdateMatch(ctx context.Context, match model.TournamentMatch) error
	GetMatchByID(ctx context.Context, id uuid.UUID) (model.TournamentMatch, error)
	ListMatches(ctx context.Context, tournamentID uuid.UUID) ([]model.TournamentMatch, error)

	// Invite code operations
	CreateInviteCode(ctx context.Context, code model.InviteCode) error
	GetInviteCodeByCode(ctx context.Context, code string) (model.InviteCode, error)
	ConsumeInviteCode(ctx context.Context, code string) (model.InviteCode, error)
	RestoreInviteCodeUse(ctx context.Context, code string) error
	ListInviteCodes(ctx context.Context) ([]model.InviteCode, error)
	DeleteInviteCode(ctx context.Context, id uuid.UUID) error

	// Notification operations
	CreateNotifications(ctx context.Context, notifications []model.Notification) error
	ListUnreadNotifications(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID uuid.UUID) error

	// Content operations
	CreateAnnouncement(ctx context.Context, a model.Announcement) error
	UpdateAnnouncement(ctx context.Context, a model.Announcement) error
	DeleteAnnouncement(ctx context.Context, id uuid.UUID) error
	ListAnnouncements(ctx context.Context, audience model.Audience, publishedOnly bool) ([]model.Announcement, error)
	CreateNews(ctx context.Context, n model.News) error
	UpdateNews(ctx context.Context, n model.News) error
	DeleteNews(ctx context.Context, id uuid.UUID) error
	ListNews(ctx context.Context, publishedOnly bool) ([]model.News, error)
	CreateVideoLesson(ctx context.Context, v model.VideoLesson) error
	DeleteVideoLesson(ctx context.Context, id uuid.UUID) error
	ListVideoLessons(ctx context.Context, audience model.Audience, publishedOnly bool) ([]model.VideoLesson, error)

	// Activity log operations
	CreateActivityLog(ctx context.Context, entry model.ActivityLog) error

	// Email log operations
	CreateEmailLog(ctx context.Context, entry model.EmailLog) error
	UpdateEmailLog(ctx context.Context, entry model.EmailLog) error
	ListFailedEmailLogs(ctx context.Context, maxAttempts int) ([]model.EmailLog, error)
	GetEmailStats(ctx context.Context) (model.EmailStats, error)

	// Database operations
	HealthCheck(ctx context.Context) error
}
