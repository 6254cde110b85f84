package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"matchpoint/internal/logger"
	"matchpoint/internal/model"
	"matchpoint/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	// The async audit and email paths log expected failures; keep test
	// output readable.
	logger.SilenceLogger(io.Discard)
	os.Exit(m.Run())
}

// MockRepository is a testify mock of repository.Repository shared by the
// service tests.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateProfile(ctx context.Context, profile model.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockRepository) GetProfileByID(ctx context.Context, id uuid.UUID) (model.Profile, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *MockRepository) GetProfileByEmail(ctx context.Context, email string) (model.Profile, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *MockRepository) UpdateProfile(ctx context.Context, profile model.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockRepository) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) ListProfiles(ctx context.Context, limit, offset int) ([]model.Profile, int, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]model.Profile), args.Int(1), args.Error(2)
}

func (m *MockRepository) ListProfilesByRole(ctx context.Context, role model.Role) ([]model.Profile, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]model.Profile), args.Error(1)
}

func (m *MockRepository) CreateBooking(ctx context.Context, booking model.Booking, participants []model.BookingParticipant) error {
	return m.Called(ctx, booking, participants).Error(0)
}

func (m *MockRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (model.Booking, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Booking), args.Error(1)
}

func (m *MockRepository) ListBookings(ctx context.Context, filter repository.BookingFilter) ([]model.Booking, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Booking), args.Error(1)
}

func (m *MockRepository) ListCourtConflicts(ctx context.Context, court string, start, end time.Time, excludeID *uuid.UUID) ([]model.Booking, error) {
	args := m.Called(ctx, court, start, end, excludeID)
	return args.Get(0).([]model.Booking), args.Error(1)
}

func (m *MockRepository) UpdateBooking(ctx context.Context, booking model.Booking) error {
	return m.Called(ctx, booking).Error(0)
}

func (m *MockRepository) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) CreateTournament(ctx context.Context, tournament model.Tournament) error {
	return m.Called(ctx, tournament).Error(0)
}

func (m *MockRepository) GetTournamentByID(ctx context.Context, id uuid.UUID) (model.Tournament, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Tournament), args.Error(1)
}

func (m *MockRepository) ListTournaments(ctx context.Context, status *model.TournamentStatus) ([]model.Tournament, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]model.Tournament), args.Error(1)
}

func (m *MockRepository) UpdateTournament(ctx context.Context, tournament model.Tournament) error {
	return m.Called(ctx, tournament).Error(0)
}

func (m *MockRepository) DeleteTournament(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) EnrollParticipant(ctx context.Context, participant model.TournamentParticipant) error {
	return m.Called(ctx, participant).Error(0)
}

func (m *MockRepository) UnenrollParticipant(ctx context.Context, tournamentID, userID uuid.UUID) error {
	return m.Called(ctx, tournamentID, userID).Error(0)
}

func (m *MockRepository) ListParticipants(ctx context.Context, tournamentID uuid.UUID) ([]model.TournamentParticipant, error) {
	args := m.Called(ctx, tournamentID)
	return args.Get(0).([]model.TournamentParticipant), args.Error(1)
}

func (m *MockRepository) CountParticipants(ctx context.Context, tournamentID uuid.UUID) (int, error) {
	args := m.Called(ctx, tournamentID)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) CreateMatch(ctx context.Context, match model.TournamentMatch) error {
	return m.Called(ctx, match).Error(0)
}

func (m *MockRepository) UpdateMatch(ctx context.Context, match model.TournamentMatch) error {
	return m.Called(ctx, match).Error(0)
}

func (m *MockRepository) GetMatchByID(ctx context.Context, id uuid.UUID) (model.TournamentMatch, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.TournamentMatch), args.Error(1)
}

func (m *MockRepository) ListMatches(ctx context.Context, tournamentID uuid.UUID) ([]model.TournamentMatch, error) {
	args := m.Called(ctx, tournamentID)
	return args.Get(0).([]model.TournamentMatch), args.Error(1)
}

func (m *MockRepository) CreateInviteCode(ctx context.Context, code model.InviteCode) error {
	return m.Called(ctx, code).Error(0)
}

func (m *MockRepository) GetInviteCodeByCode(ctx context.Context, code string) (model.InviteCode, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(model.InviteCode), args.Error(1)
}

func (m *MockRepository) ConsumeInviteCode(ctx context.Context, code string) (model.InviteCode, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(model.InviteCode), args.Error(1)
}

func (m *MockRepository) RestoreInviteCodeUse(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

func (m *MockRepository) ListInviteCodes(ctx context.Context) ([]model.InviteCode, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.InviteCode), args.Error(1)
}

func (m *MockRepository) DeleteInviteCode(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) CreateNotifications(ctx context.Context, notifications []model.Notification) error {
	return m.Called(ctx, notifications).Error(0)
}

func (m *MockRepository) ListUnreadNotifications(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockRepository) MarkNotificationRead(ctx context.Context, id, userID uuid.UUID) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *MockRepository) CreateAnnouncement(ctx context.Context, a model.Announcement) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockRepository) UpdateAnnouncement(ctx context.Context, a model.Announcement) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockRepository) DeleteAnnouncement(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) ListAnnouncements(ctx context.Context, audience model.Audience, publishedOnly bool) ([]model.Announcement, error) {
	args := m.Called(ctx, audience, publishedOnly)
	return args.Get(0).([]model.Announcement), args.Error(1)
}

func (m *MockRepository) CreateNews(ctx context.Context, n model.News) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockRepository) UpdateNews(ctx context.Context, n model.News) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockRepository) DeleteNews(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) ListNews(ctx context.Context, publishedOnly bool) ([]model.News, error) {
	args := m.Called(ctx, publishedOnly)
	return args.Get(0).([]model.News), args.Error(1)
}

func (m *MockRepository) CreateVideoLesson(ctx context.Context, v model.VideoLesson) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockRepository) DeleteVideoLesson(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) ListVideoLessons(ctx context.Context, audience model.Audience, publishedOnly bool) ([]model.VideoLesson, error) {
	args := m.Called(ctx, audience, publishedOnly)
	return args.Get(0).([]model.VideoLesson), args.Error(1)
}

func (m *MockRepository) CreateActivityLog(ctx context.Context, entry model.ActivityLog) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockRepository) CreateEmailLog(ctx context.Context, entry model.EmailLog) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockRepository) UpdateEmailLog(ctx context.Context, entry model.EmailLog) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockRepository) ListFailedEmailLogs(ctx context.Context, maxAttempts int) ([]model.EmailLog, error) {
	args := m.Called(ctx, maxAttempts)
	return args.Get(0).([]model.EmailLog), args.Error(1)
}

func (m *MockRepository) GetEmailStats(ctx context.Context) (model.EmailStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.EmailStats), args.Error(1)
}

func (m *MockRepository) HealthCheck(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// allowActivityLogs tolerates the async audit writes the services fire.
func allowActivityLogs(repo *MockRepository) {
	repo.On("CreateActivityLog", mock.Anything, mock.Anything).Return(nil).Maybe()
}

// noopTelemetry satisfies monitoring.Telemetry for tests.
type noopTelemetry struct{}

func (noopTelemetry) RecordBookingCreated(ctx context.Context, court string, conflict bool) {}
func (noopTelemetry) RecordEnrollment(ctx context.Context, success bool)                    {}
func (noopTelemetry) RecordEmailSent(ctx context.Context, success bool)                     {}
func (noopTelemetry) Logger() *slog.Logger                                                  { return slog.Default() }
func (noopTelemetry) Shutdown(ctx context.Context) error                                    { return nil }

var errSMTPUnavailable = errors.New("smtp unavailable")

// fakeSender records sends and fails for configured recipients.
type fakeSender struct {
	sent    []string
	failFor map[string]bool
}

func (f *fakeSender) Send(to, subject, body string) error {
	if f.failFor[to] {
		return errSMTPUnavailable
	}
	f.sent = append(f.sent, to)
	return nil
}
