package api

import (
	"errors"
	"log/slog"
	"time"

	"matchpoint/internal/monitoring"
	"matchpoint/internal/repository"
	"matchpoint/internal/service"
	"matchpoint/internal/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

// Handler holds the wiring for all API routes.
type Handler struct {
	store       *session.Store
	repo        repository.Repository
	validator   *validator.Validator
	auth        *service.AuthService
	profiles    *service.ProfileService
	bookings    *service.BookingService
	tournaments *service.TournamentService
	invites     *service.InviteService
	notifier    *service.Notifier
	email       *service.EmailService
	content     *service.ContentService
	cronSecret  string
}

type Services struct {
	Auth        *service.AuthService
	Profiles    *service.ProfileService
	Bookings    *service.BookingService
	Tournaments *service.TournamentService
	Invites     *service.InviteService
	Notifier    *service.Notifier
	Email       *service.EmailService
	Content     *service.ContentService
}

func NewHandler(store *session.Store, repo repository.Repository, v *validator.Validator, svcs Services, cronSecret string) *Handler {
	return &Handler{
		store:       store,
		repo:        repo,
		validator:   v,
		auth:        svcs.Auth,
		profiles:    svcs.Profiles,
		bookings:    svcs.Bookings,
		tournaments: svcs.Tournaments,
		invites:     svcs.Invites,
		notifier:    svcs.Notifier,
		email:       svcs.Email,
		content:     svcs.Content,
		cronSecret:  cronSecret,
	}
}

// Health reports service status; 503 when the database is unreachable.
func (h *Handler) Health(c *fiber.Ctx) error {
	if err := h.repo.HealthCheck(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  "database connection failed",
		})
	}

	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// fail translates service and repository sentinels into HTTP responses.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	case errors.Is(err, service.ErrTooManyAttempts):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrInvalidBookingFor),
		errors.Is(err, service.ErrCannotDeleteSelf):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
	case errors.Is(err, service.ErrEmailInUse):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already registered"})
	case errors.Is(err, service.ErrBookingTooSoon):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Bookings must be made at least 24 hours in advance"})
	case errors.Is(err, service.ErrInvalidInterval):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Start time must be before end time"})
	case errors.Is(err, service.ErrNoRecipients):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No recipients match the requested audience"})
	case errors.Is(err, repository.ErrBookingConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "The court is already booked for this time slot"})
	case errors.Is(err, repository.ErrTournamentFull):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Tournament is full"})
	case errors.Is(err, repository.ErrTournamentClosed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Tournament is not open for enrollment"})
	case errors.Is(err, repository.ErrAlreadyEnrolled):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Already enrolled in this tournament"})
	case errors.Is(err, repository.ErrInviteCodeExhausted):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Invite code is expired or exhausted"})
	case errors.Is(err, repository.ErrProfileNotFound),
		errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, repository.ErrTournamentNotFound),
		errors.Is(err, repository.ErrEnrollmentNotFound),
		errors.Is(err, repository.ErrMatchNotFound),
		errors.Is(err, repository.ErrInviteCodeNotFound),
		errors.Is(err, repository.ErrContentNotFound),
		errors.Is(err, repository.ErrEmailLogNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	default:
		// Domain errors never reach the span as returned errors, so record
		// the unexpected ones here before they collapse into a plain 500.
		monitoring.GetSpanFromFiber(c).RecordError(err)
		slog.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}

// badRequest reports a parse or validation failure.
func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// queryID parses a required uuid query parameter.
func queryID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Query(name))
}

func parseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}
