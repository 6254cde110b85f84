package middleware

import (
	"log/slog"

	"matchpoint/internal/model"
	"matchpoint/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

// Authenticated resolves the session cookie to a profile and stores user_id
// and role in Locals for downstream handlers.
func Authenticated(store *session.Store, repo repository.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			slog.Error("Failed to get session", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Session error",
			})
		}

		raw := sess.Get("user_id")
		if raw == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		userID, err := uuid.Parse(raw.(string))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid session",
			})
		}

		profile, err := repo.GetProfileByID(c.Context(), userID)
		if err != nil {
			// Session references a deleted account.
			sess.Delete("user_id")
			_ = sess.Save()
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		c.Locals("user_id", profile.ID)
		c.Locals("role", profile.Role)

		return c.Next()
	}
}

// RequireStaff rejects callers whose role is not admin or gestore. Must run
// after Authenticated.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(model.Role)
		if !ok || !role.IsStaff() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Insufficient permissions",
			})
		}
		return c.Next()
	}
}

// UserID returns the authenticated caller's id from Locals.
func UserID(c *fiber.Ctx) uuid.UUID {
	if id, ok := c.Locals("user_id").(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// Role returns the authenticated caller's role from Locals.
func Role(c *fiber.Ctx) model.Role {
	if role, ok := c.Locals("role").(model.Role); ok {
		return role
	}
	return ""
}
