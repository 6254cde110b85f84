package api

import (
	"log/slog"

	"matchpoint/internal/middleware"
	"matchpoint/internal/model"
	"matchpoint/internal/service"

	"github.com/gofiber/fiber/v2"
)

var sanitizer = middleware.NewSanitizer()

// Register creates an account gated by a valid invite code.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.FullName = sanitizer.SanitizeInput(req.FullName)
	req.Phone = sanitizer.SanitizeInput(req.Phone)
	if sanitizer.ContainsSuspiciousContent(req.FullName) {
		return badRequest(c, "Invalid characters in name")
	}
	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	profile, err := h.auth.Register(c.Context(), req, c.IP())
	if err != nil {
		return fail(c, err)
	}

	if err := h.createSession(c, profile); err != nil {
		slog.Error("Failed to create session after registration", "error", err)
		// The account exists; the client can log in normally.
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": profile})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	req.Email = sanitizer.NormalizeEmail(req.Email)
	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	profile, err := h.auth.Login(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}

	if err := h.createSession(c, profile); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"user": profile})
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err == nil {
		_ = sess.Destroy()
	}
	return c.JSON(fiber.Map{"status": "logged out"})
}

func (h *Handler) createSession(c *fiber.Ctx, profile model.Profile) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return err
	}
	sess.Set("user_id", profile.ID.String())
	return sess.Save()
}
