package api

import (
	"errors"

	"matchpoint/internal/repository"
	"matchpoint/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ValidateInviteCode is public: the registration form calls it before
// submitting. The code is not consumed here.
func (h *Handler) ValidateInviteCode(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return badRequest(c, "Missing code")
	}

	result, err := h.invites.Validate(c.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrInviteCodeNotFound) {
			return c.JSON(fiber.Map{"valid": false, "error": "Codice non valido"})
		}
		return fail(c, err)
	}
	if !result.Valid {
		return c.JSON(fiber.Map{"valid": false, "error": "Codice scaduto o esaurito"})
	}
	return c.JSON(fiber.Map{"valid": true, "role": result.Role})
}

func (h *Handler) GetInviteCodes(c *fiber.Ctx) error {
	codes, err := h.invites.List(c.Context(), caller(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"invite_codes": codes})
}

func (h *Handler) CreateInviteCode(c *fiber.Ctx) error {
	var req service.CreateInviteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	invite, err := h.invites.Create(c.Context(), caller(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"invite_code": invite})
}

func (h *Handler) DeleteInviteCode(c *fiber.Ctx) error {
	id, err := queryID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid invite code id")
	}
	if err := h.invites.Delete(c.Context(), caller(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}
