package api

import (
	"crypto/subtle"

	"matchpoint/internal/service"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) SendEmailCampaign(c *fiber.Ctx) error {
	var req service.CampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.Subject = sanitizer.SanitizeInput(req.Subject)
	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	result, err := h.email.SendCampaign(c.Context(), caller(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"sent": result.Sent, "failed": result.Failed})
}

func (h *Handler) GetEmailStats(c *fiber.Ctx) error {
	stats, err := h.email.Stats(c.Context(), caller(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"stats": stats})
}

// RetryFailedEmails is called by the external scheduler, authenticated with
// the shared X-Cron-Secret header rather than a session.
func (h *Handler) RetryFailedEmails(c *fiber.Ctx) error {
	secret := c.Get("X-Cron-Secret")
	if h.cronSecret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(h.cronSecret)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid cron secret"})
	}

	result, err := h.email.RetryFailed(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"retried": result.Sent + result.Failed, "sent": result.Sent, "failed": result.Failed})
}
