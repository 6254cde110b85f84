package api

import (
	"matchpoint/internal/middleware"
	"matchpoint/internal/model"
	"matchpoint/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetNotifications returns the caller's unread notifications, newest first.
func (h *Handler) GetNotifications(c *fiber.Ctx) error {
	notifications, err := h.notifier.Unread(c.Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"notifications": notifications})
}

func (h *Handler) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := queryID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid notification id")
	}
	if err := h.notifier.MarkRead(c.Context(), id, middleware.UserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "read"})
}

// SendNotifications is the staff fan-out endpoint: target a role, or an
// explicit list of user ids.
func (h *Handler) SendNotifications(c *fiber.Ctx) error {
	var body struct {
		Title     string   `json:"title" validate:"required,max=200"`
		Message   string   `json:"message" validate:"required,max=2000"`
		Type      string   `json:"type" validate:"omitempty,oneof=info warning error"`
		ActionURL string   `json:"action_url" validate:"omitempty,max=500"`
		Role      string   `json:"role" validate:"omitempty,role"`
		UserIDs   []string `json:"user_ids" validate:"omitempty,dive,uuid"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	body.Title = sanitizer.SanitizeInput(body.Title)
	body.Message = sanitizer.SanitizeInput(body.Message)
	if err := h.validator.Validate(body); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}
	if body.Role == "" && len(body.UserIDs) == 0 {
		return badRequest(c, "Either role or user_ids is required")
	}

	param := service.NotifyParam{
		Title:     body.Title,
		Message:   body.Message,
		Type:      model.NotificationType(body.Type),
		ActionURL: body.ActionURL,
	}

	if body.Role != "" {
		role, err := model.ParseRole(body.Role)
		if err != nil {
			return badRequest(c, "Invalid role")
		}
		if err := h.notifier.NotifyRole(c.Context(), role, param); err != nil {
			return fail(c, err)
		}
	} else {
		recipients := make([]uuid.UUID, len(body.UserIDs))
		for i, raw := range body.UserIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				return badRequest(c, "Invalid user id")
			}
			recipients[i] = id
		}
		if err := h.notifier.NotifyUsers(c.Context(), recipients, param); err != nil {
			return fail(c, err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "sent"})
}
