package api

import (
	"matchpoint/internal/middleware"
	"matchpoint/internal/repository"
	"matchpoint/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func caller(c *fiber.Ctx) service.Caller {
	return service.Caller{ID: middleware.UserID(c), Role: middleware.Role(c)}
}

func (h *Handler) CreateBooking(c *fiber.Ctx) error {
	var req service.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.Notes = sanitizer.SanitizeInput(req.Notes)
	for i := range req.Participants {
		req.Participants[i].FullName = sanitizer.SanitizeInput(req.Participants[i].FullName)
	}
	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	booking, err := h.bookings.Create(c.Context(), caller(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"booking": booking})
}

// GetBookings returns one booking when ?id= is present, otherwise a list
// filtered by the optional user_id / coach_id query parameters.
func (h *Handler) GetBookings(c *fiber.Ctx) error {
	if c.Query("id") != "" {
		id, err := queryID(c, "id")
		if err != nil {
			return badRequest(c, "Invalid booking id")
		}
		booking, err := h.bookings.Get(c.Context(), id)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"booking": booking})
	}

	var filter repository.BookingFilter
	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "Invalid user_id")
		}
		filter.UserID = &id
	}
	if raw := c.Query("coach_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "Invalid coach_id")
		}
		filter.CoachID = &id
	}

	bookings, err := h.bookings.List(c.Context(), filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"bookings": bookings})
}

func (h *Handler) UpdateBooking(c *fiber.Ctx) error {
	id, err := queryID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid booking id")
	}

	var req service.UpdateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Notes != nil {
		clean := sanitizer.SanitizeInput(*req.Notes)
		req.Notes = &clean
	}
	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	booking, err := h.bookings.Update(c.Context(), caller(c), id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"booking": booking})
}

// DeleteBooking cancels the booking, freeing its slot. Staff may pass
// ?hard=true to remove the row entirely.
func (h *Handler) DeleteBooking(c *fiber.Ctx) error {
	id, err := queryID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid booking id")
	}

	if c.Query("hard") == "true" {
		if err := h.bookings.Delete(c.Context(), caller(c), id); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"status": "deleted"})
	}

	if err := h.bookings.Cancel(c.Context(), caller(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "cancelled"})
}
