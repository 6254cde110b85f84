package api

import (
	"matchpoint/internal/middleware"
	"matchpoint/internal/model"
	"matchpoint/internal/service"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetProfile(c *fiber.Ctx) error {
	profile, err := h.profiles.Get(c.Context(), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"user": profile})
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var req service.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.FullName != nil {
		clean := sanitizer.SanitizeInput(*req.FullName)
		req.FullName = &clean
	}
	if req.Bio != nil {
		clean := sanitizer.SanitizeInput(*req.Bio)
		req.Bio = &clean
	}
	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	// Admins may edit another user's profile via ?id=.
	target := middleware.UserID(c)
	if raw := c.Query("id"); raw != "" {
		id, err := parseUUID(raw)
		if err != nil {
			return badRequest(c, "Invalid user id")
		}
		target = id
	}

	profile, err := h.profiles.Update(c.Context(), caller(c), target, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"user": profile})
}

// UploadAvatar accepts a multipart "avatar" image, capped at 5 MB.
func (h *Handler) UploadAvatar(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return badRequest(c, "Missing avatar file")
	}
	if fileHeader.Size > 5*1024*1024 {
		return badRequest(c, "Avatar must be smaller than 5MB")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fail(c, err)
	}
	defer file.Close()

	profile, err := h.profiles.UploadAvatar(c.Context(), caller(c), fileHeader.Filename, file, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"user": profile})
}

func (h *Handler) GetUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	page, err := h.profiles.ListUsers(c.Context(), caller(c), limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"users": page.Users, "total": page.Total})
}

func (h *Handler) ChangeUserRole(c *fiber.Ctx) error {
	id, err := queryID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	var body struct {
		Role string `json:"role" validate:"required,role"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Validate(body); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	role, err := model.ParseRole(body.Role)
	if err != nil {
		return badRequest(c, "Invalid role")
	}

	profile, err := h.profiles.ChangeRole(c.Context(), caller(c), id, role)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"user": profile})
}

func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	id, err := queryID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}
	if err := h.profiles.DeleteUser(c.Context(), caller(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}
