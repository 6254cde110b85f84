package api

import (
	"matchpoint/internal/service"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetAnnouncements(c *fiber.Ctx) error {
	announcements, err := h.content.Announcements(c.Context(), caller(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"announcements": announcements})
}

func (h *Handler) CreateAnnouncement(c *fiber.Ctx) error {
	var req service.AnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.Title = sanitizer.SanitizeInput(req.Title)
	if sanitizer.ContainsSuspiciousContent(req.Body) {
		return badRequest(c, "Invalid content")
	}
	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	a, err := h.content.CreateAnnouncement(c.Context(), caller(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"announcement": a})
}

func (h *Handler) UpdateAnnouncement(c *fiber.Ctx) error {
	id, err := queryID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid announcement id")
	}

	var req service.AnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.Title = sanitizer.SanitizeInput(req.Title)
	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	a, err := h.content.UpdateAnnouncement(c.Context(), caller(c), id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"announcement": a})
}

func (h *Handler) DeleteAnnouncement(c *fiber.Ctx) error {
	id, err := queryID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid announcement id")
	}
	if err := h.content.DeleteAnnouncement(c.Context(), caller(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

func (h *Handler) GetNews(c *fiber.Ctx) error {
	news, err := h.content.News(c.Context(), caller(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"news": news})
}

func (h *Handler) CreateNews(c *fiber.Ctx) error {
	var req service.NewsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.Title = sanitizer.SanitizeInput(req.Title)
	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	n, err := h.content.CreateNews(c.Context(), caller(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"news": n})
}

func (h *Handler) UpdateNews(c *fiber.Ctx) error {
	id, err := queryID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid news id")
	}

	var req service.NewsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.Title = sanitizer.SanitizeInput(req.Title)
	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	n, err := h.content.UpdateNews(c.Context(), caller(c), id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"news": n})
}

func (h *Handler) DeleteNews(c *fiber.Ctx) error {
	id, err := queryID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid news id")
	}
	if err := h.content.DeleteNews(c.Context(), caller(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

func (h *Handler) GetVideoLessons(c *fiber.Ctx) error {
	lessons, err := h.content.VideoLessons(c.Context(), caller(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"video_lessons": lessons})
}

// GetVideoLessonURL resolves a playback URL for the stored asset.
func (h *Handler) GetVideoLessonURL(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" {
		return badRequest(c, "Missing key")
	}
	url, err := h.content.VideoLessonURL(c.Context(), key)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"url": url})
}

// CreateVideoLesson accepts a multipart upload: a "video" file plus form
// fields for the lesson metadata.
func (h *Handler) CreateVideoLesson(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("video")
	if err != nil {
		return badRequest(c, "Missing video file")
	}

	req := service.VideoLessonRequest{
		Title:       sanitizer.SanitizeInput(c.FormValue("title")),
		Description: sanitizer.SanitizeInput(c.FormValue("description")),
		Audience:    c.FormValue("audience"),
		Published:   c.FormValue("published") == "true",
	}
	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fail(c, err)
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	lesson, err := h.content.CreateVideoLesson(c.Context(), caller(c), req, fileHeader.Filename, file, contentType)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"video_lesson": lesson})
}

func (h *Handler) DeleteVideoLesson(c *fiber.Ctx) error {
	id, err := queryID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid video lesson id")
	}
	if err := h.content.DeleteVideoLesson(c.Context(), caller(c), id, c.Query("key")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}
