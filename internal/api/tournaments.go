package api

import (
	"matchpoint/internal/model"
	"matchpoint/internal/service"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetTournaments(c *fiber.Ctx) error {
	if c.Query("id") != "" {
		id, err := queryID(c, "id")
		if err != nil {
			return badRequest(c, "Invalid tournament id")
		}
		tournament, err := h.tournaments.Get(c.Context(), id)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"tournament": tournament})
	}

	var status *model.TournamentStatus
	if raw := c.Query("status"); raw != "" {
		s := model.TournamentStatus(raw)
		status = &s
	}
	tournaments, err := h.tournaments.List(c.Context(), status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"tournaments": tournaments})
}

func (h *Handler) CreateTournament(c *fiber.Ctx) error {
	var req service.TournamentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.Title = sanitizer.SanitizeInput(req.Title)
	req.Description = sanitizer.SanitizeInput(req.Description)
	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	tournament, err := h.tournaments.Create(c.Context(), caller(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"tournament": tournament})
}

func (h *Handler) UpdateTournament(c *fiber.Ctx) error {
	id, err := queryID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid tournament id")
	}

	var body struct {
		service.TournamentRequest
		Status *model.TournamentStatus `json:"status" validate:"omitempty,oneof=Aperto 'In Corso' Completato Chiuso"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	body.Title = sanitizer.SanitizeInput(body.Title)
	body.Description = sanitizer.SanitizeInput(body.Description)
	if err := h.validator.Validate(body); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	tournament, err := h.tournaments.Update(c.Context(), caller(c), id, body.TournamentRequest, body.Status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"tournament": tournament})
}

func (h *Handler) DeleteTournament(c *fiber.Ctx) error {
	id, err := queryID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid tournament id")
	}
	if err := h.tournaments.Delete(c.Context(), caller(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

// EnrollTournament signs the caller up; status, capacity and duplicate
// checks happen inside the repository transaction.
func (h *Handler) EnrollTournament(c *fiber.Ctx) error {
	var body struct {
		TournamentID string `json:"tournament_id" validate:"required,uuid"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Validate(body); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}
	tournamentID, err := parseUUID(body.TournamentID)
	if err != nil {
		return badRequest(c, "Invalid tournament id")
	}

	participant, err := h.tournaments.Enroll(c.Context(), caller(c), tournamentID)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"participant": participant})
}

func (h *Handler) UnenrollTournament(c *fiber.Ctx) error {
	tournamentID, err := queryID(c, "tournament_id")
	if err != nil {
		return badRequest(c, "Invalid tournament id")
	}
	if err := h.tournaments.Unenroll(c.Context(), caller(c), tournamentID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "unenrolled"})
}

func (h *Handler) GetTournamentParticipants(c *fiber.Ctx) error {
	tournamentID, err := queryID(c, "tournament_id")
	if err != nil {
		return badRequest(c, "Invalid tournament id")
	}
	participants, err := h.tournaments.Participants(c.Context(), tournamentID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"participants": participants})
}

func (h *Handler) GetTournamentMatches(c *fiber.Ctx) error {
	tournamentID, err := queryID(c, "tournament_id")
	if err != nil {
		return badRequest(c, "Invalid tournament id")
	}
	matches, err := h.tournaments.Matches(c.Context(), tournamentID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"matches": matches})
}

func (h *Handler) CreateTournamentMatch(c *fiber.Ctx) error {
	var req service.MatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	match, err := h.tournaments.CreateMatch(c.Context(), caller(c), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"match": match})
}

func (h *Handler) UpdateTournamentMatch(c *fiber.Ctx) error {
	id, err := queryID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid match id")
	}

	var req service.MatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	match, err := h.tournaments.UpdateMatch(c.Context(), caller(c), id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"match": match})
}
