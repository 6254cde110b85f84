package service

import (
	"context"
	"encoding/json"
	"time"

	"matchpoint/internal/model"
	"matchpoint/internal/monitoring"
	"matchpoint/internal/repository"

	"github.com/google/uuid"
)

type TournamentService struct {
	repo      repository.Repository
	notifier  *Notifier
	activity  *ActivityService
	telemetry monitoring.Telemetry
}

func NewTournamentService(repo repository.Repository, notifier *Notifier, activity *ActivityService, tel monitoring.Telemetry) *TournamentService {
	return &TournamentService{
		repo:      repo,
		notifier:  notifier,
		activity:  activity,
		telemetry: tel,
	}
}

type TournamentRequest struct {
	Title           string               `json:"title" validate:"required,max=200"`
	Description     string               `json:"description" validate:"max=5000"`
	StartDate       time.Time            `json:"start_date" validate:"required"`
	Type            model.TournamentType `json:"tournament_type" validate:"required,oneof=eliminazione_diretta girone_eliminazione campionato"`
	MaxParticipants int                  `json:"max_participants" validate:"required,min=2,max=256"`
	Category        string               `json:"category" validate:"max=50"`
	Level           string               `json:"level" validate:"max=50"`
}

func (s *TournamentService) Create(ctx context.Context, caller Caller, req TournamentRequest) (model.Tournament, error) {
	if !caller.Role.IsStaff() {
		return model.Tournament{}, ErrForbidden
	}

	now := time.Now()
	tournament := model.Tournament{
		ID:              uuid.New(),
		Title:           req.Title,
		Description:     req.Description,
		StartDate:       req.StartDate,
		Type:            req.Type,
		MaxParticipants: req.MaxParticipants,
		Status:          model.TournamentStatusAperto,
		Category:        req.Category,
		Level:           req.Level,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.CreateTournament(ctx, tournament); err != nil {
		return model.Tournament{}, err
	}

	s.activity.Log(ctx, model.ActivityLog{
		UserID:     &caller.ID,
		EntityType: "tournament",
		EntityID:   tournament.ID,
		Action:     model.ActivityActionCreate,
		Details:    map[string]interface{}{"title": tournament.Title},
	})

	// Athletes learn about new tournaments through notifications.
	if err := s.notifier.NotifyRole(ctx, model.RoleAtleta, NotifyParam{
		Title:     "Nuovo torneo: " + tournament.Title,
		Message:   "Le iscrizioni sono aperte.",
		ActionURL: "/tournaments",
	}); err != nil {
		// Best effort only.
	}

	return tournament, nil
}

func (s *TournamentService) Get(ctx context.Context, id uuid.UUID) (model.Tournament, error) {
	return s.repo.GetTournamentByID(ctx, id)
}

func (s *TournamentService) List(ctx context.Context, status *model.TournamentStatus) ([]model.Tournament, error) {
	return s.repo.ListTournaments(ctx, status)
}

func (s *TournamentService) Update(ctx context.Context, caller Caller, id uuid.UUID, req TournamentRequest, status *model.TournamentStatus) (model.Tournament, error) {
	if !caller.Role.IsStaff() {
		return model.Tournament{}, ErrForbidden
	}

	tournament, err := s.repo.GetTournamentByID(ctx, id)
	if err != nil {
		return model.Tournament{}, err
	}

	tournament.Title = req.Title
	tournament.Description = req.Description
	tournament.StartDate = req.StartDate
	tournament.Type = req.Type
	tournament.MaxParticipants = req.MaxParticipants
	tournament.Category = req.Category
	tournament.Level = req.Level
	if status != nil {
		tournament.Status = *status
	}

	if err := s.repo.UpdateTournament(ctx, tournament); err != nil {
		return model.Tournament{}, err
	}

	s.activity.Log(ctx, model.ActivityLog{
		UserID:     &caller.ID,
		EntityType: "tournament",
		EntityID:   tournament.ID,
		Action:     model.ActivityActionUpdate,
	})
	return tournament, nil
}

func (s *TournamentService) Delete(ctx context.Context, caller Caller, id uuid.UUID) error {
	if !caller.Role.IsStaff() {
		return ErrForbidden
	}
	if err := s.repo.DeleteTournament(ctx, id); err != nil {
		return err
	}
	s.activity.Log(ctx, model.ActivityLog{
		UserID:     &caller.ID,
		EntityType: "tournament",
		EntityID:   id,
		Action:     model.ActivityActionDelete,
	})
	return nil
}

// Enroll adds the caller to an open tournament. Status, capacity and
// duplicate checks all happen inside the repository transaction.
func (s *TournamentService) Enroll(ctx context.Context, caller Caller, tournamentID uuid.UUID) (model.TournamentParticipant, error) {
	participant := model.TournamentParticipant{
		ID:           uuid.New(),
		TournamentID: tournamentID,
		UserID:       caller.ID,
		Status:       "active",
		EnrolledAt:   time.Now(),
	}

	err := s.repo.EnrollParticipant(ctx, participant)
	s.telemetry.RecordEnrollment(ctx, err == nil)
	if err != nil {
		return model.TournamentParticipant{}, err
	}

	s.activity.Log(ctx, model.ActivityLog{
		UserID:     &caller.ID,
		EntityType: "tournament_participant",
		EntityID:   participant.ID,
		Action:     model.ActivityActionCreate,
		Details:    map[string]interface{}{"tournament_id": tournamentID.String()},
	})
	return participant, nil
}

func (s *TournamentService) Unenroll(ctx context.Context, caller Caller, tournamentID uuid.UUID) error {
	if err := s.repo.UnenrollParticipant(ctx, tournamentID, caller.ID); err != nil {
		return err
	}
	s.activity.Log(ctx, model.ActivityLog{
		UserID:     &caller.ID,
		EntityType: "tournament_participant",
		EntityID:   tournamentID,
		Action:     model.ActivityActionDelete,
	})
	return nil
}

func (s *TournamentService) Participants(ctx context.Context, tournamentID uuid.UUID) ([]model.TournamentParticipant, error) {
	return s.repo.ListParticipants(ctx, tournamentID)
}

type MatchRequest struct {
	TournamentID  uuid.UUID         `json:"tournament_id" validate:"required"`
	Player1ID     *uuid.UUID        `json:"player1_id"`
	Player2ID     *uuid.UUID        `json:"player2_id"`
	WinnerID      *uuid.UUID        `json:"winner_id"`
	Status        model.MatchStatus `json:"status" validate:"omitempty,oneof=scheduled played walkover"`
	ScheduledTime *time.Time        `json:"scheduled_time"`
	Sets          json.RawMessage   `json:"sets"`
}

func (s *TournamentService) CreateMatch(ctx context.Context, caller Caller, req MatchRequest) (model.TournamentMatch, error) {
	if !caller.Role.IsStaff() {
		return model.TournamentMatch{}, ErrForbidden
	}
	if _, err := s.repo.GetTournamentByID(ctx, req.TournamentID); err != nil {
		return model.TournamentMatch{}, err
	}

	match := model.TournamentMatch{
		ID:            uuid.New(),
		TournamentID:  req.TournamentID,
		Player1ID:     req.Player1ID,
		Player2ID:     req.Player2ID,
		Status:        model.MatchStatusScheduled,
		ScheduledTime: req.ScheduledTime,
		Sets:          req.Sets,
		CreatedAt:     time.Now(),
	}
	if req.Status != "" {
		match.Status = req.Status
	}
	if err := s.repo.CreateMatch(ctx, match); err != nil {
		return model.TournamentMatch{}, err
	}
	return match, nil
}

func (s *TournamentService) UpdateMatch(ctx context.Context, caller Caller, id uuid.UUID, req MatchRequest) (model.TournamentMatch, error) {
	if !caller.Role.IsStaff() {
		return model.TournamentMatch{}, ErrForbidden
	}

	match, err := s.repo.GetMatchByID(ctx, id)
	if err != nil {
		return model.TournamentMatch{}, err
	}

	if req.Player1ID != nil {
		match.Player1ID = req.Player1ID
	}
	if req.Player2ID != nil {
		match.Player2ID = req.Player2ID
	}
	if req.WinnerID != nil {
		match.WinnerID = req.WinnerID
	}
	if req.Status != "" {
		match.Status = req.Status
	}
	if req.ScheduledTime != nil {
		match.ScheduledTime = req.ScheduledTime
	}
	if req.Sets != nil {
		match.Sets = req.Sets
	}

	if err := s.repo.UpdateMatch(ctx, match); err != nil {
		return model.TournamentMatch{}, err
	}
	return match, nil
}

func (s *TournamentService) Matches(ctx context.Context, tournamentID uuid.UUID) ([]model.TournamentMatch, error) {
	return s.repo.ListMatches(ctx, tournamentID)
}
