package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"matchpoint/internal/model"
	"matchpoint/internal/monitoring"
	"matchpoint/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrBookingTooSoon    = errors.New("bookings must be made at least 24 hours in advance")
	ErrInvalidInterval   = errors.New("start time must be before end time")
	ErrInvalidBookingFor = errors.New("cannot create bookings for another user")
)

// MinAdvance is how far ahead non-staff users must book.
const MinAdvance = 24 * time.Hour

type BookingService struct {
	repo      repository.Repository
	notifier  *Notifier
	activity  *ActivityService
	telemetry monitoring.Telemetry
}

func NewBookingService(repo repository.Repository, notifier *Notifier, activity *ActivityService, tel monitoring.Telemetry) *BookingService {
	return &BookingService{
		repo:      repo,
		notifier:  notifier,
		activity:  activity,
		telemetry: tel,
	}
}

type ParticipantInput struct {
	UserID          *uuid.UUID `json:"user_id"`
	FullName        string     `json:"full_name" validate:"required,max=100"`
	Email           string     `json:"email" validate:"omitempty,email"`
	ParticipantType string     `json:"participant_type" validate:"max=30"`
}

type CreateBookingRequest struct {
	UserID       uuid.UUID          `json:"user_id" validate:"required"`
	CoachID      *uuid.UUID         `json:"coach_id"`
	Court        string             `json:"court" validate:"required,court_name"`
	Type         model.BookingType  `json:"type" validate:"required,oneof=campo lezione_privata lezione_gruppo"`
	StartTime    time.Time          `json:"start_time" validate:"required"`
	EndTime      time.Time          `json:"end_time" validate:"required"`
	Notes        string             `json:"notes" validate:"max=1000"`
	Participants []ParticipantInput `json:"participants" validate:"dive"`
}

// Caller identifies who is performing an operation.
type Caller struct {
	ID   uuid.UUID
	Role model.Role
}

// Create books a court slot. The caller must be the target user or staff;
// non-staff callers must book at least MinAdvance ahead. The conflict check
// against manager-confirmed bookings on the same court runs inside the
// insert transaction.
func (s *BookingService) Create(ctx context.Context, caller Caller, req CreateBookingRequest) (model.Booking, error) {
	if req.UserID != caller.ID && !caller.Role.IsStaff() {
		return model.Booking{}, ErrInvalidBookingFor
	}
	if !req.StartTime.Before(req.EndTime) {
		return model.Booking{}, ErrInvalidInterval
	}
	if !caller.Role.IsStaff() && time.Until(req.StartTime) < MinAdvance {
		return model.Booking{}, ErrBookingTooSoon
	}

	now := time.Now()
	booking := model.Booking{
		ID:        uuid.New(),
		UserID:    req.UserID,
		CoachID:   req.CoachID,
		Court:     req.Court,
		Type:      req.Type,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    model.BookingStatusPending,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	participants := make([]model.BookingParticipant, len(req.Participants))
	for i, p := range req.Participants {
		participants[i] = model.BookingParticipant{
			ID:              uuid.New(),
			BookingID:       booking.ID,
			UserID:          p.UserID,
			FullName:        p.FullName,
			Email:           p.Email,
			IsRegistered:    p.UserID != nil,
			ParticipantType: p.ParticipantType,
			OrderIndex:      i,
		}
	}

	err := s.repo.CreateBooking(ctx, booking, participants)
	s.telemetry.RecordBookingCreated(ctx, req.Court, errors.Is(err, repository.ErrBookingConflict))
	if err != nil {
		return model.Booking{}, err
	}
	booking.Participants = participants

	// Side effects after the primary mutation; failures are logged only.
	s.notifier.NotifyStaff(ctx, NotifyParam{
		Title: "Nuova prenotazione",
		Message: fmt.Sprintf("%s il %s dalle %s alle %s",
			booking.Court,
			booking.StartTime.Format("02/01/2006"),
			booking.StartTime.Format("15:04"),
			booking.EndTime.Format("15:04")),
		ActionURL: "/admin/bookings",
	})
	s.activity.Log(ctx, model.ActivityLog{
		UserID:     &caller.ID,
		EntityType: "booking",
		EntityID:   booking.ID,
		Action:     model.ActivityActionCreate,
		Details:    map[string]interface{}{"court": booking.Court},
	})

	return booking, nil
}

func (s *BookingService) Get(ctx context.Context, id uuid.UUID) (model.Booking, error) {
	return s.repo.GetBookingByID(ctx, id)
}

func (s *BookingService) List(ctx context.Context, filter repository.BookingFilter) ([]model.Booking, error) {
	return s.repo.ListBookings(ctx, filter)
}

type UpdateBookingRequest struct {
	CoachID          *uuid.UUID           `json:"coach_id"`
	Court            *string              `json:"court" validate:"omitempty,court_name"`
	StartTime        *time.Time           `json:"start_time"`
	EndTime          *time.Time           `json:"end_time"`
	Status           *model.BookingStatus `json:"status" validate:"omitempty,oneof=pending confirmed cancelled"`
	CoachConfirmed   *bool                `json:"coach_confirmed"`
	ManagerConfirmed *bool                `json:"manager_confirmed"`
	Notes            *string              `json:"notes" validate:"omitempty,max=1000"`
}

// Update applies partial changes. Owners may reschedule and edit notes; only
// staff may flip manager_confirmed; only staff or the assigned coach may flip
// coach_confirmed. Rescheduling re-runs the conflict check.
func (s *BookingService) Update(ctx context.Context, caller Caller, id uuid.UUID, req UpdateBookingRequest) (model.Booking, error) {
	booking, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}

	isOwner := booking.UserID == caller.ID
	isCoach := booking.CoachID != nil && *booking.CoachID == caller.ID
	if !isOwner && !isCoach && !caller.Role.IsStaff() {
		return model.Booking{}, ErrForbidden
	}

	if req.ManagerConfirmed != nil {
		if !caller.Role.IsStaff() {
			return model.Booking{}, ErrForbidden
		}
		booking.ManagerConfirmed = *req.ManagerConfirmed
	}
	if req.CoachConfirmed != nil {
		if !isCoach && !caller.Role.IsStaff() {
			return model.Booking{}, ErrForbidden
		}
		booking.CoachConfirmed = *req.CoachConfirmed
	}
	if req.CoachID != nil {
		booking.CoachID = req.CoachID
	}
	if req.Notes != nil {
		booking.Notes = *req.Notes
	}
	if req.Status != nil {
		booking.Status = *req.Status
	}

	rescheduled := false
	if req.Court != nil && *req.Court != booking.Court {
		booking.Court = *req.Court
		rescheduled = true
	}
	if req.StartTime != nil {
		booking.StartTime = *req.StartTime
		rescheduled = true
	}
	if req.EndTime != nil {
		booking.EndTime = *req.EndTime
		rescheduled = true
	}

	if rescheduled {
		if !booking.StartTime.Before(booking.EndTime) {
			return model.Booking{}, ErrInvalidInterval
		}
		if !caller.Role.IsStaff() && time.Until(booking.StartTime) < MinAdvance {
			return model.Booking{}, ErrBookingTooSoon
		}
		conflicts, err := s.repo.ListCourtConflicts(ctx, booking.Court, booking.StartTime, booking.EndTime, &booking.ID)
		if err != nil {
			return model.Booking{}, err
		}
		if len(conflicts) > 0 {
			return model.Booking{}, repository.ErrBookingConflict
		}
	}

	if err := s.repo.UpdateBooking(ctx, booking); err != nil {
		return model.Booking{}, err
	}

	s.activity.Log(ctx, model.ActivityLog{
		UserID:     &caller.ID,
		EntityType: "booking",
		EntityID:   booking.ID,
		Action:     model.ActivityActionUpdate,
	})

	return booking, nil
}

// Cancel marks the booking cancelled, freeing its slot. Owners and staff only.
func (s *BookingService) Cancel(ctx context.Context, caller Caller, id uuid.UUID) error {
	booking, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return err
	}
	if booking.UserID != caller.ID && !caller.Role.IsStaff() {
		return ErrForbidden
	}

	booking.Status = model.BookingStatusCancelled
	if err := s.repo.UpdateBooking(ctx, booking); err != nil {
		return err
	}

	s.activity.Log(ctx, model.ActivityLog{
		UserID:     &caller.ID,
		EntityType: "booking",
		EntityID:   booking.ID,
		Action:     model.ActivityActionDelete,
		Details:    map[string]interface{}{"cancelled": true},
	})
	return nil
}

// Delete removes the booking row entirely. Staff only.
func (s *BookingService) Delete(ctx context.Context, caller Caller, id uuid.UUID) error {
	if !caller.Role.IsStaff() {
		return ErrForbidden
	}
	if err := s.repo.DeleteBooking(ctx, id); err != nil {
		return err
	}
	s.activity.Log(ctx, model.ActivityLog{
		UserID:     &caller.ID,
		EntityType: "booking",
		EntityID:   id,
		Action:     model.ActivityActionDelete,
	})
	return nil
}
