package service_test

import (
	"context"
	"testing"
	"time"

	"matchpoint/internal/model"
	"matchpoint/internal/repository"
	"matchpoint/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newBookingService(repo *MockRepository) *service.BookingService {
	allowActivityLogs(repo)
	// Staff notification fan-out after a successful create.
	repo.On("ListProfilesByRole", mock.Anything, mock.Anything).Return([]model.Profile{}, nil).Maybe()
	repo.On("CreateNotifications", mock.Anything, mock.Anything).Return(nil).Maybe()

	notifier := service.NewNotifier(repo)
	activity := service.NewActivityService(repo)
	return service.NewBookingService(repo, notifier, activity, noopTelemetry{})
}

func TestBookingService_Create(t *testing.T) {
	athleteID := uuid.New()
	athlete := service.Caller{ID: athleteID, Role: model.RoleAtleta}
	manager := service.Caller{ID: uuid.New(), Role: model.RoleGestore}

	farStart := time.Now().Add(48 * time.Hour)

	tests := []struct {
		name          string
		caller        service.Caller
		request       service.CreateBookingRequest
		setupMocks    func(*MockRepository)
		expectedError error
	}{
		{
			name:   "successful_booking",
			caller: athlete,
			request: service.CreateBookingRequest{
				UserID:    athleteID,
				Court:     "Campo 1",
				Type:      model.BookingTypeCampo,
				StartTime: farStart,
				EndTime:   farStart.Add(time.Hour),
			},
			setupMocks: func(repo *MockRepository) {
				repo.On("CreateBooking", mock.Anything, mock.Anything, mock.Anything).Return(nil)
			},
		},
		{
			name:   "less_than_24h_ahead_rejected",
			caller: athlete,
			request: service.CreateBookingRequest{
				UserID:    athleteID,
				Court:     "Campo 1",
				Type:      model.BookingTypeCampo,
				StartTime: time.Now().Add(2 * time.Hour),
				EndTime:   time.Now().Add(3 * time.Hour),
			},
			setupMocks:    func(repo *MockRepository) {},
			expectedError: service.ErrBookingTooSoon,
		},
		{
			name:   "staff_bypasses_advance_window",
			caller: manager,
			request: service.CreateBookingRequest{
				UserID:    athleteID,
				Court:     "Campo 1",
				Type:      model.BookingTypeCampo,
				StartTime: time.Now().Add(2 * time.Hour),
				EndTime:   time.Now().Add(3 * time.Hour),
			},
			setupMocks: func(repo *MockRepository) {
				repo.On("CreateBooking", mock.Anything, mock.Anything, mock.Anything).Return(nil)
			},
		},
		{
			name:   "cannot_book_for_another_user",
			caller: athlete,
			request: service.CreateBookingRequest{
				UserID:    uuid.New(),
				Court:     "Campo 1",
				Type:      model.BookingTypeCampo,
				StartTime: farStart,
				EndTime:   farStart.Add(time.Hour),
			},
			setupMocks:    func(repo *MockRepository) {},
			expectedError: service.ErrInvalidBookingFor,
		},
		{
			name:   "start_after_end_rejected",
			caller: athlete,
			request: service.CreateBookingRequest{
				UserID:    athleteID,
				Court:     "Campo 1",
				Type:      model.BookingTypeCampo,
				StartTime: farStart.Add(time.Hour),
				EndTime:   farStart,
			},
			setupMocks:    func(repo *MockRepository) {},
			expectedError: service.ErrInvalidInterval,
		},
		{
			name:   "conflict_from_repository",
			caller: athlete,
			request: service.CreateBookingRequest{
				UserID:    athleteID,
				Court:     "Campo 1",
				Type:      model.BookingTypeCampo,
				StartTime: farStart,
				EndTime:   farStart.Add(time.Hour),
			},
			setupMocks: func(repo *MockRepository) {
				repo.On("CreateBooking", mock.Anything, mock.Anything, mock.Anything).Return(repository.ErrBookingConflict)
			},
			expectedError: repository.ErrBookingConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepository{}
			svc := newBookingService(repo)
			tt.setupMocks(repo)

			booking, err := svc.Create(context.Background(), tt.caller, tt.request)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.request.UserID, booking.UserID)
			assert.Equal(t, model.BookingStatusPending, booking.Status)
			repo.AssertExpectations(t)
		})
	}
}

func TestBookingService_CreateOrdersParticipants(t *testing.T) {
	athleteID := uuid.New()
	start := time.Now().Add(48 * time.Hour)

	repo := &MockRepository{}
	svc := newBookingService(repo)

	var captured []model.BookingParticipant
	repo.On("CreateBooking", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).([]model.BookingParticipant)
		}).Return(nil)

	_, err := svc.Create(context.Background(), service.Caller{ID: athleteID, Role: model.RoleAtleta}, service.CreateBookingRequest{
		UserID:    athleteID,
		Court:     "Campo 2",
		Type:      model.BookingTypeLezioneGruppo,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Participants: []service.ParticipantInput{
			{FullName: "Mario Rossi"},
			{FullName: "Luca Bianchi"},
		},
	})

	assert.NoError(t, err)
	assert.Len(t, captured, 2)
	assert.Equal(t, 0, captured[0].OrderIndex)
	assert.Equal(t, 1, captured[1].OrderIndex)
	assert.Equal(t, "Mario Rossi", captured[0].FullName)
}

func TestBookingService_UpdateAuthorization(t *testing.T) {
	ownerID := uuid.New()
	coachID := uuid.New()
	bookingID := uuid.New()

	start := time.Now().Add(72 * time.Hour)
	existing := model.Booking{
		ID:        bookingID,
		UserID:    ownerID,
		CoachID:   &coachID,
		Court:     "Campo 1",
		Type:      model.BookingTypeLezionePrivata,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    model.BookingStatusPending,
	}

	confirmed := true

	tests := []struct {
		name          string
		caller        service.Caller
		request       service.UpdateBookingRequest
		expectUpdate  bool
		expectedError error
	}{
		{
			name:          "stranger_cannot_update",
			caller:        service.Caller{ID: uuid.New(), Role: model.RoleAtleta},
			request:       service.UpdateBookingRequest{},
			expectedError: service.ErrForbidden,
		},
		{
			name:          "owner_cannot_set_manager_confirmed",
			caller:        service.Caller{ID: ownerID, Role: model.RoleAtleta},
			request:       service.UpdateBookingRequest{ManagerConfirmed: &confirmed},
			expectedError: service.ErrForbidden,
		},
		{
			name:          "coach_cannot_set_manager_confirmed",
			caller:        service.Caller{ID: coachID, Role: model.RoleMaestro},
			request:       service.UpdateBookingRequest{ManagerConfirmed: &confirmed},
			expectedError: service.ErrForbidden,
		},
		{
			name:         "coach_sets_coach_confirmed",
			caller:       service.Caller{ID: coachID, Role: model.RoleMaestro},
			request:      service.UpdateBookingRequest{CoachConfirmed: &confirmed},
			expectUpdate: true,
		},
		{
			name:         "staff_sets_manager_confirmed",
			caller:       service.Caller{ID: uuid.New(), Role: model.RoleGestore},
			request:      service.UpdateBookingRequest{ManagerConfirmed: &confirmed},
			expectUpdate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepository{}
			svc := newBookingService(repo)
			repo.On("GetBookingByID", mock.Anything, bookingID).Return(existing, nil)
			if tt.expectUpdate {
				repo.On("UpdateBooking", mock.Anything, mock.Anything).Return(nil)
			}

			_, err := svc.Update(context.Background(), tt.caller, bookingID, tt.request)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestBookingService_RescheduleChecksConflicts(t *testing.T) {
	ownerID := uuid.New()
	bookingID := uuid.New()

	start := time.Now().Add(72 * time.Hour)
	existing := model.Booking{
		ID:        bookingID,
		UserID:    ownerID,
		Court:     "Campo 1",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    model.BookingStatusPending,
	}

	newStart := start.Add(30 * time.Minute)
	newEnd := newStart.Add(time.Hour)

	repo := &MockRepository{}
	svc := newBookingService(repo)
	repo.On("GetBookingByID", mock.Anything, bookingID).Return(existing, nil)
	repo.On("ListCourtConflicts", mock.Anything, "Campo 1", newStart, newEnd, &bookingID).
		Return([]model.Booking{{ID: uuid.New()}}, nil)

	_, err := svc.Update(context.Background(), service.Caller{ID: ownerID, Role: model.RoleAtleta}, bookingID, service.UpdateBookingRequest{
		StartTime: &newStart,
		EndTime:   &newEnd,
	})

	assert.ErrorIs(t, err, repository.ErrBookingConflict)
	repo.AssertNotCalled(t, "UpdateBooking", mock.Anything, mock.Anything)
}

func TestBookingService_Cancel(t *testing.T) {
	ownerID := uuid.New()
	bookingID := uuid.New()
	existing := model.Booking{
		ID:     bookingID,
		UserID: ownerID,
		Status: model.BookingStatusConfirmed,
	}

	t.Run("owner_cancels", func(t *testing.T) {
		repo := &MockRepository{}
		svc := newBookingService(repo)
		repo.On("GetBookingByID", mock.Anything, bookingID).Return(existing, nil)
		repo.On("UpdateBooking", mock.Anything, mock.MatchedBy(func(b model.Booking) bool {
			return b.Status == model.BookingStatusCancelled
		})).Return(nil)

		err := svc.Cancel(context.Background(), service.Caller{ID: ownerID, Role: model.RoleAtleta}, bookingID)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("stranger_cannot_cancel", func(t *testing.T) {
		repo := &MockRepository{}
		svc := newBookingService(repo)
		repo.On("GetBookingByID", mock.Anything, bookingID).Return(existing, nil)

		err := svc.Cancel(context.Background(), service.Caller{ID: uuid.New(), Role: model.RoleAtleta}, bookingID)
		assert.ErrorIs(t, err, service.ErrForbidden)
		repo.AssertNotCalled(t, "UpdateBooking", mock.Anything, mock.Anything)
	})

	t.Run("hard_delete_is_staff_only", func(t *testing.T) {
		repo := &MockRepository{}
		svc := newBookingService(repo)

		err := svc.Delete(context.Background(), service.Caller{ID: ownerID, Role: model.RoleAtleta}, bookingID)
		assert.ErrorIs(t, err, service.ErrForbidden)
		repo.AssertNotCalled(t, "DeleteBooking", mock.Anything, mock.Anything)
	})
}
