package service_test

import (
	"context"
	"testing"

	"matchpoint/internal/model"
	"matchpoint/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProfileService(repo *MockRepository) *service.ProfileService {
	allowActivityLogs(repo)
	return service.NewProfileService(repo, nil, service.NewActivityService(repo))
}

func strPtr(s string) *string { return &s }

func TestProfileService_Update(t *testing.T) {
	selfID := uuid.New()
	otherID := uuid.New()

	tests := []struct {
		name          string
		caller        service.Caller
		target        uuid.UUID
		expectedError error
	}{
		{
			name:   "self_update",
			caller: service.Caller{ID: selfID, Role: model.RoleAtleta},
			target: selfID,
		},
		{
			name:   "admin_updates_other_user",
			caller: service.Caller{ID: uuid.New(), Role: model.RoleAdmin},
			target: otherID,
		},
		{
			name:          "athlete_cannot_update_other_user",
			caller:        service.Caller{ID: selfID, Role: model.RoleAtleta},
			target:        otherID,
			expectedError: service.ErrForbidden,
		},
		{
			name:          "manager_cannot_update_other_user",
			caller:        service.Caller{ID: selfID, Role: model.RoleGestore},
			target:        otherID,
			expectedError: service.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			svc := newProfileService(repo)

			if tt.expectedError == nil {
				repo.On("GetProfileByID", mock.Anything, tt.target).
					Return(model.Profile{ID: tt.target, Role: model.RoleAtleta, FullName: "Vecchio Nome"}, nil)
				repo.On("UpdateProfile", mock.Anything, mock.MatchedBy(func(p model.Profile) bool {
					return p.FullName == "Nuovo Nome"
				})).Return(nil)
			}

			profile, err := svc.Update(context.Background(), tt.caller, tt.target, service.UpdateProfileRequest{
				FullName: strPtr("Nuovo Nome"),
			})

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				repo.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Nuovo Nome", profile.FullName)
		})
	}
}

func TestProfileService_UpdateNeverTouchesRole(t *testing.T) {
	id := uuid.New()
	repo := new(MockRepository)
	svc := newProfileService(repo)

	repo.On("GetProfileByID", mock.Anything, id).
		Return(model.Profile{ID: id, Role: model.RoleMaestro}, nil)
	repo.On("UpdateProfile", mock.Anything, mock.MatchedBy(func(p model.Profile) bool {
		return p.Role == model.RoleMaestro
	})).Return(nil)

	_, err := svc.Update(context.Background(), service.Caller{ID: id, Role: model.RoleMaestro}, id,
		service.UpdateProfileRequest{Bio: strPtr("Maestro dal 2010")})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestProfileService_ChangeRole(t *testing.T) {
	targetID := uuid.New()

	t.Run("admin_changes_role", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newProfileService(repo)

		repo.On("GetProfileByID", mock.Anything, targetID).
			Return(model.Profile{ID: targetID, Role: model.RoleAtleta}, nil)
		repo.On("UpdateProfile", mock.Anything, mock.MatchedBy(func(p model.Profile) bool {
			return p.Role == model.RoleMaestro
		})).Return(nil)

		profile, err := svc.ChangeRole(context.Background(),
			service.Caller{ID: uuid.New(), Role: model.RoleAdmin}, targetID, model.RoleMaestro)
		require.NoError(t, err)
		assert.Equal(t, model.RoleMaestro, profile.Role)
	})

	t.Run("manager_cannot_change_roles", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newProfileService(repo)

		_, err := svc.ChangeRole(context.Background(),
			service.Caller{ID: uuid.New(), Role: model.RoleGestore}, targetID, model.RoleMaestro)
		assert.ErrorIs(t, err, service.ErrForbidden)
	})
}

func TestProfileService_DeleteUser(t *testing.T) {
	adminID := uuid.New()

	t.Run("admin_deletes_user", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newProfileService(repo)

		targetID := uuid.New()
		repo.On("DeleteProfile", mock.Anything, targetID).Return(nil)

		err := svc.DeleteUser(context.Background(), service.Caller{ID: adminID, Role: model.RoleAdmin}, targetID)
		require.NoError(t, err)
	})

	t.Run("admin_cannot_delete_self", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newProfileService(repo)

		err := svc.DeleteUser(context.Background(), service.Caller{ID: adminID, Role: model.RoleAdmin}, adminID)
		assert.ErrorIs(t, err, service.ErrCannotDeleteSelf)
		repo.AssertNotCalled(t, "DeleteProfile", mock.Anything, mock.Anything)
	})

	t.Run("non_admin_forbidden", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newProfileService(repo)

		err := svc.DeleteUser(context.Background(), service.Caller{ID: adminID, Role: model.RoleMaestro}, uuid.New())
		assert.ErrorIs(t, err, service.ErrForbidden)
	})
}
