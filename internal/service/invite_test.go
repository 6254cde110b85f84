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

func newInviteService(repo *MockRepository) *service.InviteService {
	allowActivityLogs(repo)
	return service.NewInviteService(repo, service.NewActivityService(repo))
}

func TestInviteService_Validate(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	zero := 0
	one := 1

	tests := []struct {
		name        string
		invite      model.InviteCode
		repoError   error
		expectValid bool
		expectError error
	}{
		{
			name:        "valid_unlimited_code",
			invite:      model.InviteCode{Code: "abc", Role: model.RoleAtleta},
			expectValid: true,
		},
		{
			name:        "valid_with_uses_left",
			invite:      model.InviteCode{Code: "abc", Role: model.RoleMaestro, UsesRemaining: &one, ExpiresAt: &future},
			expectValid: true,
		},
		{
			name:   "expired_code",
			invite: model.InviteCode{Code: "abc", Role: model.RoleAtleta, ExpiresAt: &past},
		},
		{
			name:   "exhausted_code",
			invite: model.InviteCode{Code: "abc", Role: model.RoleAtleta, UsesRemaining: &zero},
		},
		{
			name:        "missing_code",
			repoError:   repository.ErrInviteCodeNotFound,
			expectError: repository.ErrInviteCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepository{}
			svc := newInviteService(repo)
			repo.On("GetInviteCodeByCode", mock.Anything, "abc").Return(tt.invite, tt.repoError)

			result, err := svc.Validate(context.Background(), "abc")

			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectValid, result.Valid)
			if tt.expectValid {
				assert.Equal(t, tt.invite.Role, result.Role)
			}
		})
	}
}

func TestInviteService_Create(t *testing.T) {
	t.Run("generates_code_when_empty", func(t *testing.T) {
		repo := &MockRepository{}
		svc := newInviteService(repo)
		repo.On("CreateInviteCode", mock.Anything, mock.MatchedBy(func(i model.InviteCode) bool {
			return i.Code != "" && i.Role == model.RoleAtleta
		})).Return(nil)

		invite, err := svc.Create(context.Background(), service.Caller{ID: uuid.New(), Role: model.RoleGestore}, service.CreateInviteRequest{Role: "atleta"})
		assert.NoError(t, err)
		assert.NotEmpty(t, invite.Code)
		repo.AssertExpectations(t)
	})

	t.Run("gestore_cannot_mint_admin_invite", func(t *testing.T) {
		repo := &MockRepository{}
		svc := newInviteService(repo)

		_, err := svc.Create(context.Background(), service.Caller{ID: uuid.New(), Role: model.RoleGestore}, service.CreateInviteRequest{Role: "admin"})
		assert.ErrorIs(t, err, service.ErrForbidden)
		repo.AssertNotCalled(t, "CreateInviteCode", mock.Anything, mock.Anything)
	})

	t.Run("admin_can_mint_admin_invite", func(t *testing.T) {
		repo := &MockRepository{}
		svc := newInviteService(repo)
		repo.On("CreateInviteCode", mock.Anything, mock.Anything).Return(nil)

		_, err := svc.Create(context.Background(), service.Caller{ID: uuid.New(), Role: model.RoleAdmin}, service.CreateInviteRequest{Role: "admin"})
		assert.NoError(t, err)
	})

	t.Run("athlete_cannot_create", func(t *testing.T) {
		repo := &MockRepository{}
		svc := newInviteService(repo)

		_, err := svc.Create(context.Background(), service.Caller{ID: uuid.New(), Role: model.RoleAtleta}, service.CreateInviteRequest{Role: "atleta"})
		assert.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("rejects_unknown_role", func(t *testing.T) {
		repo := &MockRepository{}
		svc := newInviteService(repo)

		_, err := svc.Create(context.Background(), service.Caller{ID: uuid.New(), Role: model.RoleAdmin}, service.CreateInviteRequest{Role: "superuser"})
		assert.Error(t, err)
	})
}
