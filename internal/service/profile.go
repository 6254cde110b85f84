package service

import (
	"context"
	"errors"
	"io"
	"time"

	"matchpoint/internal/model"
	"matchpoint/internal/repository"
	"matchpoint/internal/storage"

	"github.com/google/uuid"
)

var ErrCannotDeleteSelf = errors.New("cannot delete own account")

type ProfileService struct {
	repo     repository.Repository
	store    storage.Storage
	activity *ActivityService
}

func NewProfileService(repo repository.Repository, store storage.Storage, activity *ActivityService) *ProfileService {
	return &ProfileService{repo: repo, store: store, activity: activity}
}

func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (model.Profile, error) {
	return s.repo.GetProfileByID(ctx, id)
}

type UpdateProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	Bio      *string `json:"bio" validate:"omitempty,max=2000"`
}

// Update edits profile fields. Everyone can edit their own profile; admins
// can edit anyone's. Role and email never change here.
func (s *ProfileService) Update(ctx context.Context, caller Caller, userID uuid.UUID, req UpdateProfileRequest) (model.Profile, error) {
	if userID != caller.ID && caller.Role != model.RoleAdmin {
		return model.Profile{}, ErrForbidden
	}

	profile, err := s.repo.GetProfileByID(ctx, userID)
	if err != nil {
		return model.Profile{}, err
	}

	if req.FullName != nil {
		profile.FullName = *req.FullName
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	profile.UpdatedAt = time.Now()

	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return model.Profile{}, err
	}

	s.activity.Log(ctx, model.ActivityLog{
		UserID:     &caller.ID,
		EntityType: "profile",
		EntityID:   userID,
		Action:     model.ActivityActionUpdate,
	})
	return profile, nil
}

// UploadAvatar stores the image and points the profile at its public URL.
func (s *ProfileService) UploadAvatar(ctx context.Context, caller Caller, filename string, content io.Reader, contentType string) (model.Profile, error) {
	profile, err := s.repo.GetProfileByID(ctx, caller.ID)
	if err != nil {
		return model.Profile{}, err
	}

	key, err := s.store.Store(ctx, caller.ID, filename, content, contentType)
	if err != nil {
		return model.Profile{}, err
	}
	url, err := s.store.SignedURL(ctx, key, 0)
	if err != nil {
		return model.Profile{}, err
	}

	profile.AvatarURL = url
	profile.UpdatedAt = time.Now()
	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return model.Profile{}, err
	}
	return profile, nil
}

type UserPage struct {
	Users []model.Profile `json:"users"`
	Total int             `json:"total"`
}

func (s *ProfileService) ListUsers(ctx context.Context, caller Caller, limit, offset int) (UserPage, error) {
	if !caller.Role.IsStaff() {
		return UserPage{}, ErrForbidden
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	users, total, err := s.repo.ListProfiles(ctx, limit, offset)
	if err != nil {
		return UserPage{}, err
	}
	return UserPage{Users: users, Total: total}, nil
}

// ChangeRole reassigns a user's role. Admin only, and only admins can grant
// the admin role to begin with.
func (s *ProfileService) ChangeRole(ctx context.Context, caller Caller, userID uuid.UUID, role model.Role) (model.Profile, error) {
	if caller.Role != model.RoleAdmin {
		return model.Profile{}, ErrForbidden
	}

	profile, err := s.repo.GetProfileByID(ctx, userID)
	if err != nil {
		return model.Profile{}, err
	}

	previous := profile.Role
	profile.Role = role
	profile.UpdatedAt = time.Now()
	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return model.Profile{}, err
	}

	s.activity.Log(ctx, model.ActivityLog{
		UserID:     &caller.ID,
		EntityType: "profile",
		EntityID:   userID,
		Action:     model.ActivityActionUpdate,
		Details:    map[string]interface{}{"role_from": string(previous), "role_to": string(role)},
	})
	return profile, nil
}

func (s *ProfileService) DeleteUser(ctx context.Context, caller Caller, userID uuid.UUID) error {
	if caller.Role != model.RoleAdmin {
		return ErrForbidden
	}
	if userID == caller.ID {
		return ErrCannotDeleteSelf
	}
	if err := s.repo.DeleteProfile(ctx, userID); err != nil {
		return err
	}
	s.activity.Log(ctx, model.ActivityLog{
		UserID:     &caller.ID,
		EntityType: "profile",
		EntityID:   userID,
		Action:     model.ActivityActionDelete,
	})
	return nil
}
