package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"matchpoint/internal/model"
	"matchpoint/internal/repository"

	"github.com/google/uuid"
)

type InviteService struct {
	repo     repository.Repository
	activity *ActivityService
}

func NewInviteService(repo repository.Repository, activity *ActivityService) *InviteService {
	return &InviteService{repo: repo, activity: activity}
}

// ValidationResult is what the public validate endpoint returns.
type ValidationResult struct {
	Valid bool       `json:"valid"`
	Role  model.Role `json:"role,omitempty"`
}

// Validate checks a code without consuming it.
func (s *InviteService) Validate(ctx context.Context, code string) (ValidationResult, error) {
	invite, err := s.repo.GetInviteCodeByCode(ctx, code)
	if err != nil {
		return ValidationResult{}, err
	}
	if !invite.Valid(time.Now()) {
		return ValidationResult{Valid: false}, nil
	}
	return ValidationResult{Valid: true, Role: invite.Role}, nil
}

type CreateInviteRequest struct {
	Code      string     `json:"code" validate:"omitempty,min=6,max=50"`
	Role      string     `json:"role" validate:"required,role"`
	MaxUses   *int       `json:"max_uses" validate:"omitempty,min=1"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func (s *InviteService) Create(ctx context.Context, caller Caller, req CreateInviteRequest) (model.InviteCode, error) {
	if !caller.Role.IsStaff() {
		return model.InviteCode{}, ErrForbidden
	}

	role, err := model.ParseRole(req.Role)
	if err != nil {
		return model.InviteCode{}, err
	}
	// Only admins can mint admin invites.
	if role == model.RoleAdmin && caller.Role != model.RoleAdmin {
		return model.InviteCode{}, ErrForbidden
	}

	code := req.Code
	if code == "" {
		code, err = generateCode()
		if err != nil {
			return model.InviteCode{}, err
		}
	}

	invite := model.InviteCode{
		ID:            uuid.New(),
		Code:          code,
		Role:          role,
		MaxUses:       req.MaxUses,
		UsesRemaining: req.MaxUses,
		ExpiresAt:     req.ExpiresAt,
		CreatedBy:     caller.ID,
		CreatedAt:     time.Now(),
	}
	if err := s.repo.CreateInviteCode(ctx, invite); err != nil {
		return model.InviteCode{}, err
	}

	s.activity.Log(ctx, model.ActivityLog{
		UserID:     &caller.ID,
		EntityType: "invite_code",
		EntityID:   invite.ID,
		Action:     model.ActivityActionCreate,
		Details:    map[string]interface{}{"role": string(role)},
	})
	return invite, nil
}

func (s *InviteService) List(ctx context.Context, caller Caller) ([]model.InviteCode, error) {
	if !caller.Role.IsStaff() {
		return nil, ErrForbidden
	}
	return s.repo.ListInviteCodes(ctx)
}

func (s *InviteService) Delete(ctx context.Context, caller Caller, id uuid.UUID) error {
	if !caller.Role.IsStaff() {
		return ErrForbidden
	}
	if err := s.repo.DeleteInviteCode(ctx, id); err != nil {
		return err
	}
	s.activity.Log(ctx, model.ActivityLog{
		UserID:     &caller.ID,
		EntityType: "invite_code",
		EntityID:   id,
		Action:     model.ActivityActionDelete,
	})
	return nil
}

func generateCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
