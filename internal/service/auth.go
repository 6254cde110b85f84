package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"matchpoint/internal/model"
	"matchpoint/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many attempts")
	ErrEmailInUse         = errors.New("email already registered")
	ErrForbidden          = errors.New("operation not permitted for caller")
)

type AuthService struct {
	repo        repository.Repository
	rateLimiter *RateLimiter
	email       Sender
	activity    *ActivityService
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,password_strength"`
	FullName   string `json:"full_name" validate:"required,max=100"`
	Phone      string `json:"phone" validate:"max=30"`
	InviteCode string `json:"invite_code" validate:"required"`
}

func NewAuthService(repo repository.Repository, rateLimiter *RateLimiter, email Sender, activity *ActivityService) *AuthService {
	return &AuthService{
		repo:        repo,
		rateLimiter: rateLimiter,
		email:       email,
		activity:    activity,
	}
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (model.Profile, error) {
	if s.rateLimiter != nil {
		if err := s.rateLimiter.CheckLogin(ctx, req.Email); err != nil {
			return model.Profile{}, err
		}
	}

	profile, err := s.repo.GetProfileByEmail(ctx, req.Email)
	if err != nil {
		// Generic error to prevent email enumeration
		return model.Profile{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		return model.Profile{}, ErrInvalidCredentials
	}

	if s.rateLimiter != nil {
		_ = s.rateLimiter.ResetAttempts(ctx, req.Email, "login")
	}
	s.activity.Log(ctx, model.ActivityLog{
		UserID:     &profile.ID,
		EntityType: "session",
		EntityID:   profile.ID,
		Action:     model.ActivityActionLogin,
	})

	return profile, nil
}

// Register creates a profile with the role carried by the invite code. The
// code is consumed atomically, so a single-use code admits exactly one user.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest, ip string) (model.Profile, error) {
	if s.rateLimiter != nil {
		if err := s.rateLimiter.CheckRegister(ctx, ip); err != nil {
			return model.Profile{}, err
		}
	}

	if _, err := s.repo.GetProfileByEmail(ctx, req.Email); err == nil {
		return model.Profile{}, ErrEmailInUse
	} else if !errors.Is(err, repository.ErrProfileNotFound) {
		return model.Profile{}, err
	}

	invite, err := s.repo.ConsumeInviteCode(ctx, req.InviteCode)
	if err != nil {
		return model.Profile{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	profile := model.Profile{
		ID:           uuid.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hashedPassword),
		Role:         invite.Role,
		Phone:        req.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		// The consume above already happened; give the use back so a failed
		// registration does not burn a limited code.
		if rerr := s.repo.RestoreInviteCodeUse(ctx, invite.Code); rerr != nil {
			slog.Error("Failed to restore invite code use", "error", rerr, "code", invite.Code)
		}
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.Profile{}, ErrEmailInUse
		}
		return model.Profile{}, err
	}

	s.activity.Log(ctx, model.ActivityLog{
		UserID:     &profile.ID,
		EntityType: "profile",
		EntityID:   profile.ID,
		Action:     model.ActivityActionCreate,
		Details:    map[string]interface{}{"role": string(profile.Role)},
	})

	if s.email != nil {
		// Best effort, registration succeeds regardless.
		go func() {
			_ = s.email.Send(profile.Email, "Benvenuto in Matchpoint",
				fmt.Sprintf("Ciao %s, il tuo account è stato creato con ruolo %s.", profile.FullName, profile.Role))
		}()
	}

	return profile, nil
}
