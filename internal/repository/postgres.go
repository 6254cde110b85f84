package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"matchpoint/internal/database"
	"matchpoint/internal/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Postgres error codes we translate into domain errors.
const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

type DatabaseRepository struct {
	db database.Database
}

func NewDatabaseRepository(db database.Database) *DatabaseRepository {
	return &DatabaseRepository{db: db}
}

func (r *DatabaseRepository) HealthCheck(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func isPgErr(err error, code string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}

const profileColumns = "id, email, full_name, password_hash, role, phone, subscription_type, avatar_url, bio, created_at, updated_at"

func scanProfile(row interface{ Scan(...any) error }) (model.Profile, error) {
	var p model.Profile
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.PasswordHash, &p.Role, &p.Phone,
		&p.SubscriptionType, &p.AvatarURL, &p.Bio, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *DatabaseRepository) CreateProfile(ctx context.Context, p model.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.Email, p.FullName, p.PasswordHash, p.Role, p.Phone,
		p.SubscriptionType, p.AvatarURL, p.Bio, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isPgErr(err, pgUniqueViolation) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *DatabaseRepository) GetProfileByID(ctx context.Context, id uuid.UUID) (model.Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, err
	}
	return p, nil
}

func (r *DatabaseRepository) GetProfileByEmail(ctx context.Context, email string) (model.Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE email = $1", email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, err
	}
	return p, nil
}

func (r *DatabaseRepository) UpdateProfile(ctx context.Context, p model.Profile) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET full_name = $1, role = $2, phone = $3, subscription_type = $4,
		    avatar_url = $5, bio = $6, password_hash = $7, updated_at = NOW()
		WHERE id = $8`,
		p.FullName, p.Role, p.Phone, p.SubscriptionType, p.AvatarURL, p.Bio,
		p.PasswordHash, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *DatabaseRepository) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM profiles WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *DatabaseRepository) ListProfiles(ctx context.Context, limit, offset int) ([]model.Profile, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM profiles").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+profileColumns+" FROM profiles ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, err
		}
		profiles = append(profiles, p)
	}
	return profiles, total, rows.Err()
}

func (r *DatabaseRepository) ListProfilesByRole(ctx context.Context, role model.Role) ([]model.Profile, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE role = $1 ORDER BY full_name", role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
