package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"matchpoint/internal/model"

	"github.com/google/uuid"
)

const inviteColumns = "id, code, role, max_uses, uses_remaining, expires_at, created_by, created_at"

func scanInviteCode(row interface{ Scan(...any) error }) (model.InviteCode, error) {
	var c model.InviteCode
	err := row.Scan(&c.ID, &c.Code, &c.Role, &c.MaxUses, &c.UsesRemaining,
		&c.ExpiresAt, &c.CreatedBy, &c.CreatedAt)
	return c, err
}

func (r *DatabaseRepository) CreateInviteCode(ctx context.Context, c model.InviteCode) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invite_codes (`+inviteColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Code, c.Role, c.MaxUses, c.UsesRemaining, c.ExpiresAt,
		c.CreatedBy, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create invite code: %w", err)
	}
	return nil
}

func (r *DatabaseRepository) GetInviteCodeByCode(ctx context.Context, code string) (model.InviteCode, error) {
	c, err := scanInviteCode(r.db.QueryRowContext(ctx,
		"SELECT "+inviteColumns+" FROM invite_codes WHERE code = $1", code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.InviteCode{}, ErrInviteCodeNotFound
		}
		return model.InviteCode{}, err
	}
	return c, nil
}

// ConsumeInviteCode decrements uses_remaining in a single guarded UPDATE so a
// single-use code can be consumed at most once even under concurrent
// registrations. A NULL uses_remaining stays NULL (unlimited).
func (r *DatabaseRepository) ConsumeInviteCode(ctx context.Context, code string) (model.InviteCode, error) {
	c, err := scanInviteCode(r.db.QueryRowContext(ctx, `
		UPDATE invite_codes
		SET uses_remaining = uses_remaining - 1
		WHERE code = $1
		  AND (expires_at IS NULL OR expires_at > NOW())
		  AND (uses_remaining IS NULL OR uses_remaining > 0)
		RETURNING `+inviteColumns, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Distinguish a missing code from one that can no longer be used.
			if _, lookupErr := r.GetInviteCodeByCode(ctx, code); lookupErr != nil {
				return model.InviteCode{}, lookupErr
			}
			return model.InviteCode{}, ErrInviteCodeExhausted
		}
		return model.InviteCode{}, fmt.Errorf("failed to consume invite code: %w", err)
	}
	return c, nil
}

// RestoreInviteCodeUse gives back one use after a registration that consumed
// the code failed partway. Unlimited codes (NULL uses_remaining) are left
// untouched.
func (r *DatabaseRepository) RestoreInviteCodeUse(ctx context.Context, code string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE invite_codes
		SET uses_remaining = uses_remaining + 1
		WHERE code = $1 AND uses_remaining IS NOT NULL`,
		code)
	if err != nil {
		return fmt.Errorf("failed to restore invite code use: %w", err)
	}
	return nil
}

func (r *DatabaseRepository) ListInviteCodes(ctx context.Context) ([]model.InviteCode, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+inviteColumns+" FROM invite_codes ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []model.InviteCode
	for rows.Next() {
		c, err := scanInviteCode(rows)
		if err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

func (r *DatabaseRepository) DeleteInviteCode(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM invite_codes WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete invite code: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrInviteCodeNotFound
	}
	return nil
}
