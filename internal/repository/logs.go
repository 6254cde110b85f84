package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"matchpoint/internal/model"

	"github.com/google/uuid"
)

func (r *DatabaseRepository) CreateActivityLog(ctx context.Context, entry model.ActivityLog) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal activity details: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO activity_log (id, user_id, entity_type, entity_id, action, details, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.UserID, entry.EntityType, entry.EntityID, entry.Action,
		details, entry.IPAddress, entry.UserAgent, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create activity log: %w", err)
	}
	return nil
}

func (r *DatabaseRepository) CreateNotifications(ctx context.Context, notifications []model.Notification) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, n := range notifications {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO notifications (id, user_id, title, message, type, is_read, action_url, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			n.ID, n.UserID, n.Title, n.Message, n.Type, n.IsRead, n.ActionURL, n.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert notification: %w", err)
		}
	}
	return tx.Commit()
}

func (r *DatabaseRepository) ListUnreadNotifications(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, title, message, type, is_read, action_url, created_at
		FROM notifications
		WHERE user_id = $1 AND NOT is_read
		ORDER BY created_at DESC
		LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type,
			&n.IsRead, &n.ActionURL, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *DatabaseRepository) MarkNotificationRead(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2",
		id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrContentNotFound
	}
	return nil
}

const emailLogColumns = "id, recipient, subject, status, error, attempts, sent_by, created_at, updated_at"

func (r *DatabaseRepository) CreateEmailLog(ctx context.Context, entry model.EmailLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO email_logs (`+emailLogColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.Recipient, entry.Subject, entry.Status, entry.Error,
		entry.Attempts, entry.SentBy, entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create email log: %w", err)
	}
	return nil
}

func (r *DatabaseRepository) UpdateEmailLog(ctx context.Context, entry model.EmailLog) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE email_logs
		SET status = $1, error = $2, attempts = $3, updated_at = NOW()
		WHERE id = $4`,
		entry.Status, entry.Error, entry.Attempts, entry.ID)
	if err != nil {
		return fmt.Errorf("failed to update email log: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrEmailLogNotFound
	}
	return nil
}

func (r *DatabaseRepository) ListFailedEmailLogs(ctx context.Context, maxAttempts int) ([]model.EmailLog, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+emailLogColumns+" FROM email_logs WHERE status = 'failed' AND attempts < $1 ORDER BY created_at",
		maxAttempts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.EmailLog
	for rows.Next() {
		var e model.EmailLog
		if err := rows.Scan(&e.ID, &e.Recipient, &e.Subject, &e.Status, &e.Error,
			&e.Attempts, &e.SentBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *DatabaseRepository) GetEmailStats(ctx context.Context) (model.EmailStats, error) {
	var stats model.EmailStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'sent'),
		       COUNT(*) FILTER (WHERE status = 'failed'),
		       COUNT(*) FILTER (WHERE created_at > NOW() - INTERVAL '24 hours')
		FROM email_logs`).
		Scan(&stats.Total, &stats.Sent, &stats.Failed, &stats.Last24hAll)
	if err != nil {
		return model.EmailStats{}, fmt.Errorf("failed to get email stats: %w", err)
	}
	return stats, nil
}
