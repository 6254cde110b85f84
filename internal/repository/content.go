package repository

import (
	"context"
	"fmt"

	"matchpoint/internal/model"

	"github.com/google/uuid"
)

func (r *DatabaseRepository) CreateAnnouncement(ctx context.Context, a model.Announcement) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO announcements (id, title, body, audience, published, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.Title, a.Body, a.Audience, a.Published, a.CreatedBy, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}
	return nil
}

func (r *DatabaseRepository) UpdateAnnouncement(ctx context.Context, a model.Announcement) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE announcements
		SET title = $1, body = $2, audience = $3, published = $4, updated_at = NOW()
		WHERE id = $5`,
		a.Title, a.Body, a.Audience, a.Published, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update announcement: %w", err)
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

func (r *DatabaseRepository) DeleteAnnouncement(ctx context.Context, id uuid.UUID) error {
	return r.deleteContent(ctx, "announcements", id)
}

func (r *DatabaseRepository) ListAnnouncements(ctx context.Context, audience model.Audience, publishedOnly bool) ([]model.Announcement, error) {
	query := `
		SELECT id, title, body, audience, published, created_by, created_at, updated_at
		FROM announcements WHERE 1=1`
	args := []any{}
	if audience != model.AudienceAll {
		args = append(args, audience)
		query += fmt.Sprintf(" AND (audience = $%d OR audience = '')", len(args))
	}
	if publishedOnly {
		query += " AND published"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var announcements []model.Announcement
	for rows.Next() {
		var a model.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Body, &a.Audience, &a.Published,
			&a.CreatedBy, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		announcements = append(announcements, a)
	}
	return announcements, rows.Err()
}

func (r *DatabaseRepository) CreateNews(ctx context.Context, n model.News) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO news (id, title, body, image_url, published, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, n.Title, n.Body, n.ImageURL, n.Published, n.CreatedBy, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create news: %w", err)
	}
	return nil
}

func (r *DatabaseRepository) UpdateNews(ctx context.Context, n model.News) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE news
		SET title = $1, body = $2, image_url = $3, published = $4, updated_at = NOW()
		WHERE id = $5`,
		n.Title, n.Body, n.ImageURL, n.Published, n.ID)
	if err != nil {
		return fmt.Errorf("failed to update news: %w", err)
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

func (r *DatabaseRepository) DeleteNews(ctx context.Context, id uuid.UUID) error {
	return r.deleteContent(ctx, "news", id)
}

func (r *DatabaseRepository) ListNews(ctx context.Context, publishedOnly bool) ([]model.News, error) {
	query := `
		SELECT id, title, body, image_url, published, created_by, created_at, updated_at
		FROM news`
	if publishedOnly {
		query += " WHERE published"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.News
	for rows.Next() {
		var n model.News
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.ImageURL, &n.Published,
			&n.CreatedBy, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

func (r *DatabaseRepository) CreateVideoLesson(ctx context.Context, v model.VideoLesson) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO video_lessons (id, title, description, video_key, audience, published, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		v.ID, v.Title, v.Description, v.VideoKey, v.Audience, v.Published, v.CreatedBy, v.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create video lesson: %w", err)
	}
	return nil
}

func (r *DatabaseRepository) DeleteVideoLesson(ctx context.Context, id uuid.UUID) error {
	return r.deleteContent(ctx, "video_lessons", id)
}

func (r *DatabaseRepository) ListVideoLessons(ctx context.Context, audience model.Audience, publishedOnly bool) ([]model.VideoLesson, error) {
	query := `
		SELECT id, title, description, video_key, audience, published, created_by, created_at
		FROM video_lessons WHERE 1=1`
	args := []any{}
	if audience != model.AudienceAll {
		args = append(args, audience)
		query += fmt.Sprintf(" AND (audience = $%d OR audience = '')", len(args))
	}
	if publishedOnly {
		query += " AND published"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lessons []model.VideoLesson
	for rows.Next() {
		var v model.VideoLesson
		if err := rows.Scan(&v.ID, &v.Title, &v.Description, &v.VideoKey, &v.Audience,
			&v.Published, &v.CreatedBy, &v.CreatedAt); err != nil {
			return nil, err
		}
		lessons = append(lessons, v)
	}
	return lessons, rows.Err()
}

func (r *DatabaseRepository) deleteContent(ctx context.Context, table string, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
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
