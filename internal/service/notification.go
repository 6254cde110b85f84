package service

import (
	"context"
	"log/slog"
	"time"

	"matchpoint/internal/model"
	"matchpoint/internal/repository"

	"github.com/google/uuid"
)

// Notifier fans notifications out to users as table inserts.
type Notifier struct {
	repo repository.Repository
}

func NewNotifier(repo repository.Repository) *Notifier {
	return &Notifier{repo: repo}
}

type NotifyParam struct {
	Title     string
	Message   string
	Type      model.NotificationType
	ActionURL string
}

// NotifyUsers inserts one notification row per recipient.
func (n *Notifier) NotifyUsers(ctx context.Context, userIDs []uuid.UUID, param NotifyParam) error {
	if len(userIDs) == 0 {
		return nil
	}
	if param.Type == "" {
		param.Type = model.NotificationTypeInfo
	}

	notifications := make([]model.Notification, len(userIDs))
	for i, userID := range userIDs {
		notifications[i] = model.Notification{
			ID:        uuid.New(),
			UserID:    userID,
			Title:     param.Title,
			Message:   param.Message,
			Type:      param.Type,
			ActionURL: param.ActionURL,
			CreatedAt: time.Now(),
		}
	}
	return n.repo.CreateNotifications(ctx, notifications)
}

// NotifyStaff sends the notification to every admin and gestore account.
// Used for side effects of user actions (e.g. a new booking awaiting
// confirmation); failures are logged, never propagated.
func (n *Notifier) NotifyStaff(ctx context.Context, param NotifyParam) {
	var recipients []uuid.UUID
	for _, role := range []model.Role{model.RoleAdmin, model.RoleGestore} {
		profiles, err := n.repo.ListProfilesByRole(ctx, role)
		if err != nil {
			slog.Warn("Failed to list staff for notification", "role", role, "error", err)
			continue
		}
		for _, p := range profiles {
			recipients = append(recipients, p.ID)
		}
	}

	if err := n.NotifyUsers(ctx, recipients, param); err != nil {
		slog.Warn("Failed to notify staff", "error", err, "title", param.Title)
	}
}

// NotifyRole sends the notification to every account with the given role.
func (n *Notifier) NotifyRole(ctx context.Context, role model.Role, param NotifyParam) error {
	profiles, err := n.repo.ListProfilesByRole(ctx, role)
	if err != nil {
		return err
	}
	recipients := make([]uuid.UUID, len(profiles))
	for i, p := range profiles {
		recipients[i] = p.ID
	}
	return n.NotifyUsers(ctx, recipients, param)
}

func (n *Notifier) Unread(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	return n.repo.ListUnreadNotifications(ctx, userID, 10)
}

func (n *Notifier) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return n.repo.MarkNotificationRead(ctx, id, userID)
}
