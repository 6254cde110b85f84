package service

import (
	"context"
	"log/slog"
	"time"

	"matchpoint/internal/model"
	"matchpoint/internal/repository"

	"github.com/google/uuid"
)

// ActivityService writes append-only audit rows. Writes are asynchronous and
// best effort; a failed audit write never fails the operation it describes.
type ActivityService struct {
	repo repository.Repository
}

func NewActivityService(repo repository.Repository) *ActivityService {
	return &ActivityService{repo: repo}
}

func (s *ActivityService) Log(ctx context.Context, entry model.ActivityLog) {
	if s == nil {
		return
	}
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()

	// Capture request metadata before the write detaches from the request.
	if rc, ok := RequestContextFrom(ctx); ok {
		if entry.IPAddress == "" {
			entry.IPAddress = rc.IPAddress
		}
		if entry.UserAgent == "" {
			entry.UserAgent = rc.UserAgent
		}
	}

	go func() {
		if err := s.repo.CreateActivityLog(context.Background(), entry); err != nil {
			slog.Error("Failed to write activity log", "error", err,
				"entity_type", entry.EntityType, "action", entry.Action)
		}
	}()
}

// RequestContext carries request metadata into activity entries.
type RequestContext struct {
	IPAddress string
	UserAgent string
}

// RequestContextKey is the context key under which request metadata travels.
// Fiber's Locals store values on the underlying request context, so the
// middleware sets it with this key and ctx.Value finds it here.
type RequestContextKey struct{}

// WithRequestContext attaches request metadata to the context.
func WithRequestContext(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, RequestContextKey{}, rc)
}

// RequestContextFrom extracts request metadata, if any.
func RequestContextFrom(ctx context.Context) (RequestContext, bool) {
	rc, ok := ctx.Value(RequestContextKey{}).(RequestContext)
	return rc, ok
}
