package service

import (
	"context"
	"io"
	"time"

	"matchpoint/internal/model"
	"matchpoint/internal/repository"
	"matchpoint/internal/storage"

	"github.com/google/uuid"
)

// ContentService manages announcements, news and video lessons. Video files
// and news images live in blob storage; the database keeps the keys.
type ContentService struct {
	repo     repository.Repository
	store    storage.Storage
	activity *ActivityService
}

func NewContentService(repo repository.Repository, store storage.Storage, activity *ActivityService) *ContentService {
	return &ContentService{repo: repo, store: store, activity: activity}
}

// audienceFor maps a viewer role to the audience filter applied on reads.
// Staff see everything regardless of audience.
func audienceFor(role model.Role) model.Audience {
	switch {
	case role.IsStaff():
		return model.AudienceAll
	case role.IsCoach():
		return model.AudienceMaestri
	default:
		return model.AudienceAtleti
	}
}

type AnnouncementRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	Body      string `json:"body" validate:"required,max=10000"`
	Audience  string `json:"audience" validate:"omitempty,oneof=atleti maestri staff"`
	Published bool   `json:"published"`
}

func (s *ContentService) CreateAnnouncement(ctx context.Context, caller Caller, req AnnouncementRequest) (model.Announcement, error) {
	if !caller.Role.IsStaff() {
		return model.Announcement{}, ErrForbidden
	}

	now := time.Now()
	a := model.Announcement{
		ID:        uuid.New(),
		Title:     req.Title,
		Body:      req.Body,
		Audience:  model.Audience(req.Audience),
		Published: req.Published,
		CreatedBy: caller.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateAnnouncement(ctx, a); err != nil {
		return model.Announcement{}, err
	}

	s.activity.Log(ctx, model.ActivityLog{
		UserID:     &caller.ID,
		EntityType: "announcement",
		EntityID:   a.ID,
		Action:     model.ActivityActionCreate,
	})
	return a, nil
}

func (s *ContentService) UpdateAnnouncement(ctx context.Context, caller Caller, id uuid.UUID, req AnnouncementRequest) (model.Announcement, error) {
	if !caller.Role.IsStaff() {
		return model.Announcement{}, ErrForbidden
	}

	a := model.Announcement{
		ID:        id,
		Title:     req.Title,
		Body:      req.Body,
		Audience:  model.Audience(req.Audience),
		Published: req.Published,
		UpdatedAt: time.Now(),
	}
	if err := s.repo.UpdateAnnouncement(ctx, a); err != nil {
		return model.Announcement{}, err
	}

	s.activity.Log(ctx, model.ActivityLog{
		UserID:     &caller.ID,
		EntityType: "announcement",
		EntityID:   id,
		Action:     model.ActivityActionUpdate,
	})
	return a, nil
}

func (s *ContentService) DeleteAnnouncement(ctx context.Context, caller Caller, id uuid.UUID) error {
	if !caller.Role.IsStaff() {
		return ErrForbidden
	}
	if err := s.repo.DeleteAnnouncement(ctx, id); err != nil {
		return err
	}
	s.activity.Log(ctx, model.ActivityLog{
		UserID:     &caller.ID,
		EntityType: "announcement",
		EntityID:   id,
		Action:     model.ActivityActionDelete,
	})
	return nil
}

// Announcements returns what the caller is allowed to see. Non-staff only get
// published entries for their audience.
func (s *ContentService) Announcements(ctx context.Context, caller Caller) ([]model.Announcement, error) {
	return s.repo.ListAnnouncements(ctx, audienceFor(caller.Role), !caller.Role.IsStaff())
}

type NewsRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	Body      string `json:"body" validate:"required,max=10000"`
	ImageURL  string `json:"image_url" validate:"omitempty,url"`
	Published bool   `json:"published"`
}

func (s *ContentService) CreateNews(ctx context.Context, caller Caller, req NewsRequest) (model.News, error) {
	if !caller.Role.IsStaff() {
		return model.News{}, ErrForbidden
	}

	now := time.Now()
	n := model.News{
		ID:        uuid.New(),
		Title:     req.Title,
		Body:      req.Body,
		ImageURL:  req.ImageURL,
		Published: req.Published,
		CreatedBy: caller.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateNews(ctx, n); err != nil {
		return model.News{}, err
	}

	s.activity.Log(ctx, model.ActivityLog{
		UserID:     &caller.ID,
		EntityType: "news",
		EntityID:   n.ID,
		Action:     model.ActivityActionCreate,
	})
	return n, nil
}

func (s *ContentService) UpdateNews(ctx context.Context, caller Caller, id uuid.UUID, req NewsRequest) (model.News, error) {
	if !caller.Role.IsStaff() {
		return model.News{}, ErrForbidden
	}

	n := model.News{
		ID:        id,
		Title:     req.Title,
		Body:      req.Body,
		ImageURL:  req.ImageURL,
		Published: req.Published,
		UpdatedAt: time.Now(),
	}
	if err := s.repo.UpdateNews(ctx, n); err != nil {
		return model.News{}, err
	}

	s.activity.Log(ctx, model.ActivityLog{
		UserID:     &caller.ID,
		EntityType: "news",
		EntityID:   id,
		Action:     model.ActivityActionUpdate,
	})
	return n, nil
}

func (s *ContentService) DeleteNews(ctx context.Context, caller Caller, id uuid.UUID) error {
	if !caller.Role.IsStaff() {
		return ErrForbidden
	}
	if err := s.repo.DeleteNews(ctx, id); err != nil {
		return err
	}
	s.activity.Log(ctx, model.ActivityLog{
		UserID:     &caller.ID,
		EntityType: "news",
		EntityID:   id,
		Action:     model.ActivityActionDelete,
	})
	return nil
}

func (s *ContentService) News(ctx context.Context, caller Caller) ([]model.News, error) {
	return s.repo.ListNews(ctx, !caller.Role.IsStaff())
}

type VideoLessonRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Audience    string `json:"audience" validate:"omitempty,oneof=atleti maestri staff"`
	Published   bool   `json:"published"`
}

// CreateVideoLesson uploads the video to blob storage, then records the
// lesson with its storage key. Coaches and staff may publish lessons.
func (s *ContentService) CreateVideoLesson(ctx context.Context, caller Caller, req VideoLessonRequest, filename string, video io.Reader, contentType string) (model.VideoLesson, error) {
	if !caller.Role.IsStaff() && !caller.Role.IsCoach() {
		return model.VideoLesson{}, ErrForbidden
	}

	key, err := s.store.Store(ctx, caller.ID, filename, video, contentType)
	if err != nil {
		return model.VideoLesson{}, err
	}

	v := model.VideoLesson{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		VideoKey:    key,
		Audience:    model.Audience(req.Audience),
		Published:   req.Published,
		CreatedBy:   caller.ID,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.CreateVideoLesson(ctx, v); err != nil {
		// Orphaned blob cleanup; best effort.
		_ = s.store.Delete(ctx, key)
		return model.VideoLesson{}, err
	}

	s.activity.Log(ctx, model.ActivityLog{
		UserID:     &caller.ID,
		EntityType: "video_lesson",
		EntityID:   v.ID,
		Action:     model.ActivityActionCreate,
	})
	return v, nil
}

func (s *ContentService) DeleteVideoLesson(ctx context.Context, caller Caller, id uuid.UUID, videoKey string) error {
	if !caller.Role.IsStaff() {
		return ErrForbidden
	}
	if err := s.repo.DeleteVideoLesson(ctx, id); err != nil {
		return err
	}
	if videoKey != "" {
		_ = s.store.Delete(ctx, videoKey)
	}
	s.activity.Log(ctx, model.ActivityLog{
		UserID:     &caller.ID,
		EntityType: "video_lesson",
		EntityID:   id,
		Action:     model.ActivityActionDelete,
	})
	return nil
}

// VideoLessonURL resolves a signed playback URL for one hour.
func (s *ContentService) VideoLessonURL(ctx context.Context, videoKey string) (string, error) {
	return s.store.SignedURL(ctx, videoKey, time.Hour)
}

func (s *ContentService) VideoLessons(ctx context.Context, caller Caller) ([]model.VideoLesson, error) {
	return s.repo.ListVideoLessons(ctx, audienceFor(caller.Role), !caller.Role.IsStaff())
}
