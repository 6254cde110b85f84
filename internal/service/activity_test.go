package service_test

import (
	"context"
	"testing"
	"time"

	"matchpoint/internal/model"
	"matchpoint/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func captureActivityLog(repo *MockRepository) chan model.ActivityLog {
	entries := make(chan model.ActivityLog, 1)
	repo.On("CreateActivityLog", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { entries <- args.Get(1).(model.ActivityLog) }).
		Return(nil)
	return entries
}

func waitForActivityLog(t *testing.T, entries chan model.ActivityLog) model.ActivityLog {
	t.Helper()
	select {
	case entry := <-entries:
		return entry
	case <-time.After(time.Second):
		t.Fatal("activity log was never written")
		return model.ActivityLog{}
	}
}

func TestActivityLogCarriesRequestMetadata(t *testing.T) {
	repo := &MockRepository{}
	entries := captureActivityLog(repo)
	svc := service.NewActivityService(repo)

	ctx := service.WithRequestContext(context.Background(), service.RequestContext{
		IPAddress: "203.0.113.10",
		UserAgent: "matchpoint-app/2.1",
	})
	svc.Log(ctx, model.ActivityLog{
		EntityType: "booking",
		EntityID:   uuid.New(),
		Action:     model.ActivityActionCreate,
	})

	entry := waitForActivityLog(t, entries)
	assert.Equal(t, "203.0.113.10", entry.IPAddress)
	assert.Equal(t, "matchpoint-app/2.1", entry.UserAgent)
	assert.NotEqual(t, uuid.Nil, entry.ID)
}

func TestActivityLogWithoutRequestMetadata(t *testing.T) {
	repo := &MockRepository{}
	entries := captureActivityLog(repo)
	svc := service.NewActivityService(repo)

	svc.Log(context.Background(), model.ActivityLog{
		EntityType: "profile",
		EntityID:   uuid.New(),
		Action:     model.ActivityActionDelete,
	})

	entry := waitForActivityLog(t, entries)
	assert.Empty(t, entry.IPAddress)
	assert.Empty(t, entry.UserAgent)
}
