package service_test

import (
	"context"
	"testing"

	"matchpoint/internal/model"
	"matchpoint/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestEmailService_SendCampaign(t *testing.T) {
	staff := service.Caller{ID: uuid.New(), Role: model.RoleGestore}
	athletes := []model.Profile{
		{ID: uuid.New(), Email: "uno@example.com"},
		{ID: uuid.New(), Email: "due@example.com"},
		{ID: uuid.New(), Email: "tre@example.com"},
	}
	req := service.CampaignRequest{Subject: "Novità", Body: "Ciao", Audience: "atleta"}

	t.Run("one_failure_does_not_abort_batch", func(t *testing.T) {
		repo := &MockRepository{}
		sender := &fakeSender{failFor: map[string]bool{"due@example.com": true}}
		svc := service.NewEmailService(repo, sender, noopTelemetry{})

		repo.On("ListProfilesByRole", mock.Anything, model.RoleAtleta).Return(athletes, nil)

		var logs []model.EmailLog
		repo.On("CreateEmailLog", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { logs = append(logs, args.Get(1).(model.EmailLog)) }).
			Return(nil)

		result, err := svc.SendCampaign(context.Background(), staff, req)
		assert.NoError(t, err)
		assert.Equal(t, 2, result.Sent)
		assert.Equal(t, 1, result.Failed)

		assert.Len(t, logs, 3)
		byRecipient := map[string]model.EmailLog{}
		for _, l := range logs {
			byRecipient[l.Recipient] = l
		}
		assert.Equal(t, model.EmailStatusSent, byRecipient["uno@example.com"].Status)
		assert.Equal(t, model.EmailStatusFailed, byRecipient["due@example.com"].Status)
		assert.NotEmpty(t, byRecipient["due@example.com"].Error)
	})

	t.Run("non_staff_forbidden", func(t *testing.T) {
		repo := &MockRepository{}
		svc := service.NewEmailService(repo, &fakeSender{}, noopTelemetry{})

		_, err := svc.SendCampaign(context.Background(), service.Caller{ID: uuid.New(), Role: model.RoleAtleta}, req)
		assert.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("empty_audience_rejected", func(t *testing.T) {
		repo := &MockRepository{}
		svc := service.NewEmailService(repo, &fakeSender{}, noopTelemetry{})
		repo.On("ListProfilesByRole", mock.Anything, model.RoleMaestro).Return([]model.Profile{}, nil)

		_, err := svc.SendCampaign(context.Background(), staff, service.CampaignRequest{Subject: "x", Body: "y", Audience: "maestro"})
		assert.ErrorIs(t, err, service.ErrNoRecipients)
	})
}

func TestEmailService_RetryFailed(t *testing.T) {
	repo := &MockRepository{}
	sender := &fakeSender{failFor: map[string]bool{"ancora@example.com": true}}
	svc := service.NewEmailService(repo, sender, noopTelemetry{})

	failed := []model.EmailLog{
		{ID: uuid.New(), Recipient: "recupero@example.com", Subject: "Novità", Status: model.EmailStatusFailed, Attempts: 1},
		{ID: uuid.New(), Recipient: "ancora@example.com", Subject: "Novità", Status: model.EmailStatusFailed, Attempts: 2},
	}
	repo.On("ListFailedEmailLogs", mock.Anything, 3).Return(failed, nil)

	var updates []model.EmailLog
	repo.On("UpdateEmailLog", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { updates = append(updates, args.Get(1).(model.EmailLog)) }).
		Return(nil)

	result, err := svc.RetryFailed(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Failed)

	assert.Len(t, updates, 2)
	for _, u := range updates {
		switch u.Recipient {
		case "recupero@example.com":
			assert.Equal(t, model.EmailStatusSent, u.Status)
			assert.Equal(t, 2, u.Attempts)
			assert.Empty(t, u.Error)
		case "ancora@example.com":
			assert.Equal(t, model.EmailStatusFailed, u.Status)
			assert.Equal(t, 3, u.Attempts)
		}
	}
}
