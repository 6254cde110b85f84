package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/smtp"
	"strconv"
	"time"

	"matchpoint/internal/config"
	"matchpoint/internal/model"
	"matchpoint/internal/monitoring"
	"matchpoint/internal/repository"

	"github.com/google/uuid"
)

var ErrNoRecipients = errors.New("no recipients match the requested audience")

// Sender delivers a single email.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender sends mail through a plain SMTP relay.
type SMTPSender struct {
	cfg config.SMTPConfig
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	addr := s.cfg.Host + ":" + strconv.Itoa(s.cfg.Port)
	msg := []byte("From: " + s.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg)
}

// EmailService handles marketing campaigns: per-recipient dispatch with
// email_logs bookkeeping, retry of failed rows, and aggregate stats.
type EmailService struct {
	repo      repository.Repository
	sender    Sender
	telemetry monitoring.Telemetry
}

const maxEmailAttempts = 3

func NewEmailService(repo repository.Repository, sender Sender, tel monitoring.Telemetry) *EmailService {
	return &EmailService{repo: repo, sender: sender, telemetry: tel}
}

type CampaignRequest struct {
	Subject  string `json:"subject" validate:"required,max=255"`
	Body     string `json:"body" validate:"required"`
	Audience string `json:"audience" validate:"required,oneof=all admin gestore maestro atleta"`
}

type CampaignResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// SendCampaign fans the message out to the audience. Each recipient gets an
// email_logs row; one failed delivery does not abort the batch.
func (s *EmailService) SendCampaign(ctx context.Context, caller Caller, req CampaignRequest) (CampaignResult, error) {
	if !caller.Role.IsStaff() {
		return CampaignResult{}, ErrForbidden
	}

	recipients, err := s.resolveAudience(ctx, req.Audience)
	if err != nil {
		return CampaignResult{}, err
	}
	if len(recipients) == 0 {
		return CampaignResult{}, ErrNoRecipients
	}

	var result CampaignResult
	for _, p := range recipients {
		entry := model.EmailLog{
			ID:        uuid.New(),
			Recipient: p.Email,
			Subject:   req.Subject,
			Status:    model.EmailStatusSent,
			Attempts:  1,
			SentBy:    caller.ID,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		sendErr := s.sender.Send(p.Email, req.Subject, req.Body)
		s.telemetry.RecordEmailSent(ctx, sendErr == nil)
		if sendErr != nil {
			entry.Status = model.EmailStatusFailed
			entry.Error = sendErr.Error()
			result.Failed++
			slog.Warn("Failed to send campaign email", "recipient", p.Email, "error", sendErr)
		} else {
			result.Sent++
		}

		if err := s.repo.CreateEmailLog(ctx, entry); err != nil {
			slog.Error("Failed to record email log", "recipient", p.Email, "error", err)
		}
	}

	return result, nil
}

// RetryFailed re-sends failed emails that have attempts left. Called by the
// scheduled retry endpoint.
func (s *EmailService) RetryFailed(ctx context.Context) (CampaignResult, error) {
	// The original body is not stored; retries resend the subject line with a
	// pointer back to the site.
	entries, err := s.repo.ListFailedEmailLogs(ctx, maxEmailAttempts)
	if err != nil {
		return CampaignResult{}, err
	}

	var result CampaignResult
	for _, entry := range entries {
		entry.Attempts++
		sendErr := s.sender.Send(entry.Recipient, entry.Subject,
			"Questo messaggio non è stato consegnato in precedenza. Visita il sito per i dettagli.")
		s.telemetry.RecordEmailSent(ctx, sendErr == nil)
		if sendErr != nil {
			entry.Status = model.EmailStatusFailed
			entry.Error = sendErr.Error()
			result.Failed++
		} else {
			entry.Status = model.EmailStatusSent
			entry.Error = ""
			result.Sent++
		}
		if err := s.repo.UpdateEmailLog(ctx, entry); err != nil {
			slog.Error("Failed to update email log", "id", entry.ID, "error", err)
		}
	}

	return result, nil
}

func (s *EmailService) Stats(ctx context.Context, caller Caller) (model.EmailStats, error) {
	if !caller.Role.IsStaff() {
		return model.EmailStats{}, ErrForbidden
	}
	return s.repo.GetEmailStats(ctx)
}

func (s *EmailService) resolveAudience(ctx context.Context, audience string) ([]model.Profile, error) {
	if audience == "all" {
		var all []model.Profile
		for _, role := range []model.Role{model.RoleAdmin, model.RoleGestore, model.RoleMaestro, model.RoleAtleta} {
			profiles, err := s.repo.ListProfilesByRole(ctx, role)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve audience: %w", err)
			}
			all = append(all, profiles...)
		}
		return all, nil
	}

	role, err := model.ParseRole(audience)
	if err != nil {
		return nil, err
	}
	return s.repo.ListProfilesByRole(ctx, role)
}
