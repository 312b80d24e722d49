package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/apperrors"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/audit"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/logging"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/metrics"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/models"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/notify"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/repositories"
)

// minContactMessageLength is counted in runes after trimming.
const minContactMessageLength = 3

// ContactService accepts contact form submissions.
type ContactService interface {
	// Submit validates the form, then stores it and sends the notification.
	// Validation failures wrap apperrors.ErrInvalidContact and have no side
	// effects. Otherwise the outcome reports each side effect separately and
	// the returned error is nil.
	Submit(ctx context.Context, email, message string) (*models.ContactOutcome, error)
}

type contactService struct {
	submissions repositories.ContactRepository
	notifier    notify.Notifier
	auditor     *audit.SecurityAuditor
	metrics     *metrics.Collector
	logger      *zap.Logger
}

// NewContactService creates a contact service. collector may be nil.
func NewContactService(
	submissions repositories.ContactRepository,
	notifier notify.Notifier,
	auditor *audit.SecurityAuditor,
	collector *metrics.Collector,
	logger *zap.Logger,
) ContactService {
	return &contactService{
		submissions: submissions,
		notifier:    notifier,
		auditor:     auditor,
		metrics:     collector,
		logger:      logger.Named("contact-service"),
	}
}

var _ ContactService = (*contactService)(nil)

func (s *contactService) Submit(ctx context.Context, email, message string) (*models.ContactOutcome, error) {
	if err := ValidateContact(email, message); err != nil {
		s.metrics.RecordContact(metrics.ContactRejected, false)
		return nil, err
	}

	submission := &models.ContactSubmission{
		ID:      uuid.New(),
		Email:   strings.TrimSpace(email),
		Message: strings.TrimSpace(message),
	}

	findings := audit.CheckFields(map[string]string{
		"email":   submission.Email,
		"message": submission.Message,
	})
	if len(findings) > 0 {
		submission.Flagged = true
		clientIP := audit.ClientIPFromContext(ctx)
		for _, f := range findings {
			s.auditor.LogSuspiciousInput(ctx, submission.ID, *f, clientIP)
		}
	}

	outcome := &models.ContactOutcome{Submission: submission}
	logger := s.logger.With(zap.String("submission_id", submission.ID.String()))

	if err := s.submissions.Create(ctx, submission); err != nil {
		outcome.StoreErr = err
		logger.Error("Failed to store contact submission", zap.String("error", logging.SanitizeError(err)))
	} else {
		outcome.Stored = true
	}

	// The notification goes out even when storing failed so the message is not lost.
	if err := s.notifier.NotifyContact(ctx, submission); err != nil {
		outcome.NotifyErr = err
		if errors.Is(err, apperrors.ErrNotifierDisabled) {
			logger.Warn("Contact notification skipped", zap.Error(err))
		} else {
			logger.Error("Failed to send contact notification", zap.String("error", logging.SanitizeError(err)))
		}
	} else {
		outcome.Notified = true
	}

	s.metrics.RecordContact(contactOutcomeLabel(outcome), submission.Flagged)

	logger.Info("Contact submission processed",
		zap.Bool("stored", outcome.Stored),
		zap.Bool("notified", outcome.Notified),
		zap.Bool("flagged", submission.Flagged))

	return outcome, nil
}

// ValidateContact applies the contact form's minimal checks.
func ValidateContact(email, message string) error {
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: a valid email address is required", apperrors.ErrInvalidContact)
	}
	if utf8.RuneCountInString(strings.TrimSpace(message)) < minContactMessageLength {
		return fmt.Errorf("%w: message must be at least %d characters", apperrors.ErrInvalidContact, minContactMessageLength)
	}
	return nil
}

func contactOutcomeLabel(o *models.ContactOutcome) string {
	switch {
	case o.Stored && o.Notified:
		return metrics.ContactDelivered
	case o.Stored || o.Notified:
		return metrics.ContactPartial
	default:
		return metrics.ContactFailed
	}
}
