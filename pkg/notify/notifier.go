// Package notify delivers contact form submissions by email through a
// Resend-compatible HTTP API.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/apperrors"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/config"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/models"
)

// Notifier sends a notification for a stored contact submission.
type Notifier interface {
	NotifyContact(ctx context.Context, submission *models.ContactSubmission) error
}

// HTTPNotifier posts JSON emails to a Resend-compatible endpoint.
type HTTPNotifier struct {
	cfg    config.EmailConfig
	client *http.Client
	logger *zap.Logger
}

var _ Notifier = (*HTTPNotifier)(nil)

// NewHTTPNotifier creates a notifier. An unconfigured notifier is valid;
// every send then fails with apperrors.ErrNotifierDisabled.
func NewHTTPNotifier(cfg config.EmailConfig, logger *zap.Logger) *HTTPNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPNotifier{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger.Named("notify"),
	}
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// NotifyContact emails the site owner about a submission. Any non-2xx
// response is an error.
func (n *HTTPNotifier) NotifyContact(ctx context.Context, submission *models.ContactSubmission) error {
	if !n.cfg.IsConfigured() {
		return apperrors.ErrNotifierDisabled
	}

	payload := emailRequest{
		From:    n.cfg.From,
		To:      []string{n.cfg.To},
		Subject: fmt.Sprintf("New contact form submission from %s", submission.Email),
		Text:    formatBody(submission),
		ReplyTo: submission.Email,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.cfg.APIKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email API returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	n.logger.Info("Contact notification sent",
		zap.String("submission_id", submission.ID.String()),
		zap.Bool("flagged", submission.Flagged))
	return nil
}

func formatBody(s *models.ContactSubmission) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\n", s.Email)
	fmt.Fprintf(&b, "Received: %s\n", s.CreatedAt.UTC().Format(time.RFC1123))
	if s.Flagged {
		b.WriteString("Warning: this message matched a suspicious input pattern.\n")
	}
	b.WriteString("\n")
	b.WriteString(s.Message)
	b.WriteString("\n")
	return b.String()
}
