package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/database"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/models"
)

// ContactRepository stores contact form submissions.
type ContactRepository interface {
	Create(ctx context.Context, submission *models.ContactSubmission) error
}

type contactRepository struct {
	db *database.DB
}

// NewContactRepository creates a new ContactRepository.
func NewContactRepository(db *database.DB) ContactRepository {
	return &contactRepository{db: db}
}

var _ ContactRepository = (*contactRepository)(nil)

func (r *contactRepository) Create(ctx context.Context, submission *models.ContactSubmission) error {
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO contact_submissions (id, email, message, flagged, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		submission.ID, submission.Email, submission.Message, submission.Flagged, submission.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save contact submission: %w", err)
	}

	return nil
}

