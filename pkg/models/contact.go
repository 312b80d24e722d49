package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactSubmission is a message left through the site's contact form.
type ContactSubmission struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Message   string    `json:"message" db:"message"`
	Flagged   bool      `json:"flagged" db:"flagged"` // input matched an injection pattern
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ContactOutcome reports which side effects of a submission succeeded.
type ContactOutcome struct {
	Submission *ContactSubmission
	Stored     bool
	Notified   bool
	StoreErr   error
	NotifyErr  error
}
