package apperrors

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrSchemaValidation marks model output that parsed as JSON but failed
	// structural validation. Surfaced to chat clients as 422.
	ErrSchemaValidation = errors.New("schema validation failed")

	// ErrInvalidContact marks a contact submission rejected before any I/O.
	ErrInvalidContact = errors.New("invalid contact submission")

	// ErrNotifierDisabled is returned when email notifications are not configured.
	ErrNotifierDisabled = errors.New("email notifications not configured")
)
