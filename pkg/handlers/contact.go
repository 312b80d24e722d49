package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/apperrors"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/services"
)

type contactRequest struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ContactResponse is the body of a processed contact submission.
type ContactResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
	Warning string `json:"warning,omitempty"`
}

// ContactHandler handles the contact form endpoint.
type ContactHandler struct {
	contactService services.ContactService
	logger         *zap.Logger
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(contactService services.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         logger.Named("contact-handler"),
	}
}

// RegisterRoutes registers POST /contact.
func (h *ContactHandler) RegisterRoutes(mux *http.ServeMux, wrap func(route string, next http.Handler) http.Handler) {
	mux.Handle("POST /contact", wrap("POST /contact", http.HandlerFunc(h.Contact)))
}

// Contact handles POST /contact.
// 200 when stored and notified, 207 when only one succeeded, 500 when neither did.
func (h *ContactHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	outcome, err := h.contactService.Submit(r.Context(), req.Email, req.Message)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidContact) {
			ErrorResponse(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
			return
		}
		h.logger.Error("Contact submission failed", zap.Error(err))
		ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to process your message")
		return
	}

	response := ContactResponse{Success: true, ID: outcome.Submission.ID.String()}
	status := http.StatusOK

	switch {
	case outcome.Stored && outcome.Notified:
		response.Message = "Thanks! We'll get back to you within one business day."
	case outcome.Stored:
		status = http.StatusMultiStatus
		response.Message = "Thanks! Your message was saved."
		response.Warning = "We could not send the notification email, but your message was received."
	case outcome.Notified:
		status = http.StatusMultiStatus
		response.Message = "Thanks! Your message was sent to our team."
		response.Warning = "Your message was emailed to us but could not be saved."
	default:
		ErrorResponse(w, http.StatusInternalServerError, "internal_error",
			"We could not process your message. Please email us directly.")
		return
	}

	if err := WriteJSON(w, status, response); err != nil {
		h.logger.Error("Failed to write contact response", zap.Error(err))
	}
}

// validationMessage strips the sentinel prefix so clients see only the reason.
func validationMessage(err error) string {
	msg := err.Error()
	if reason, ok := strings.CutPrefix(msg, apperrors.ErrInvalidContact.Error()+": "); ok {
		return reason
	}
	return msg
}
