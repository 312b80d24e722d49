package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/models"
)

// mockChatService implements services.ChatService.
type mockChatService struct {
	result   *models.ChatResult
	err      error
	requests []*models.ChatRequest
}

func (m *mockChatService) SendMessage(_ context.Context, req *models.ChatRequest) (*models.ChatResult, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	result := *m.result
	result.ConversationID = req.ConversationID
	result.SessionID = req.SessionID
	return &result, nil
}

// mockContactService implements services.ContactService.
type mockContactService struct {
	outcome *models.ContactOutcome
	err     error
	calls   int
}

func (m *mockContactService) Submit(_ context.Context, email, message string) (*models.ContactOutcome, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.outcome, nil
}

// mockSessionStore keeps the session id in a plain cookie.
type mockSessionStore struct {
	setErr error
	set    []uuid.UUID
}

const mockCookieName = "sessionId"

func (m *mockSessionStore) SessionID(r *http.Request) (uuid.UUID, bool) {
	c, err := r.Cookie(mockCookieName)
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(c.Value)
	return id, err == nil
}

func (m *mockSessionStore) SetSessionID(w http.ResponseWriter, _ *http.Request, id uuid.UUID) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set = append(m.set, id)
	http.SetCookie(w, &http.Cookie{Name: mockCookieName, Value: id.String(), HttpOnly: true, SameSite: http.SameSiteLaxMode})
	return nil
}

func passthrough(_ string, next http.Handler) http.Handler { return next }

func serve(t *testing.T, mux *http.ServeMux, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}
