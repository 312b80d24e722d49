package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/apperrors"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/models"
)

// mockConversationRepo implements repositories.ConversationRepository in memory.
type mockConversationRepo struct {
	mu       sync.Mutex
	records  map[uuid.UUID]*models.ConversationRecord
	loadErr  error
	saveErr  error
	deleteN  int64
	cutoffs  []time.Time
	saves    int
	loadArgs [][2]uuid.UUID
}

func newMockConversationRepo() *mockConversationRepo {
	return &mockConversationRepo{records: make(map[uuid.UUID]*models.ConversationRecord)}
}

func (m *mockConversationRepo) Load(_ context.Context, conversationID, sessionID uuid.UUID) (*models.ConversationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadArgs = append(m.loadArgs, [2]uuid.UUID{conversationID, sessionID})
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	r, ok := m.records[conversationID]
	if !ok || r.SessionID != sessionID {
		return nil, apperrors.ErrNotFound
	}
	return r, nil
}

func (m *mockConversationRepo) Save(_ context.Context, record *models.ConversationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	record.UpdatedAt = time.Now()
	m.records[record.ID] = record
	return nil
}

func (m *mockConversationRepo) DeleteUpdatedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	m.cutoffs = append(m.cutoffs, cutoff)
	return m.deleteN, nil
}

// mockContactRepo implements repositories.ContactRepository.
type mockContactRepo struct {
	created   []*models.ContactSubmission
	createErr error
}

func (m *mockContactRepo) Create(_ context.Context, submission *models.ContactSubmission) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, submission)
	return nil
}

// mockNotifier implements notify.Notifier.
type mockNotifier struct {
	sent []*models.ContactSubmission
	err  error
}

func (m *mockNotifier) NotifyContact(_ context.Context, submission *models.ContactSubmission) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, submission)
	return nil
}
