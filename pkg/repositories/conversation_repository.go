package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/apperrors"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/database"
	"github.com/sprintlaunchers/sprintlaunchers-api/pkg/models"
)

// ConversationRepository provides data access for estimate chat conversations.
type ConversationRepository interface {
	// Load returns the conversation matching both ids, or apperrors.ErrNotFound.
	Load(ctx context.Context, conversationID, sessionID uuid.UUID) (*models.ConversationRecord, error)
	// Save upserts the full record keyed by ID. CreatedAt is only written on insert.
	Save(ctx context.Context, record *models.ConversationRecord) error
	// DeleteUpdatedBefore removes conversations idle since before cutoff.
	DeleteUpdatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type conversationRepository struct {
	db *database.DB
}

// NewConversationRepository creates a new ConversationRepository.
func NewConversationRepository(db *database.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

var _ ConversationRepository = (*conversationRepository)(nil)

func (r *conversationRepository) Load(ctx context.Context, conversationID, sessionID uuid.UUID) (*models.ConversationRecord, error) {
	query := `
		SELECT id, session_id, messages, context, requirements, price_range, created_at, updated_at
		FROM conversations
		WHERE id = $1 AND session_id = $2`

	var record models.ConversationRecord
	if err := pgxscan.Get(ctx, r.db.Pool, &record, query, conversationID, sessionID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	return &record, nil
}

func (r *conversationRepository) Save(ctx context.Context, record *models.ConversationRecord) error {
	now := time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	messagesJSON, err := json.Marshal(nonNil(record.Messages))
	if err != nil {
		return fmt.Errorf("failed to marshal messages: %w", err)
	}
	contextJSON, err := json.Marshal(record.Context)
	if err != nil {
		return fmt.Errorf("failed to marshal context: %w", err)
	}
	requirementsJSON, err := json.Marshal(nonNil(record.Requirements))
	if err != nil {
		return fmt.Errorf("failed to marshal requirements: %w", err)
	}
	priceRangeJSON, err := json.Marshal(record.PriceRange)
	if err != nil {
		return fmt.Errorf("failed to marshal price_range: %w", err)
	}

	// created_at keeps its insert-time value on conflict.
	query := `
		INSERT INTO conversations (
			id, session_id, messages, context, requirements, price_range, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			session_id = EXCLUDED.session_id,
			messages = EXCLUDED.messages,
			context = EXCLUDED.context,
			requirements = EXCLUDED.requirements,
			price_range = EXCLUDED.price_range,
			updated_at = EXCLUDED.updated_at`

	_, err = r.db.Exec(ctx, query,
		record.ID, record.SessionID, messagesJSON, contextJSON, requirementsJSON, priceRangeJSON,
		record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}

	return nil
}

func (r *conversationRepository) DeleteUpdatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM conversations WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale conversations: %w", err)
	}
	return tag.RowsAffected(), nil
}

// nonNil keeps empty lists as [] rather than null in JSONB columns.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

