package llm

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithConversationID_RoundTrip(t *testing.T) {
	id := uuid.New()
	ctx := WithConversationID(context.Background(), id)

	got, ok := ConversationIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = ConversationIDFromContext(context.Background())
	assert.False(t, ok, "plain context should carry no conversation id")
}
