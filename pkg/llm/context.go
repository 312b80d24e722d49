package llm

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const conversationIDKey contextKey = "conversation_id"

// requestIDHeader carries the conversation id to the provider so requests can
// be correlated with provider-side logs.
const requestIDHeader = "X-Request-Id"

// WithConversationID returns a context tagged with the conversation being served.
func WithConversationID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, conversationIDKey, id)
}

// ConversationIDFromContext returns the conversation id attached by WithConversationID.
func ConversationIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(conversationIDKey).(uuid.UUID)
	return id, ok
}

// contextAwareTransport copies request-scoped values from the context onto
// outgoing provider requests.
type contextAwareTransport struct {
	base http.RoundTripper
}

func (t *contextAwareTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	id, ok := ConversationIDFromContext(req.Context())
	if !ok || req.Header.Get(requestIDHeader) != "" {
		return t.base.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request.
	clone := req.Clone(req.Context())
	clone.Header.Set(requestIDHeader, id.String())
	return t.base.RoundTrip(clone)
}
