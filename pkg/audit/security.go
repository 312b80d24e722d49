// Package audit screens public form input and logs security-relevant events
// in structured JSON for SIEM consumption.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SecurityEventType categorizes security-relevant events for filtering and alerting.
type SecurityEventType string

const (
	// EventSQLInjectionAttempt is logged when libinjection detects SQL injection patterns.
	EventSQLInjectionAttempt SecurityEventType = "sql_injection_attempt"
	// EventXSSAttempt is logged when libinjection detects cross-site scripting patterns.
	EventXSSAttempt SecurityEventType = "xss_attempt"
)

// SecurityEvent represents an auditable security event.
type SecurityEvent struct {
	Timestamp    time.Time         `json:"timestamp"`
	EventType    SecurityEventType `json:"event_type"`
	SubmissionID uuid.UUID         `json:"submission_id"`
	ClientIP     string            `json:"client_ip,omitempty"`
	Details      InputFinding      `json:"details"`
	Severity     string            `json:"severity"` // info, warning, critical
}

// SecurityAuditor logs security events under the "security_audit" logger name.
type SecurityAuditor struct {
	logger *zap.Logger
}

// NewSecurityAuditor creates a new security auditor with a dedicated logger namespace.
func NewSecurityAuditor(logger *zap.Logger) *SecurityAuditor {
	return &SecurityAuditor{logger: logger.Named("security_audit")}
}

// LogSuspiciousInput records a flagged form field. Submissions are still
// accepted, so this logs at WARN rather than ERROR.
func (a *SecurityAuditor) LogSuspiciousInput(
	ctx context.Context,
	submissionID uuid.UUID,
	finding InputFinding,
	clientIP string,
) {
	eventType := EventSQLInjectionAttempt
	if finding.Kind == KindXSS {
		eventType = EventXSSAttempt
	}

	event := SecurityEvent{
		Timestamp:    time.Now().UTC(),
		EventType:    eventType,
		SubmissionID: submissionID,
		ClientIP:     clientIP,
		Details:      finding,
		Severity:     "warning",
	}

	// Marshaling known types cannot fail.
	eventJSON, _ := json.Marshal(event)

	a.logger.Warn("Suspicious form input detected",
		zap.String("event_json", string(eventJSON)),
		zap.String("event_type", string(eventType)),
		zap.String("submission_id", submissionID.String()),
		zap.String("field", finding.Field),
		zap.String("fingerprint", finding.Fingerprint),
		zap.String("client_ip", clientIP),
		zap.String("severity", "warning"),
	)
}

type clientIPKey struct{}

// WithClientIP stores the caller's address for audit events.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// ClientIPFromContext returns the address stored by WithClientIP, or "".
func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
