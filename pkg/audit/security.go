// Package audit provides security audit logging for SIEM consumption.
// It screens free-text request inputs with libinjection and logs matches as
// structured events. Screening never rejects a request.
package audit

import (
	"context"
	"encoding/json"
	"time"

	libinjection "github.com/corazawaf/libinjection-go"
	"go.uber.org/zap"

	"github.com/lpcraft/checklist-engine/pkg/logging"
)

// SecurityEventType categorizes security-relevant events for filtering and alerting.
type SecurityEventType string

const (
	// EventSQLInjectionAttempt is logged when libinjection detects SQL injection patterns.
	EventSQLInjectionAttempt SecurityEventType = "sql_injection_attempt"
	// EventXSSAttempt is logged when libinjection detects markup that would execute script.
	EventXSSAttempt SecurityEventType = "xss_attempt"
)

// SecurityEvent represents an auditable security event with all relevant context
// for SIEM ingestion and analysis.
type SecurityEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType SecurityEventType `json:"event_type"`
	ClientIP  string            `json:"client_ip,omitempty"`
	Details   any               `json:"details"`
	Severity  string            `json:"severity"` // info, warning, critical
}

// InjectionDetails contains specifics of a flagged input value.
type InjectionDetails struct {
	Field       string `json:"field"`
	Value       string `json:"value"`
	Fingerprint string `json:"fingerprint,omitempty"` // libinjection fingerprint for pattern analysis
}

type clientIPKey struct{}

// WithClientIP returns a context carrying the caller's address for audit events.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// ClientIPFromContext returns the address stored by WithClientIP, or "".
func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// SecurityAuditor screens inputs and logs security events.
// A nil *SecurityAuditor is valid and screens nothing.
type SecurityAuditor struct {
	logger *zap.Logger
}

// NewSecurityAuditor creates a new security auditor with a dedicated logger namespace.
// The logger is automatically configured with "security_audit" namespace for easy
// filtering in SIEM systems.
func NewSecurityAuditor(logger *zap.Logger) *SecurityAuditor {
	return &SecurityAuditor{logger: logger.Named("security_audit")}
}

// ScreenInput checks one free-text value and logs any match.
// It reports whether the value was flagged; callers continue either way.
func (a *SecurityAuditor) ScreenInput(ctx context.Context, field, value string) bool {
	if a == nil || value == "" {
		return false
	}

	if isSQLi, fingerprint := libinjection.IsSQLi(value); isSQLi {
		a.LogInjectionAttempt(ctx, EventSQLInjectionAttempt, InjectionDetails{
			Field:       field,
			Value:       logging.TruncateString(value, logging.MaxValueLogLength),
			Fingerprint: string(fingerprint),
		})
		return true
	}

	if libinjection.IsXSS(value) {
		a.LogInjectionAttempt(ctx, EventXSSAttempt, InjectionDetails{
			Field: field,
			Value: logging.TruncateString(value, logging.MaxValueLogLength),
		})
		return true
	}

	return false
}

// ScreenInputs screens every value under the same field name and reports
// whether any was flagged.
func (a *SecurityAuditor) ScreenInputs(ctx context.Context, field string, values []string) bool {
	flagged := false
	for _, v := range values {
		if a.ScreenInput(ctx, field, v) {
			flagged = true
		}
	}
	return flagged
}

// LogInjectionAttempt records a flagged input with full context.
// This is logged at WARN level with "warning" severity.
//
// Example usage:
//
//	auditor.LogInjectionAttempt(ctx, audit.EventSQLInjectionAttempt,
//	    audit.InjectionDetails{
//	        Field:       "genres",
//	        Value:       "' OR '1'='1",
//	        Fingerprint: "s&sos",
//	    },
//	)
func (a *SecurityAuditor) LogInjectionAttempt(ctx context.Context, eventType SecurityEventType, details InjectionDetails) {
	if a == nil {
		return
	}

	clientIP := ClientIPFromContext(ctx)

	event := SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		ClientIP:  clientIP,
		Details:   details,
		Severity:  "warning",
	}

	// Serialize event to JSON for SIEM ingestion
	// Ignoring error as marshaling known types should never fail
	eventJSON, _ := json.Marshal(event)

	a.logger.Warn("Suspicious input detected",
		zap.String("event_json", string(eventJSON)),
		zap.String("event_type", string(eventType)),
		zap.String("field", details.Field),
		zap.String("fingerprint", details.Fingerprint),
		zap.String("client_ip", clientIP),
		zap.String("severity", "warning"),
	)
}
