// internal/domain/models/auditevent.go
package models

import "time"

// Audit event types.
const (
	AuditLoginSuccess = "login_success"
	AuditLoginFailure = "login_failure"
	AuditLogout       = "logout"
)

// AuditEvent records an authentication event against the remote API.
// The bearer token itself is never stored, only its fingerprint.
type AuditEvent struct {
	ID               string    `bson:"_id"`
	Type             string    `bson:"type"`
	TokenFingerprint string    `bson:"token_fingerprint,omitempty"`
	SessionID        string    `bson:"session_id,omitempty"`
	IP               string    `bson:"ip,omitempty"`
	Message          string    `bson:"message,omitempty"`
	CreatedAt        time.Time `bson:"created_at"`
}
