// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"encoding/hex"
	"net/http"

	"github.com/ramaalshaban/dashboard/internal/app/store/audit"
	"github.com/ramaalshaban/dashboard/internal/app/system/ratelimit"
	"github.com/ramaalshaban/dashboard/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// Modes select where events go.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off"
)

// Logger records login and logout events. A nil *Logger is a no-op, and a
// Logger without a store only writes to zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	mode   string
}

func New(store *audit.Store, zapLog *zap.Logger, mode string) *Logger {
	switch mode {
	case ModeAll, ModeDB, ModeLog, ModeOff:
	default:
		mode = ModeAll
	}
	return &Logger{store: store, zapLog: zapLog, mode: mode}
}

// Fingerprint identifies a bearer token in logs and audit records without
// revealing it: the first 8 bytes of its BLAKE2b-256 digest, hex encoded.
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

// Log records event according to the configured mode.
func (l *Logger) Log(ctx context.Context, event models.AuditEvent) {
	if l == nil || l.mode == ModeOff {
		return
	}

	if l.mode == ModeAll || l.mode == ModeLog || l.store == nil {
		fields := []zap.Field{
			zap.Bool("audit", true),
			zap.String("event_type", event.Type),
			zap.String("ip", event.IP),
		}
		if event.TokenFingerprint != "" {
			fields = append(fields, zap.String("token_fp", event.TokenFingerprint))
		}
		if event.SessionID != "" {
			fields = append(fields, zap.String("session_id", event.SessionID))
		}
		if event.Message != "" {
			fields = append(fields, zap.String("message", event.Message))
		}
		if event.Type == models.AuditLoginFailure {
			l.zapLog.Warn("audit event", fields...)
		} else {
			l.zapLog.Info("audit event", fields...)
		}
	}

	if (l.mode == ModeAll || l.mode == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.Type))
		}
	}
}

func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, sessionID, token string) {
	l.Log(ctx, models.AuditEvent{
		Type:             models.AuditLoginSuccess,
		TokenFingerprint: Fingerprint(token),
		SessionID:        sessionID,
		IP:               ratelimit.ClientIP(r),
	})
}

// LoginFailure records a rejected token; message is the text shown to the user.
func (l *Logger) LoginFailure(ctx context.Context, r *http.Request, token, message string) {
	l.Log(ctx, models.AuditEvent{
		Type:             models.AuditLoginFailure,
		TokenFingerprint: Fingerprint(token),
		IP:               ratelimit.ClientIP(r),
		Message:          message,
	})
}

func (l *Logger) Logout(ctx context.Context, r *http.Request, sessionID, token string) {
	l.Log(ctx, models.AuditEvent{
		Type:             models.AuditLogout,
		TokenFingerprint: Fingerprint(token),
		SessionID:        sessionID,
		IP:               ratelimit.ClientIP(r),
	})
}
