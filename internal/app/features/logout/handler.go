// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/ramaalshaban/dashboard/internal/app/system/auditlog"
	"github.com/ramaalshaban/dashboard/internal/app/system/auth"
	"github.com/ramaalshaban/dashboard/internal/app/system/dashboard"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Service    *dashboard.Service
	AuditLog   *auditlog.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, svc *dashboard.Service, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Service:    svc,
		AuditLog:   auditLog,
	}
}

// ServeLogout handles GET and POST /logout.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := auth.CurrentSession(r); ok {
		token := sess.Token()
		// Logout clears the cached projects and the stored token.
		h.Service.Controller(sess, h.SessionMgr.Tokens(w, r), nil).Logout(r.Context())
		h.AuditLog.Logout(r.Context(), r, sess.ID, token)
		h.Log.Info("dashboard logout", zap.String("session_id", sess.ID))
	}

	// End drops the registry entry and expires the cookie; it runs for
	// anonymous sessions too so a half-finished login is discarded.
	h.SessionMgr.End(w, r)

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
