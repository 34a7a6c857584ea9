// internal/app/features/heartbeat/handler.go
package heartbeat

import (
	"encoding/json"
	"net/http"

	"github.com/ramaalshaban/dashboard/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler answers heartbeat pings from open dashboard pages. Loading the
// session already marks it active, so an open tab is never swept as idle.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

type heartbeatResponse struct {
	Active bool `json:"active"`
	Users  int  `json:"users,omitempty"`
}

// ServeHeartbeat handles POST /api/heartbeat.
func (h *Handler) ServeHeartbeat(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	sess, ok := auth.CurrentSession(r)
	if !ok {
		// The page should send the visitor back to login.
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(heartbeatResponse{})
		return
	}

	h.Log.Debug("heartbeat", zap.String("session_id", sess.ID))
	_ = json.NewEncoder(w).Encode(heartbeatResponse{Active: true, Users: len(sess.Users())})
}
