// internal/app/features/users/counts.go
package users

import (
	"encoding/json"
	"net/http"

	"github.com/ramaalshaban/dashboard/internal/app/system/auth"
	"go.uber.org/zap"
)

// ServeCounts handles GET /users/counts with {userId: label} for the
// current list.
func (h *Handler) ServeCounts(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.CurrentSession(r)
	if !ok {
		auth.RedirectToLogin(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(h.controller(w, r, sess, nil).ProjectCounts()); err != nil {
		h.Log.Warn("encode project counts failed", zap.Error(err))
	}
}
