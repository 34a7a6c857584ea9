// internal/app/features/heartbeat/routes.go
package heartbeat

import "github.com/go-chi/chi/v5"

// Routes returns the heartbeat router, mounted under /api/heartbeat.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeHeartbeat)
	return r
}
