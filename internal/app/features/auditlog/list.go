// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strings"
	"time"

	"github.com/ramaalshaban/dashboard/internal/app/system/timeouts"
	"github.com/ramaalshaban/dashboard/internal/app/system/viewdata"
	"github.com/ramaalshaban/dashboard/internal/domain/models"
	"go.uber.org/zap"
)

const pageSize = 50

// ServeList handles GET /audit: the most recent authentication events,
// optionally narrowed to one type.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Audit Log", "/users"),
		Types:  allTypes(),
	}
	if h.Store == nil {
		h.Render.Render(w, r, "audit_list", data)
		return
	}
	data.Enabled = true

	eventType := strings.TrimSpace(r.URL.Query().Get("type"))
	if typeLabel(eventType) == eventType {
		eventType = "" // unknown filter shows everything
	}
	data.Selected = eventType

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Projects(), h.Log, "audit log list")
	defer cancel()

	events, err := h.Store.Recent(ctx, eventType, pageSize)
	if err != nil {
		h.ErrLog.Log(r, "query audit events failed", err)
		h.ErrLog.Render(w, r, http.StatusInternalServerError, "Audit Log", "A database error occurred.", "/users")
		return
	}

	failures, err := h.Store.CountByType(ctx, models.AuditLoginFailure, time.Now().Add(-24*time.Hour))
	if err != nil {
		h.Log.Warn("count failed logins", zap.Error(err))
	}
	data.Failures24 = failures
	data.Items = items(events)

	h.Render.Render(w, r, "audit_list", data)
}

func items(events []models.AuditEvent) []listItem {
	out := make([]listItem, 0, len(events))
	for _, e := range events {
		out = append(out, listItem{
			When:        e.CreatedAt.Format(models.DisplayLayout),
			Type:        e.Type,
			TypeLabel:   typeLabel(e.Type),
			Fingerprint: e.TokenFingerprint,
			SessionID:   e.SessionID,
			IP:          e.IP,
			Message:     e.Message,
		})
	}
	return out
}
