// internal/app/features/users/handler.go
package users

import (
	"net/http"

	uierrors "github.com/ramaalshaban/dashboard/internal/app/features/errors"
	"github.com/ramaalshaban/dashboard/internal/app/system/auth"
	"github.com/ramaalshaban/dashboard/internal/app/system/dashboard"
	"github.com/ramaalshaban/dashboard/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// Handler serves the user list, a user's projects and the count feed.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Service    *dashboard.Service
	ErrLog     *uierrors.ErrorLogger
	Render     viewdata.Renderer
}

func NewHandler(sessionMgr *auth.SessionManager, svc *dashboard.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Service:    svc,
		ErrLog:     errLog,
		Render:     viewdata.Templates,
	}
}

func (h *Handler) controller(w http.ResponseWriter, r *http.Request, sess *dashboard.Session, view dashboard.View) *dashboard.Controller {
	return h.Service.Controller(sess, h.SessionMgr.Tokens(w, r), view)
}
