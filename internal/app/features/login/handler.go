// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	uierrors "github.com/ramaalshaban/dashboard/internal/app/features/errors"
	"github.com/ramaalshaban/dashboard/internal/app/system/auditlog"
	"github.com/ramaalshaban/dashboard/internal/app/system/auth"
	"github.com/ramaalshaban/dashboard/internal/app/system/dashboard"
	"github.com/ramaalshaban/dashboard/internal/app/system/ratelimit"
	"github.com/ramaalshaban/dashboard/internal/app/system/timeouts"
	"github.com/ramaalshaban/dashboard/internal/app/system/viewdata"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Service    *dashboard.Service
	Limiter    *ratelimit.LoginLimiter
	AuditLog   *auditlog.Logger
	ErrLog     *uierrors.ErrorLogger
	Render     viewdata.Renderer
}

func NewHandler(
	sessionMgr *auth.SessionManager,
	svc *dashboard.Service,
	limiter *ratelimit.LoginLimiter,
	auditLog *auditlog.Logger,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Service:    svc,
		Limiter:    limiter,
		AuditLog:   auditLog,
		ErrLog:     errLog,
		Render:     viewdata.Templates,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	Token     string // prefilled from the cookie after a reload
	ReturnURL string
}

// loginView collects what the controller reports during a login attempt.
type loginView struct {
	dashboard.NopView
	err string
}

func (v *loginView) ShowLoginError(msg string) { v.err = msg }

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ret := query.Get(r, "return")
	if _, ok := auth.CurrentSession(r); ok {
		http.Redirect(w, r, safeReturn(ret, "/users"), http.StatusSeeOther)
		return
	}

	token, _ := h.SessionMgr.Tokens(w, r).LoadToken()
	h.Render.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Login", "/"),
		Token:     token,
		ReturnURL: ret,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.Log(r, "parse login form failed", err)
		h.renderFormWithError(w, r, http.StatusBadRequest, "Invalid form data.", "", "")
		return
	}
	token := strings.TrimSpace(r.FormValue("token"))
	ret := r.FormValue("return")
	fp := auditlog.Fingerprint(token)

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, fp); !ok {
			h.Log.Warn("login rate limited",
				zap.String("ip", ratelimit.ClientIP(r)),
				zap.String("token_fp", fp))
			h.AuditLog.LoginFailure(r.Context(), r, token, reason)
			h.renderFormWithError(w, r, http.StatusTooManyRequests, reason, token, ret)
			return
		}
	}

	sess, err := h.SessionMgr.Begin(w, r)
	if err != nil {
		h.ErrLog.Log(r, "begin session failed", err)
		h.renderFormWithError(w, r, http.StatusInternalServerError, dashboard.MsgLoginFailed, token, ret)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Probe(), h.Log, "login probe")
	defer cancel()

	view := &loginView{}
	ctrl := h.Service.Controller(sess, h.SessionMgr.Tokens(w, r), view)
	if err := ctrl.Login(ctx, token); err != nil {
		if !errors.Is(err, dashboard.ErrEmptyToken) {
			h.AuditLog.LoginFailure(r.Context(), r, token, view.err)
		}
		h.renderFormWithError(w, r, http.StatusOK, view.err, token, ret)
		return
	}

	if h.Limiter != nil {
		h.Limiter.ResetToken(fp)
	}
	h.AuditLog.LoginSuccess(r.Context(), r, sess.ID, token)
	h.Log.Info("dashboard login", zap.String("session_id", sess.ID), zap.String("token_fp", fp))

	dest := safeReturn(ret, "/users")
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", dest)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, status int, msg, token, ret string) {
	if msg == "" {
		msg = dashboard.MsgLoginFailed
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	h.Render.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Login", "/"),
		Error:     msg,
		Token:     token,
		ReturnURL: ret,
	})
}

// safeReturn accepts only local absolute paths.
func safeReturn(ret, fallback string) string {
	if ret == "" || !strings.HasPrefix(ret, "/") || strings.HasPrefix(ret, "//") || strings.HasPrefix(ret, "/\\") {
		return fallback
	}
	return ret
}
