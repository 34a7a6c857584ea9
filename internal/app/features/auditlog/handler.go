// internal/app/features/auditlog/handler.go
package auditlog

import (
	uierrors "github.com/ramaalshaban/dashboard/internal/app/features/errors"
	"github.com/ramaalshaban/dashboard/internal/app/store/audit"
	"github.com/ramaalshaban/dashboard/internal/app/system/viewdata"
	"go.uber.org/zap"
)

type Handler struct {
	Store  *audit.Store // nil when no database is configured
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Render viewdata.Renderer
}

// NewHandler constructs the audit trail handler.
func NewHandler(store *audit.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:  store,
		Log:    logger,
		ErrLog: errLog,
		Render: viewdata.Templates,
	}
}
