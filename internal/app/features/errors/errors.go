// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/ramaalshaban/dashboard/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// PageData is the view model for the error page.
type PageData struct {
	viewdata.BaseVM
	Message  string
	RetryURL string
}

// ErrorLogger logs handler failures with request context and renders the
// friendly error page.
type ErrorLogger struct {
	log    *zap.Logger
	render viewdata.Renderer
}

func NewErrorLogger(logger *zap.Logger, render viewdata.Renderer) *ErrorLogger {
	if render == nil {
		render = viewdata.Templates
	}
	return &ErrorLogger{log: logger, render: render}
}

// Log records err against the request.
func (e *ErrorLogger) Log(r *http.Request, msg string, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	e.log.Error(msg, fields...)
}

// Render writes the error page with status.
func (e *ErrorLogger) Render(w http.ResponseWriter, r *http.Request, status int, title, message, backURL string) {
	w.WriteHeader(status)
	e.render.Render(w, r, "error_page", PageData{
		BaseVM:  viewdata.NewBaseVM(r, title, backURL),
		Message: message,
	})
}

// NotFound renders a 404 page pointing back to backURL.
func (e *ErrorLogger) NotFound(w http.ResponseWriter, r *http.Request, message, backURL string) {
	e.Render(w, r, http.StatusNotFound, "Not found", message, backURL)
}
