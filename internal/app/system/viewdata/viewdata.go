// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/gorilla/csrf"
	"github.com/ramaalshaban/dashboard/internal/app/system/auth"
)

// SiteName is shown in every page title.
const SiteName = "Project Dashboard"

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
//	data := listData{
//	    BaseVM: viewdata.NewBaseVM(r, "Users", "/users"),
//	}
type BaseVM struct {
	SiteName    string
	Title       string
	BackURL     string
	CurrentPath string
	IsLoggedIn  bool
	CSRFToken   string
}

// NewBaseVM fills the common fields from the request.
func NewBaseVM(r *http.Request, title, backURL string) BaseVM {
	_, signedIn := auth.CurrentSession(r)
	return BaseVM{
		SiteName:    SiteName,
		Title:       title,
		BackURL:     backURL,
		CurrentPath: r.URL.Path,
		IsLoggedIn:  signedIn,
		CSRFToken:   csrf.Token(r),
	}
}

// Renderer writes a named template. Handlers take one so tests can capture
// the view model without booting the template engine.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, name string, data any)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(w http.ResponseWriter, r *http.Request, name string, data any)

func (f RendererFunc) Render(w http.ResponseWriter, r *http.Request, name string, data any) {
	f(w, r, name, data)
}

// Templates renders through the booted waffle template engine.
var Templates Renderer = RendererFunc(func(w http.ResponseWriter, r *http.Request, name string, data any) {
	templates.Render(w, r, name, data)
})
