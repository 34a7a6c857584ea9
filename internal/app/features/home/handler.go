package home

import (
	"net/http"

	"github.com/ramaalshaban/dashboard/internal/app/system/auth"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – send the visitor where they belong                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeRoot redirects signed-in sessions to the user list and everyone else
// to the login form.
func ServeRoot(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentSession(r); ok {
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
