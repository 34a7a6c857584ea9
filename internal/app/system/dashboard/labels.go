// internal/app/system/dashboard/labels.go
package dashboard

import "strconv"

// CountLabel renders a project count: "1 project", otherwise "<n> projects".
func CountLabel(n int) string {
	if n == 1 {
		return "1 project"
	}
	return strconv.Itoa(n) + " projects"
}

// Fallback text for fields the API left empty.
const (
	NoDate          = "No date available"
	UntitledProject = "Untitled Project"
	NoProjectID     = "No project ID available"
	NoDescription   = "No description available"
)
