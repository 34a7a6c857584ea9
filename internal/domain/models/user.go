// internal/domain/models/user.go
package models

import "unicode"

// User is an account returned by the remote users endpoint.
//
// Users are immutable once fetched; the dashboard replaces the whole set on
// every refresh rather than patching individual entries.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt Timestamp `json:"createdAt"`
}

// Initial returns the upper-cased first letter of the user's name, or "?".
func (u User) Initial() string {
	for _, r := range u.Name {
		return string(unicode.ToUpper(r))
	}
	return "?"
}
