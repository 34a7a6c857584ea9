// internal/domain/models/project.go
package models

// Project belongs to exactly one user and is immutable once fetched.
type Project struct {
	ID          string    `json:"id"`
	Shortname   string    `json:"shortname"`
	Description string    `json:"description"`
	CreatedAt   Timestamp `json:"createdAt"`
}

// UserProjects is one entry of a batch result.
type UserProjects struct {
	Projects     []Project `json:"projects"`
	ProjectCount int       `json:"projectCount"`
}
