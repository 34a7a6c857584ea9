// internal/app/features/auditlog/types.go
package auditlog

import (
	"github.com/ramaalshaban/dashboard/internal/app/system/viewdata"
	"github.com/ramaalshaban/dashboard/internal/domain/models"
)

type typeOption struct {
	Value string
	Label string
}

type listItem struct {
	When        string
	Type        string
	TypeLabel   string
	Fingerprint string
	SessionID   string
	IP          string
	Message     string
}

type listData struct {
	viewdata.BaseVM
	Enabled    bool
	Types      []typeOption
	Selected   string
	Items      []listItem
	Failures24 int64
}

func allTypes() []typeOption {
	return []typeOption{
		{Value: models.AuditLoginSuccess, Label: "Login"},
		{Value: models.AuditLoginFailure, Label: "Failed login"},
		{Value: models.AuditLogout, Label: "Logout"},
	}
}

func typeLabel(t string) string {
	for _, o := range allTypes() {
		if o.Value == t {
			return o.Label
		}
	}
	return t
}
