package auth

import "github.com/go-openapi/strfmt"

const (
	PermissionNotificationView    = "notification:view"
	PermissionNotificationCreate  = "notification:create"
	PermissionNotificationApprove = "notification:approve"
	PermissionNotificationDeny    = "notification:deny"
)

// PermissionContext is derived per request and never persisted. Permissions is
// the union across every role the caller holds in the organization.
type PermissionContext struct {
	UserID      strfmt.UUID4
	OrgID       strfmt.UUID4
	Permissions map[string]struct{}

	// Caller metadata captured for audit records.
	RemoteAddr string
	UserAgent  string
}

func NewPermissionContext(userID, orgID strfmt.UUID4, permissions []string) *PermissionContext {
	set := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		set[p] = struct{}{}
	}
	return &PermissionContext{UserID: userID, OrgID: orgID, Permissions: set}
}

func (p *PermissionContext) Has(permission string) bool {
	_, ok := p.Permissions[permission]
	return ok
}
