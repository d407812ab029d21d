package moderation

import (
	"net/http"

	"github.com/go-openapi/strfmt"

	authModels "github.com/victor-lby/sos-cidadao-sub000/internal/models/auth"
	notificationModels "github.com/victor-lby/sos-cidadao-sub000/internal/models/notification"
)

const notificationsBasePath = "/v1/notifications"

type Link struct {
	Href   string `json:"href"`
	Method string `json:"method,omitempty"`
}

// Links are the actions currently available to the caller for one
// notification. Approve and Deny only appear when the status and the caller's
// permissions jointly allow them.
type Links struct {
	Self    Link  `json:"self"`
	Approve *Link `json:"approve,omitempty"`
	Deny    *Link `json:"deny,omitempty"`
}

// BuildLinks is a pure function of (status, permission set). It is recomputed
// on every read so two viewers of the same notification with different
// permissions each get their own affordances; the result must never be cached
// by notification id alone.
func BuildLinks(id strfmt.UUID4, status string, pctx *authModels.PermissionContext) Links {
	self := notificationsBasePath + "/" + string(id)
	links := Links{
		Self: Link{Href: self, Method: http.MethodGet},
	}

	if status != notificationModels.StatusReceived {
		return links
	}
	if pctx.Has(authModels.PermissionNotificationApprove) {
		links.Approve = &Link{Href: self + "/approve", Method: http.MethodPost}
	}
	if pctx.Has(authModels.PermissionNotificationDeny) {
		links.Deny = &Link{Href: self + "/deny", Method: http.MethodPost}
	}
	return links
}
