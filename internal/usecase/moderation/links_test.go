package moderation

import (
	"reflect"
	"testing"

	"github.com/go-openapi/strfmt"

	authModels "github.com/victor-lby/sos-cidadao-sub000/internal/models/auth"
	notificationModels "github.com/victor-lby/sos-cidadao-sub000/internal/models/notification"
)

func TestBuildLinks(t *testing.T) {
	id := strfmt.UUID4("44444444-4444-4444-8444-444444444444")

	tests := []struct {
		name        string
		status      string
		permissions []string
		wantApprove bool
		wantDeny    bool
	}{
		{"moderator sees both on received", notificationModels.StatusReceived,
			[]string{authModels.PermissionNotificationApprove, authModels.PermissionNotificationDeny}, true, true},
		{"approver only", notificationModels.StatusReceived,
			[]string{authModels.PermissionNotificationApprove}, true, false},
		{"viewer sees neither", notificationModels.StatusReceived,
			[]string{authModels.PermissionNotificationView}, false, false},
		{"no affordances on approved", notificationModels.StatusApproved,
			[]string{authModels.PermissionNotificationApprove, authModels.PermissionNotificationDeny}, false, false},
		{"no affordances on denied", notificationModels.StatusDenied,
			[]string{authModels.PermissionNotificationApprove}, false, false},
		{"no affordances on dispatched", notificationModels.StatusDispatched,
			[]string{authModels.PermissionNotificationApprove}, false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pctx := authModels.NewPermissionContext(userMod, orgT1, tc.permissions)
			links := BuildLinks(id, tc.status, pctx)

			if links.Self.Href == "" {
				t.Fatal("self link missing")
			}
			if got := links.Approve != nil; got != tc.wantApprove {
				t.Fatalf("approve link present=%v, want %v", got, tc.wantApprove)
			}
			if got := links.Deny != nil; got != tc.wantDeny {
				t.Fatalf("deny link present=%v, want %v", got, tc.wantDeny)
			}
		})
	}
}

func TestBuildLinks_Deterministic(t *testing.T) {
	id := strfmt.UUID4("44444444-4444-4444-8444-444444444444")
	pctx := authModels.NewPermissionContext(userMod, orgT1,
		[]string{authModels.PermissionNotificationApprove, authModels.PermissionNotificationDeny})

	first := BuildLinks(id, notificationModels.StatusReceived, pctx)
	second := BuildLinks(id, notificationModels.StatusReceived, pctx)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same input produced different links: %+v vs %+v", first, second)
	}
}
