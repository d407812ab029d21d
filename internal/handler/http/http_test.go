package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/go-openapi/strfmt"
	"github.com/labstack/echo/v4"

	"github.com/victor-lby/sos-cidadao-sub000/configs"
	authModels "github.com/victor-lby/sos-cidadao-sub000/internal/models/auth"
	notificationModels "github.com/victor-lby/sos-cidadao-sub000/internal/models/notification"
	"github.com/victor-lby/sos-cidadao-sub000/internal/usecase"
	"github.com/victor-lby/sos-cidadao-sub000/internal/usecase/dispatch"
	"github.com/victor-lby/sos-cidadao-sub000/internal/usecase/moderation"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/errors"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/logger"
)

var (
	orgID    = "11111111-1111-4111-8111-111111111111"
	callerID = "33333333-3333-4333-8333-333333333333"
)

type authFake struct {
	permissions []string
	err         error
}

func (f *authFake) Resolve(ctx context.Context, orgID, userID strfmt.UUID4) (*authModels.PermissionContext, error) {
	if f.err != nil {
		return nil, f.err
	}
	return authModels.NewPermissionContext(userID, orgID, f.permissions), nil
}

type moderationFake struct {
	getErr error
	view   *moderation.View
}

func (f *moderationFake) Get(ctx context.Context, id strfmt.UUID4, pctx *authModels.PermissionContext) (*moderation.View, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.view, nil
}

func (f *moderationFake) List(ctx context.Context, filter notificationModels.Filter, pctx *authModels.PermissionContext) ([]moderation.View, error) {
	return nil, nil
}

func (f *moderationFake) Ingest(ctx context.Context, param moderation.IngestParam, pctx *authModels.PermissionContext) (*moderation.View, error) {
	return f.view, nil
}

func (f *moderationFake) Approve(ctx context.Context, param moderation.ApproveParam, pctx *authModels.PermissionContext) (*moderation.View, *dispatch.Result, error) {
	return f.view, &dispatch.Result{}, nil
}

func (f *moderationFake) Deny(ctx context.Context, param moderation.DenyParam, pctx *authModels.PermissionContext) (*moderation.View, error) {
	return f.view, nil
}

func newTestServer(auth *authFake, mod *moderationFake) *echo.Echo {
	log := logger.Init(logger.Options{Output: logger.OutputStdout, Formatter: logger.FormatJSON, Level: logger.LevelError})
	uc := &usecase.Usecase{Auth: auth, Moderation: mod}
	h := NewHttpHandler(&configs.AppConfig{}, log, goValidator.New(), uc)
	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func doRequest(e *echo.Echo, method, path string, body string, withIdentity bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if withIdentity {
		req.Header.Set(HeaderCallerID, callerID)
		req.Header.Set(HeaderOrgID, orgID)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMissingIdentityHeaders(t *testing.T) {
	e := newTestServer(&authFake{}, &moderationFake{})

	rec := doRequest(e, http.MethodGet, "/v1/notifications", "", false)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: %d", rec.Code)
	}
}

func TestNoRoleBinding(t *testing.T) {
	e := newTestServer(&authFake{err: errors.NewAuthorization("no role binding in organization")}, &moderationFake{})

	rec := doRequest(e, http.MethodGet, "/v1/notifications", "", true)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: %d", rec.Code)
	}
}

func TestGetNotFoundMapsTo404(t *testing.T) {
	mod := &moderationFake{getErr: errors.NewNotFound("notification not found")}
	e := newTestServer(&authFake{permissions: []string{authModels.PermissionNotificationView}}, mod)

	rec := doRequest(e, http.MethodGet, "/v1/notifications/"+callerID, "", true)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: %d", rec.Code)
	}
}

func TestMalformedIDBehavesAsNotFound(t *testing.T) {
	e := newTestServer(&authFake{permissions: []string{authModels.PermissionNotificationView}}, &moderationFake{})

	rec := doRequest(e, http.MethodGet, "/v1/notifications/not-a-uuid", "", true)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: %d", rec.Code)
	}
}

func TestApproveValidatesBody(t *testing.T) {
	e := newTestServer(&authFake{permissions: []string{authModels.PermissionNotificationApprove}}, &moderationFake{})

	// Missing targets and categories.
	rec := doRequest(e, http.MethodPost, "/v1/notifications/"+callerID+"/approve", `{"version":1}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", rec.Code)
	}
}

func TestStatusForKind(t *testing.T) {
	tests := []struct {
		kind errors.Kind
		want int
	}{
		{errors.KindAuthorization, http.StatusForbidden},
		{errors.KindValidation, http.StatusBadRequest},
		{errors.KindInvalidStateTransition, http.StatusConflict},
		{errors.KindConcurrentModification, http.StatusConflict},
		{errors.KindNotFound, http.StatusNotFound},
		{errors.KindInternal, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := statusForKind(tc.kind); got != tc.want {
			t.Fatalf("%s: got %d, want %d", tc.kind, got, tc.want)
		}
	}
}
