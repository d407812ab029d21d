package http

import (
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	authModels "github.com/victor-lby/sos-cidadao-sub000/internal/models/auth"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/errors"
)

// The gateway in front of this service authenticates callers and forwards the
// validated identity in these headers. This core only consumes them.
const (
	HeaderCallerID = "X-Caller-ID"
	HeaderOrgID    = "X-Org-ID"
)

const permissionContextKey = "permission_context"

// PermissionContextMiddleware derives the caller's effective permission set
// for the requested org on every request. Derivation is cheap and never
// cached here, so a revoked role takes effect on the next call.
func (h *HttpHandler) PermissionContextMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			callerID, err := headerUUID(c, HeaderCallerID)
			if err != nil {
				return writeError(c, err)
			}
			orgID, err := headerUUID(c, HeaderOrgID)
			if err != nil {
				return writeError(c, err)
			}

			pctx, err := h.uc.Auth.Resolve(c.Request().Context(), orgID, callerID)
			if err != nil {
				return writeError(c, err)
			}
			pctx.RemoteAddr = c.RealIP()
			pctx.UserAgent = c.Request().UserAgent()

			c.Set(permissionContextKey, pctx)
			return next(c)
		}
	}
}

func headerUUID(c echo.Context, header string) (strfmt.UUID4, error) {
	v := c.Request().Header.Get(header)
	if v == "" {
		return "", errors.NewAuthorization("missing " + header + " header")
	}
	if _, err := uuid.Parse(v); err != nil {
		return "", errors.NewAuthorization("malformed " + header + " header")
	}
	return strfmt.UUID4(v), nil
}

func permissionContext(c echo.Context) *authModels.PermissionContext {
	pctx, _ := c.Get(permissionContextKey).(*authModels.PermissionContext)
	return pctx
}
