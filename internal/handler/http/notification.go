package http

import (
	"net/http"
	"strconv"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	notificationModels "github.com/victor-lby/sos-cidadao-sub000/internal/models/notification"
	"github.com/victor-lby/sos-cidadao-sub000/internal/usecase/moderation"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/errors"
)

func (h *HttpHandler) IngestNotification(c echo.Context) error {
	var param moderation.IngestParam
	if err := c.Bind(&param); err != nil {
		return writeError(c, errors.NewValidation("malformed request body"))
	}
	if err := h.validator.Struct(param); err != nil {
		return writeError(c, errors.NewValidation(err.Error()))
	}

	view, err := h.uc.Moderation.Ingest(c.Request().Context(), param, permissionContext(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dataResponse{Data: view})
}

func (h *HttpHandler) ListNotifications(c echo.Context) error {
	filter := notificationModels.Filter{
		Status:    c.QueryParam("status"),
		OriginTag: c.QueryParam("origin_tag"),
		Category:  c.QueryParam("category"),
		Limit:     queryInt(c, "limit", 50),
		Offset:    queryInt(c, "offset", 0),
	}

	views, err := h.uc.Moderation.List(c.Request().Context(), filter, permissionContext(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dataResponse{Data: views})
}

func (h *HttpHandler) GetNotification(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	view, err := h.uc.Moderation.Get(c.Request().Context(), id, permissionContext(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dataResponse{Data: view})
}

func (h *HttpHandler) ApproveNotification(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	var param moderation.ApproveParam
	if err := c.Bind(&param); err != nil {
		return writeError(c, errors.NewValidation("malformed request body"))
	}
	param.ID = id
	if err := h.validator.Struct(param); err != nil {
		return writeError(c, errors.NewValidation(err.Error()))
	}

	view, result, err := h.uc.Moderation.Approve(c.Request().Context(), param, permissionContext(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dataResponse{Data: view, Dispatch: result})
}

func (h *HttpHandler) DenyNotification(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	var param moderation.DenyParam
	if err := c.Bind(&param); err != nil {
		return writeError(c, errors.NewValidation("malformed request body"))
	}
	param.ID = id
	if err := h.validator.Struct(param); err != nil {
		return writeError(c, errors.NewValidation(err.Error()))
	}

	view, err := h.uc.Moderation.Deny(c.Request().Context(), param, permissionContext(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dataResponse{Data: view})
}

// pathID treats a malformed id as not found rather than a validation error, so
// probing with junk ids is indistinguishable from probing with foreign ones.
func pathID(c echo.Context) (strfmt.UUID4, error) {
	v := c.Param("id")
	if _, err := uuid.Parse(v); err != nil {
		return "", errors.NewNotFound("notification " + v + " not found")
	}
	return strfmt.UUID4(v), nil
}

func queryInt(c echo.Context, name string, fallback int) int {
	v := c.QueryParam(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
