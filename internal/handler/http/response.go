package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/victor-lby/sos-cidadao-sub000/pkg/errors"
)

type errorResponse struct {
	Error   errors.Kind `json:"error"`
	Message string      `json:"message"`
}

type dataResponse struct {
	Data     interface{} `json:"data"`
	Dispatch interface{} `json:"dispatch,omitempty"`
}

func writeError(c echo.Context, err error) error {
	kind := errors.KindOf(err)
	return c.JSON(statusForKind(kind), errorResponse{
		Error:   kind,
		Message: err.Error(),
	})
}

func statusForKind(kind errors.Kind) int {
	switch kind {
	case errors.KindAuthorization:
		return http.StatusForbidden
	case errors.KindValidation:
		return http.StatusBadRequest
	case errors.KindInvalidStateTransition:
		return http.StatusConflict
	case errors.KindConcurrentModification:
		return http.StatusConflict
	case errors.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
