package http

import (
	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/victor-lby/sos-cidadao-sub000/configs"
	"github.com/victor-lby/sos-cidadao-sub000/internal/usecase"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/logger"
)

type HttpHandler struct {
	cfg       *configs.AppConfig
	log       logger.Logger
	validator *goValidator.Validate
	uc        *usecase.Usecase
}

func NewHttpHandler(cfg *configs.AppConfig, log logger.Logger, validator *goValidator.Validate, uc *usecase.Usecase) *HttpHandler {
	return &HttpHandler{
		cfg:       cfg,
		log:       log,
		validator: validator,
		uc:        uc,
	}
}

func (h *HttpHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/v1/notifications", h.PermissionContextMiddleware())
	g.POST("", h.IngestNotification)
	g.GET("", h.ListNotifications)
	g.GET("/:id", h.GetNotification)
	g.POST("/:id/approve", h.ApproveNotification)
	g.POST("/:id/deny", h.DenyNotification)
}
