package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/victor-lby/sos-cidadao-sub000/pkg/logger"
)

// CorrelationMiddleware copies the request id assigned by echo's RequestID
// middleware into the request context, so usecases and audit records share the
// same correlation id as the access log.
func CorrelationMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = c.Request().Header.Get(echo.HeaderXRequestID)
			}
			ctx := logger.WithCorrelationID(c.Request().Context(), rid)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// LoggingMiddlewareEcho logs one line per request with method, path, status
// and latency.
func LoggingMiddlewareEcho(log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			log.InfoWithContext(req.Context(),
				req.Method, " ", req.URL.Path, " ", c.Response().Status, " ", time.Since(start))
			return err
		}
	}
}
