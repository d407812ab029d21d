package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	httpHandler "github.com/victor-lby/sos-cidadao-sub000/internal/handler/http"
	loggerMiddleware "github.com/victor-lby/sos-cidadao-sub000/pkg/logger/middleware"
)

var apiServerCmd = &cobra.Command{
	Use:   "api-server",
	Short: "Runs the API server",
	Run: func(cmd *cobra.Command, args []string) {
		NewServer()
	},
}

func NewServer() {
	ctx := context.Background()
	dp := GetAppDependency()

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(loggerMiddleware.CorrelationMiddleware())
	e.Use(loggerMiddleware.LoggingMiddlewareEcho(dp.log))

	httpHandler.NewHttpHandler(dp.cfg, dp.log, dp.validator, dp.usecase).RegisterRoutes(e)

	go func() {
		address := fmt.Sprintf("%s:%d", dp.cfg.ApiServer.Host, dp.cfg.ApiServer.Port)
		if err := e.Start(address); err != nil {
			dp.log.Info("shutting down the server -> ", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	dp.log.Info("shut down started")
	if err := e.Shutdown(ctx); err != nil && err != http.ErrServerClosed {
		dp.log.Errorf("error shutting down api server: %v", err)
	}

	dp.log.Info("shut down completed")
}
