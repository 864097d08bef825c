// File: bookery/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookery/backend"
	"bookery/config"
	"bookery/handlers"
	"bookery/middleware"
	"bookery/routes"
	"bookery/services/booking"
	"bookery/session"
	"bookery/templates"
	"bookery/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	zap.ReplaceGlobals(logger)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RequestIDMiddleware())

	tmpl, err := templates.Parse()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to parse templates: %v", err)
	}
	router.SetHTMLTemplate(tmpl)

	// The backend client, cookie store and per-user calendar flows.
	client := backend.NewClient(config.AppConfig.BackendURL, logger)
	store := session.CookieStore{Secure: config.AppConfig.CookieSecure}
	flows := booking.NewRegistry(client, config.AppConfig.ProviderID, logger)

	h := handlers.New(client, store, flows, logger)
	routes.RegisterRoutes(router, h)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "3000"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
