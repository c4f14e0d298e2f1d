package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"annexval/app"
	"annexval/internal"
	"annexval/internal/config"
	"annexval/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()

	manager := app.NewSessionManager(app.ManagerConfig{
		MaxSessions:     appConfig.Session.MaxSessions,
		SessionTTL:      appConfig.Session.TTL,
		SweepInterval:   appConfig.Session.SweepInterval,
		ValidationSlots: appConfig.Session.ValidationSlots,
	}, logger)
	manager.Start()

	api := ui.NewApp(ui.Config{
		Manager:        manager,
		Logger:         logger,
		MaxUploadBytes: appConfig.Upload.MaxUploadBytes,
	})

	server := &http.Server{
		Addr:    ":" + appConfig.Server.Port,
		Handler: api.Router(),
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Shutdown error: %v", err)
		}
		manager.Stop()
	}()

	logger.Info("Starting annexval server on port %s", appConfig.Server.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
	logger.Info("Server stopped")
}
