package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pet-care-log/internal/adapters/auth/odin"
	"pet-care-log/internal/middleware"
	"pet-care-log/internal/platform/logger"
	"pet-care-log/internal/ports/auth"
	"pet-care-log/internal/router"
)

// @title Pet Care Log API
// @version 0.1
// @description Remote store del registro de cuidados: mascotas, logs y fotos.
// @BasePath /
func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	// sin ODIN_BASE_URL queda en modo dev (X-Debug-User-ID)
	var verifier auth.AuthVerifier
	client := odin.NewClient(odin.Config{
		BaseURL: os.Getenv("ODIN_BASE_URL"),
		APIKey:  os.Getenv("ODIN_API_KEY"),
	})
	if client.IsConfigured() {
		verifier = odin.NewVerifier(client)
		log.Info("auth mode", map[string]any{"mode": "odin"})
	} else {
		log.Warn("auth mode", map[string]any{"mode": "dev", "header": middleware.DebugUserHeader})
	}

	publicBase := os.Getenv("PUBLIC_BASE_URL")
	if strings.TrimSpace(publicBase) == "" {
		publicBase = "http://localhost" + addr
	}

	r := router.NewRouter(router.Options{
		AuthVerifier:  verifier,
		PublicBaseURL: publicBase,
		Logger:        log,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", map[string]any{"error": err})
		os.Exit(1)
	}
	log.Info("server stopped", nil)
}
