package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"gitlab.com/dirk.krummacker/personal-crm/internal/auth"
	"gitlab.com/dirk.krummacker/personal-crm/internal/config"
	"gitlab.com/dirk.krummacker/personal-crm/internal/database"
	"gitlab.com/dirk.krummacker/personal-crm/internal/service"
	"gitlab.com/dirk.krummacker/personal-crm/internal/store"
	"gitlab.com/dirk.krummacker/personal-crm/internal/validation"
)

// Usage example on the command line:
// > CRM_DATABASE_USER=crm CRM_DATABASE_PASSWORD=... CRM_DATABASE_SERVICE_USER=crm_service CRM_AUTH_CLIENT_ID=... CRM_AUTH_CLIENT_SECRET=... CRM_AUTH_SESSION_SECRET=... go run main.go
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("service stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg.Server.Environment)
	slog.SetDefault(logger)
	if cfg.Server.Environment == config.EnvironmentProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := auth.NewOAuthProvider(cfg)
	if err != nil {
		return err
	}
	sessions := auth.NewSessions(cfg.Auth, provider)

	s := service.New(store.New(db, validation.New()), sessions, db, logger)
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      service.SetupHttpRouter(s, cfg.Server.RequestLogging),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newLogger logs JSON in production and text everywhere else.
func newLogger(environment string) *slog.Logger {
	var handler slog.Handler
	if environment == config.EnvironmentProduction {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.New(handler).With(
		slog.String("service", "personal-crm"),
		slog.String("environment", environment),
	)
}
