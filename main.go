package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/taskflow/internal/auth"
	"github.com/msomdec/taskflow/internal/config"
	"github.com/msomdec/taskflow/internal/handler"
	"github.com/msomdec/taskflow/internal/repository/mongodb"
	"github.com/msomdec/taskflow/internal/service"
	"github.com/msomdec/taskflow/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var logger *slog.Logger
	if cfg.Development() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	}
	slog.SetDefault(logger)

	db, err := mongodb.New(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		slog.Error("configure database client", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(ctx); err != nil {
			slog.Error("close database", "error", err)
		}
	}()

	// The server stays up when the backend is down: health reports the state
	// and data endpoints return 503 until connectivity returns.
	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.Ping(startupCtx); err != nil {
		slog.Warn("database unreachable at startup, continuing", "error", err)
	} else if err := db.EnsureIndexes(startupCtx); err != nil {
		slog.Error("create indexes", "error", err)
		cancel()
		os.Exit(1)
	} else {
		slog.Info("database connected, indexes ensured")
	}
	cancel()

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	svc := handler.Services{
		Auth:  service.NewAuthService(db.Users(), issuer, cfg.BcryptCost),
		Users: service.NewUserService(db.Users()),
		Tasks: service.NewTaskService(db.Tasks()),
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, svc, validation.New(), db, cfg.Development())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.SecurityHeaders(handler.CORS(cfg.AllowedOrigin, handler.RequestLogger(mux))),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
