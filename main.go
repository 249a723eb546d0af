package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"messagely/internal/auth"
	"messagely/internal/config"
	"messagely/internal/db"
	"messagely/internal/handlers"
	"messagely/internal/observability"
	"messagely/internal/rabbitmq"
	"messagely/internal/repositories"
	"messagely/internal/telemetry"
	"messagely/internal/ws"
)

func main() {
	if err := run(); err != nil {
		slog.Error("messagely stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(os.Stdout, cfg.LogLevel, cfg.IsProduction())
	slog.SetDefault(logger)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName:  cfg.ServiceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Warn("tracing shutdown failed", "error", err)
		}
	}()

	database, err := db.Connect(ctx, db.Options{
		DSN:          cfg.DatabaseDSN,
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		return err
	}
	defer database.Close()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	slog.Info("event publisher ready", "mode", rabbitmq.PublisherMode(publisher), "reason", rabbitmq.PublisherNoopReason(publisher))

	events := telemetry.NewEvents(publisher, cfg.ServiceName)
	audit := telemetry.NewAuditEmitter(publisher, telemetry.RoutingAudit, cfg.ServiceName, cfg.Environment)

	hasher, err := auth.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		return err
	}
	userRepo := repositories.NewUserRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	creds, err := auth.NewCredentialStore(userRepo, hasher)
	if err != nil {
		return err
	}
	authService := auth.NewService(creds, auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL), events)

	hub := ws.NewHub(events)
	router := handlers.NewRouter(handlers.RouterDeps{
		ServiceName: cfg.ServiceName,
		Logger:      logger,
		Auth:        authService,
		Credentials: creds,
		Messages:    messageRepo,
		Notifier:    hub,
		Events:      events,
		Audit:       audit,
		DB:          database,
		WebSocket:   ws.NewHandler(hub, authService, events).Handle,
		DebugRoutes: cfg.DebugRoutes,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", server.Addr, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
