package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"messagely/internal/auth"
	"messagely/internal/middleware"
	"messagely/internal/observability"
	"messagely/internal/repositories"
	"messagely/internal/telemetry"
)

// RouterDeps collects everything the HTTP surface needs.
type RouterDeps struct {
	ServiceName string
	Logger      *slog.Logger
	Auth        *auth.Service
	Credentials *auth.CredentialStore
	Messages    repositories.MessageRepository
	Notifier    Notifier
	Events      *telemetry.Events
	Audit       *telemetry.AuditEmitter
	DB          Pinger
	WebSocket   gin.HandlerFunc
	DebugRoutes bool
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		otelgin.Middleware(deps.ServiceName),
		middleware.RequestID(),
		middleware.Logger(logger),
		observability.HTTPMetricsMiddleware(),
	)

	authHandler := NewAuthHandler(deps.Auth, deps.Audit)
	for _, prefix := range []string{"/auth", ""} {
		router.POST(prefix+"/login", authHandler.Login)
		router.POST(prefix+"/register", authHandler.Register)
	}

	requireAuth := middleware.RequireAuth(deps.Auth)

	messageHandler := NewMessageHandler(deps.Messages, deps.Notifier, deps.Events)
	messages := router.Group("/messages", requireAuth)
	messages.GET("/:id", messageHandler.Get)
	messages.POST("", messageHandler.Send)
	messages.POST("/:id/read", messageHandler.MarkRead)

	userHandler := NewUserHandler(deps.Credentials, deps.Messages)
	users := router.Group("/users", requireAuth)
	users.GET("", userHandler.List)
	correctUser := users.Group("/:username", EnsureCorrectUser())
	correctUser.GET("", userHandler.Get)
	correctUser.GET("/to", userHandler.To)
	correctUser.GET("/from", userHandler.From)

	if deps.WebSocket != nil {
		router.GET("/ws", deps.WebSocket)
	}
	if deps.DB != nil {
		router.GET("/healthz", Health(deps.DB))
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	RegisterDebugRoutes(router, deps.Audit, deps.DebugRoutes)

	return router
}
