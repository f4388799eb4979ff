package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	iauth "github.com/ndemidov/campusforum/internal/auth"
	"github.com/ndemidov/campusforum/internal/handlers"
	"github.com/ndemidov/campusforum/internal/middleware"
	"github.com/ndemidov/campusforum/internal/realtime"
	"github.com/ndemidov/campusforum/internal/services"
)

// RouterConfig bundles everything the HTTP surface depends on.
type RouterConfig struct {
	Resolver *iauth.SessionResolver
	Auth     *services.AuthService
	Forum    *services.ForumService
	Stats    *services.StatsService
	Hub      *realtime.Hub

	// EnableMetrics exposes /metrics when true.
	EnableMetrics bool
}

// NewRouter assembles the gin engine: middleware chain, public routes, and
// the bearer-protected group.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if cfg.Resolver == nil {
		return nil, errors.New("router: session resolver is required")
	}

	authHandler, err := handlers.NewAuthHandler(cfg.Auth)
	if err != nil {
		return nil, err
	}
	threadHandler, err := handlers.NewThreadHandler(cfg.Forum)
	if err != nil {
		return nil, err
	}
	messageHandler, err := handlers.NewMessageHandler(cfg.Forum, cfg.Hub)
	if err != nil {
		return nil, err
	}
	statsHandler, err := handlers.NewStatsHandler(cfg.Stats)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(),
		middleware.SecurityHeaders(),
		middleware.CORS(),
	)

	router.GET("/health", handlers.Health)
	if cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := router.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/threads", threadHandler.List)
	api.GET("/threads/:id/messages", messageHandler.List)
	api.GET("/threads/:id/ws", messageHandler.Stream)
	api.GET("/stats", statsHandler.Snapshot)

	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.Resolver))
	protected.GET("/auth/me", authHandler.Me)
	protected.POST("/threads", threadHandler.Create)
	protected.POST("/threads/:id/messages", messageHandler.Create)

	return router, nil
}
