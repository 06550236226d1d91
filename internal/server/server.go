package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/votebox/internal/config"
	"github.com/emilythestrangee/votebox/internal/handlers"
	"github.com/emilythestrangee/votebox/internal/middleware"
	"github.com/emilythestrangee/votebox/internal/store"
)

// HealthChecker reports backing store health. *database.Database satisfies it.
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

type Server struct {
	cfg     config.Config
	handler *handlers.Handler
	health  HealthChecker
	log     *logrus.Logger
}

// New wires the handlers over st. health may be nil when the store has no
// external dependency to check.
func New(cfg config.Config, st store.Store, health HealthChecker, log *logrus.Logger) *Server {
	return &Server{
		cfg:     cfg,
		handler: handlers.NewHandler(st),
		health:  health,
		log:     log,
	}
}

// HTTPServer creates the *http.Server listening on the configured port
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         "0.0.0.0:" + s.cfg.Port,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	gin.SetMode(s.cfg.GinMode)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(s.log),
		middleware.Recovery(),
		cors.New(s.corsConfig()),
	)

	r.GET("/health", s.healthHandler)

	r.POST("/addvote", s.handler.Topic.CreateTopic)
	r.POST("/vote", s.handler.Vote.CastVote)
	r.GET("/getvote", s.handler.Query.GetVote)
	r.GET("/status", s.handler.Query.Status)

	return r
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Accept", "Content-Type", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(s.cfg.CORSOrigins) == 0 || (len(s.cfg.CORSOrigins) == 1 && s.cfg.CORSOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.cfg.CORSOrigins
	}
	return cfg
}

func (s *Server) healthHandler(c *gin.Context) {
	if s.health == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "store": s.cfg.StoreBackend})
		return
	}

	stats := s.health.Health(c.Request.Context())
	if stats["status"] != "up" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "db": stats})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "db": stats})
}
