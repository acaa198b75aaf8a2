// Package server wires configuration, logging, metrics, persistence,
// sessions and the HTTP/WebSocket surfaces into one runnable server.
package server

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/termos-project/termos/internal/config"
	httpapi "github.com/termos-project/termos/internal/http"
	"github.com/termos-project/termos/internal/logging"
	"github.com/termos-project/termos/internal/monitoring"
	"github.com/termos-project/termos/internal/persist"
	"github.com/termos-project/termos/internal/session"
	"github.com/termos-project/termos/internal/ws"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	router   *gin.Engine
	sessions *session.Manager
	store    persist.Store
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// New creates a server instance from configuration.
func New(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("initializing TermOS server",
		zap.String("port", cfg.Server.Port),
		zap.Bool("persistence", cfg.Persist.Enabled),
	)

	metrics := monitoring.NewMetrics()

	var store persist.Store
	if cfg.Persist.Enabled {
		bolt, err := persist.OpenBolt(cfg.Persist.Path)
		if err != nil {
			return nil, fmt.Errorf("open persistence store: %w", err)
		}
		store = bolt
		logger.Info("persistence store opened", zap.String("path", cfg.Persist.Path))
	} else {
		store = persist.NewMemory()
	}

	sessions := session.NewManager(cfg, store, metrics, logger.Logger)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "DELETE"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))
	if cfg.RateLimit.Enabled {
		router.Use(rateLimit(cfg.RateLimit))
	}

	httpapi.NewHandler(sessions, metrics).Register(router)
	wsHandler := ws.NewHandler(sessions, metrics, logger.Logger)
	router.GET("/ws", wsHandler.HandleConnection)

	return &Server{
		router:   router,
		sessions: sessions,
		store:    store,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

// Run starts serving. Blocks until the listener fails.
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("server listening", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close releases resources.
func (s *Server) Close() error {
	_ = s.logger.Sync()
	return s.store.Close()
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler { return s.router }

// rateLimit applies a global token-bucket limit.
func rateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
