package web

import (
	"context"
	"net/http"

	"canned-answers/cache"
	"canned-answers/config"
	"canned-answers/database"
	"canned-answers/meetings"
	"canned-answers/web/handlers"
	"canned-answers/web/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	router   *gin.Engine
	store    *database.PostgresStore
	resolver *meetings.Resolver
	canned   *cache.CannedCache
	freeform *cache.FreeformCache
	logger   *zap.Logger
	config   *config.Config
}

func NewServer(store *database.PostgresStore, resolver *meetings.Resolver, canned *cache.CannedCache, freeform *cache.FreeformCache, logger *zap.Logger, config *config.Config) *Server {
	// Set Gin mode based on environment
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(func(c *gin.Context) {
		// Add logger to context
		c.Set("logger", logger)
		c.Next()
	})

	router.LoadHTMLGlob("web/templates/*.html")

	server := &Server{
		router:   router,
		store:    store,
		resolver: resolver,
		canned:   canned,
		freeform: freeform,
		logger:   logger,
		config:   config,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		RequestsPerMinute: s.config.RateLimitPerMin,
		BurstSize:         s.config.RateLimitBurstSize,
	}, s.logger)

	cannedHandler := handlers.NewCannedHandler(s.canned, s.logger)
	freeformHandler := handlers.NewFreeformHandler(s.freeform, s.config.MatchThreshold, s.logger)
	dayHandler := handlers.NewDayHandler(s.store, s.resolver, s.logger)

	// Healthcheck
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Cache API
	api := s.router.Group("/", rateLimiter.Middleware())
	api.GET("/canned", cannedHandler.Get)
	api.POST("/canned", cannedHandler.Create)
	api.POST("/freeform", freeformHandler.Submit)
	api.GET("/freeform/match", freeformHandler.Match)

	// Human-facing day view
	s.router.GET("/ui/day", dayHandler.Day)
}

func (s *Server) Start(ctx context.Context, addr string) error {
	s.logger.Info("Starting web server", zap.String("address", addr))

	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Web server failed to start", zap.Error(err))
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	s.logger.Info("Shutting down web server")
	return srv.Shutdown(context.Background())
}
