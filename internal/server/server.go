package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/router"
	"github.com/foodgram/backend/internal/service"
)

// Server wires the services and handlers together and owns the HTTP
// listener lifecycle.
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// New builds the server. redisClient and images may be nil: the rate
// limiter and image storage are then disabled, which is how tests and local
// development run.
func New(
	cfg *config.Config,
	db *gorm.DB,
	healthDB *database.DB,
	redisClient *redis.Client,
	images service.ImageStorage,
	logger *zap.Logger,
) *Server {
	authService := service.NewAuthService(db, cfg.JWTSecret)
	userService := service.NewUserService(db)
	catalogService := service.NewCatalogService(db)
	recipeService := service.NewRecipeService(db, images, logger)
	shoppingListService := service.NewShoppingListService(db)

	var publishLimiter *middleware.RateLimiter
	if redisClient != nil {
		publishLimiter = middleware.NewRecipePublishRateLimiter(redisClient)
	}

	engine := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewUserHandler(userService, authService),
		api.NewCatalogHandler(catalogService),
		api.NewRecipeHandler(recipeService, userService, shoppingListService, authService, publishLimiter),
		healthDB,
	)

	return &Server{
		cfg:    cfg,
		engine: engine,
		logger: logger,
	}
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start runs the HTTP listener until it fails or Shutdown is called.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:    s.cfg.ServerHost + ":" + s.cfg.ServerPort,
		Handler: s.engine,
	}

	s.logger.Info("server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
