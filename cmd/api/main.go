package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/server"
	"github.com/foodgram/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog := logger.New(config.IsProduction())
	defer zlog.Sync()

	db, err := database.NewGorm(cfg)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}

	healthDB, err := database.New(cfg)
	if err != nil {
		zlog.Fatal("failed to open health-check connection", zap.Error(err))
	}
	defer healthDB.Close()

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		// The API works without the rate limiter; production config
		// validation already insisted on Redis being reachable there.
		zlog.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
		redisClient = nil
	}

	var images service.ImageStorage
	if s3cfg, err := config.NewS3Config(context.Background()); err != nil {
		zlog.Warn("s3 unavailable, image storage disabled", zap.Error(err))
	} else {
		if err := s3cfg.SetupBucketPolicy(context.Background()); err != nil {
			zlog.Warn("failed to apply bucket policy", zap.Error(err))
		}
		images = service.NewS3ImageStorage(s3cfg)
	}

	srv := server.New(cfg, db, healthDB, redisClient, images, zlog)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			zlog.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		zlog.Info("received signal", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatal("server shutdown error", zap.Error(err))
	}
	zlog.Info("server stopped")
}
