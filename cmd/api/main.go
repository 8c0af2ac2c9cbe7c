package main

// @title Country Explorer API
// @version 1.0.0
// @description Backend for the country explorer client. Provides account
// @description registration and login, per-user favorite countries, and a
// @description cached proxy over the public country directory and its GeoJSON
// @description boundary dataset.

// @contact.name API Support
// @contact.email support@country-explorer.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5001
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/country-explorer/docs/swagger"
	"github.com/country-explorer/internal/config"
	httpDelivery "github.com/country-explorer/internal/delivery/http"
	"github.com/country-explorer/internal/delivery/http/handler"
	"github.com/country-explorer/internal/infrastructure/restcountries"
	"github.com/country-explorer/internal/pkg/logger"
	"github.com/country-explorer/internal/pkg/token"
	"github.com/country-explorer/internal/repository/cache"
	"github.com/country-explorer/internal/repository/postgres"
	"github.com/country-explorer/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Country Explorer API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()
	log.Info("PostgreSQL connected")

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()
	log.Info("Redis connected")

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}

	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Initialize repositories
	userRepo := postgres.NewUserRepository(db, log)
	favoriteRepo := postgres.NewFavoriteRepository(db, log)
	cacheRepo := cache.NewCacheRepository(redisClient)
	directoryRepo := restcountries.NewClient(&cfg.Directory, log)

	log.Info("Repositories initialized")

	// 7. Initialize token manager and use cases
	tokens, err := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal("Failed to initialize token manager", zap.Error(err))
	}

	authUC := usecase.NewAuthUseCase(userRepo, tokens, log)
	favoritesUC := usecase.NewFavoritesUseCase(favoriteRepo, log)
	directoryUC := usecase.NewDirectoryUseCase(
		directoryRepo,
		cacheRepo,
		log,
		cfg.Cache.CountriesCacheTTL,
		cfg.Cache.GeometryCacheTTL,
	)

	log.Info("Use cases initialized")

	// 8. Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authUC, log)
	favoritesHandler := handler.NewFavoritesHandler(favoritesUC, log)
	countryHandler := handler.NewCountryHandler(directoryUC, log)

	log.Info("HTTP handlers initialized")

	// 9. Initialize HTTP server
	server := httpDelivery.NewServer(
		cfg,
		log,
		authHandler,
		favoritesHandler,
		countryHandler,
		tokens,
		userRepo,
	)

	log.Info("HTTP server initialized")

	// 10. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
