package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/country-explorer/internal/config"
	"github.com/country-explorer/internal/delivery/http/handler"
	"github.com/country-explorer/internal/delivery/http/middleware"
	"github.com/country-explorer/internal/domain/repository"
	"github.com/country-explorer/internal/pkg/token"
)

// Server - HTTP server on top of Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	authHandler      *handler.AuthHandler
	favoritesHandler *handler.FavoritesHandler
	countryHandler   *handler.CountryHandler

	// Auth middleware dependencies
	tokens   *token.Manager
	userRepo repository.UserRepository
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	authHandler *handler.AuthHandler,
	favoritesHandler *handler.FavoritesHandler,
	countryHandler *handler.CountryHandler,
	tokens *token.Manager,
	userRepo repository.UserRepository,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Country Explorer API",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:              app,
		config:           cfg,
		logger:           logger,
		authHandler:      authHandler,
		favoritesHandler: favoritesHandler,
		countryHandler:   countryHandler,
		tokens:           tokens,
		userRepo:         userRepo,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", s.authHandler.Register)
	auth.Post("/login", s.authHandler.Login)

	// Favorites routes (bearer-protected)
	favorites := api.Group("/favorites",
		middleware.RequireAuth(s.tokens, s.userRepo, s.logger))
	favorites.Get("/", s.favoritesHandler.List)
	favorites.Post("/:code", s.favoritesHandler.Add)
	favorites.Delete("/:code", s.favoritesHandler.Remove)

	// Country directory proxy
	api.Get("/countries", s.countryHandler.List)
	api.Get("/countries/:code", s.countryHandler.Detail)
	api.Get("/geometry", s.countryHandler.Geometry)
}

// Start - run the HTTP server
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// App exposes the fiber app for handler-level tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
