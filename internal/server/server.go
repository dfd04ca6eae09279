// Package server contains the HTTP handlers and route wiring for the API.
package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"paydrop/internal/config"
	"paydrop/internal/database"
	"paydrop/internal/middleware"
	"paydrop/internal/models"
	"paydrop/internal/repository"
	"paydrop/internal/service"
	"paydrop/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides the HTTP handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus

	adminRepo      repository.AdminRepository
	categoryRepo   repository.CategoryRepository
	submissionRepo repository.SubmissionRepository

	authService       *service.AuthService
	categoryService   *service.CategoryService
	submissionService *service.SubmissionService
}

// NewServer creates a server instance, connecting to the database, Redis and
// the blob store.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		// Rate limiting fails open; the server still comes up without Redis.
		middleware.Logger.Warn("redis unavailable, rate limiting disabled", "error", err)
	}

	store, err := storage.New(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("blob store init failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, redisClient, store), nil
}

// NewServerWithDeps creates a Server from already-initialized dependencies.
// Tests use this to inject in-memory SQLite and stub storage.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store service.ReceiptStore) *Server {
	adminRepo := repository.NewAdminRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	// The default Prometheus registry rejects duplicate collectors, so the
	// metrics middleware is skipped when tests build many servers.
	var prom *fiberprometheus.FiberPrometheus
	if cfg.Env != "test" {
		prom = middleware.InitMetrics("paydrop-api")
	}

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		adminRepo:      adminRepo,
		categoryRepo:   categoryRepo,
		submissionRepo: submissionRepo,
	}
	server.authService = service.NewAuthService(adminRepo, cfg.JWTSecret, cfg.AccessTokenTTL(), cfg.RefreshTokenTTL())
	server.categoryService = service.NewCategoryService(categoryRepo)
	server.submissionService = service.NewSubmissionService(
		submissionRepo, categoryRepo, server.categoryService, store,
		cfg.MaxUploadSizeBytes(), cfg.AllowedExtensionList())

	return server
}

// SetupMiddleware configures the global middleware chain.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS before anything that can short-circuit, so browser clients get
	// CORS headers on error responses too.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes wires all routes.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(s.redis, 5, time.Minute, "auth:register"), s.Register)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, time.Minute, "auth:login"), s.Login)
	auth.Post("/refresh", s.Refresh)
	auth.Get("/me", s.AuthRequired(), s.Me)

	categories := api.Group("/categories", s.AuthRequired())
	categories.Post("/", s.CreateCategory)
	categories.Get("/", s.ListCategories)
	categories.Get("/:id", s.GetCategory)
	categories.Patch("/:id", s.UpdateCategory)
	categories.Post("/:id/activate", s.ActivateCategory)
	categories.Post("/:id/deactivate", s.DeactivateCategory)
	categories.Get("/:id/submissions", s.ListSubmissions)
	categories.Get("/:id/export.csv", s.ExportSubmissions)

	submissions := api.Group("/submissions", s.AuthRequired())
	submissions.Get("/:id", s.GetSubmission)
	submissions.Patch("/:id/confirm", s.ConfirmSubmission)
	submissions.Patch("/:id/reject", s.RejectSubmission)

	public := api.Group("/public/categories")
	public.Get("/:token", s.GetPublicCategory)
	public.Post("/:token/submissions",
		middleware.RateLimit(s.redis, 10, time.Minute, "public:submit"), s.SubmitPayment)
}

// AuthRequired returns middleware that authenticates the bearer token and
// stores the admin in request locals.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Missing or malformed authorization header"))
		}
		token := strings.TrimPrefix(header, "Bearer ")

		admin, err := s.authService.Authenticate(c.UserContext(), token)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}

		c.Locals("adminID", admin.ID.String())
		c.Locals("admin", admin)
		ctx := context.WithValue(c.UserContext(), middleware.AdminIDKey, admin.ID.String())
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// currentAdmin returns the admin placed in locals by AuthRequired.
func currentAdmin(c *fiber.Ctx) *models.Admin {
	admin, _ := c.Locals("admin").(*models.Admin)
	return admin
}

// LivenessCheck handles GET /health
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ReadinessCheck handles GET /health/ready; it verifies the DB connection.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.UserContext())
	}
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}

// Start runs the Fiber app on the configured port.
func (s *Server) Start(app *fiber.App) error {
	return app.Listen(":" + s.config.Port)
}

// Shutdown closes the server's long-lived connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.WarnContext(ctx, "closing redis", "error", err)
		}
	}
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			return sqlDB.Close()
		}
	}
	return nil
}
