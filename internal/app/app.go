// Package app assembles the HTTP application from its dependencies.
package app

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"pasar/internal/auth"
	"pasar/internal/handlers"
	"pasar/internal/logging"
	"pasar/internal/middleware"
	"pasar/internal/notify"
	"pasar/internal/repositories"
	"pasar/internal/services"
)

// Deps are the collaborators the application is built from.
type Deps struct {
	DB           *gorm.DB
	Tokens       *auth.TokenService
	Hasher       auth.PasswordHasher
	OTP          auth.OTPGenerator
	Notifier     notify.Notifier
	Log          logging.Logger
	Policy       middleware.Policy
	DevEndpoints bool
	RequestLog   bool
}

// New wires repositories, services and handlers under /api/v1.
func New(d Deps) *fiber.App {
	if d.Hasher == nil {
		d.Hasher = auth.NewBcryptHasher()
	}
	if d.OTP == nil {
		d.OTP = auth.NewOTPGenerator()
	}
	if d.Policy == nil {
		d.Policy = middleware.DefaultPolicy()
	}
	if d.Log == nil {
		d.Log = logging.Nop()
	}
	if d.Notifier == nil {
		d.Notifier = notify.NewLogNotifier(d.Log)
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(d.DB)
	stallRepo := repositories.NewGORMStallRepository(d.DB)
	productRepo := repositories.NewGORMProductRepository(d.DB)

	// --- Services ---
	authService := services.NewAuthService(userRepo, d.Hasher, d.OTP, d.Tokens, d.Notifier, d.Log)
	userService := services.NewUserService(userRepo, d.Hasher, d.Log)
	stallService := services.NewStallService(stallRepo, d.Log)
	productService := services.NewProductService(productRepo, stallRepo, d.Log)

	// --- Handlers ---
	guard := middleware.NewGuard(d.Tokens, d.Policy, d.Log)
	authHandler := handlers.NewAuthHandler(authService, d.DevEndpoints)
	userHandler := handlers.NewUserHandler(userService, guard)
	stallHandler := handlers.NewStallHandler(stallService, guard)
	productHandler := handlers.NewProductHandler(productService, guard)

	app := fiber.New(fiber.Config{
		AppName:      "pasar",
		ErrorHandler: middleware.ErrorHandler(d.Log),
	})

	app.Use(recover.New())
	if d.RequestLog {
		app.Use(logger.New())
	}

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)
	userHandler.RegisterRoutes(apiV1)
	stallHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1)

	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := d.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			d.Log.Warn(c.UserContext(), "health check: database unreachable", "error", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "degraded",
				"time":     time.Now().Format(time.RFC3339),
				"database": "unreachable",
			})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "connected",
		})
	})

	return app
}
