package server

import (
	"log"

	"tutor-cerdas-console/internal/bootstrap"
	"tutor-cerdas-console/internal/config"
	"tutor-cerdas-console/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024, // PDFs
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	app.Use(otelfiber.Middleware())
	app.Use(serverutils.ErrorHandlerMiddleware())
	app.Use(serverutils.AuthStateMiddleware(container.Resolvers))

	registerRoutes(app, container)

	// Catch-all 404
	app.Use(func(ctx *fiber.Ctx) error {
		return serverutils.Fail(ctx, fiber.StatusNotFound, "page not found")
	})

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("✅ Console is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	c.AuthController.RegisterRoutes(app)
	c.ConsoleController.RegisterRoutes(app)
	c.AdminController.RegisterRoutes(app)
}
