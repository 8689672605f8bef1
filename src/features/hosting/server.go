package hosting

import (
	"fmt"
	"log/slog"

	"dirwatch/src/features/config"
	"dirwatch/src/features/metrics"
	"dirwatch/src/features/records"
	"dirwatch/src/features/ui"
	"dirwatch/src/features/watching"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

// Server is the HTTP server for the application.
type Server struct {
	app  *fiber.App
	port uint32
}

// NewServer creates a new HTTP server.
func NewServer(cfg *config.Manager, watchingService *watching.Service, recordsService *records.Service, metricsService *metrics.Service) *Server {
	engine := html.New("./views", ".html")
	engine.Debug(cfg.Get().Logger.Level == "debug")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("Internal Server Error", "error", err)
			return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
		},
		AppName:               "Dirwatch",
		DisableStartupMessage: true,
		EnablePrintRoutes:     cfg.Get().Server.PrintRoutes,
	})

	app.Use(LogAllRequestsMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	uiHandler := ui.NewHandler(watchingService, recordsService)

	watching.RegisterRoutes(app, watchingService)
	records.RegisterRoutes(app, recordsService)
	config.RegisterRoutes(app, cfg)
	metrics.RegisterRoutes(app, metricsService)
	ui.RegisterRoutes(app, uiHandler)

	return &Server{app: app, port: cfg.Get().Server.Port}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.app.Listen(":" + fmt.Sprint(s.port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
