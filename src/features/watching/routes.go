package watching

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the watching feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	app.Post("/watches", handler.RegisterWatch)
	app.Get("/watches", handler.ListWatches)
	app.Get("/watches/:id", handler.GetWatch)
	app.Delete("/watches/:id", handler.UnregisterWatch)
}
