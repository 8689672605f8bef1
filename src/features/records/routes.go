package records

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the records feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	app.Get("/records", handler.ListRecords)
	app.Get("/records/search", handler.SearchRecords)
	app.Get("/records/archive", handler.ListArchived)
	app.Get("/records/:identity", handler.GetRecord)
}
