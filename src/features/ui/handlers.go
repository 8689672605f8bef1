package ui

import (
	"log/slog"

	"dirwatch/src/features/records"
	"dirwatch/src/features/watching"

	"github.com/gofiber/fiber/v2"
)

const recentRecords = 25

// Handler is the handler for the UI feature.
type Handler struct {
	watchingService *watching.Service
	recordsService  *records.Service
}

// NewHandler creates a new handler for the UI feature.
func NewHandler(watchingService *watching.Service, recordsService *records.Service) *Handler {
	return &Handler{
		watchingService: watchingService,
		recordsService:  recordsService,
	}
}

// RenderDashboard renders the main dashboard page: armed watches and the
// most recent records.
func (h *Handler) RenderDashboard(c *fiber.Ctx) error {
	slog.Debug("RenderDashboard handler called")

	all := h.recordsService.All()
	if len(all) > recentRecords {
		all = all[len(all)-recentRecords:]
	}

	return c.Render("dashboard", fiber.Map{
		"Title":       "Dashboard",
		"Watches":     h.watchingService.Registrations(),
		"Records":     all,
		"RecordCount": h.recordsService.Count(),
	})
}
