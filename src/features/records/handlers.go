package records

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the records feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the records feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListRecords returns every retained record.
func (h *Handler) ListRecords(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"count":   h.service.Count(),
		"records": h.service.All(),
	})
}

// SearchRecords returns records whose identity matches a glob pattern.
func (h *Handler) SearchRecords(c *fiber.Ctx) error {
	pattern := c.Query("pattern")
	if pattern == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "pattern query parameter required",
		})
	}
	matched, err := h.service.Find(pattern)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid pattern",
		})
	}
	return c.JSON(fiber.Map{
		"count":   len(matched),
		"records": matched,
	})
}

// GetRecord returns one record by exact identity.
func (h *Handler) GetRecord(c *fiber.Ctx) error {
	record, ok := h.service.Get(c.Params("identity"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "record not found",
		})
	}
	return c.JSON(record)
}

// ListArchived returns the newest durable records.
func (h *Handler) ListArchived(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	archived, err := h.service.Archived(c.Context(), limit)
	if err != nil {
		slog.Error("Failed to read archive", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read archive",
		})
	}
	return c.JSON(fiber.Map{
		"count":   len(archived),
		"records": archived,
	})
}
