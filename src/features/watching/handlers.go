package watching

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the watching feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the watching feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterWatch arms a new watch from a JSON registration request.
func (h *Handler) RegisterWatch(c *fiber.Ctx) error {
	var cfg Config
	if err := c.BodyParser(&cfg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "cannot parse request body",
		})
	}

	reg, err := h.service.Register(cfg)
	if err != nil {
		slog.Error("Failed to register watch", "path", cfg.Path, "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(reg)
}

// ListWatches returns every armed watch.
func (h *Handler) ListWatches(c *fiber.Ctx) error {
	return c.JSON(h.service.Registrations())
}

// GetWatch returns a single watch by ID.
func (h *Handler) GetWatch(c *fiber.Ctx) error {
	reg, ok := h.service.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": ErrWatchNotFound.Error(),
		})
	}
	return c.JSON(reg)
}

// UnregisterWatch tears a watch down.
func (h *Handler) UnregisterWatch(c *fiber.Ctx) error {
	err := h.service.Unregister(c.Params("id"))
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, ErrWatchNotFound) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
