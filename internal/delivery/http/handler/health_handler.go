package handler

import (
	"context"
	"time"

	"scholar-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	timeout time.Duration
}

// NewHealthHandler reports liveness. When db is nil the database check is skipped.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, timeout: 2 * time.Second}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	data := map[string]string{"database": "disabled"}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			return response.Error(c, fiber.StatusServiceUnavailable, "database unavailable", map[string]string{"database": "down"})
		}
		data["database"] = "up"
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}
