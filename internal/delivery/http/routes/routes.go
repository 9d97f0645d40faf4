package routes

import (
	"scholar-match/internal/delivery/http/handler"
	v1 "scholar-match/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	health *handler.HealthHandler
	v1     v1.Deps
}

func NewRegistry(db handler.Pinger, deps v1.Deps) *Registry {
	return &Registry{health: handler.NewHealthHandler(db), v1: deps}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerMetrics(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerMetrics(app *fiber.App) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.v1)
}
