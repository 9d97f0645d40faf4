package app

import (
	"errors"
	"fmt"
	"strings"

	"scholar-match/internal/config"
	"scholar-match/internal/delivery/http/middleware"
	"scholar-match/internal/delivery/http/routes"
	v1 "scholar-match/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

var errJWTSecretsMissing = errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required")

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName:         c.Config.App.AppName,
		StructValidator: middleware.NewStructValidator(),
	})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config, c *Container) (*App, func() error, error) {
	if cfg.JWT.AccessSecret == "" || cfg.JWT.RefreshSecret == "" {
		return nil, nil, errJWTSecretsMissing
	}
	app := New(c)
	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(c.Logger.Named("http")).Middleware())
	app.Use(middleware.NewErrorMiddleware(c.Logger.Named("http")).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	routes.NewRegistry(c.DB, v1.Deps{
		JWT:             c.JWT,
		Auth:            c.Auth,
		Recommendations: c.Recommendations,
	}).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
