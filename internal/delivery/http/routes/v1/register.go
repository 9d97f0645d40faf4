package v1

import (
	"scholar-match/internal/delivery/http/handler"
	"scholar-match/internal/delivery/http/middleware"
	"scholar-match/internal/pkg/jwt"
	"scholar-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type Deps struct {
	JWT             jwt.Service
	Auth            usecase.AuthUsecase
	Recommendations usecase.RecommendationUsecase
}

func Register(r fiber.Router, deps Deps) {
	if r == nil {
		return
	}

	authMw := middleware.NewAuthMiddleware(deps.JWT)

	authHandler := handler.NewAuthHandler(deps.Auth)
	recHandler := handler.NewRecommendationHandler(deps.Recommendations)

	authHandler.RegisterRoutes(r.Group("/auth"))

	protected := r.Group("", authMw.Middleware())
	recHandler.RegisterRoutes(protected)
}
