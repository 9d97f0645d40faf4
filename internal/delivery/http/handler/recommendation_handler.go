package handler

import (
	"errors"
	"strconv"
	"strings"

	"scholar-match/internal/delivery/http/dto"
	"scholar-match/internal/delivery/http/middleware"
	"scholar-match/internal/pkg/response"
	"scholar-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type RecommendationHandler struct {
	uc usecase.RecommendationUsecase
}

func NewRecommendationHandler(uc usecase.RecommendationUsecase) *RecommendationHandler {
	return &RecommendationHandler{uc: uc}
}

// RegisterRoutes expects r to sit behind the auth middleware.
func (h *RecommendationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/recommendations", h.Mine)
	r.Get("/users/:user_id/recommendations", h.ForUser)
	r.Get("/scholarships/:scholarship_id/match", h.Match)
}

func (h *RecommendationHandler) Mine(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return h.recommend(c, userID)
}

func (h *RecommendationHandler) ForUser(c fiber.Ctx) error {
	callerID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	userID, err := usecase.ParseIdentifier(c.Params("user_id"))
	if err != nil {
		return mapRecommendationUsecaseError(err)
	}
	if userID != callerID {
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil)
	}
	return h.recommend(c, userID)
}

func (h *RecommendationHandler) Match(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	scholarshipID, err := usecase.ParseIdentifier(c.Params("scholarship_id"))
	if err != nil {
		return mapRecommendationUsecaseError(err)
	}

	m, err := h.uc.MatchScholarship(c.Context(), userID, scholarshipID)
	if err != nil {
		return mapRecommendationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromMatchDetail(m))
}

func (h *RecommendationHandler) recommend(c fiber.Ctx, userID uuid.UUID) error {
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil || limit < 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid limit", nil, err)
	}

	var minScore *int
	if strings.TrimSpace(c.Query("min_score")) != "" {
		v, err := parseQueryIntStrict(c, "min_score", 0)
		if err != nil || v < 0 || v > 100 {
			return middleware.NewAppError(fiber.StatusBadRequest, "min_score must be between 0 and 100", nil, err)
		}
		minScore = &v
	}

	res, err := h.uc.GetRecommendations(c.Context(), userID, usecase.RecommendationParams{Limit: limit, MinScore: minScore})
	if err != nil {
		return mapRecommendationUsecaseError(err)
	}

	appliedMin := res.MinScore
	return response.SuccessWithMeta(c, fiber.StatusOK, response.MessageOK, dto.FromMatches(res.Items), response.Meta{
		Count:    len(res.Items),
		Limit:    res.Limit,
		MinScore: &appliedMin,
		Cached:   res.Cached,
	})
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(s)
}

func mapRecommendationUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidIdentifier):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid identifier", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrProfileNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Profile not found", nil, err)
	case errors.Is(err, usecase.ErrScholarshipNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Scholarship not found", nil, err)
	case errors.Is(err, usecase.ErrNoMatches):
		return middleware.NewAppError(fiber.StatusNotFound, "No scholarships matched your profile", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
