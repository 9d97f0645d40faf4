package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type RecommendationCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

func RecommendationsCacheKey(userID uuid.UUID, limit, minScore int) string {
	return fmt.Sprintf("recs:%s:%d:%d", userID, limit, minScore)
}

const RecommendationsCacheAllPattern = "recs:*"

func RecommendationsCachePattern(userID uuid.UUID) string {
	return fmt.Sprintf("recs:%s:*", userID)
}
