package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"scholar-match/internal/domain/matching"
	"scholar-match/internal/domain/profile"

	"github.com/google/uuid"
)

type ProfileExtractor struct {
	profiles profile.Repository
}

func NewProfileExtractor(profiles profile.Repository) *ProfileExtractor {
	return &ProfileExtractor{profiles: profiles}
}

// ParseIdentifier validates a caller-supplied user id.
func ParseIdentifier(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, ErrInvalidIdentifier
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrInvalidIdentifier
	}
	return id, nil
}

func (e *ProfileExtractor) Extract(ctx context.Context, rawUserID string) (matching.NormalizedProfile, error) {
	id, err := ParseIdentifier(rawUserID)
	if err != nil {
		return matching.NormalizedProfile{}, err
	}
	return e.ExtractByID(ctx, id)
}

func (e *ProfileExtractor) ExtractByID(ctx context.Context, userID uuid.UUID) (matching.NormalizedProfile, error) {
	if userID == uuid.Nil {
		return matching.NormalizedProfile{}, ErrInvalidIdentifier
	}

	p, err := e.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return matching.NormalizedProfile{}, ErrProfileNotFound
		}
		return matching.NormalizedProfile{}, fmt.Errorf("%w: load profile: %w", ErrStorageUnavailable, err)
	}

	return matching.NormalizeProfile(p), nil
}
