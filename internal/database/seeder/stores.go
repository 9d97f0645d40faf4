package seeder

import (
	"context"

	"scholar-match/internal/domain/profile"
	"scholar-match/internal/domain/scholarship"
	"scholar-match/internal/domain/user"

	"github.com/google/uuid"
)

type UserStore interface {
	EnsureUser(ctx context.Context, u user.User) (uuid.UUID, error)
}

type ProfileStore interface {
	Save(ctx context.Context, p profile.Profile) (uuid.UUID, error)
}

type ScholarshipWriter interface {
	Upsert(ctx context.Context, s scholarship.Scholarship) error
}
