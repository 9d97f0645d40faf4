package seeder

import (
	"context"

	"scholar-match/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
