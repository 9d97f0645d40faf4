package seeder

import (
	"context"
	"fmt"
	"time"

	"scholar-match/internal/database"
	"scholar-match/internal/pkg/logger"

	"go.uber.org/zap"
)

type Runner struct {
	Seeders []Seeder
	Logger  *zap.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	log := logger.OrNop(r.Logger)
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		start := time.Now()
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		log.Info("seeded", zap.String("seeder", s.Name()), zap.Duration("took", time.Since(start)))
	}
	return nil
}
