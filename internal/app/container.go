package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scholar-match/internal/config"
	"scholar-match/internal/database"
	dbpostgres "scholar-match/internal/database/postgres"
	"scholar-match/internal/domain/matching"
	"scholar-match/internal/infrastructure/cache"
	"scholar-match/internal/pkg/jwt"
	"scholar-match/internal/pkg/tracing"
	"scholar-match/internal/repository"
	"scholar-match/internal/usecase"

	"go.uber.org/zap"
)

var errDatabaseNotConfigured = errors.New("database is not configured: set DB_HOST and DB_NAME")

type Container struct {
	Config config.Config
	Logger *zap.Logger
	DB     database.DB
	Cache  *cache.Redis

	Users        *repository.PostgresUserRepository
	Profiles     *repository.PostgresProfileRepository
	Scholarships *repository.PostgresScholarshipRepository

	Scorer          *matching.Scorer
	JWT             jwt.Service
	Auth            *usecase.Auth
	Recommendations *usecase.Recommendations

	shutdownTracing func(context.Context) error
}

func NewContainer(cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Database.Enabled() {
		return nil, errDatabaseNotConfigured
	}

	weights, err := config.LoadWeights(cfg.Scoring.WeightsFile)
	if err != nil {
		return nil, err
	}

	shutdownTracing, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		_ = shutdownTracing(context.Background())
		return nil, err
	}

	c := &Container{
		Config:          cfg,
		Logger:          logger,
		DB:              db,
		Cache:           cache.NewRedis(cfg.Redis, logger),
		Users:           repository.NewPostgresUserRepository(db),
		Profiles:        repository.NewPostgresProfileRepository(db),
		Scholarships:    repository.NewPostgresScholarshipRepository(db),
		Scorer:          matching.NewScorer(weights),
		shutdownTracing: shutdownTracing,
	}

	c.JWT = jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)
	c.Auth = usecase.NewAuthUsecase(c.Users, c.JWT, logger.Named("auth"))
	c.Recommendations = usecase.NewRecommendations(
		usecase.NewProfileExtractor(c.Profiles),
		c.Scholarships,
		c.Scorer,
		c.Cache,
		RecommendationOptions(cfg),
		logger.Named("recommendations"),
	)

	logger.Info("container ready",
		zap.Int("min_score", cfg.Scoring.MinScore),
		zap.Int("top_n", cfg.Scoring.TopN),
		zap.Bool("prefilter", cfg.Scoring.Prefilter),
		zap.Bool("custom_weights", cfg.Scoring.WeightsFile != ""),
		zap.Any("weights", c.Scorer.Weights()),
	)
	return c, nil
}

func RecommendationOptions(cfg config.Config) usecase.RecommendationOptions {
	opts := usecase.DefaultRecommendationOptions()
	opts.MinScore = cfg.Scoring.MinScore
	opts.TopN = cfg.Scoring.TopN
	opts.MaxLimit = cfg.Scoring.MaxLimit
	opts.Concurrency = cfg.Scoring.Concurrency
	opts.Prefilter = cfg.Scoring.Prefilter
	if cfg.Redis.TTL > 0 {
		opts.CacheTTL = cfg.Redis.TTL
	}
	return opts
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	if c.shutdownTracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		errs = append(errs, c.shutdownTracing(ctx))
	}
	return errors.Join(errs...)
}
