package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scholar-match/internal/config"
	"scholar-match/internal/database"
	dbpostgres "scholar-match/internal/database/postgres"
	"scholar-match/internal/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version = "dev"

	logLevel  string
	outputFmt string
)

func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

var rootCmd = &cobra.Command{
	Use:   "scholarctl",
	Short: "Operate the scholar-match database and scorer",
	Long: `scholarctl manages the scholar-match service from the command line.

It can:
  - apply SQL migrations
  - seed a demo user and sample scholarships
  - import scholarships from a JSON file
  - print recommendations for a user`,
	SilenceUsage: true,
	Version:      version,
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "output format (table, json)")
}

// env is what every subcommand needs: config, a logger and, lazily, a
// database connection.
type env struct {
	cfg config.Config
	log *zap.Logger
	db  database.DB
}

func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level := cfg.App.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	lg, err := logger.New(level, "console")
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return &env{cfg: cfg, log: lg}, nil
}

func (e *env) connect(ctx context.Context) (database.DB, error) {
	if e.db != nil {
		return e.db, nil
	}
	if !e.cfg.Database.Enabled() {
		return nil, errors.New("database is not configured: set DB_HOST and DB_NAME")
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, e.cfg.Database, e.log)
	if err != nil {
		return nil, err
	}
	e.db = db
	return db, nil
}

func (e *env) close() {
	if e.db != nil {
		_ = e.db.Close()
	}
	_ = e.log.Sync()
}
