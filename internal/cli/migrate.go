package cli

import (
	"fmt"
	"os"

	"scholar-match/internal/database/migration"
	"scholar-match/migrations"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL migrations",
	Long: `Apply V<version>__<name>.sql migrations in order.

Files are read from --dir, then MIGRATIONS_DIR. When neither exists the
migrations compiled into the binary are used.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().StringVar(&migrateDir, "dir", "", "directory holding migration files")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	db, err := e.connect(cmd.Context())
	if err != nil {
		return err
	}

	runner := migration.Runner{FS: migrations.FS, Logger: e.log}
	if dir := resolveMigrationsDir(migrateDir, e.cfg.Migrations.Dir); dir != "" {
		runner.Dir = dir
	}
	e.log.Info("running migrations", zap.String("dir", runner.Dir), zap.Bool("embedded", runner.Dir == ""))

	n, err := runner.Run(cmd.Context(), db.SQLDB())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
	return nil
}

// resolveMigrationsDir returns the first candidate that is an existing
// directory, or "" to fall back to the embedded files.
func resolveMigrationsDir(candidates ...string) string {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if fi, err := os.Stat(c); err == nil && fi.IsDir() {
			return c
		}
	}
	return ""
}
