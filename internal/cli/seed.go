package cli

import (
	"fmt"

	"scholar-match/internal/database/seeder"

	"github.com/spf13/cobra"
)

var (
	seedDemoEmail    string
	seedDemoPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert a demo user, its profile and sample scholarships",
	Long: `Seed the database with a demo account and sample scholarships.

Seeding is idempotent: the demo user is kept, its profile is rewritten and
sample scholarships are upserted by a stable id.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVar(&seedDemoEmail, "demo-email", seeder.DemoEmail, "email of the demo user")
	seedCmd.Flags().StringVar(&seedDemoPassword, "demo-password", seeder.DemoPassword, "password of the demo user")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	db, err := e.connect(cmd.Context())
	if err != nil {
		return err
	}

	r := seeder.Runner{Seeders: seeder.Defaults(seedDemoEmail, seedDemoPassword), Logger: e.log}
	if err := r.Run(cmd.Context(), db); err != nil {
		return err
	}
	e.flushRecommendations(cmd.Context())
	fmt.Fprintf(cmd.OutOrStdout(), "seeded demo user %s\n", seedDemoEmail)
	return nil
}
