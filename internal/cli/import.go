package cli

import (
	"fmt"
	"io"
	"os"

	"scholar-match/internal/database/seeder"
	"scholar-match/internal/repository"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import scholarships from a JSON file",
	Long: `Import a JSON array of scholarships. Use "-" to read from stdin.

Each record needs a title and a deadline (RFC 3339 or YYYY-MM-DD). The whole
file is validated before anything is written.

Example:
  scholarctl import scholarships.json`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	var src io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		src = f
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	db, err := e.connect(cmd.Context())
	if err != nil {
		return err
	}

	imp := seeder.Importer{Writer: repository.NewPostgresScholarshipRepository(db), Logger: e.log}
	n, err := imp.Import(cmd.Context(), src)
	if err != nil {
		return err
	}
	e.flushRecommendations(cmd.Context())
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d scholarship(s)\n", n)
	return nil
}
