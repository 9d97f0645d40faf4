package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"scholar-match/internal/app"
	"scholar-match/internal/config"
	"scholar-match/internal/domain/matching"
	"scholar-match/internal/repository"
	"scholar-match/internal/usecase"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	recommendLimit    int
	recommendMinScore int
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <user-id>",
	Short: "Print scholarship recommendations for a user",
	Long: `Score every eligible scholarship against the user's profile and print
the ranked result. The cache is bypassed.

Examples:
  scholarctl recommend 6f1c1b7e-6b43-4f3e-9a55-3f1f9b6f2c10
  scholarctl recommend <user-id> --limit 5 --min-score 50
  scholarctl recommend <user-id> -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().IntVar(&recommendLimit, "limit", 0, "maximum number of results (default SCORING_TOP_N)")
	recommendCmd.Flags().IntVar(&recommendMinScore, "min-score", -1, "minimum score to include (default SCORING_MIN_SCORE)")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	userID, err := usecase.ParseIdentifier(args[0])
	if err != nil {
		return fmt.Errorf("%w: %q", err, args[0])
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	weights, err := config.LoadWeights(e.cfg.Scoring.WeightsFile)
	if err != nil {
		return err
	}

	db, err := e.connect(cmd.Context())
	if err != nil {
		return err
	}

	uc := usecase.NewRecommendations(
		usecase.NewProfileExtractor(repository.NewPostgresProfileRepository(db)),
		repository.NewPostgresScholarshipRepository(db),
		matching.NewScorer(weights),
		nil,
		app.RecommendationOptions(e.cfg),
		e.log.Named("recommend"),
	)

	params := usecase.RecommendationParams{Limit: recommendLimit}
	if recommendMinScore >= 0 {
		params.MinScore = &recommendMinScore
	}

	res, err := uc.GetRecommendations(cmd.Context(), userID, params)
	if err != nil {
		return err
	}
	return writeMatches(cmd.OutOrStdout(), outputFmt, res.Items)
}

func writeMatches(w io.Writer, format string, items []matching.Match) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	case "", "table":
		return matchesTable(w, items)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func matchesTable(w io.Writer, items []matching.Match) error {
	table := tablewriter.NewWriter(w)
	table.Header("#", "Scholarship", "Level", "Score", "Days left", "Reasons")
	for i, m := range items {
		level := ""
		if m.Scholarship.Level != nil {
			level = *m.Scholarship.Level
		}
		row := []string{
			strconv.Itoa(i + 1),
			m.Scholarship.Title,
			level,
			m.MatchPercentage(),
			strconv.Itoa(m.DaysRemaining),
			strings.Join(m.MatchReasons, "; "),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
