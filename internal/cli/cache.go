package cli

import (
	"context"
	"fmt"

	"scholar-match/internal/infrastructure/cache"
	"scholar-match/internal/usecase"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the recommendation cache",
}

var cacheFlushCmd = &cobra.Command{
	Use:   "flush [user-id]",
	Short: "Drop cached recommendations for one user, or for everyone",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCacheFlush,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheFlushCmd)
}

func runCacheFlush(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	rc := cache.NewRedis(e.cfg.Redis, e.log)
	defer rc.Close()

	pattern := usecase.RecommendationsCacheAllPattern
	if len(args) == 1 {
		id, err := usecase.ParseIdentifier(args[0])
		if err != nil {
			return fmt.Errorf("%w: %q", err, args[0])
		}
		pattern = usecase.RecommendationsCachePattern(id)
	}

	if err := rc.DeleteByPattern(cmd.Context(), pattern); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "flushed %s\n", pattern)
	return nil
}

// flushRecommendations clears cached lists after scholarship data changed.
// A failure only warns since entries expire on their own.
func (e *env) flushRecommendations(ctx context.Context) {
	rc := cache.NewRedis(e.cfg.Redis, e.log)
	defer rc.Close()

	if err := rc.DeleteByPattern(ctx, usecase.RecommendationsCacheAllPattern); err != nil {
		e.log.Warn("flush recommendation cache failed", zap.Error(err))
	}
}
