package cmd

import (
	"context"
	"log"

	"github.com/matchwell/matchwell/internal/crm"
	"github.com/matchwell/matchwell/internal/logger"
	"github.com/matchwell/matchwell/internal/profile"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Recompute AI profiles for candidates and positions in the background",
	Run: func(cmd *cobra.Command, _ []string) {
		refresh(cmd)
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)

	refreshCmd.Flags().Int64Slice("candidate", nil, "candidate id to refresh, repeatable")
	refreshCmd.Flags().Int64Slice("position", nil, "position id to refresh, repeatable")
	refreshCmd.Flags().Bool("all-positions", false, "refresh every active position")
}

func refresh(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	candidateIDs, _ := cmd.Flags().GetInt64Slice("candidate")
	positionIDs, _ := cmd.Flags().GetInt64Slice("position")
	allPositions, _ := cmd.Flags().GetBool("all-positions")

	if len(candidateIDs) == 0 && len(positionIDs) == 0 && !allPositions {
		logger.Fatal("nothing to refresh", zap.String("hint", "pass --candidate, --position or --all-positions"))
	}

	engine, err := newEngine(ctx, logger, true)
	if err != nil {
		logger.Fatal("setting up", zap.Error(err))
	}
	defer engine.Close()

	candidates := make([]*crm.Candidate, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		candidate, err := engine.store.GetCandidate(ctx, id)
		if err != nil {
			logger.Fatal("loading candidate", zap.Int64("id", id), zap.Error(err))
		}
		candidates = append(candidates, candidate)
	}

	positions := make([]*crm.Position, 0, len(positionIDs))
	if allPositions {
		active, err := engine.store.ListActivePositions(ctx)
		if err != nil {
			logger.Fatal("listing active positions", zap.Error(err))
		}
		positions = active.Items
	} else {
		for _, id := range positionIDs {
			position, err := engine.store.GetPosition(ctx, id)
			if err != nil {
				logger.Fatal("loading position", zap.Int64("id", id), zap.Error(err))
			}
			positions = append(positions, position)
		}
	}

	workers := 0
	if engine.config.Ranking != nil {
		workers = engine.config.Ranking.RefreshWorkers
	}

	refresher := profile.NewRefresher(engine.cache, workers, logger)

	refreshed := 0
	failed := 0
	for outcome := range refresher.Refresh(ctx, candidates, positions) {
		if outcome.Err != nil {
			failed++
			continue
		}
		refreshed++
	}

	logger.Info("refresh finished",
		zap.Int("refreshed", refreshed),
		zap.Int("failed", failed),
	)
}
