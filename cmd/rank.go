package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/matchwell/matchwell/internal/logger"
	"github.com/matchwell/matchwell/internal/matching"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank all active positions for a candidate",
	Run: func(cmd *cobra.Command, _ []string) {
		rank(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().Int64("candidate", 0, "candidate id")
	rankCmd.Flags().Bool("deep", false, "run the semantic comparison per position")
	rankCmd.Flags().Bool("force-refresh", false, "recompute cached profiles before deep analysis")
	rankCmd.Flags().Int("limit", 0, "how many results to return (default from config or 10)")
	rankCmd.Flags().String("by", matching.ByHeuristic, "sort key: heuristic or semantic")

	rankCmd.MarkFlagRequired("candidate")
}

func rank(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	candidateID, _ := cmd.Flags().GetInt64("candidate")
	deep, _ := cmd.Flags().GetBool("deep")
	forceRefresh, _ := cmd.Flags().GetBool("force-refresh")
	limit, _ := cmd.Flags().GetInt("limit")
	by, _ := cmd.Flags().GetString("by")

	if by != matching.ByHeuristic && by != matching.BySemantic {
		logger.Fatal("invalid sort key", zap.String("by", by))
	}
	if by == matching.BySemantic && !deep {
		logger.Fatal("ranking by semantic score requires --deep")
	}

	engine, err := newEngine(ctx, logger, deep)
	if err != nil {
		logger.Fatal("setting up", zap.Error(err))
	}
	defer engine.Close()

	if limit == 0 && engine.config.Ranking != nil {
		limit = engine.config.Ranking.Limit
	}

	ranking, err := engine.ranker.ScoreAll(ctx, candidateID, matching.Options{
		Deep:         deep,
		ForceRefresh: forceRefresh,
		Limit:        limit,
		By:           by,
	})
	if err != nil {
		logger.Fatal("ranking positions", zap.Error(err))
	}

	pretty, err := json.MarshalIndent(ranking, "", "  ")
	if err != nil {
		logger.Fatal("encoding the ranking", zap.Error(err))
	}

	fmt.Println(string(pretty))
}
