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

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a single candidate against a single position",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().Int64("candidate", 0, "candidate id")
	scoreCmd.Flags().Int64("position", 0, "position id")
	scoreCmd.Flags().Bool("deep", false, "run the semantic comparison as well")
	scoreCmd.Flags().Bool("force-refresh", false, "recompute cached profiles before deep analysis")

	scoreCmd.MarkFlagRequired("candidate")
	scoreCmd.MarkFlagRequired("position")
}

func score(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	candidateID, _ := cmd.Flags().GetInt64("candidate")
	positionID, _ := cmd.Flags().GetInt64("position")
	deep, _ := cmd.Flags().GetBool("deep")
	forceRefresh, _ := cmd.Flags().GetBool("force-refresh")

	engine, err := newEngine(ctx, logger, deep)
	if err != nil {
		logger.Fatal("setting up", zap.Error(err))
	}
	defer engine.Close()

	result, err := engine.ranker.ScoreOne(ctx, candidateID, positionID, matching.Options{
		Deep:         deep,
		ForceRefresh: forceRefresh,
	})
	if err != nil {
		logger.Fatal("scoring the pair", zap.Error(err))
	}

	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Fatal("encoding the result", zap.Error(err))
	}

	fmt.Println(string(pretty))
}
