package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/matchwell/matchwell/internal/automation"
	"github.com/matchwell/matchwell/internal/logger"
	"github.com/matchwell/matchwell/internal/matching"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var autoapplyPrompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptYes, PromptNo},
}

var autoapplyCmd = &cobra.Command{
	Use:   "autoapply",
	Short: "Create applications for every strong match of a candidate",
	Run: func(cmd *cobra.Command, _ []string) {
		autoapply(cmd)
	},
}

func init() {
	rootCmd.AddCommand(autoapplyCmd)

	autoapplyCmd.Flags().Int64("candidate", 0, "candidate id")
	autoapplyCmd.Flags().Int("threshold", 0, "minimal score to apply (default from config or 75)")
	autoapplyCmd.Flags().Int("max-actions", 0, "cap on applications per run (default from config or 5)")
	autoapplyCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")

	autoapplyCmd.MarkFlagRequired("candidate")
}

func autoapply(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	candidateID, _ := cmd.Flags().GetInt64("candidate")
	threshold, _ := cmd.Flags().GetInt("threshold")
	maxActions, _ := cmd.Flags().GetInt("max-actions")
	autoApprove, _ := cmd.Flags().GetBool("yes")

	engine, err := newEngine(ctx, logger, false)
	if err != nil {
		logger.Fatal("setting up", zap.Error(err))
	}
	defer engine.Close()

	policyConfig := automation.DefaultConfig()
	if engine.config.Automation != nil {
		policyConfig = *engine.config.Automation
	}
	if threshold > 0 {
		policyConfig.Threshold = threshold
	}
	if maxActions > 0 {
		policyConfig.MaxActions = maxActions
	}

	// The policy applies its own threshold and action cap, so it has to see
	// the whole ranking, not a truncated page.
	ranking, err := engine.ranker.ScoreAll(ctx, candidateID, matching.Options{Limit: matching.NoLimit})
	if err != nil {
		logger.Fatal("ranking positions", zap.Error(err))
	}

	eligible := 0
	for _, result := range ranking.Results {
		if result.Score >= policyConfig.Threshold && !result.Blocked {
			eligible++
		}
	}

	if eligible == 0 {
		logger.Info("exiting", zap.String("reason", "no positions at or above the threshold"))
		return
	}

	logger.Info("positions eligible for auto-apply",
		zap.Int("count", eligible),
		zap.Int("threshold", policyConfig.Threshold),
		zap.Int("max actions", policyConfig.MaxActions),
	)

	if !autoApprove {
		_, action, err := autoapplyPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if action != PromptYes {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	policy := automation.NewPolicy(policyConfig, engine.store, engine.store, logger)

	outcome, err := policy.Run(ctx, candidateID, ranking.Results)
	if err != nil {
		logger.Fatal("auto-apply run failed", zap.Error(err))
	}

	logger.Info("auto-apply finished",
		zap.Int("applied", len(outcome.Applied)),
		zap.Int("failures", len(outcome.Failures)),
		zap.Int("skipped", outcome.Skipped),
	)

	pretty, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		logger.Fatal("encoding the outcome", zap.Error(err))
	}

	fmt.Println(string(pretty))
}
