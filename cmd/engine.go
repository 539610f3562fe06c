package cmd

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/matchwell/matchwell/internal/ai"
	"github.com/matchwell/matchwell/internal/ai/gemini"
	"github.com/matchwell/matchwell/internal/matching"
	"github.com/matchwell/matchwell/internal/profile"
	"github.com/matchwell/matchwell/internal/scoring"
	"github.com/matchwell/matchwell/internal/secrets"
	"github.com/matchwell/matchwell/internal/store"
)

// engine bundles the wired components commands work with.
type engine struct {
	config *Config
	store  *store.Store
	ranker *matching.Ranker
	cache  *profile.Cache
	logger *zap.Logger
}

// newEngine loads config, opens the store and wires the scoring pipeline.
// The analyzer is only built when a command needs the deep path.
func newEngine(ctx context.Context, logger *zap.Logger, needAI bool) (*engine, error) {
	config, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}
	if config == nil {
		return nil, errors.New("config is required")
	}

	dsn, err := resolveDSN(config)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(dsn, logger)
	if err != nil {
		return nil, fmt.Errorf("opening the store: %w", err)
	}

	weights := scoring.DefaultWeights()
	if config.Scoring != nil {
		weights = *config.Scoring
	}
	scorer := scoring.NewScorer(weights)

	var analyzer ai.Analyzer
	if needAI {
		analyzer, err = newAnalyzer(ctx, config.AI, logger)
		if err != nil {
			return nil, err
		}
	}

	cache := profile.NewCache(analyzer, st, logger)
	deep := matching.NewDeepMatcher(cache, analyzer, logger)
	ranker := matching.NewRanker(st, scorer, deep, st, logger)

	return &engine{
		config: config,
		store:  st,
		ranker: ranker,
		cache:  cache,
		logger: logger,
	}, nil
}

func (e *engine) Close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("closing the store", zap.Error(err))
	}
}

func resolveDSN(config *Config) (string, error) {
	if config.Database == nil {
		return "", errors.New("database configuration is required")
	}

	dsn, err := secrets.Load(secrets.Source{
		Name:  "database dsn",
		Value: config.Database.DSN,
		File:  config.Database.DSNFile,
	})
	if err != nil {
		return "", fmt.Errorf("%w (set database.dsn, database.dsn-file or MATCHWELL_DB_DSN_FILE)", err)
	}

	return dsn, nil
}

func newAnalyzer(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Analyzer, error) {
	if cfg == nil || cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required for deep analysis")
	}

	provider := cfg.Provider
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	analyzerLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	return gemini.NewAnalyzer(generator, analyzerLogger, cfg.Gemini.MaxLogLength), nil
}
