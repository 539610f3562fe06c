// Package automation turns high match scores into automatically created
// applications, under an explicit threshold/cap configuration.
package automation

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/matchwell/matchwell/internal/crm"
	"github.com/matchwell/matchwell/internal/matching"
	"github.com/matchwell/matchwell/internal/store"
)

// Config is the explicit policy configuration. Defaults match the documented
// policy: apply at score 75 and above, at most 5 actions per run.
type Config struct {
	Threshold  int `mapstructure:"threshold"`
	MaxActions int `mapstructure:"max-actions"`
}

func DefaultConfig() Config {
	return Config{Threshold: 75, MaxActions: 5}
}

// Store is the persistence surface the policy mutates.
type Store interface {
	ApplicationExists(ctx context.Context, candidateID, positionID int64) (bool, error)
	CreateApplication(ctx context.Context, application *crm.Application) error
}

// Applied reports one automatic application attempt that succeeded,
// including idempotent no-ops for pairs that already existed.
type Applied struct {
	PositionID     int64  `json:"position_id"`
	ApplicationID  string `json:"application_id,omitempty"`
	Score          int    `json:"score"`
	AlreadyExisted bool   `json:"already_existed,omitempty"`
}

// Outcome is the partial-result aggregate of one policy run.
type Outcome struct {
	Applied  []Applied              `json:"applied"`
	Failures []matching.ItemFailure `json:"failures,omitempty"`
	Skipped  int                    `json:"skipped"`
}

type Policy struct {
	config   Config
	store    Store
	activity matching.ActivityRecorder
	logger   *zap.Logger
}

func NewPolicy(config Config, st Store, activity matching.ActivityRecorder, logger *zap.Logger) *Policy {
	if config.Threshold <= 0 {
		config.Threshold = DefaultConfig().Threshold
	}
	if config.MaxActions <= 0 {
		config.MaxActions = DefaultConfig().MaxActions
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Policy{
		config:   config,
		store:    st,
		activity: activity,
		logger:   logger,
	}
}

// Run walks the ranked results and creates applications for every result at
// or above the threshold, up to the action cap. Each attempt is isolated:
// one failing pair is logged and skipped, the rest proceed. Creation is
// idempotent; an existing pair counts as success without a new record.
func (p *Policy) Run(ctx context.Context, candidateID int64, results []*matching.Result) (*Outcome, error) {
	if candidateID <= 0 {
		return nil, fmt.Errorf("%w: candidate id is required", matching.ErrValidation)
	}

	outcome := &Outcome{}
	actions := 0

	for _, result := range results {
		if actions >= p.config.MaxActions {
			break
		}

		if result.Score < p.config.Threshold {
			outcome.Skipped++
			continue
		}

		if result.Blocked {
			p.logger.Info("skipping blocked position",
				zap.Int64("position_id", result.PositionID),
				zap.String("conflict", result.BlockedReason),
			)
			outcome.Skipped++
			continue
		}

		applied, err := p.apply(ctx, candidateID, result)
		if err != nil {
			p.logger.Warn("auto-apply failed for position",
				zap.Int64("candidate_id", candidateID),
				zap.Int64("position_id", result.PositionID),
				zap.Error(err),
			)
			outcome.Failures = append(outcome.Failures, matching.ItemFailure{
				PositionID: result.PositionID,
				Reason:     err.Error(),
			})
			continue
		}

		outcome.Applied = append(outcome.Applied, applied)
		actions++
	}

	p.logger.Info("automation run finished",
		zap.Int64("candidate_id", candidateID),
		zap.Int("applied", len(outcome.Applied)),
		zap.Int("failed", len(outcome.Failures)),
		zap.Int("skipped", outcome.Skipped),
	)

	return outcome, nil
}

func (p *Policy) apply(ctx context.Context, candidateID int64, result *matching.Result) (Applied, error) {
	exists, err := p.store.ApplicationExists(ctx, candidateID, result.PositionID)
	if err != nil {
		return Applied{}, fmt.Errorf("exists check: %w", err)
	}
	if exists {
		return Applied{
			PositionID:     result.PositionID,
			Score:          result.Score,
			AlreadyExisted: true,
		}, nil
	}

	score := result.Score
	application := &crm.Application{
		CandidateID: candidateID,
		PositionID:  result.PositionID,
		Status:      crm.ApplicationStatusApplied,
		Source:      crm.ApplicationSourceAuto,
		MatchScore:  &score,
	}

	err = p.store.CreateApplication(ctx, application)
	if errors.Is(err, store.ErrDuplicate) {
		// A concurrent writer won the race; same outcome as exists above.
		return Applied{
			PositionID:     result.PositionID,
			Score:          result.Score,
			AlreadyExisted: true,
		}, nil
	}
	if err != nil {
		return Applied{}, fmt.Errorf("create application: %w", err)
	}

	p.recordApplied(ctx, candidateID, result)

	return Applied{
		PositionID:    result.PositionID,
		ApplicationID: application.ID,
		Score:         result.Score,
	}, nil
}

func (p *Policy) recordApplied(ctx context.Context, candidateID int64, result *matching.Result) {
	if p.activity == nil {
		return
	}

	err := p.activity.RecordActivity(ctx, store.Activity{
		Kind:        store.ActivityAutoApplied,
		CandidateID: candidateID,
		PositionID:  result.PositionID,
		Detail:      fmt.Sprintf("score=%d", result.Score),
	})
	if err != nil {
		p.logger.Warn("recording auto-apply activity failed", zap.Error(err))
	}
}
