// Package profile owns the cached text analyses: get-or-compute over the
// external analyzer, persisted on the entity record. Staleness is
// caller-driven via forceRefresh, never time-driven.
package profile

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/matchwell/matchwell/internal/ai"
	"github.com/matchwell/matchwell/internal/crm"
)

// Store is the subset of the persistence layer the cache writes through to.
type Store interface {
	SaveCandidateProfile(ctx context.Context, id int64, profile *crm.Profile) error
	SavePositionProfile(ctx context.Context, id int64, profile *crm.Profile) error
}

type Cache struct {
	analyzer ai.Analyzer
	store    Store
	logger   *zap.Logger
	now      func() time.Time
}

func NewCache(analyzer ai.Analyzer, store Store, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		analyzer: analyzer,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

// CandidateProfile returns the cached profile or computes, persists and
// attaches a fresh one. Concurrent recompute for the same entity is
// tolerated; analysis is idempotent and the last write wins.
func (c *Cache) CandidateProfile(ctx context.Context, candidate *crm.Candidate, forceRefresh bool) (*crm.Profile, error) {
	if candidate.Profile.Valid(forceRefresh) {
		return candidate.Profile, nil
	}

	profile, err := c.compute(ctx, candidate.AnalysisText())
	if err != nil {
		return nil, err
	}

	if err := c.store.SaveCandidateProfile(ctx, candidate.ID, profile); err != nil {
		// The entity keeps its previous cached value; the fresh result is
		// still usable for this request.
		c.logger.Warn("persisting candidate profile failed",
			zap.Int64("candidate_id", candidate.ID),
			zap.Error(err),
		)
	}

	candidate.Profile = profile
	return profile, nil
}

// PositionProfile is the position-side counterpart of CandidateProfile.
func (c *Cache) PositionProfile(ctx context.Context, position *crm.Position, forceRefresh bool) (*crm.Profile, error) {
	if position.Profile.Valid(forceRefresh) {
		return position.Profile, nil
	}

	profile, err := c.compute(ctx, position.AnalysisText())
	if err != nil {
		return nil, err
	}

	if err := c.store.SavePositionProfile(ctx, position.ID, profile); err != nil {
		c.logger.Warn("persisting position profile failed",
			zap.Int64("position_id", position.ID),
			zap.Error(err),
		)
	}

	position.Profile = profile
	return profile, nil
}

func (c *Cache) compute(ctx context.Context, text string) (*crm.Profile, error) {
	profile, err := c.analyzer.Analyze(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	profile.Version = crm.ProfileVersion
	profile.AnalyzedAt = c.now().UTC()
	return profile, nil
}
