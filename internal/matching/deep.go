package matching

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/matchwell/matchwell/internal/ai"
	"github.com/matchwell/matchwell/internal/crm"
	"github.com/matchwell/matchwell/internal/profile"
)

// DeepMatcher produces the semantic judgment for one pair: both profiles via
// the cache, then the analyzer's comparison capability.
type DeepMatcher struct {
	cache    *profile.Cache
	analyzer ai.Analyzer
	logger   *zap.Logger
}

func NewDeepMatcher(cache *profile.Cache, analyzer ai.Analyzer, logger *zap.Logger) *DeepMatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeepMatcher{cache: cache, analyzer: analyzer, logger: logger}
}

// RefreshCandidate recomputes the candidate profile once, ahead of a batch
// run that compares the same candidate against many postings.
func (m *DeepMatcher) RefreshCandidate(ctx context.Context, candidate *crm.Candidate) error {
	_, err := m.cache.CandidateProfile(ctx, candidate, true)
	return err
}

// Match obtains both profiles and compares them. The refresh flags are
// scoped per entity: a batch caller refreshes the shared candidate once and
// each posting on its own iteration.
func (m *DeepMatcher) Match(ctx context.Context, candidate *crm.Candidate, position *crm.Position, refreshCandidate, refreshPosition bool) (*ai.Assessment, error) {
	candidateProfile, err := m.cache.CandidateProfile(ctx, candidate, refreshCandidate)
	if err != nil {
		return nil, fmt.Errorf("candidate profile: %w", err)
	}

	positionProfile, err := m.cache.PositionProfile(ctx, position, refreshPosition)
	if err != nil {
		return nil, fmt.Errorf("position profile: %w", err)
	}

	assessment, err := m.analyzer.Compare(ctx, candidateProfile, positionProfile, candidate.ResumeText)
	if err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}

	m.logger.Debug("deep match computed",
		zap.Int64("candidate_id", candidate.ID),
		zap.Int64("position_id", position.ID),
		zap.Int("semantic_score", assessment.Score),
		zap.String("tier", assessment.Tier),
	)

	return assessment, nil
}
