package matching

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/matchwell/matchwell/internal/crm"
	"github.com/matchwell/matchwell/internal/scoring"
	"github.com/matchwell/matchwell/internal/store"
)

// DefaultLimit caps how many ranked results a scoreAll call returns unless
// the caller asks otherwise. NoLimit disables truncation, for callers like
// the automation policy that walk the full ranking themselves.
const (
	DefaultLimit = 10
	NoLimit      = -1
)

// Sort keys for ranked output. Heuristic is canonical; semantic is an
// auxiliary signal the caller may rank by instead.
const (
	ByHeuristic = "heuristic"
	BySemantic  = "semantic"
)

// Store is the persistence surface the ranker reads from.
type Store interface {
	GetCandidate(ctx context.Context, id int64) (*crm.Candidate, error)
	GetPosition(ctx context.Context, id int64) (*crm.Position, error)
	ListActivePositions(ctx context.Context) (*crm.Positions, error)
	ListCandidateEmployers(ctx context.Context, candidateID int64) ([]string, error)
}

// ActivityRecorder is the optional fire-and-forget activity log.
type ActivityRecorder interface {
	RecordActivity(ctx context.Context, activity store.Activity) error
}

// Options control one ranking call.
type Options struct {
	// Deep requests the semantic comparison per posting; it is the
	// expensive path and off by default.
	Deep bool
	// ForceRefresh invalidates the cached profiles of the involved
	// entities before deep analysis.
	ForceRefresh bool
	// Limit truncates ranked output; DefaultLimit when zero, NoLimit
	// (or any negative value) disables truncation.
	Limit int
	// By selects the primary sort key; ByHeuristic when empty.
	By string
}

type Ranker struct {
	store    Store
	scorer   *scoring.Scorer
	deep     *DeepMatcher
	activity ActivityRecorder
	logger   *zap.Logger
}

func NewRanker(st Store, scorer *scoring.Scorer, deep *DeepMatcher, activity ActivityRecorder, logger *zap.Logger) *Ranker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{
		store:    st,
		scorer:   scorer,
		deep:     deep,
		activity: activity,
		logger:   logger,
	}
}

// ScoreOne computes the match for a single candidate/position pair.
func (r *Ranker) ScoreOne(ctx context.Context, candidateID, positionID int64, opts Options) (*Result, error) {
	if candidateID <= 0 {
		return nil, fmt.Errorf("%w: candidate id is required", ErrValidation)
	}
	if positionID <= 0 {
		return nil, fmt.Errorf("%w: position id is required", ErrValidation)
	}

	candidate, err := r.store.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	position, err := r.store.GetPosition(ctx, positionID)
	if err != nil {
		return nil, err
	}

	employers, err := r.store.ListCandidateEmployers(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	result := r.score(candidate, position, employers)

	if opts.Deep {
		assessment, err := r.deep.Match(ctx, candidate, position, opts.ForceRefresh, opts.ForceRefresh)
		if err != nil {
			// The heuristic result stands on its own; the semantic failure
			// is recorded, not fatal.
			r.logger.Warn("deep analysis failed",
				zap.Int64("candidate_id", candidateID),
				zap.Int64("position_id", positionID),
				zap.Error(err),
			)
			result.SemanticError = err.Error()
		} else {
			result.Semantic = assessment
		}
	}

	r.recordMatch(ctx, result)

	return result, nil
}

// ScoreAll ranks all active postings for the candidate. Per-item failures
// land in the aggregate; the call itself fails only when the candidate does
// not resolve or the posting list cannot be loaded.
func (r *Ranker) ScoreAll(ctx context.Context, candidateID int64, opts Options) (*Ranking, error) {
	if candidateID <= 0 {
		return nil, fmt.Errorf("%w: candidate id is required", ErrValidation)
	}

	candidate, err := r.store.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	positions, err := r.store.ListActivePositions(ctx)
	if err != nil {
		return nil, err
	}

	employers, err := r.store.ListCandidateEmployers(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	// The candidate text does not change per posting, so a forced refresh
	// recomputes it once for the whole batch, not once per analyzer call.
	refreshCandidate := opts.ForceRefresh
	if opts.Deep && refreshCandidate {
		if err := r.deep.RefreshCandidate(ctx, candidate); err != nil {
			r.logger.Warn("candidate profile refresh failed, retrying per posting",
				zap.Int64("candidate_id", candidateID),
				zap.Error(err),
			)
		} else {
			refreshCandidate = false
		}
	}

	ranking := &Ranking{}
	for _, position := range positions.Items {
		result := r.score(candidate, position, employers)

		if opts.Deep {
			assessment, err := r.deep.Match(ctx, candidate, position, refreshCandidate, opts.ForceRefresh)
			if err != nil {
				r.logger.Warn("deep analysis failed for posting, keeping heuristic result",
					zap.Int64("candidate_id", candidateID),
					zap.Int64("position_id", position.ID),
					zap.Error(err),
				)
				result.SemanticError = err.Error()
				ranking.Failures = append(ranking.Failures, ItemFailure{
					PositionID: position.ID,
					Reason:     err.Error(),
				})
			} else {
				result.Semantic = assessment
				// A successful match means the candidate profile is in
				// place; later iterations reuse it.
				refreshCandidate = false
			}
		}

		ranking.Results = append(ranking.Results, result)
	}

	sortResults(ranking.Results, opts.By)

	limit := opts.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > 0 && len(ranking.Results) > limit {
		ranking.Results = ranking.Results[:limit]
	}

	r.logger.Info("ranking computed",
		zap.Int64("candidate_id", candidateID),
		zap.Int("results", len(ranking.Results)),
		zap.Int("failures", len(ranking.Failures)),
		zap.Bool("deep", opts.Deep),
	)

	return ranking, nil
}

func (r *Ranker) score(candidate *crm.Candidate, position *crm.Position, employers []string) *Result {
	score := r.scorer.Score(candidate, position)

	result := &Result{
		CandidateID:  candidate.ID,
		PositionID:   position.ID,
		Title:        position.Title,
		EmployerName: position.EmployerName,
		Breakdown:    score.Breakdown,
		Score:        score.Total,
	}

	if reason, blocked := blockedBy(position.EmployerName, employers); blocked {
		result.Blocked = true
		result.BlockedReason = reason
	}

	return result
}

func (r *Ranker) recordMatch(ctx context.Context, result *Result) {
	if r.activity == nil {
		return
	}

	err := r.activity.RecordActivity(ctx, store.Activity{
		Kind:        store.ActivityMatchComputed,
		CandidateID: result.CandidateID,
		PositionID:  result.PositionID,
		Detail:      fmt.Sprintf("score=%d", result.Score),
	})
	if err != nil {
		r.logger.Warn("recording match activity failed", zap.Error(err))
	}
}

// sortResults orders descending by the selected key with a stable sort, so
// equal scores keep their fetch order. Results without a semantic score sort
// after those with one when ranking by semantic.
func sortResults(results []*Result, by string) {
	if by == BySemantic {
		sort.SliceStable(results, func(i, j int) bool {
			si, iOK := results[i].SemanticScore()
			sj, jOK := results[j].SemanticScore()
			if iOK != jOK {
				return iOK
			}
			return si > sj
		})
		return
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}
