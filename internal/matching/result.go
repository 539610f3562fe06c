// Package matching orchestrates the scoring pipeline: attribute scoring for
// every posting, optional semantic comparison, blocking flags, ranking and
// truncation.
package matching

import (
	"errors"

	"github.com/matchwell/matchwell/internal/ai"
	"github.com/matchwell/matchwell/internal/scoring"
)

// ErrValidation marks calls rejected before any work begins, e.g. a missing
// identifier.
var ErrValidation = errors.New("validation")

// Result is the match outcome for one candidate/position pair. It carries
// both the deterministic heuristic score and, when deep analysis ran, the
// semantic judgment; neither destroys the other.
type Result struct {
	CandidateID  int64  `json:"candidate_id"`
	PositionID   int64  `json:"position_id"`
	Title        string `json:"title"`
	EmployerName string `json:"employer_name,omitempty"`

	Breakdown scoring.Breakdown `json:"breakdown"`
	Score     int               `json:"score"`

	// Blocked is advisory: the caller decides whether to hide the result.
	Blocked       bool   `json:"blocked,omitempty"`
	BlockedReason string `json:"blocked_reason,omitempty"`

	// Semantic is nil when deep analysis was not requested or failed;
	// SemanticError records why.
	Semantic      *ai.Assessment `json:"semantic,omitempty"`
	SemanticError string         `json:"semantic_error,omitempty"`
}

// SemanticScore returns the semantic score and whether one is present.
func (r *Result) SemanticScore() (int, bool) {
	if r.Semantic == nil {
		return 0, false
	}
	return r.Semantic.Score, true
}

// ItemFailure identifies one batch item that produced no result.
type ItemFailure struct {
	PositionID int64  `json:"position_id"`
	Reason     string `json:"reason"`
}

// Ranking is the partial-result aggregate of one scoreAll call: batch errors
// never fail the whole call, they land in Failures where tests can count them.
type Ranking struct {
	Results  []*Result     `json:"results"`
	Failures []ItemFailure `json:"failures,omitempty"`
}

// SemanticCount returns how many results carry a semantic assessment.
func (r *Ranking) SemanticCount() int {
	count := 0
	for _, result := range r.Results {
		if result.Semantic != nil {
			count++
		}
	}
	return count
}
