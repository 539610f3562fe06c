// Package ai defines the contract every semantic analysis provider has to
// satisfy, independent of the concrete model behind it.
package ai

import (
	"context"
	"errors"

	"github.com/matchwell/matchwell/internal/crm"
)

// Tiers a comparison can land in. The model output is normalized to one of
// these; anything unrecognized becomes TierHold.
const (
	TierProceed = "proceed"
	TierHold    = "hold"
	TierReject  = "reject"
)

// ErrAnalyzer marks every failure of the analysis provider, including
// unparseable model output. Callers check it with errors.Is and decide
// whether the heuristic path alone is enough.
var ErrAnalyzer = errors.New("analyzer failure")

// Assessment is the structured judgment of one candidate/position
// comparison.
type Assessment struct {
	Score         int      `json:"score"`
	Tier          string   `json:"tier"`
	Confidence    string   `json:"confidence,omitempty"`
	MatchedSkills []string `json:"matched_skills,omitempty"`
	MissingSkills []string `json:"missing_skills,omitempty"`
	Rationale     string   `json:"rationale,omitempty"`
	Raw           string   `json:"-"`
}

// Analyzer extracts structured profiles from free text and compares them.
type Analyzer interface {
	// Analyze distills free text (a resume, a job description) into a
	// structured profile.
	Analyze(ctx context.Context, freeText string) (*crm.Profile, error)
	// Compare judges the fit of a candidate profile against a position
	// profile. The raw resume text is passed along for grounding.
	Compare(ctx context.Context, candidate, position *crm.Profile, rawResume string) (*Assessment, error)
}
