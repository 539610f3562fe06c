package crm

import "time"

const (
	ApplicationStatusApplied = "applied"

	// ApplicationSourceAuto marks applications created by the automation
	// policy rather than a recruiter.
	ApplicationSourceAuto   = "auto"
	ApplicationSourceManual = "manual"
)

// Application links one candidate to one position. The pair is unique; the
// store enforces it and creation of an existing pair is a no-op for callers.
type Application struct {
	ID          string    `json:"id"`
	CandidateID int64     `json:"candidate_id"`
	PositionID  int64     `json:"position_id"`
	Status      string    `json:"status"`
	Source      string    `json:"source"`
	MatchScore  *int      `json:"match_score,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
