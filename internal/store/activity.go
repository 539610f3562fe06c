package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Activity kinds recorded by the engine.
const (
	ActivityMatchComputed = "match_computed"
	ActivityAutoApplied   = "auto_applied"
)

// Activity is one row in the activity log. Recording is fire-and-forget for
// the engine: a failed insert must never affect a scoring result.
type Activity struct {
	ID          string
	Kind        string
	CandidateID int64
	PositionID  int64
	Detail      string
	CreatedAt   time.Time
}

func (s *Store) RecordActivity(ctx context.Context, activity Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now().UTC()
	}

	query, args, err := s.builder.
		Insert("activity_log").
		Columns("id", "kind", "candidate_id", "position_id", "detail", "created_at").
		Values(activity.ID, activity.Kind, activity.CandidateID, activity.PositionID,
			activity.Detail, activity.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build activity insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}

	return nil
}
