package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/matchwell/matchwell/internal/crm"
)

const pqUniqueViolation = "23505"

// ApplicationExists reports whether an application already links the pair.
func (s *Store) ApplicationExists(ctx context.Context, candidateID, positionID int64) (bool, error) {
	query, args, err := s.builder.
		Select("1").
		From("applications").
		Where(sq.Eq{"candidate_id": candidateID, "position_id": positionID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}

	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("application exists check: %w", err)
}

// CreateApplication inserts a new application. A unique violation on the
// (candidate_id, position_id) pair is reported as ErrDuplicate so callers
// can treat it as an idempotent no-op.
func (s *Store) CreateApplication(ctx context.Context, application *crm.Application) error {
	if application.ID == "" {
		application.ID = uuid.NewString()
	}
	if application.CreatedAt.IsZero() {
		application.CreatedAt = time.Now().UTC()
	}
	if application.Status == "" {
		application.Status = crm.ApplicationStatusApplied
	}

	query, args, err := s.builder.
		Insert("applications").
		Columns("id", "candidate_id", "position_id", "status", "source", "match_score", "created_at").
		Values(application.ID, application.CandidateID, application.PositionID,
			application.Status, application.Source, application.MatchScore, application.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build application insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return fmt.Errorf("candidate %d / position %d: %w",
				application.CandidateID, application.PositionID, ErrDuplicate)
		}
		return fmt.Errorf("insert application: %w", err)
	}

	return nil
}
