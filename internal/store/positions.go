package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/matchwell/matchwell/internal/crm"
)

var positionColumns = []string{
	"id", "title", "description", "location", "employer_name",
	"created_at", "active", "profile", "profile_analyzed_at",
}

// GetPosition loads a position with tags and the cached profile, if any.
func (s *Store) GetPosition(ctx context.Context, id int64) (*crm.Position, error) {
	query, args, err := s.builder.
		Select(positionColumns...).
		From("positions").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build position query: %w", err)
	}

	position, err := s.scanPosition(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("position %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan position %d: %w", id, err)
	}

	tags, err := s.entityTags(ctx, "position_tags", "position_id", id)
	if err != nil {
		return nil, err
	}
	position.Tags = tags

	return position, nil
}

// ListActivePositions returns all active postings, newest first. The order is
// stable so equal-score ranking results stay deterministic.
func (s *Store) ListActivePositions(ctx context.Context) (*crm.Positions, error) {
	query, args, err := s.builder.
		Select(positionColumns...).
		From("positions").
		Where(sq.Eq{"active": true}).
		OrderBy("created_at DESC", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build active positions query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query active positions: %w", err)
	}
	defer rows.Close()

	positions := &crm.Positions{}
	for rows.Next() {
		position, err := s.scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		positions.Items = append(positions.Items, position)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("position rows: %w", err)
	}

	for _, position := range positions.Items {
		tags, err := s.entityTags(ctx, "position_tags", "position_id", position.ID)
		if err != nil {
			return nil, err
		}
		position.Tags = tags
	}

	return positions, nil
}

// SavePositionProfile persists the cached analysis on the position record.
func (s *Store) SavePositionProfile(ctx context.Context, id int64, profile *crm.Profile) error {
	return s.saveProfile(ctx, "positions", id, profile)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanPosition(row rowScanner) (*crm.Position, error) {
	var (
		position   crm.Position
		desc       sql.NullString
		location   sql.NullString
		employer   sql.NullString
		profile    []byte
		analyzedAt sql.NullTime
	)

	err := row.Scan(&position.ID, &position.Title, &desc, &location, &employer,
		&position.CreatedAt, &position.Active, &profile, &analyzedAt)
	if err != nil {
		return nil, err
	}

	position.Description = desc.String
	position.Location = location.String
	position.EmployerName = employer.String
	position.Profile = s.decodeProfile(profile, analyzedAt, "position", position.ID)

	return &position, nil
}
