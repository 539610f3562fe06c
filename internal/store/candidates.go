package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/matchwell/matchwell/internal/crm"
)

// GetCandidate loads a candidate with tags and the cached profile, if any.
func (s *Store) GetCandidate(ctx context.Context, id int64) (*crm.Candidate, error) {
	query, args, err := s.builder.
		Select("id", "full_name", "email", "phone", "city", "current_title",
			"current_employer", "resume_text", "resume_url", "linkedin_url",
			"years_of_experience", "rating", "profile", "profile_analyzed_at").
		From("candidates").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build candidate query: %w", err)
	}

	var (
		candidate  crm.Candidate
		email      sql.NullString
		phone      sql.NullString
		city       sql.NullString
		title      sql.NullString
		employer   sql.NullString
		resumeText sql.NullString
		resumeURL  sql.NullString
		linkedin   sql.NullString
		years      sql.NullInt64
		rating     sql.NullFloat64
		profile    []byte
		analyzedAt sql.NullTime
	)

	row := s.db.QueryRowContext(ctx, query, args...)
	err = row.Scan(&candidate.ID, &candidate.FullName, &email, &phone, &city,
		&title, &employer, &resumeText, &resumeURL, &linkedin, &years, &rating,
		&profile, &analyzedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("candidate %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan candidate %d: %w", id, err)
	}

	candidate.Email = email.String
	candidate.Phone = phone.String
	candidate.City = city.String
	candidate.CurrentTitle = title.String
	candidate.CurrentEmployer = employer.String
	candidate.ResumeText = resumeText.String
	candidate.ResumeURL = resumeURL.String
	candidate.LinkedinURL = linkedin.String
	if years.Valid {
		v := int(years.Int64)
		candidate.YearsOfExperience = &v
	}
	if rating.Valid {
		v := rating.Float64
		candidate.Rating = &v
	}

	candidate.Profile = s.decodeProfile(profile, analyzedAt, "candidate", candidate.ID)

	tags, err := s.entityTags(ctx, "candidate_tags", "candidate_id", id)
	if err != nil {
		return nil, err
	}
	candidate.Tags = tags

	return &candidate, nil
}

// SaveCandidateProfile persists the cached analysis on the candidate record.
func (s *Store) SaveCandidateProfile(ctx context.Context, id int64, profile *crm.Profile) error {
	return s.saveProfile(ctx, "candidates", id, profile)
}

// ListCandidateEmployers returns the candidate's current employer plus the
// employer of every position the candidate already applied to. Used for the
// conflict-of-interest blocking flag.
func (s *Store) ListCandidateEmployers(ctx context.Context, candidateID int64) ([]string, error) {
	seen := make(map[string]bool)
	var employers []string

	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		employers = append(employers, name)
	}

	var current sql.NullString
	query, args, err := s.builder.
		Select("current_employer").
		From("candidates").
		Where(sq.Eq{"id": candidateID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build employer query: %w", err)
	}

	err = s.db.QueryRowContext(ctx, query, args...).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("candidate %d: %w", candidateID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan current employer: %w", err)
	}
	add(current.String)

	query, args, err = s.builder.
		Select("p.employer_name").
		From("applications a").
		Join("positions p ON p.id = a.position_id").
		Where(sq.Eq{"a.candidate_id": candidateID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build history query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query employer history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name sql.NullString
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan employer history: %w", err)
		}
		add(name.String)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("employer history rows: %w", err)
	}

	return employers, nil
}

// decodeProfile tolerates undecodable or unknown-version blobs: the caller
// sees a cache miss, not a load failure.
func (s *Store) decodeProfile(blob []byte, analyzedAt sql.NullTime, kind string, id int64) *crm.Profile {
	if len(blob) == 0 {
		return nil
	}

	var raw map[string]any
	if err := json.Unmarshal(blob, &raw); err != nil {
		s.logger.Warn("cached profile blob is not valid json",
			zap.String("entity", kind),
			zap.Int64("id", id),
			zap.Error(err),
		)
		return nil
	}

	stamp := analyzedAt.Time
	if !analyzedAt.Valid {
		stamp = time.Time{}
	}

	profile, err := crm.DecodeProfile(raw, stamp)
	if err != nil {
		s.logger.Warn("cached profile not usable, will recompute on demand",
			zap.String("entity", kind),
			zap.Int64("id", id),
			zap.Error(err),
		)
		return nil
	}

	return profile
}

func (s *Store) saveProfile(ctx context.Context, table string, id int64, profile *crm.Profile) error {
	blob, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	query, args, err := s.builder.
		Update(table).
		Set("profile", blob).
		Set("profile_analyzed_at", profile.AnalyzedAt).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build profile update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s profile: %w", table, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("%s %d: %w", table, id, ErrNotFound)
	}

	return nil
}

func (s *Store) entityTags(ctx context.Context, joinTable, joinColumn string, id int64) (crm.Tags, error) {
	query, args, err := s.builder.
		Select("t.id", "t.name").
		From("tags t").
		Join(fmt.Sprintf("%s j ON j.tag_id = t.id", joinTable)).
		Where(sq.Eq{"j." + joinColumn: id}).
		OrderBy("j.ordinal", "t.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build tags query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	var tags crm.Tags
	for rows.Next() {
		var tag crm.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tag rows: %w", err)
	}

	return tags, nil
}
