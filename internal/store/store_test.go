package store

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/matchwell/matchwell/internal/crm"
)

var candidateColumns = []string{
	"id", "full_name", "email", "phone", "city", "current_title",
	"current_employer", "resume_text", "resume_url", "linkedin_url",
	"years_of_experience", "rating", "profile", "profile_analyzed_at",
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("creating sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewWithDB(db, zap.NewNop()), mock
}

func expectNoTags(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT t.id, t.name FROM tags").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
}

func candidateRow(profile []byte) *sqlmock.Rows {
	return sqlmock.NewRows(candidateColumns).
		AddRow(1, "Dana Levi", "dana@example.com", nil, "Tel Aviv", "Backend Engineer",
			nil, "resume text", nil, nil, 5, 4.0, profile, time.Now())
}

func TestGetCandidateNotFound(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery("SELECT .* FROM candidates").
		WillReturnRows(sqlmock.NewRows(candidateColumns))

	_, err := st.GetCandidate(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetCandidateDecodesProfile(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery("SELECT .* FROM candidates").
		WillReturnRows(candidateRow([]byte(`{"profile_version": 1, "skills": ["go"]}`)))
	expectNoTags(mock)

	candidate, err := st.GetCandidate(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if candidate.Profile == nil || candidate.Profile.Version != crm.ProfileVersion {
		t.Fatalf("expected a decoded current-version profile, got %+v", candidate.Profile)
	}
	if len(candidate.Profile.Skills) != 1 || candidate.Profile.Skills[0] != "go" {
		t.Fatalf("unexpected skills: %+v", candidate.Profile.Skills)
	}
	if candidate.YearsOfExperience == nil || *candidate.YearsOfExperience != 5 {
		t.Fatalf("expected 5 years of experience, got %+v", candidate.YearsOfExperience)
	}
	if candidate.Phone != "" {
		t.Fatalf("null phone must scan to empty, got %q", candidate.Phone)
	}
}

func TestGetCandidateToleratesBadProfileBlob(t *testing.T) {
	cases := []struct {
		name string
		blob []byte
	}{
		{"invalid json", []byte(`{"profile_version"`)},
		{"unknown version", []byte(`{"profile_version": 99}`)},
		{"missing discriminant", []byte(`{"skills": ["go"]}`)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st, mock := newMockStore(t)

			mock.ExpectQuery("SELECT .* FROM candidates").
				WillReturnRows(candidateRow(tc.blob))
			expectNoTags(mock)

			candidate, err := st.GetCandidate(context.Background(), 1)
			if err != nil {
				t.Fatalf("a bad cached blob must not fail the load: %v", err)
			}
			if candidate.Profile != nil {
				t.Fatalf("expected a cache miss, got %+v", candidate.Profile)
			}
		})
	}
}

func TestSaveCandidateProfileMissingRow(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("UPDATE candidates").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := st.SaveCandidateProfile(context.Background(), 42, &crm.Profile{Version: crm.ProfileVersion})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApplicationExists(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery("SELECT 1 FROM applications").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := st.ApplicationExists(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Fatal("expected the pair to exist")
	}

	mock.ExpectQuery("SELECT 1 FROM applications").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	exists, err = st.ApplicationExists(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Fatal("expected the pair to be absent")
	}
}

func TestCreateApplicationUniqueViolation(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO applications").
		WillReturnError(&pq.Error{Code: pqUniqueViolation})

	err := st.CreateApplication(context.Background(), &crm.Application{
		CandidateID: 1,
		PositionID:  2,
		Source:      crm.ApplicationSourceAuto,
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestCreateApplicationFillsDefaults(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO applications").
		WillReturnResult(sqlmock.NewResult(0, 1))

	application := &crm.Application{CandidateID: 1, PositionID: 2, Source: crm.ApplicationSourceAuto}
	if err := st.CreateApplication(context.Background(), application); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if application.ID == "" {
		t.Fatal("expected a generated application id")
	}
	if application.Status != crm.ApplicationStatusApplied {
		t.Fatalf("expected default status, got %q", application.Status)
	}
	if application.CreatedAt.IsZero() {
		t.Fatal("expected a creation timestamp")
	}
}
