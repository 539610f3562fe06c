package automation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/matchwell/matchwell/internal/crm"
	"github.com/matchwell/matchwell/internal/matching"
	"github.com/matchwell/matchwell/internal/store"
)

type pair struct {
	candidateID int64
	positionID  int64
}

type stubAppStore struct {
	existing  map[pair]bool
	failOn    map[int64]error
	created   []*crm.Application
	existsErr error
}

func newStubAppStore() *stubAppStore {
	return &stubAppStore{existing: make(map[pair]bool), failOn: make(map[int64]error)}
}

func (s *stubAppStore) ApplicationExists(_ context.Context, candidateID, positionID int64) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	return s.existing[pair{candidateID, positionID}], nil
}

func (s *stubAppStore) CreateApplication(_ context.Context, application *crm.Application) error {
	if err := s.failOn[application.PositionID]; err != nil {
		return err
	}
	key := pair{application.CandidateID, application.PositionID}
	if s.existing[key] {
		return fmt.Errorf("pair exists: %w", store.ErrDuplicate)
	}
	s.existing[key] = true
	application.ID = fmt.Sprintf("app-%d", application.PositionID)
	s.created = append(s.created, application)
	return nil
}

func results(scores ...int) []*matching.Result {
	out := make([]*matching.Result, 0, len(scores))
	for i, score := range scores {
		out = append(out, &matching.Result{
			CandidateID: 1,
			PositionID:  int64(i + 1),
			Score:       score,
		})
	}
	return out
}

func TestPolicyThreshold(t *testing.T) {
	st := newStubAppStore()
	policy := NewPolicy(DefaultConfig(), st, nil, zap.NewNop())

	outcome, err := policy.Run(context.Background(), 1, results(90, 75, 74, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(outcome.Applied) != 2 {
		t.Fatalf("expected 2 applications, got %d", len(outcome.Applied))
	}
	if outcome.Skipped != 2 {
		t.Fatalf("expected 2 skipped, got %d", outcome.Skipped)
	}
	if len(st.created) != 2 {
		t.Fatalf("expected 2 created records, got %d", len(st.created))
	}

	first := st.created[0]
	if first.Source != crm.ApplicationSourceAuto {
		t.Fatalf("expected auto source, got %s", first.Source)
	}
	if first.MatchScore == nil || *first.MatchScore != 90 {
		t.Fatalf("expected triggering score on the record, got %v", first.MatchScore)
	}
}

func TestPolicyActionCap(t *testing.T) {
	st := newStubAppStore()
	policy := NewPolicy(Config{Threshold: 75, MaxActions: 2}, st, nil, zap.NewNop())

	outcome, err := policy.Run(context.Background(), 1, results(90, 89, 88, 87))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outcome.Applied) != 2 {
		t.Fatalf("expected cap of 2 actions, got %d", len(outcome.Applied))
	}
}

func TestPolicyIdempotent(t *testing.T) {
	st := newStubAppStore()
	policy := NewPolicy(DefaultConfig(), st, nil, zap.NewNop())

	ranked := results(90, 85)

	first, err := policy.Run(context.Background(), 1, ranked)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first.Applied) != 2 {
		t.Fatalf("expected 2 applications on first run, got %d", len(first.Applied))
	}

	second, err := policy.Run(context.Background(), 1, ranked)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second.Applied) != 2 {
		t.Fatalf("repeat run must still report success, got %d", len(second.Applied))
	}
	for _, applied := range second.Applied {
		if !applied.AlreadyExisted {
			t.Fatalf("expected no-op success on repeat, got %+v", applied)
		}
	}
	if len(st.created) != 2 {
		t.Fatalf("repeat run must not create duplicates, got %d records", len(st.created))
	}
}

func TestPolicyDuplicateRaceTreatedAsSuccess(t *testing.T) {
	st := newStubAppStore()
	// Exists check says no, insert hits the unique constraint.
	st.failOn[1] = fmt.Errorf("insert: %w", store.ErrDuplicate)
	policy := NewPolicy(DefaultConfig(), st, nil, zap.NewNop())

	outcome, err := policy.Run(context.Background(), 1, results(90))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outcome.Applied) != 1 || !outcome.Applied[0].AlreadyExisted {
		t.Fatalf("duplicate insert must be a no-op success, got %+v", outcome)
	}
	if len(outcome.Failures) != 0 {
		t.Fatalf("duplicate must not be a failure, got %+v", outcome.Failures)
	}
}

func TestPolicyFailureIsolation(t *testing.T) {
	st := newStubAppStore()
	st.failOn[2] = errors.New("connection reset")
	policy := NewPolicy(DefaultConfig(), st, nil, zap.NewNop())

	outcome, err := policy.Run(context.Background(), 1, results(90, 89, 88))
	if err != nil {
		t.Fatalf("one bad pair must not abort the run: %v", err)
	}
	if len(outcome.Applied) != 2 {
		t.Fatalf("expected 2 applications, got %d", len(outcome.Applied))
	}
	if len(outcome.Failures) != 1 || outcome.Failures[0].PositionID != 2 {
		t.Fatalf("expected recorded failure for position 2, got %+v", outcome.Failures)
	}
}

func TestPolicySkipsBlocked(t *testing.T) {
	st := newStubAppStore()
	policy := NewPolicy(DefaultConfig(), st, nil, zap.NewNop())

	ranked := results(90, 85)
	ranked[0].Blocked = true
	ranked[0].BlockedReason = "Acme"

	outcome, err := policy.Run(context.Background(), 1, ranked)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outcome.Applied) != 1 || outcome.Applied[0].PositionID != 2 {
		t.Fatalf("expected only the unblocked position applied, got %+v", outcome.Applied)
	}
}

func TestPolicyValidation(t *testing.T) {
	policy := NewPolicy(DefaultConfig(), newStubAppStore(), nil, zap.NewNop())

	_, err := policy.Run(context.Background(), 0, results(90))
	if !errors.Is(err, matching.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
