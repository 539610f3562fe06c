package profile

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/matchwell/matchwell/internal/ai"
	"github.com/matchwell/matchwell/internal/crm"
)

type flakyAnalyzer struct {
	stubAnalyzer
	failText string
}

func (f *flakyAnalyzer) Analyze(ctx context.Context, freeText string) (*crm.Profile, error) {
	if freeText == f.failText {
		return nil, errors.New("analyzer down")
	}
	return f.stubAnalyzer.Analyze(ctx, freeText)
}

func (f *flakyAnalyzer) Compare(context.Context, *crm.Profile, *crm.Profile, string) (*ai.Assessment, error) {
	return nil, errors.New("not used")
}

func TestRefresherDeliversAllOutcomes(t *testing.T) {
	analyzer := &flakyAnalyzer{failText: "broken"}
	store := &stubProfileStore{}
	cache := NewCache(analyzer, store, zap.NewNop())
	refresher := NewRefresher(cache, 2, zap.NewNop())

	candidates := []*crm.Candidate{
		{ID: 1, ResumeText: "fine"},
		{ID: 2, ResumeText: "broken"},
	}
	positions := []*crm.Position{
		{ID: 10, Description: "fine"},
	}

	var failed, succeeded int
	for outcome := range refresher.Refresh(context.Background(), candidates, positions) {
		if outcome.Err != nil {
			failed++
			if outcome.Entity != "candidate" || outcome.ID != 2 {
				t.Fatalf("unexpected failing entity: %s %d", outcome.Entity, outcome.ID)
			}
		} else {
			succeeded++
		}
	}

	if succeeded != 2 || failed != 1 {
		t.Fatalf("expected 2 successes and 1 failure, got %d/%d", succeeded, failed)
	}
}

func TestRefresherEmptyInput(t *testing.T) {
	cache := NewCache(&stubAnalyzer{}, &stubProfileStore{}, zap.NewNop())
	refresher := NewRefresher(cache, 0, zap.NewNop())

	count := 0
	for range refresher.Refresh(context.Background(), nil, nil) {
		count++
	}
	if count != 0 {
		t.Fatalf("expected no outcomes, got %d", count)
	}
}
