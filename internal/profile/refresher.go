package profile

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/matchwell/matchwell/internal/crm"
)

const defaultRefreshWorkers = 4

// Outcome reports the result of one background profile recompute. Failures
// are observable here and in the log; they never abort the batch.
type Outcome struct {
	Entity string // "candidate" or "position"
	ID     int64
	Err    error
}

// Refresher recomputes profiles for a set of entities in the background with
// bounded concurrency.
type Refresher struct {
	cache   *Cache
	workers int
	logger  *zap.Logger
}

func NewRefresher(cache *Cache, workers int, logger *zap.Logger) *Refresher {
	if workers <= 0 {
		workers = defaultRefreshWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{cache: cache, workers: workers, logger: logger}
}

// Refresh recomputes every listed profile and delivers one Outcome per
// entity. The returned channel is closed when all work is done.
func (r *Refresher) Refresh(ctx context.Context, candidates []*crm.Candidate, positions []*crm.Position) <-chan Outcome {
	outcomes := make(chan Outcome, len(candidates)+len(positions))
	sem := make(chan struct{}, r.workers)

	var wg sync.WaitGroup

	run := func(entity string, id int64, recompute func() error) {
		defer wg.Done()
		sem <- struct{}{}
		defer func() { <-sem }()

		err := recompute()
		if err != nil {
			r.logger.Warn("background profile refresh failed",
				zap.String("entity", entity),
				zap.Int64("id", id),
				zap.Error(err),
			)
		}
		outcomes <- Outcome{Entity: entity, ID: id, Err: err}
	}

	for _, candidate := range candidates {
		wg.Add(1)
		go run("candidate", candidate.ID, func() error {
			_, err := r.cache.CandidateProfile(ctx, candidate, true)
			return err
		})
	}

	for _, position := range positions {
		wg.Add(1)
		go run("position", position.ID, func() error {
			_, err := r.cache.PositionProfile(ctx, position, true)
			return err
		})
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	return outcomes
}
