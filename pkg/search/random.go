package search

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pmarrero/ihtp/pkg/core/engine"
)

// Random is the baseline sampler: it evaluates independent random
// candidates until the time limit (or MaxGenerations evaluations when
// no limit is set) and keeps the lexicographic best. Candidates the
// engine rejects for data-consistency faults are discarded and the
// loop continues; a check/commit inconsistency aborts the run since it
// signals an engine bug rather than a bad candidate.
func Random(eng *engine.Engine, params Parameters, logger *zap.Logger) (*Result, error) {
	if params.TimeLimit <= 0 && params.MaxGenerations < 1 {
		return nil, fmt.Errorf("a time limit or a positive evaluation budget is required, got limit %s and %d generations",
			params.TimeLimit, params.MaxGenerations)
	}

	rng := newRNG(params.Seed)
	inst := eng.Instance()
	start := time.Now()
	deadline := newDeadline(start, params.TimeLimit)

	budget := params.MaxGenerations
	if params.TimeLimit > 0 {
		budget = 0
	}

	var best *individual
	evaluations := 0
	for !deadline.expired() && (budget == 0 || evaluations < budget) {
		enc := RandomCandidate(rng, inst)
		score, err := eng.Solve(enc)
		if err != nil {
			if errors.Is(err, engine.ErrUnknownEntity) {
				logger.Debug("discarding malformed candidate", zap.Error(err))
				continue
			}
			return nil, err
		}
		evaluations++

		if best == nil || score.Better(best.score) {
			best = &individual{enc: enc.Clone(), score: score}
			logger.Info("new incumbent",
				zap.Int("evaluations", evaluations),
				zap.Int("hard", score.Hard),
				zap.Int("soft", score.Soft),
			)
		}
	}

	if best == nil {
		return nil, errors.New("no candidate evaluated within the budget")
	}
	return &Result{
		Best:        best.enc,
		Score:       best.score,
		Evaluations: evaluations,
		Elapsed:     time.Since(start),
	}, nil
}
