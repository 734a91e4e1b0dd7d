package build

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/mkoval/remexec/pkg/config"
	"github.com/mkoval/remexec/pkg/report"
)

// DefaultMaxConcurrent bounds parallel builds when the caller does not
const DefaultMaxConcurrent = 3

// RunAll executes independent build requests concurrently with a bounded
// number in flight. Each request gets its own orchestrator, reporter and
// registry snapshot; one build failing never cancels its siblings. Results
// arrive in completion order.
func RunAll(ctx context.Context, store *config.Store, reqs []Request, newReporter func(Request) report.Reporter, maxConcurrent int, logger zerolog.Logger) ([]Outcome, error) {
	if len(reqs) == 0 {
		logger.Warn().Msg("no build requests to run")
		return nil, nil
	}

	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}

	logger.Info().
		Int("total_builds", len(reqs)).
		Int("max_concurrent", maxConcurrent).
		Msg("starting parallel build execution")

	sem := semaphore.NewWeighted(int64(maxConcurrent))
	g, gCtx := errgroup.WithContext(ctx)

	outcomesChan := make(chan Outcome, len(reqs))

	for _, req := range reqs {
		g.Go(func() error {
			if err := sem.Acquire(gCtx, 1); err != nil {
				return fmt.Errorf("failed to acquire semaphore: %w", err)
			}
			defer sem.Release(1)

			// Each build resolves against the snapshot current at its
			// own start time; a settings reload mid-run affects only
			// builds that have not started yet.
			orch := New(req, store.Snapshot(), newReporter(req), logger)
			outcomesChan <- orch.Run(gCtx)

			// Builds are independent: a failed outcome is reported
			// through its own sink, never used to cancel siblings.
			return nil
		})
	}

	waitErr := g.Wait()
	close(outcomesChan)

	var outcomes []Outcome
	successCount := 0
	for outcome := range outcomesChan {
		if outcome.Status == report.StatusSuccess {
			successCount++
		}
		outcomes = append(outcomes, outcome)
	}

	logger.Info().
		Int("successful", successCount).
		Int("failed", len(outcomes)-successCount).
		Msg("parallel build execution completed")

	return outcomes, waitErr
}
