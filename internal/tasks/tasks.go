// package tasks implements batch ISRC matching against catalog providers.
//
// The core abstraction is MatchEngine, which walks input rows in order, queries the provider once per row, and assembles an immutable report.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/isrcx/internal/models"
	"github.com/desertthunder/isrcx/internal/services"
	"github.com/desertthunder/isrcx/internal/shared"
	"golang.org/x/time/rate"
)

// Engine defines operations for matching batches of ISRCs.
type Engine interface {
	// Run looks up every input row in order and returns the assembled
	// report. Per-row failures become error rows; only configuration,
	// authentication, and cancellation abort the batch.
	Run(ctx context.Context, progress chan<- ProgressUpdate, rows []models.InputRow, passthrough []string, source string) (*models.Report, error)
}

// MatchEngine implements Engine against a single catalog provider.
// Requests are paced with a rate limiter so the provider sees at most
// one lookup per configured delay.
type MatchEngine struct {
	matcher services.Matcher
	delay   time.Duration
}

// NewMatchEngine creates an engine that spaces provider requests by
// delay. A zero delay disables pacing.
func NewMatchEngine(matcher services.Matcher, delay time.Duration) *MatchEngine {
	return &MatchEngine{matcher: matcher, delay: delay}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *MatchEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run matches rows one at a time, preserving input order in the
// result set. Invalid ISRCs are recorded without touching the network.
func (e *MatchEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, rows []models.InputRow, passthrough []string, source string) (*models.Report, error) {
	if e.matcher == nil {
		return nil, fmt.Errorf("%w: matcher not initialized", shared.ErrServiceUnavailable)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: nothing to match", shared.ErrEmptyInput)
	}

	meta := models.RunMetadata{
		RunID:     shared.GenerateID(),
		Provider:  e.matcher.Name(),
		Source:    source,
		StartedAt: time.Now().UTC(),
	}

	total := len(rows)
	e.sendProgress(progress, matchStartUpdate(total, e.matcher.Name()))

	limiter := newPacer(e.delay)
	results := make([]models.LookupResult, 0, total)

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		step := i + 1
		e.sendProgress(progress, matchTrackUpdate(step, total, row.ISRC))

		result, err := e.matchRow(ctx, limiter, row)
		if err != nil {
			return nil, err
		}

		result.Passthrough = row.Passthrough
		results = append(results, result)

		if result.Status == models.StatusSuccess {
			e.sendProgress(progress, matchedUpdate(step, total, result))
		} else {
			e.sendProgress(progress, matchFailedUpdate(step, total, result))
		}
	}

	meta.ElapsedMS = time.Since(meta.StartedAt).Milliseconds()

	e.sendProgress(progress, matchDoneUpdate(total, models.Summarize(results)))

	report := models.NewReport(meta, results, passthrough)

	return &report, nil
}

// matchRow resolves one row to a result. The error return is reserved
// for batch-fatal conditions.
func (e *MatchEngine) matchRow(ctx context.Context, limiter *rate.Limiter, row models.InputRow) (models.LookupResult, error) {
	normalized, err := models.NormalizeISRC(row.ISRC)
	if err != nil {
		// Surface validation failed, so the provider is never asked.
		return models.InvalidResult(row.ISRC), nil
	}

	if err := limiter.Wait(ctx); err != nil {
		return models.LookupResult{}, err
	}

	track, err := e.matcher.Match(ctx, normalized)

	switch {
	case err == nil:
		return models.FoundResult(row.ISRC, *track), nil
	case errors.Is(err, shared.ErrTrackNotFound):
		return models.NotFoundResult(row.ISRC), nil
	case isFatal(err):
		return models.LookupResult{}, err
	case ctx.Err() != nil:
		return models.LookupResult{}, ctx.Err()
	default:
		return models.FailedResult(row.ISRC, err), nil
	}
}

// isFatal reports whether the lookup error should abort the whole
// batch rather than mark a single row.
func isFatal(err error) bool {
	return errors.Is(err, shared.ErrAuthFailed) ||
		errors.Is(err, shared.ErrMissingCredentials) ||
		errors.Is(err, shared.ErrInvalidCredentials) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func newPacer(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}

	return rate.NewLimiter(rate.Every(delay), 1)
}
