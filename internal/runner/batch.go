package runner

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/staircase/internal/adapt"
	serrors "github.com/five82/staircase/internal/errors"
	"github.com/five82/staircase/internal/logging"
	"github.com/five82/staircase/internal/reporter"
	"github.com/five82/staircase/internal/summary"
)

// DriverFactory builds the preparer and responder for one job. It is called
// from the job's goroutine, so drivers need not be safe for concurrent use.
type DriverFactory func(index int, job Job) (TrialPreparer, Responder, error)

// Job is one run of a batch.
type Job struct {
	Condition string
	Config    adapt.Config
}

// BatchOptions configure RunBatch.
type BatchOptions struct {
	// Jobs is the number of runs in flight. Values below 1 mean 1.
	Jobs int

	NewDriver DriverFactory
	Reporter  reporter.Reporter
	Logger    *logging.Logger
	AfterRun  AfterRunFunc
}

// BatchResult holds the runs of a batch in job order.
type BatchResult struct {
	// Runs is aligned with the jobs; an entry may hold a partial result
	// when the matching Errors entry is set.
	Runs   []*RunResult
	Errors []error

	Summary  summary.Summary
	Duration time.Duration
}

// Failed returns the number of runs that ended with an error.
func (b *BatchResult) Failed() int {
	n := 0
	for _, err := range b.Errors {
		if err != nil {
			n++
		}
	}
	return n
}

// RunBatch runs every job, at most opts.Jobs at a time. Each job gets its own
// controller and driver. A failed run does not stop the others; the batch
// only returns an error when ctx is cancelled or the jobs are unusable.
func RunBatch(ctx context.Context, jobs []Job, opts BatchOptions) (*BatchResult, error) {
	if len(jobs) == 0 {
		return nil, serrors.NewConfigError("batch has no runs", nil)
	}
	if opts.NewDriver == nil {
		return nil, serrors.NewConfigError("batch needs a driver factory", nil)
	}
	rep := opts.Reporter
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	limit := max(opts.Jobs, 1)

	names := make([]string, len(jobs))
	for i, job := range jobs {
		names[i] = job.Condition
	}
	blog := log.WithPrefix("batch")
	rep.BatchStarted(reporter.BatchStartInfo{TotalRuns: len(jobs), Conditions: names, Jobs: limit})
	blog.Info("started", "runs", len(jobs), "jobs", limit)

	start := time.Now()
	out := &BatchResult{
		Runs:   make([]*RunResult, len(jobs)),
		Errors: make([]error, len(jobs)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				out.Errors[i] = serrors.NewCancelledError()
				return nil
			}

			prep, resp, err := opts.NewDriver(i, job)
			if err != nil {
				out.Errors[i] = serrors.NewOperationFailedError(fmt.Sprintf("driver for %s", job.Condition), err)
				return nil
			}

			res, err := Run(gctx, job.Config, Options{
				Condition: job.Condition,
				Preparer:  prep,
				Responder: resp,
				Reporter:  rep,
				Logger:    log,
				AfterRun:  opts.AfterRun,
			})
			out.Runs[i] = res
			out.Errors[i] = err
			return nil // one failed run must not cancel the rest
		})
	}
	_ = g.Wait()
	out.Duration = time.Since(start)

	if ctx.Err() != nil {
		return out, serrors.NewCancelledError()
	}

	results := make([]*adapt.ThresholdResult, len(jobs))
	outcomes := make([]reporter.RunOutcome, 0, len(jobs))
	for i, res := range out.Runs {
		if err := out.Errors[i]; err != nil {
			rep.Error(reporter.ReporterError{
				Title:   fmt.Sprintf("Run %s failed", jobs[i].Condition),
				Message: err.Error(),
			})
			continue
		}
		results[i] = res.Result
		outcomes = append(outcomes, res.Outcome())
	}

	s, err := summary.Summarize(results)
	if err != nil {
		return out, serrors.NewOperationFailedError("failed to summarize batch", err)
	}
	out.Summary = s

	blog.Info("complete",
		"runs", s.Runs,
		"converged", s.Converged,
		"failed", out.Failed(),
		"mean_threshold", s.Mean)
	rep.BatchComplete(reporter.BatchSummary{
		TotalRuns:       len(jobs),
		ConvergedCount:  s.Converged,
		FailedCount:     out.Failed(),
		MeanThreshold:   s.Mean,
		StdDevThreshold: s.StdDev,
		MedianThreshold: s.Median,
		MinThreshold:    s.Min,
		MaxThreshold:    s.Max,
		Reasons:         s.ReasonCounts(),
		TotalDuration:   out.Duration,
		Runs:            outcomes,
	})

	return out, nil
}
