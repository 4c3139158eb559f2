package runner

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/five82/staircase/internal/adapt"
	serrors "github.com/five82/staircase/internal/errors"
	"github.com/five82/staircase/internal/logging"
	"github.com/five82/staircase/internal/reporter"
)

// AfterRunFunc is called once when a run stops with a result. Persisting the
// result is up to the hook.
type AfterRunFunc func(ctx context.Context, result *RunResult) error

// Options configure a single run.
type Options struct {
	// Condition names the run. Defaults to "default".
	Condition string

	Preparer  TrialPreparer
	Responder Responder

	Reporter reporter.Reporter
	Logger   *logging.Logger
	AfterRun AfterRunFunc
}

// RunResult is everything a finished run produced.
type RunResult struct {
	RunID     string
	Condition string
	Config    adapt.Config

	// Result is nil when the run was cancelled or failed.
	Result *adapt.ThresholdResult

	// Trials are the prepared trials in presentation order.
	Trials []Trial

	// Responses are aligned with Trials.
	Responses []Response

	Started  time.Time
	Duration time.Duration
}

// Outcome converts the result for reporters.
func (r *RunResult) Outcome() reporter.RunOutcome {
	out := reporter.RunOutcome{
		RunID:     r.RunID,
		Condition: r.Condition,
		Trials:    len(r.Trials),
		Duration:  r.Duration,
	}
	if r.Result != nil {
		out.Reason = string(r.Result.Reason)
		out.Threshold = r.Result.Threshold
		out.GeometricThreshold = r.Result.GeometricThreshold
		out.Turns = len(r.Result.TurnIndices)
	}
	return out
}

// Run drives one staircase to completion. It returns the partial RunResult
// together with the error when the context is cancelled, the preparer or
// responder fails, or the controller rejects a trial.
func Run(ctx context.Context, cfg adapt.Config, opts Options) (*RunResult, error) {
	if opts.Preparer == nil || opts.Responder == nil {
		return nil, serrors.NewConfigError("run needs a trial preparer and a responder", nil)
	}
	if opts.Condition == "" {
		opts.Condition = "default"
	}
	rep := opts.Reporter
	if rep == nil {
		rep = reporter.NullReporter{}
	}

	ctrl, err := adapt.NewController(cfg)
	if err != nil {
		return nil, err
	}

	res := &RunResult{
		RunID:     uuid.NewString(),
		Condition: opts.Condition,
		Config:    cfg,
		Started:   time.Now(),
	}

	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	log = log.WithRun(res.RunID, res.Condition)

	log.Info("run started",
		"rule", cfg.DownUp.String(),
		"starting_difference", cfg.StartingDifference,
		"initial_step_size", cfg.InitialStepSize)
	rep.RunStarted(reporter.RunInfo{
		RunID:              res.RunID,
		Condition:          res.Condition,
		Rule:               cfg.DownUp.String(),
		TargetPercent:      cfg.DownUp.TargetProbability(),
		StartingDifference: cfg.StartingDifference,
		InitialStepSize:    cfg.InitialStepSize,
		TerminateOnNTurns:  cfg.TerminateOnNTurns,
		TerminateOnNTrials: cfg.TerminateOnNTrials,
	})

	abort := func(err error) (*RunResult, error) {
		res.Duration = time.Since(res.Started)
		log.Warn("run aborted", "trials", len(res.Trials), "error", err)
		return res, err
	}

	var last *Trial
	for {
		if err := ctx.Err(); err != nil {
			return abort(serrors.NewCancelledError())
		}

		req := TrialRequest{
			Index:      ctrl.TrialCount(),
			Condition:  res.Condition,
			Step:       ctrl.NextStep(),
			Difference: ctrl.CurrentDifference(),
			Last:       last,
		}

		trial, err := opts.Preparer.PrepareTrial(ctx, req)
		if err != nil {
			return abort(wrapDriverError("trial preparation failed", err))
		}
		trial.Index = req.Index

		resp, err := opts.Responder.Respond(ctx, trial)
		if err != nil {
			return abort(wrapDriverError("response collection failed", err))
		}
		correct := IsCorrect(resp.Pressed, trial.CorrectIndex)

		res.Trials = append(res.Trials, trial)
		res.Responses = append(res.Responses, resp)
		prev := trial
		last = &prev

		if err := ctrl.RecordTrial(trial.Difference, trial.Step, correct); err != nil {
			return abort(err)
		}
		step, decision, err := ctrl.Advance()
		if err != nil {
			return abort(err)
		}

		log.Debug("trial",
			"trial", trial.Index+1,
			"difference", trial.Difference,
			"step", trial.Step,
			"correct", correct,
			"next_step", step,
			"turns", decision.Turns)
		rep.TrialComplete(reporter.TrialUpdate{
			RunID:          res.RunID,
			Condition:      res.Condition,
			Trial:          trial.Index + 1,
			Difference:     trial.Difference,
			Step:           trial.Step,
			Correct:        correct,
			NextStep:       step,
			NextDifference: ctrl.CurrentDifference(),
			StepSize:       ctrl.CurrentStepSize(),
			Turns:          decision.Turns,
			Progress:       decision.Progress,
		})

		if !decision.Continue {
			res.Result = decision.Result
			break
		}
	}

	res.Duration = time.Since(res.Started)
	log.Info("run stopped",
		"reason", string(res.Result.Reason),
		"threshold", res.Result.Threshold,
		"geometric_threshold", res.Result.GeometricThreshold,
		"trials", len(res.Trials))
	rep.RunComplete(res.Outcome())

	if opts.AfterRun != nil {
		if err := opts.AfterRun(ctx, res); err != nil {
			return res, serrors.NewOperationFailedError("after-run hook failed", err)
		}
	}
	return res, nil
}

func wrapDriverError(msg string, err error) error {
	if serrors.IsCancelled(err) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return serrors.NewCancelledError()
	}
	return serrors.NewOperationFailedError(msg, err)
}
