package adapt

import (
	"math"

	serrors "github.com/five82/staircase/internal/errors"
)

// Controller owns the adaptive state of one run. It is not safe for
// concurrent use; each run gets its own Controller.
type Controller struct {
	cfg     Config
	state   *State
	pending bool
	result  *ThresholdResult
	failed  error
}

// NewController validates cfg and returns a Controller ready for the first
// trial, which uses StartingDifference and a zero step.
func NewController(cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Controller{
		cfg:   cfg,
		state: NewState(&cfg),
	}, nil
}

// Config returns the run configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// NextStep returns the step to apply for the upcoming trial.
func (c *Controller) NextStep() float64 {
	return c.state.CurrentStep
}

// CurrentDifference returns the difference the upcoming trial should use.
func (c *Controller) CurrentDifference() float64 {
	return c.state.CurrentDifference
}

// CurrentStepSize returns the magnitude of the next nonzero step.
func (c *Controller) CurrentStepSize() float64 {
	return c.state.CurrentStepSize
}

// TrialCount returns the number of recorded trials.
func (c *Controller) TrialCount() int {
	return len(c.state.Records)
}

// Done reports whether the run has stopped.
func (c *Controller) Done() bool {
	return c.result != nil || c.failed != nil
}

// Result returns the terminal result, or nil while the run continues.
func (c *Controller) Result() *ThresholdResult {
	return c.result
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() State {
	return c.state.Clone()
}

// RecordTrial appends the outcome of the trial that was just presented.
// difference and step are the values the driver actually used, which may
// differ from CurrentDifference and NextStep if the driver adjusted them.
func (c *Controller) RecordTrial(difference, step float64, correct bool) error {
	if err := c.checkRunning("RecordTrial"); err != nil {
		return err
	}
	if c.pending {
		return serrors.NewInvalidTransitionError("RecordTrial", "previous trial has not been advanced")
	}
	if !(difference > 0) || math.IsInf(difference, 0) {
		return serrors.NewInvariantError("recorded difference must be a finite number > 0")
	}

	c.state.AddTrial(difference, step, correct)
	c.state.CurrentDifference = difference
	c.pending = true
	return nil
}

// Advance updates the step from the latest outcome, moves CurrentDifference
// to its predicted next value and decides whether the run continues.
func (c *Controller) Advance() (float64, Decision, error) {
	if err := c.checkRunning("Advance"); err != nil {
		return 0, Decision{}, err
	}
	if !c.pending {
		return 0, Decision{}, serrors.NewInvalidTransitionError("Advance", "no trial recorded since the last advance")
	}
	c.pending = false

	last := c.state.Records[len(c.state.Records)-1]
	step := UpdateStep(c.state, &c.cfg, last.Correct)
	c.state.CurrentDifference += step

	decision, err := Evaluate(c.state, &c.cfg)
	if err != nil {
		c.failed = err
		return step, Decision{}, err
	}
	if !decision.Continue {
		c.result = decision.Result
	}
	return step, decision, nil
}

func (c *Controller) checkRunning(op string) error {
	if c.failed != nil {
		return serrors.NewInvalidTransitionError(op, "run failed")
	}
	if c.result != nil {
		return serrors.NewInvalidTransitionError(op, string(c.result.Reason))
	}
	return nil
}
