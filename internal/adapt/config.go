// Package adapt implements a transformed up-down staircase that estimates a
// perceptual threshold from a sequence of forced-choice outcomes.
package adapt

import (
	"fmt"
	"math"

	serrors "github.com/five82/staircase/internal/errors"
)

// DownUp is the transformed up-down rule: Down consecutive correct responses
// move the difference down, Up consecutive incorrect responses move it up.
type DownUp struct {
	Down int
	Up   int
}

// String returns the rule in "n-down/m-up" notation.
func (r DownUp) String() string {
	return fmt.Sprintf("%d-down/%d-up", r.Down, r.Up)
}

// Window is the number of recent outcomes the step policy needs to keep.
func (r DownUp) Window() int {
	return max(r.Down, r.Up)
}

// TargetProbability returns the percent-correct point the rule converges to
// for a symmetric 1-up rule, p = 0.5^(1/Down). Returns NaN for Up != 1.
func (r DownUp) TargetProbability() float64 {
	if r.Up != 1 || r.Down < 1 {
		return math.NaN()
	}
	return math.Pow(0.5, 1/float64(r.Down))
}

// Config holds the staircase parameters. It is immutable once passed to
// NewController.
type Config struct {
	// InitialStepSize is the first step size applied.
	InitialStepSize float64

	// StartingDifference is the difference used for the first trial.
	StartingDifference float64

	// DownUp is the consecutive correct/incorrect rule.
	DownUp DownUp

	// StepSizeModifier is the multiplicative shrink factor, in (0, 1).
	StepSizeModifier float64

	// ChangeStepSizeOnDifference shrinks the step once the difference is at
	// most StepSize times this value.
	ChangeStepSizeOnDifference float64

	// ChangeStepSizeOnNTrials also shrinks the step after this many trials
	// since the last shrink.
	ChangeStepSizeOnNTrials int

	// Termination criteria.
	TerminateOnNTurns        int
	TerminateOnNTrials       int
	TerminateOnMaxDifference float64

	// ThresholdOnLastNTurns is the number of turn differences averaged into
	// the threshold. Must not exceed TerminateOnNTurns.
	ThresholdOnLastNTurns int
}

// Option names as they appear in run files. Validation errors use these.
const (
	OptInitialStepSize            = "initial_step_size"
	OptStartingDifference         = "starting_difference"
	OptDownUp                     = "down_up"
	OptTerminateOnNTurns          = "terminate_on_nturns"
	OptTerminateOnNTrials         = "terminate_on_ntrials"
	OptTerminateOnMaxDifference   = "terminate_on_max_difference"
	OptThresholdOnLastNTurns      = "threshold_on_last_nturns"
	OptStepSizeModifier           = "step_size_modifier"
	OptChangeStepSizeOnDifference = "change_step_size_on_difference"
	OptChangeStepSizeOnNTrials    = "change_step_size_on_ntrials"
)

// MandatoryOptions lists every option a run must provide, in validation order.
var MandatoryOptions = []string{
	OptInitialStepSize,
	OptStartingDifference,
	OptDownUp,
	OptTerminateOnNTurns,
	OptTerminateOnNTrials,
	OptTerminateOnMaxDifference,
	OptThresholdOnLastNTurns,
	OptStepSizeModifier,
	OptChangeStepSizeOnDifference,
	OptChangeStepSizeOnNTrials,
}

// Validate checks the configuration for errors. None of the options accept
// zero, so a zero value is reported as a missing option.
func (c *Config) Validate() error {
	missing := map[string]bool{
		OptInitialStepSize:            c.InitialStepSize == 0,
		OptStartingDifference:         c.StartingDifference == 0,
		OptDownUp:                     c.DownUp.Down == 0 && c.DownUp.Up == 0,
		OptTerminateOnNTurns:          c.TerminateOnNTurns == 0,
		OptTerminateOnNTrials:         c.TerminateOnNTrials == 0,
		OptTerminateOnMaxDifference:   c.TerminateOnMaxDifference == 0,
		OptThresholdOnLastNTurns:      c.ThresholdOnLastNTurns == 0,
		OptStepSizeModifier:           c.StepSizeModifier == 0,
		OptChangeStepSizeOnDifference: c.ChangeStepSizeOnDifference == 0,
		OptChangeStepSizeOnNTrials:    c.ChangeStepSizeOnNTrials == 0,
	}
	for _, name := range MandatoryOptions {
		if missing[name] {
			return serrors.NewMissingOptionError(name, ErrMissingOption)
		}
	}

	positives := []struct {
		name  string
		value float64
	}{
		{OptInitialStepSize, c.InitialStepSize},
		{OptStartingDifference, c.StartingDifference},
		{OptTerminateOnMaxDifference, c.TerminateOnMaxDifference},
		{OptChangeStepSizeOnDifference, c.ChangeStepSizeOnDifference},
	}
	for _, p := range positives {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return outOfRange(p.name, fmt.Sprintf("must be a finite number > 0, got %v", p.value))
		}
	}

	if c.DownUp.Down < 1 || c.DownUp.Up < 1 {
		return outOfRange(OptDownUp, fmt.Sprintf("must be two integers >= 1, got [%d, %d]", c.DownUp.Down, c.DownUp.Up))
	}

	if !(c.StepSizeModifier > 0 && c.StepSizeModifier < 1) {
		return outOfRange(OptStepSizeModifier, fmt.Sprintf("must be in (0, 1), got %v", c.StepSizeModifier))
	}

	counts := []struct {
		name  string
		value int
	}{
		{OptChangeStepSizeOnNTrials, c.ChangeStepSizeOnNTrials},
		{OptTerminateOnNTurns, c.TerminateOnNTurns},
		{OptTerminateOnNTrials, c.TerminateOnNTrials},
		{OptThresholdOnLastNTurns, c.ThresholdOnLastNTurns},
	}
	for _, n := range counts {
		if n.value < 1 {
			return outOfRange(n.name, fmt.Sprintf("must be an integer > 0, got %d", n.value))
		}
	}

	if c.ThresholdOnLastNTurns > c.TerminateOnNTurns {
		return outOfRange(OptThresholdOnLastNTurns,
			fmt.Sprintf("must not exceed %s (%d), got %d", OptTerminateOnNTurns, c.TerminateOnNTurns, c.ThresholdOnLastNTurns))
	}

	return nil
}

func outOfRange(field, reason string) error {
	return serrors.NewConstraintError(field, reason, ErrOutOfRange)
}
