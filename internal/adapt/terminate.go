package adapt

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	serrors "github.com/five82/staircase/internal/errors"
)

// Reason explains why a run stopped.
type Reason string

const (
	// ReasonNTrials means the trial budget was exhausted.
	ReasonNTrials Reason = "ntrials"
	// ReasonMaxDifference means the staircase diverged past the ceiling.
	ReasonMaxDifference Reason = "max_difference"
	// ReasonNTurns means enough reversals were observed to estimate a threshold.
	ReasonNTurns Reason = "nturns"
)

// ThresholdResult is the terminal output of a run.
type ThresholdResult struct {
	// Threshold is the arithmetic mean of the anchor differences, NaN unless
	// Reason is ReasonNTurns.
	Threshold float64

	// GeometricThreshold is exp(mean(log(d))) over the same anchors.
	GeometricThreshold float64

	Reason Reason

	// TrialRecords holds every completed trial.
	TrialRecords []TrialRecord

	// Steps and Differences are the histories extended with the pending
	// step and the predicted next difference.
	Steps       []float64
	Differences []float64
	Corrects    []bool

	// TurnIndices are the reversal positions in Steps.
	TurnIndices []int

	// AnchorIndices are the positions in Differences averaged into the
	// threshold. Empty unless Reason is ReasonNTurns.
	AnchorIndices []int
}

// HasThreshold reports whether the run stopped with a threshold estimate.
func (r *ThresholdResult) HasThreshold() bool {
	return r.Reason == ReasonNTurns
}

// Decision is the continue/stop outcome of one evaluation.
type Decision struct {
	Continue bool

	// Result is set when Continue is false.
	Result *ThresholdResult

	// Turns is the reversal count including the pending step.
	Turns int

	// Progress is Turns/TerminateOnNTurns capped at 1, and exactly 1 once
	// the run stops.
	Progress float64
}

// Evaluate decides whether the run should continue. It expects state to have
// been advanced already, so CurrentStep is the pending step and
// CurrentDifference the predicted next difference.
//
// Checks run in priority order: trial budget, divergence, reversal count.
func Evaluate(state *State, cfg *Config) (Decision, error) {
	steps := state.Steps()
	turns := TurnIndices(steps)

	stop := func(reason Reason) *ThresholdResult {
		return &ThresholdResult{
			Threshold:          math.NaN(),
			GeometricThreshold: math.NaN(),
			Reason:             reason,
			TrialRecords:       append([]TrialRecord(nil), state.Records...),
			Steps:              steps,
			Differences:        state.Differences(),
			Corrects:           state.Corrects(),
			TurnIndices:        turns,
		}
	}

	if len(state.Records) >= cfg.TerminateOnNTrials {
		return Decision{Result: stop(ReasonNTrials), Turns: len(turns), Progress: 1}, nil
	}

	if state.CurrentDifference > cfg.TerminateOnMaxDifference {
		return Decision{Result: stop(ReasonMaxDifference), Turns: len(turns), Progress: 1}, nil
	}

	if len(turns) >= cfg.TerminateOnNTurns {
		result := stop(ReasonNTurns)
		result.AnchorIndices = AnchorIndices(turns, len(result.Differences), cfg.ThresholdOnLastNTurns)

		thr, geom, err := ComputeThreshold(result.Differences, result.AnchorIndices)
		if err != nil {
			return Decision{}, err
		}
		result.Threshold = thr
		result.GeometricThreshold = geom

		return Decision{Result: result, Turns: len(turns), Progress: 1}, nil
	}

	return Decision{
		Continue: true,
		Turns:    len(turns),
		Progress: min(1, float64(len(turns))/float64(cfg.TerminateOnNTurns)),
	}, nil
}

// AnchorIndices selects the differences averaged into the threshold: the
// turn positions followed by the latest difference, keeping the last n.
func AnchorIndices(turns []int, nDifferences, n int) []int {
	anchors := make([]int, 0, len(turns)+1)
	anchors = append(anchors, turns...)
	anchors = append(anchors, nDifferences-1)
	if len(anchors) > n {
		anchors = anchors[len(anchors)-n:]
	}
	return anchors
}

// ComputeThreshold returns the arithmetic and geometric means of the
// differences at the given indices. Every selected difference must be > 0.
func ComputeThreshold(differences []float64, indices []int) (float64, float64, error) {
	if len(indices) == 0 {
		return math.NaN(), math.NaN(), serrors.NewInvariantError("no anchor differences selected for threshold")
	}

	values := make([]float64, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(differences) {
			return math.NaN(), math.NaN(), serrors.NewInvariantError(
				fmt.Sprintf("anchor index %d outside %d differences", idx, len(differences)))
		}
		d := differences[idx]
		if !(d > 0) {
			return math.NaN(), math.NaN(), serrors.NewInvariantError(
				fmt.Sprintf("difference %v at index %d reached threshold computation", d, idx))
		}
		values[i] = d
	}

	return stat.Mean(values, nil), stat.GeometricMean(values, nil), nil
}
