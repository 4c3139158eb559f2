// Package reporter provides progress reporting interfaces and implementations.
package reporter

import "time"

// RunInfo describes a run that is about to start.
type RunInfo struct {
	RunID              string
	Condition          string
	Rule               string
	TargetPercent      float64
	StartingDifference float64
	InitialStepSize    float64
	TerminateOnNTurns  int
	TerminateOnNTrials int
}

// TrialUpdate reports one completed trial.
type TrialUpdate struct {
	RunID     string
	Condition string

	// Trial is the one-based trial number.
	Trial      int
	Difference float64
	Step       float64
	Correct    bool

	// NextStep and NextDifference are what the controller wants next.
	NextStep       float64
	NextDifference float64
	StepSize       float64

	Turns    int
	Progress float64
}

// RunOutcome contains the final result of one run.
type RunOutcome struct {
	RunID              string
	Condition          string
	Reason             string
	Threshold          float64
	GeometricThreshold float64
	Trials             int
	Turns              int
	Duration           time.Duration
}

// Converged reports whether the run produced a threshold.
func (o RunOutcome) Converged() bool {
	return o.Reason == "nturns"
}

// ReporterError contains error information.
type ReporterError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}

// BatchStartInfo contains batch start metadata.
type BatchStartInfo struct {
	TotalRuns  int
	Conditions []string
	Jobs       int
}

// BatchSummary contains batch completion information.
type BatchSummary struct {
	TotalRuns      int
	ConvergedCount int
	FailedCount    int

	// Threshold statistics over converged runs, NaN when none converged.
	MeanThreshold   float64
	StdDevThreshold float64
	MedianThreshold float64
	MinThreshold    float64
	MaxThreshold    float64

	Reasons       map[string]int
	TotalDuration time.Duration
	Runs          []RunOutcome
}
