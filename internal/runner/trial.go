// Package runner drives staircase runs: it asks a TrialPreparer for each
// stimulus, collects a Response, and feeds the outcome to an adapt.Controller
// until the run stops.
package runner

import "context"

// TrialRequest describes the trial the controller wants next.
type TrialRequest struct {
	// Index is the zero-based position of the upcoming trial.
	Index int

	Condition string

	// Step is the step the controller wants applied.
	Step float64

	// Difference is the difference the controller predicts for the trial.
	Difference float64

	// Last is the previous trial, nil before the first one.
	Last *Trial
}

// Trial is a prepared stimulus. Step and Difference are the values actually
// used, which a preparer may adjust (e.g. to snap to an available stimulus).
type Trial struct {
	Index        int
	Step         float64
	Difference   float64
	Alternatives int

	// CorrectIndex is the zero-based interval holding the odd stimulus.
	CorrectIndex int

	// Definition carries preparer-specific parameters, recorded with the trial.
	Definition map[string]any
}

// Response is the subject's answer to one trial.
type Response struct {
	// Pressed is the zero-based interval the subject chose.
	Pressed int
}

// TrialPreparer builds the stimulus for the upcoming trial.
type TrialPreparer interface {
	PrepareTrial(ctx context.Context, req TrialRequest) (Trial, error)
}

// Responder presents a trial and waits for the answer.
type Responder interface {
	Respond(ctx context.Context, trial Trial) (Response, error)
}

// PreparerFunc adapts a function to TrialPreparer.
type PreparerFunc func(ctx context.Context, req TrialRequest) (Trial, error)

// PrepareTrial calls f.
func (f PreparerFunc) PrepareTrial(ctx context.Context, req TrialRequest) (Trial, error) {
	return f(ctx, req)
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(ctx context.Context, trial Trial) (Response, error)

// Respond calls f.
func (f ResponderFunc) Respond(ctx context.Context, trial Trial) (Response, error) {
	return f(ctx, trial)
}

// PassThrough realizes every request exactly, with the odd stimulus always in
// the first of two intervals. Interactive runs use it when the operator
// judges correctness directly.
var PassThrough = PreparerFunc(func(_ context.Context, req TrialRequest) (Trial, error) {
	return Trial{
		Index:        req.Index,
		Step:         req.Step,
		Difference:   req.Difference,
		Alternatives: 2,
	}, nil
})

// IsCorrect reports whether the pressed interval is the correct one.
func IsCorrect(pressed, correctIndex int) bool {
	return pressed == correctIndex
}
