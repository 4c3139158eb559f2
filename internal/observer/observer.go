// Package observer simulates a listener in an n-alternative forced-choice
// task. It prepares trials with a random odd interval and answers them from
// a psychometric function of the stimulus difference.
package observer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/five82/staircase/internal/runner"
)

// Shape selects the sigmoid of the psychometric function.
type Shape string

const (
	ShapeNormal   Shape = "normal"
	ShapeLogistic Shape = "logistic"
)

// ParseShape parses a psychometric function name.
func ParseShape(s string) (Shape, error) {
	switch Shape(strings.ToLower(strings.TrimSpace(s))) {
	case ShapeNormal, "":
		return ShapeNormal, nil
	case ShapeLogistic:
		return ShapeLogistic, nil
	}
	return "", fmt.Errorf("%w: %q, valid options: normal, logistic", ErrInvalidParams, s)
}

// ErrInvalidParams is returned for observer parameters out of range.
var ErrInvalidParams = errors.New("invalid observer parameters")

// Params describe the simulated listener.
type Params struct {
	// Threshold is the difference at the sigmoid midpoint.
	Threshold float64

	// Slope is the spread of the sigmoid in difference units (sigma for
	// ShapeNormal, scale for ShapeLogistic).
	Slope float64

	// Alternatives is the number of intervals per trial; the guess rate is
	// 1/Alternatives.
	Alternatives int

	// Lapse is the rate of errors independent of the difference.
	Lapse float64

	Shape Shape
}

// DefaultParams returns a 3-AFC listener with a threshold of 6.
func DefaultParams() Params {
	return Params{
		Threshold:    6,
		Slope:        2,
		Alternatives: 3,
		Lapse:        0.02,
		Shape:        ShapeNormal,
	}
}

// GuessRate returns 1/Alternatives.
func (p Params) GuessRate() float64 {
	return 1 / float64(p.Alternatives)
}

// Validate checks every parameter.
func (p Params) Validate() error {
	switch {
	case !(p.Threshold > 0) || math.IsInf(p.Threshold, 0):
		return fmt.Errorf("%w: threshold must be > 0, got %v", ErrInvalidParams, p.Threshold)
	case !(p.Slope > 0) || math.IsInf(p.Slope, 0):
		return fmt.Errorf("%w: slope must be > 0, got %v", ErrInvalidParams, p.Slope)
	case p.Alternatives < 2:
		return fmt.Errorf("%w: alternatives must be >= 2, got %d", ErrInvalidParams, p.Alternatives)
	case !(p.Lapse >= 0) || p.Lapse >= 1-p.GuessRate():
		return fmt.Errorf("%w: lapse must be in [0, %.3f), got %v", ErrInvalidParams, 1-p.GuessRate(), p.Lapse)
	}
	if _, err := ParseShape(string(p.Shape)); err != nil {
		return err
	}
	return nil
}

// Listener is a seeded simulated subject. It is not safe for concurrent use;
// give each run its own Listener.
type Listener struct {
	params Params
	cdf    func(float64) float64
	src    rand.Source
	rng    *rand.Rand
}

// New returns a Listener whose draws are fully determined by seed.
func New(p Params, seed uint64) (*Listener, error) {
	if p.Shape == "" {
		p.Shape = ShapeNormal
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var cdf func(float64) float64
	switch p.Shape {
	case ShapeLogistic:
		cdf = distuv.Logistic{Mu: p.Threshold, S: p.Slope}.CDF
	default:
		cdf = distuv.Normal{Mu: p.Threshold, Sigma: p.Slope}.CDF
	}

	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &Listener{
		params: p,
		cdf:    cdf,
		src:    src,
		rng:    rand.New(src),
	}, nil
}

// Params returns the listener parameters.
func (l *Listener) Params() Params {
	return l.params
}

// ProbabilityCorrect returns guess + (1 - guess - lapse) * F(difference).
func (l *Listener) ProbabilityCorrect(difference float64) float64 {
	guess := l.params.GuessRate()
	return guess + (1-guess-l.params.Lapse)*l.cdf(difference)
}

// TargetDifference returns the difference at which the listener is correct
// with probability p, or NaN if p is not reachable.
func (l *Listener) TargetDifference(p float64) float64 {
	guess := l.params.GuessRate()
	f := (p - guess) / (1 - guess - l.params.Lapse)
	if !(f > 0 && f < 1) {
		return math.NaN()
	}
	if l.params.Shape == ShapeLogistic {
		return distuv.Logistic{Mu: l.params.Threshold, S: l.params.Slope}.Quantile(f)
	}
	return distuv.Normal{Mu: l.params.Threshold, Sigma: l.params.Slope}.Quantile(f)
}

// PrepareTrial realizes the requested step and difference unchanged and puts
// the odd stimulus in a uniformly random interval.
func (l *Listener) PrepareTrial(ctx context.Context, req runner.TrialRequest) (runner.Trial, error) {
	if err := ctx.Err(); err != nil {
		return runner.Trial{}, err
	}
	return runner.Trial{
		Index:        req.Index,
		Step:         req.Step,
		Difference:   req.Difference,
		Alternatives: l.params.Alternatives,
		CorrectIndex: l.rng.IntN(l.params.Alternatives),
		Definition: map[string]any{
			"difference": req.Difference,
		},
	}, nil
}

// Respond presses the correct interval with ProbabilityCorrect, otherwise
// one of the wrong intervals at random.
func (l *Listener) Respond(ctx context.Context, trial runner.Trial) (runner.Response, error) {
	if err := ctx.Err(); err != nil {
		return runner.Response{}, err
	}
	alternatives := trial.Alternatives
	if alternatives < 2 {
		alternatives = l.params.Alternatives
	}

	hit := distuv.Bernoulli{P: l.ProbabilityCorrect(trial.Difference), Src: l.src}.Rand() == 1
	if hit {
		return runner.Response{Pressed: trial.CorrectIndex}, nil
	}

	wrong := l.rng.IntN(alternatives - 1)
	if wrong >= trial.CorrectIndex {
		wrong++
	}
	return runner.Response{Pressed: wrong}, nil
}
