// Package staircase provides a Go library for adaptive threshold estimation
// with transformed up-down staircases.
//
// A Controller tracks one run ("condition"). The caller presents a trial at
// CurrentDifference, records the outcome, then advances until the controller
// stops with a ThresholdResult.
//
// Basic usage:
//
//	ctrl, err := staircase.New(
//	    staircase.WithPreset(staircase.Preset2Down1Up),
//	    staircase.WithStartingDifference(12),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for !ctrl.Done() {
//	    d := ctrl.CurrentDifference()
//	    correct := present(d) // show the stimulus, collect the answer
//	    if err := ctrl.RecordTrial(d, ctrl.NextStep(), correct); err != nil {
//	        log.Fatal(err)
//	    }
//	    if _, _, err := ctrl.Advance(); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
//	fmt.Printf("threshold: %.2f (%s)\n", ctrl.Result().Threshold, ctrl.Result().Reason)
package staircase

import (
	"context"
	"fmt"

	"github.com/five82/staircase/internal/adapt"
	"github.com/five82/staircase/internal/config"
	"github.com/five82/staircase/internal/observer"
	"github.com/five82/staircase/internal/reporter"
	"github.com/five82/staircase/internal/runner"
)

// Re-export core types
type (
	Config          = adapt.Config
	DownUp          = adapt.DownUp
	Controller      = adapt.Controller
	Decision        = adapt.Decision
	ThresholdResult = adapt.ThresholdResult
	TrialRecord     = adapt.TrialRecord
	Reason          = adapt.Reason
)

const (
	ReasonNTrials       = adapt.ReasonNTrials
	ReasonMaxDifference = adapt.ReasonMaxDifference
	ReasonNTurns        = adapt.ReasonNTurns
)

// Re-export preset types
type Preset = config.Preset

const (
	Preset1Down1Up = config.Preset1Down1Up
	Preset2Down1Up = config.Preset2Down1Up
	Preset3Down1Up = config.Preset3Down1Up
)

// ParsePreset converts a preset string to a Preset value.
// Valid values are "1down1up", "2down1up" and "3down1up" (case-insensitive).
func ParsePreset(s string) (Preset, error) {
	return config.ParsePreset(s)
}

// Re-export run-file and driver types
type (
	RunFile        = config.RunFile
	Condition      = config.Condition
	RunResult      = runner.RunResult
	ListenerParams = observer.Params
)

// LoadRunFile reads a YAML run file.
func LoadRunFile(path string) (*RunFile, error) {
	return config.LoadRunFile(path)
}

// DefaultListener returns the parameters of the default simulated listener.
func DefaultListener() ListenerParams {
	return observer.DefaultParams()
}

// Option configures a staircase.
type Option func(*adapt.Config)

// New creates a Controller from the default preset and the given options.
func New(opts ...Option) (*Controller, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return adapt.NewController(cfg)
}

// NewConfig builds and validates a configuration without starting a run.
func NewConfig(opts ...Option) (Config, error) {
	cfg := config.GetPresetValues(config.DefaultPreset)
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithPreset replaces the whole configuration with a preset.
func WithPreset(p Preset) Option {
	return func(c *adapt.Config) {
		*c = config.GetPresetValues(p)
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(c *adapt.Config) {
		*c = cfg
	}
}

// WithDownUp sets the consecutive-correct and consecutive-incorrect counts.
func WithDownUp(down, up int) Option {
	return func(c *adapt.Config) {
		c.DownUp = adapt.DownUp{Down: down, Up: up}
	}
}

// WithStartingDifference sets the difference of the first trial.
func WithStartingDifference(d float64) Option {
	return func(c *adapt.Config) {
		c.StartingDifference = d
	}
}

// WithInitialStepSize sets the first step size.
func WithInitialStepSize(s float64) Option {
	return func(c *adapt.Config) {
		c.InitialStepSize = s
	}
}

// WithStepSizeModifier sets the multiplicative shrink factor, in (0, 1).
func WithStepSizeModifier(m float64) Option {
	return func(c *adapt.Config) {
		c.StepSizeModifier = m
	}
}

// WithShrink sets both step-shrink triggers: the difference-to-step ratio and
// the number of trials since the last shrink.
func WithShrink(onDifference float64, everyNTrials int) Option {
	return func(c *adapt.Config) {
		c.ChangeStepSizeOnDifference = onDifference
		c.ChangeStepSizeOnNTrials = everyNTrials
	}
}

// WithTermination sets the three stop criteria.
func WithTermination(nTurns, nTrials int, maxDifference float64) Option {
	return func(c *adapt.Config) {
		c.TerminateOnNTurns = nTurns
		c.TerminateOnNTrials = nTrials
		c.TerminateOnMaxDifference = maxDifference
	}
}

// WithThresholdOnLastNTurns sets how many reversals are averaged.
func WithThresholdOnLastNTurns(n int) Option {
	return func(c *adapt.Config) {
		c.ThresholdOnLastNTurns = n
	}
}

// Simulate runs one staircase against a seeded simulated listener. handler
// may be nil.
func Simulate(ctx context.Context, cfg Config, listener ListenerParams, seed uint64, handler EventHandler) (*RunResult, error) {
	l, err := observer.New(listener, seed)
	if err != nil {
		return nil, fmt.Errorf("invalid listener: %w", err)
	}

	var rep reporter.Reporter = reporter.NullReporter{}
	if handler != nil {
		rep = newEventReporter(handler)
	}

	return runner.Run(ctx, cfg, runner.Options{
		Condition: "simulated",
		Preparer:  l,
		Responder: l,
		Reporter:  rep,
	})
}
