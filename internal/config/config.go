// Package config provides presets, run files and settings for staircase.
package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/five82/staircase/internal/adapt"
)

// Default constants
const (
	// DefaultInitialStepSize is the first step size, in difference units.
	DefaultInitialStepSize float64 = 2

	// DefaultStartingDifference is the difference used for the first trial.
	DefaultStartingDifference float64 = 12

	// DefaultChangeStepSizeOnDifference shrinks the step once the difference
	// is at most twice the step size.
	DefaultChangeStepSizeOnDifference float64 = 2

	// DefaultChangeStepSizeOnNTrials shrinks the step every 15 trials.
	DefaultChangeStepSizeOnNTrials = 15

	// DefaultTerminateOnNTurns is the number of reversals that ends a run.
	DefaultTerminateOnNTurns = 8

	// DefaultTerminateOnNTrials is the trial budget.
	DefaultTerminateOnNTrials = 150

	// DefaultTerminateOnMaxDifference is the divergence ceiling.
	DefaultTerminateOnMaxDifference float64 = 25

	// DefaultThresholdOnLastNTurns is the number of reversals averaged.
	DefaultThresholdOnLastNTurns = 6

	// DefaultJobs is the number of conditions run concurrently in a batch.
	DefaultJobs = 4
)

// DefaultStepSizeModifier shrinks the step by 1/sqrt(2).
var DefaultStepSizeModifier = 1 / math.Sqrt2

// Preset represents a named staircase rule.
type Preset string

const (
	Preset1Down1Up Preset = "1down1up"
	Preset2Down1Up Preset = "2down1up"
	Preset3Down1Up Preset = "3down1up"
)

// DefaultPreset is used when no preset or run file is given.
const DefaultPreset = Preset2Down1Up

// Presets returns every known preset in display order.
func Presets() []Preset {
	return []Preset{Preset1Down1Up, Preset2Down1Up, Preset3Down1Up}
}

// ParsePreset parses a string into a Preset.
func ParsePreset(s string) (Preset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1down1up", "1-1":
		return Preset1Down1Up, nil
	case "2down1up", "2-1":
		return Preset2Down1Up, nil
	case "3down1up", "3-1":
		return Preset3Down1Up, nil
	default:
		return "", fmt.Errorf("%w: '%s', valid options: 1down1up, 2down1up, 3down1up", ErrInvalidPreset, s)
	}
}

// String returns the string representation of the preset.
func (p Preset) String() string {
	return string(p)
}

// Description returns the rule and the percent-correct point it tracks.
func (p Preset) Description() string {
	values := GetPresetValues(p)
	return fmt.Sprintf("%s, tracks %.1f%% correct", values.DownUp, values.DownUp.TargetProbability()*100)
}

// GetPresetValues returns the staircase configuration for a given preset.
func GetPresetValues(p Preset) adapt.Config {
	cfg := adapt.Config{
		InitialStepSize:            DefaultInitialStepSize,
		StartingDifference:         DefaultStartingDifference,
		StepSizeModifier:           DefaultStepSizeModifier,
		ChangeStepSizeOnDifference: DefaultChangeStepSizeOnDifference,
		ChangeStepSizeOnNTrials:    DefaultChangeStepSizeOnNTrials,
		TerminateOnNTurns:          DefaultTerminateOnNTurns,
		TerminateOnNTrials:         DefaultTerminateOnNTrials,
		TerminateOnMaxDifference:   DefaultTerminateOnMaxDifference,
		ThresholdOnLastNTurns:      DefaultThresholdOnLastNTurns,
	}

	switch p {
	case Preset1Down1Up:
		cfg.DownUp = adapt.DownUp{Down: 1, Up: 1}
	case Preset3Down1Up:
		cfg.DownUp = adapt.DownUp{Down: 3, Up: 1}
	default:
		cfg.DownUp = adapt.DownUp{Down: 2, Up: 1}
	}

	return cfg
}

// ApplyPreset replaces the rule of cfg with the preset's rule and keeps every
// other field.
func ApplyPreset(cfg *adapt.Config, p Preset) {
	cfg.DownUp = GetPresetValues(p).DownUp
}

// ParseDownUp parses a down/up rule string (e.g., "2-1").
func ParseDownUp(s string) (adapt.DownUp, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return adapt.DownUp{}, fmt.Errorf("%w: %q, expected 'down-up' (e.g., '2-1')", ErrInvalidDownUp, s)
	}

	down, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return adapt.DownUp{}, fmt.Errorf("%w: invalid down count %q: %v", ErrInvalidDownUp, parts[0], err)
	}

	up, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return adapt.DownUp{}, fmt.Errorf("%w: invalid up count %q: %v", ErrInvalidDownUp, parts[1], err)
	}

	if down < 1 || up < 1 {
		return adapt.DownUp{}, fmt.Errorf("%w: counts must be >= 1, got %d-%d", ErrInvalidDownUp, down, up)
	}

	return adapt.DownUp{Down: down, Up: up}, nil
}
