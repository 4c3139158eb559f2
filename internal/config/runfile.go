package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/five82/staircase/internal/adapt"
	serrors "github.com/five82/staircase/internal/errors"
)

// DefaultConditionName names the single condition of a run file that lists
// no conditions.
const DefaultConditionName = "default"

// FileOptions mirrors adapt.Config with optional fields so absent keys can be
// told apart from zero values. Keys use the run file names.
type FileOptions struct {
	InitialStepSize            *float64 `yaml:"initial_step_size"`
	StartingDifference         *float64 `yaml:"starting_difference"`
	DownUp                     []int    `yaml:"down_up"`
	StepSizeModifier           *float64 `yaml:"step_size_modifier"`
	ChangeStepSizeOnDifference *float64 `yaml:"change_step_size_on_difference"`
	ChangeStepSizeOnNTrials    *int     `yaml:"change_step_size_on_ntrials"`
	TerminateOnNTurns          *int     `yaml:"terminate_on_nturns"`
	TerminateOnNTrials         *int     `yaml:"terminate_on_ntrials"`
	TerminateOnMaxDifference   *float64 `yaml:"terminate_on_max_difference"`
	ThresholdOnLastNTurns      *int     `yaml:"threshold_on_last_nturns"`
}

type fileCondition struct {
	Name        string `yaml:"name"`
	FileOptions `yaml:",inline"`
}

type runFile struct {
	Preset      string `yaml:"preset"`
	FileOptions `yaml:",inline"`
	Conditions  []fileCondition `yaml:"conditions"`
}

// Condition is one named staircase run.
type Condition struct {
	Name   string
	Config adapt.Config
}

// RunFile is a parsed run file.
type RunFile struct {
	// Preset is the base preset, empty if every option was given explicitly.
	Preset     Preset
	Conditions []Condition
}

// LoadRunFile reads and parses a YAML run file.
func LoadRunFile(path string) (*RunFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, serrors.NewIOError(fmt.Sprintf("failed to read run file %s", path), err)
	}
	return ParseRunFile(data)
}

// ParseRunFile parses run file contents. Options at the top level apply to
// every condition; each condition may override any of them. Without a preset
// every mandatory option must be present after merging.
func ParseRunFile(data []byte) (*RunFile, error) {
	var raw runFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, serrors.NewParseError("invalid run file", err)
	}

	rf := &RunFile{}
	var base adapt.Config
	set := map[string]bool{}

	if raw.Preset != "" {
		p, err := ParsePreset(raw.Preset)
		if err != nil {
			return nil, serrors.NewConfigError("invalid run file preset", err)
		}
		rf.Preset = p
		base = GetPresetValues(p)
		for _, name := range adapt.MandatoryOptions {
			set[name] = true
		}
	}

	if err := raw.FileOptions.apply(&base, set); err != nil {
		return nil, err
	}

	conditions := raw.Conditions
	if len(conditions) == 0 {
		conditions = []fileCondition{{Name: DefaultConditionName}}
	}

	seen := make(map[string]bool, len(conditions))
	for i, fc := range conditions {
		name := fc.Name
		if name == "" {
			name = fmt.Sprintf("condition-%d", i+1)
		}
		if seen[name] {
			return nil, serrors.NewConfigError(fmt.Sprintf("condition %q", name), ErrDuplicateCondition)
		}
		seen[name] = true

		cfg := base
		condSet := make(map[string]bool, len(set))
		for k, v := range set {
			condSet[k] = v
		}
		if err := fc.FileOptions.apply(&cfg, condSet); err != nil {
			return nil, fmt.Errorf("condition %q: %w", name, err)
		}

		for _, opt := range adapt.MandatoryOptions {
			if !condSet[opt] {
				return nil, fmt.Errorf("condition %q: %w", name, serrors.NewMissingOptionError(opt, adapt.ErrMissingOption))
			}
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("condition %q: %w", name, err)
		}

		rf.Conditions = append(rf.Conditions, Condition{Name: name, Config: cfg})
	}

	return rf, nil
}

// apply copies every present option into cfg and marks it in set.
func (o *FileOptions) apply(cfg *adapt.Config, set map[string]bool) error {
	floats := []struct {
		name string
		src  *float64
		dst  *float64
	}{
		{adapt.OptInitialStepSize, o.InitialStepSize, &cfg.InitialStepSize},
		{adapt.OptStartingDifference, o.StartingDifference, &cfg.StartingDifference},
		{adapt.OptStepSizeModifier, o.StepSizeModifier, &cfg.StepSizeModifier},
		{adapt.OptChangeStepSizeOnDifference, o.ChangeStepSizeOnDifference, &cfg.ChangeStepSizeOnDifference},
		{adapt.OptTerminateOnMaxDifference, o.TerminateOnMaxDifference, &cfg.TerminateOnMaxDifference},
	}
	for _, f := range floats {
		if f.src != nil {
			*f.dst = *f.src
			set[f.name] = true
		}
	}

	ints := []struct {
		name string
		src  *int
		dst  *int
	}{
		{adapt.OptChangeStepSizeOnNTrials, o.ChangeStepSizeOnNTrials, &cfg.ChangeStepSizeOnNTrials},
		{adapt.OptTerminateOnNTurns, o.TerminateOnNTurns, &cfg.TerminateOnNTurns},
		{adapt.OptTerminateOnNTrials, o.TerminateOnNTrials, &cfg.TerminateOnNTrials},
		{adapt.OptThresholdOnLastNTurns, o.ThresholdOnLastNTurns, &cfg.ThresholdOnLastNTurns},
	}
	for _, n := range ints {
		if n.src != nil {
			*n.dst = *n.src
			set[n.name] = true
		}
	}

	if o.DownUp != nil {
		if len(o.DownUp) != 2 {
			return serrors.NewConstraintError(adapt.OptDownUp,
				fmt.Sprintf("must be a pair [down, up], got %v", o.DownUp), ErrInvalidDownUp)
		}
		cfg.DownUp = adapt.DownUp{Down: o.DownUp[0], Up: o.DownUp[1]}
		set[adapt.OptDownUp] = true
	}

	return nil
}
