package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/staircase/internal/config"
	"github.com/five82/staircase/internal/logging"
	"github.com/five82/staircase/internal/observer"
	"github.com/five82/staircase/internal/reporter"
	"github.com/five82/staircase/internal/util"
)

// commonFlags are shared by every run command.
type commonFlags struct {
	preset     string
	configPath string
	rule       string
	json       bool
	logDir     string
	noLog      bool
	verbose    bool
}

func (f *commonFlags) register(cmd *cobra.Command, settings config.Settings) {
	fs := cmd.Flags()
	fs.StringVarP(&f.preset, "preset", "p", string(settings.Preset), "Preset rule (1down1up, 2down1up, 3down1up)")
	fs.StringVarP(&f.configPath, "config", "c", "", "YAML run file")
	fs.StringVar(&f.rule, "rule", "", "Override the down-up rule (e.g., \"3-1\")")
	fs.BoolVar(&f.json, "json", false, "Write NDJSON events to stdout")
	fs.StringVarP(&f.logDir, "log-dir", "l", settings.LogDir, "Log directory")
	fs.BoolVar(&f.noLog, "no-log", settings.NoLog, "Disable log file creation")
	fs.BoolVarP(&f.verbose, "verbose", "v", settings.Verbose, "Enable verbose output")
}

// conditions resolves the flags into the conditions to run. A run file
// supplies its own conditions; --preset then only replaces the rule when it
// was given explicitly.
func (f *commonFlags) conditions(cmd *cobra.Command) ([]config.Condition, error) {
	var conds []config.Condition

	if f.configPath != "" {
		if !util.IsRunFile(f.configPath) {
			return nil, fmt.Errorf("run file %s does not exist or is not a .yaml file", f.configPath)
		}
		rf, err := config.LoadRunFile(f.configPath)
		if err != nil {
			return nil, err
		}
		for _, c := range rf.Conditions {
			c.Name = util.ConditionLabel(f.configPath, c.Name, len(rf.Conditions))
			conds = append(conds, c)
		}
		if cmd.Flags().Changed("preset") {
			p, err := config.ParsePreset(f.preset)
			if err != nil {
				return nil, err
			}
			for i := range conds {
				config.ApplyPreset(&conds[i].Config, p)
			}
		}
	} else {
		p, err := config.ParsePreset(f.preset)
		if err != nil {
			return nil, err
		}
		conds = []config.Condition{{Name: config.DefaultConditionName, Config: config.GetPresetValues(p)}}
	}

	if f.rule != "" {
		rule, err := config.ParseDownUp(f.rule)
		if err != nil {
			return nil, err
		}
		for i := range conds {
			conds[i].Config.DownUp = rule
		}
	}

	for _, c := range conds {
		if err := c.Config.Validate(); err != nil {
			return nil, fmt.Errorf("condition %s: %w", c.Name, err)
		}
	}
	return conds, nil
}

// newReporter returns the NDJSON reporter or a terminal reporter. In verbose
// mode the event stream is also written to the log file.
func (f *commonFlags) newReporter(fl *logging.FileLogger) reporter.Reporter {
	var rep reporter.Reporter
	if f.json {
		rep = reporter.NewJSONReporter()
	} else {
		rep = reporter.NewTerminalReporter(f.verbose)
	}
	if f.verbose && fl != nil {
		return reporter.NewCompositeReporter(rep, reporter.NewJSONReporterWithWriter(fl.Writer()))
	}
	return rep
}

// listenerFlags describe the simulated listener.
type listenerFlags struct {
	threshold    float64
	slope        float64
	alternatives int
	lapse        float64
	shape        string
	seed         uint64
}

func (f *listenerFlags) register(cmd *cobra.Command) {
	def := observer.DefaultParams()
	fs := cmd.Flags()
	fs.Float64Var(&f.threshold, "true-threshold", def.Threshold, "Difference at the listener's psychometric midpoint")
	fs.Float64Var(&f.slope, "slope", def.Slope, "Spread of the psychometric function")
	fs.IntVar(&f.alternatives, "alternatives", def.Alternatives, "Intervals per trial (guess rate 1/n)")
	fs.Float64Var(&f.lapse, "lapse", def.Lapse, "Lapse rate")
	fs.StringVar(&f.shape, "shape", string(def.Shape), "Psychometric function (normal, logistic)")
	fs.Uint64Var(&f.seed, "seed", 0, "Random seed (0 picks one from the clock)")
}

func (f *listenerFlags) params() (observer.Params, error) {
	shape, err := observer.ParseShape(f.shape)
	if err != nil {
		return observer.Params{}, err
	}
	p := observer.Params{
		Threshold:    f.threshold,
		Slope:        f.slope,
		Alternatives: f.alternatives,
		Lapse:        f.lapse,
		Shape:        shape,
	}
	if err := p.Validate(); err != nil {
		return observer.Params{}, err
	}
	return p, nil
}

func (f *listenerFlags) resolveSeed() uint64 {
	if f.seed == 0 {
		f.seed = uint64(time.Now().UnixNano())
	}
	return f.seed
}
