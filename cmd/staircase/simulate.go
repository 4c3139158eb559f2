package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/staircase/internal/config"
	"github.com/five82/staircase/internal/observer"
	"github.com/five82/staircase/internal/runner"
	"github.com/five82/staircase/internal/util"
)

func newSimulateCmd(settings config.Settings) *cobra.Command {
	var (
		cf commonFlags
		lf listenerFlags
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run one staircase against a simulated listener",
		Long: `Run one staircase against a simulated n-AFC listener.

Example: staircase simulate --preset 3down1up --true-threshold 4 --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulate(cmd, &cf, &lf)
		},
	}

	cf.register(cmd, settings)
	lf.register(cmd)
	return cmd
}

func runSimulate(cmd *cobra.Command, cf *commonFlags, lf *listenerFlags) error {
	conds, err := cf.conditions(cmd)
	if err != nil {
		return err
	}
	params, err := lf.params()
	if err != nil {
		return err
	}

	fl, log, err := setupLogging(cf)
	if err != nil {
		return err
	}
	defer func() { _ = fl.Close() }()

	rep := cf.newReporter(fl)
	if len(conds) > 1 {
		rep.Warning(fmt.Sprintf("run file defines %d conditions; simulating %s only (use batch for all)", len(conds), conds[0].Name))
	}
	cond := conds[0]

	seed := lf.resolveSeed()
	listener, err := observer.New(params, seed)
	if err != nil {
		return err
	}

	expected := listener.TargetDifference(cond.Config.DownUp.TargetProbability())
	rep.Verbose(fmt.Sprintf("Seed %d, listener converges to %s", seed, util.FormatThreshold(expected)))
	fl.Info("Simulating %s with seed %d (expected threshold %s)", cond.Name, seed, util.FormatThreshold(expected))

	res, err := runner.Run(cmd.Context(), cond.Config, runner.Options{
		Condition: cond.Name,
		Preparer:  listener,
		Responder: listener,
		Reporter:  rep,
		Logger:    log,
	})
	if err != nil {
		fl.Error("Run of %s failed: %v", cond.Name, err)
		return err
	}

	fl.Info("Run %s stopped on %s after %d trials, threshold %s",
		res.RunID, res.Result.Reason, len(res.Trials), util.FormatThreshold(res.Result.Threshold))
	return nil
}
