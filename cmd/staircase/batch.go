package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/staircase/internal/config"
	"github.com/five82/staircase/internal/observer"
	"github.com/five82/staircase/internal/reporter"
	"github.com/five82/staircase/internal/runner"
	"github.com/five82/staircase/internal/util"
)

func newBatchCmd(settings config.Settings) *cobra.Command {
	var (
		cf     commonFlags
		lf     listenerFlags
		repeat int
		jobs   int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run every condition against simulated listeners and summarize",
		Long: `Run every condition of a run file, or --repeat copies of one preset,
concurrently against simulated listeners and print a cross-run summary.

Each run gets its own listener seeded with seed+index.

Example: staircase batch --config conditions.yaml --repeat 10 --jobs 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if repeat < 1 {
				return fmt.Errorf("--repeat must be >= 1, got %d", repeat)
			}
			return runBatch(cmd, &cf, &lf, repeat, jobs)
		},
	}

	cf.register(cmd, settings)
	lf.register(cmd)
	cmd.Flags().IntVarP(&repeat, "repeat", "r", 1, "Runs per condition")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", settings.Jobs, "Runs in flight")
	return cmd
}

// expandJobs repeats every condition. Repeated runs are numbered.
func expandJobs(conds []config.Condition, repeat int) []runner.Job {
	out := make([]runner.Job, 0, len(conds)*repeat)
	for _, c := range conds {
		for i := range repeat {
			name := c.Name
			if repeat > 1 {
				name = fmt.Sprintf("%s#%d", c.Name, i+1)
			}
			out = append(out, runner.Job{Condition: name, Config: c.Config})
		}
	}
	return out
}

func runBatch(cmd *cobra.Command, cf *commonFlags, lf *listenerFlags, repeat, jobs int) error {
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

	batch := expandJobs(conds, repeat)
	limit := util.ClampJobs(jobs, len(batch))
	seed := lf.resolveSeed()
	fl.Info("Batch of %d runs, %d in flight, seed %d", len(batch), limit, seed)

	// Concurrent progress bars would interleave; the terminal only shows
	// run results.
	rep := cf.newReporter(fl)
	if !cf.json {
		rep = reporter.WithoutTrials(rep)
	}
	rep.Verbose(fmt.Sprintf("Seed %d", seed))

	res, err := runner.RunBatch(cmd.Context(), batch, runner.BatchOptions{
		Jobs: limit,
		NewDriver: func(index int, _ runner.Job) (runner.TrialPreparer, runner.Responder, error) {
			l, err := observer.New(params, seed+uint64(index))
			if err != nil {
				return nil, nil, err
			}
			return l, l, nil
		},
		Reporter: rep,
		Logger:   log,
	})
	if err != nil {
		fl.Error("Batch failed: %v", err)
		return err
	}

	fl.Info("Batch complete: %d converged, %d failed, mean threshold %s in %s",
		res.Summary.Converged, res.Failed(), util.FormatThreshold(res.Summary.Mean), util.FormatElapsed(res.Duration))
	if n := res.Failed(); n > 0 {
		return fmt.Errorf("%d of %d runs failed", n, len(batch))
	}
	return nil
}
